package synth

import (
	"strings"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/schema"
)

// Channel type labels counted into the channel count fields.
const (
	TypeMEGMag    = "megmag"
	TypeMEGGrad   = "meggrad"
	TypeMEGPlanar = "megplanar"
	TypeRefMag    = "refmag"
	TypeRefGrad   = "refgrad"
	TypeEEG       = "eeg"
	TypeEOG       = "eog"
	TypeECG       = "ecg"
	TypeEMG       = "emg"
	TypeMisc      = "misc"
	TypeTrigger   = "trigger"
	TypeHeadLoc   = "headloc"
)

// countField maps each channel type label to the count field it adds to.
var countField = map[string]string{
	TypeMEGMag:    "MEGChannelCount",
	TypeMEGGrad:   "MEGChannelCount",
	TypeMEGPlanar: "MEGChannelCount",
	TypeRefMag:    "MEGREFChannelCount",
	TypeRefGrad:   "MEGREFChannelCount",
	TypeEEG:       "EEGChannelCount",
	TypeEOG:       "EOGChannelCount",
	TypeECG:       "ECGChannelCount",
	TypeEMG:       "EMGChannelCount",
	TypeMisc:      "MiscChannelCount",
	TypeTrigger:   "TriggerChannelCount",
}

// ChannelCounts returns every channel count field. Counts are always
// present and zero when no channel matches. Labels outside the vocabulary
// count as misc.
func ChannelCounts(types []string) map[string]int {
	counts := make(map[string]int, len(countField))
	for _, field := range countField {
		counts[field] = 0
	}
	for _, t := range types {
		field, ok := countField[strings.ToLower(strings.TrimSpace(t))]
		if !ok {
			field = countField[TypeMisc]
		}
		counts[field]++
	}
	return counts
}

// Derive computes the fields that follow from the recording itself.
// RecordingDuration is EpochCount*SamplesPerEpoch/SampleRate and
// EpochLength is SamplesPerEpoch/SampleRate, so a recording with no epochs
// or no samples has a duration of 0. Both are left out when SampleRate is
// not positive. RecordingType is "continuous" for at most one epoch.
func Derive(r *acquisition.Recording) schema.Record {
	out := schema.Record{"SamplingFrequency": r.SampleRate}

	counts := ChannelCounts(r.ChannelTypes)
	for field, n := range counts {
		out[field] = n
	}

	if r.SampleRate > 0 {
		out["RecordingDuration"] = float64(r.EpochCount) * float64(r.SamplesPerEpoch) / r.SampleRate
		out["EpochLength"] = float64(r.SamplesPerEpoch) / r.SampleRate
	}
	if r.EpochCount > 1 {
		out["RecordingType"] = "epoched"
	} else {
		out["RecordingType"] = "continuous"
	}

	headloc := false
	for _, t := range r.ChannelTypes {
		if strings.EqualFold(t, TypeHeadLoc) {
			headloc = true
			break
		}
	}
	out["ContinuousHeadLocalization"] = headloc

	if vendor, ok := r.Format.Vendor(); ok {
		out["Manufacturer"] = vendor.Manufacturer
		if model, ok := vendor.Model(counts["MEGChannelCount"]); ok {
			out["ManufacturersModelName"] = model
		}
	}
	return out
}
