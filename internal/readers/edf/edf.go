// Package edf reads European Data Format recordings.
package edf

import (
	"context"
	"fmt"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	edflib "github.com/ishiikurisu/edf"

	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
)

// Suffixes are the file name suffixes handled by the reader.
var Suffixes = []string{".edf"}

const annotationsLabel = "EDF Annotations"

// annotationRE matches one EDF+ annotation: +onset duration label.
var annotationRE = regexp.MustCompile(`^\+([\d.]+)\s([\d.]+)\s(.+)\s*`)

// labelTypes maps label prefixes to channel types.
var labelTypes = []struct {
	prefix string
	typ    string
}{
	{"EEG", "eeg"},
	{"EOG", "eog"},
	{"ECG", "ecg"},
	{"EKG", "ecg"},
	{"EMG", "emg"},
	{"TRIG", "trigger"},
	{"STI", "trigger"},
}

// Reader reads EDF files. It implements acquisition.Reader.
type Reader struct{}

// New creates an EDF reader.
func New() *Reader {
	return &Reader{}
}

// Read implements acquisition.Reader.
func (r *Reader) Read(ctx context.Context, path string) (d acquisition.Descriptor, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("acquisition", path)
		}
		return nil, errors.WrapIO("stat", path, err)
	}

	// The decoder panics on truncated files.
	defer func() {
		if p := recover(); p != nil {
			d, err = nil, errors.NewParseError("edf", path, fmt.Sprint(p), nil)
		}
	}()

	data := edflib.ReadFile(path)
	return fromEDF(path, data)
}

func fromEDF(path string, data edflib.Edf) (*acquisition.Recording, error) {
	recordDuration := float64(data.GetDuration())
	samplesPerRecord := float64(data.GetSampling())
	if recordDuration <= 0 || samplesPerRecord <= 0 {
		return nil, errors.NewParseError("edf", path, "missing record duration or sampling", nil)
	}

	rec := &acquisition.Recording{
		Format:     acquisition.FormatEDF,
		SampleRate: samplesPerRecord / recordDuration,
		EpochCount: 1,
	}

	labels := data.GetLabels()
	for i, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == annotationsLabel {
			continue
		}
		rec.ChannelLabels = append(rec.ChannelLabels, label)
		rec.ChannelTypes = append(rec.ChannelTypes, ChannelType(label))
		if i < len(data.PhysicalRecords) && rec.SamplesPerEpoch == 0 {
			rec.SamplesPerEpoch = len(data.PhysicalRecords[i])
		}
	}
	rec.ChannelCount = len(rec.ChannelLabels)

	if notes := data.WriteNotes(); notes != "" {
		rec.Events = ParseAnnotations(notes, rec.SampleRate)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ChannelType infers a channel type from an EDF signal label such as
// "EEG Fpz-Cz". Unrecognised labels are misc.
func ChannelType(label string) string {
	upper := strings.ToUpper(strings.TrimSpace(label))
	for _, lt := range labelTypes {
		if strings.HasPrefix(upper, lt.prefix) {
			return lt.typ
		}
	}
	return "misc"
}

// ParseAnnotations converts EDF+ annotation lines to raw events. Onsets and
// durations are given in seconds and converted to samples.
func ParseAnnotations(notes string, sampleRate float64) []acquisition.RawEvent {
	var events []acquisition.RawEvent
	for _, line := range strings.Split(notes, "\n") {
		match := annotationRE.FindStringSubmatch(strings.TrimSpace(line) + " ")
		if len(match) < 4 {
			continue
		}
		onset, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		duration, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			continue
		}

		sample := int64(math.Round(onset*sampleRate)) + 1
		ev := acquisition.RawEvent{
			Type:   "annotation",
			Value:  strings.TrimSpace(match[3]),
			Sample: &sample,
		}
		if duration > 0 {
			samples := duration * sampleRate
			ev.Duration = &samples
		}
		events = append(events, ev)
	}
	return events
}
