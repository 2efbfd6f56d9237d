package acquisition

import "strings"

// Format identifies the on-disk format an acquisition was decoded from.
type Format string

// Format constants.
const (
	FormatNIfTI    Format = "nifti"
	FormatCTF      Format = "ctf"
	FormatNeuromag Format = "neuromag"
	Format4D       Format = "4d"
	FormatYokogawa Format = "yokogawa"
	FormatITAB     Format = "itab"
	FormatEDF      Format = "edf"
)

// formatAliases maps the names vendor tools use to the canonical format.
var formatAliases = map[string]Format{
	"nifti":    FormatNIfTI,
	"nii":      FormatNIfTI,
	"ctf":      FormatCTF,
	"ctf_ds":   FormatCTF,
	"neuromag": FormatNeuromag,
	"fif":      FormatNeuromag,
	"elekta":   FormatNeuromag,
	"megin":    FormatNeuromag,
	"4d":       Format4D,
	"bti":      Format4D,
	"yokogawa": FormatYokogawa,
	"ricoh":    FormatYokogawa,
	"itab":     FormatITAB,
	"edf":      FormatEDF,
}

// ParseFormat resolves a format name or alias. The boolean is false for
// names that are not known.
func ParseFormat(s string) (Format, bool) {
	f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]
	return f, ok
}

// Kind returns the descriptor kind produced by the format.
func (f Format) Kind() Kind {
	switch f {
	case FormatNIfTI:
		return KindAnatomical
	case FormatCTF, FormatNeuromag, Format4D, FormatYokogawa, FormatITAB, FormatEDF:
		return KindRecording
	}
	return KindUnknown
}

// Vendor describes the manufacturer of the system that wrote a vendor format.
type Vendor struct {
	Manufacturer string
	// Models maps MEG sensor counts to the manufacturer's model name.
	Models map[int]string
}

// vendors lists the recording formats that identify their hardware.
var vendors = map[Format]Vendor{
	FormatCTF: {
		Manufacturer: "CTF",
		Models:       map[int]string{64: "CTF-64", 151: "CTF-151", 275: "CTF-275"},
	},
	FormatNeuromag: {
		Manufacturer: "Elekta",
		Models:       map[int]string{122: "Neuromag-122", 306: "Neuromag-306"},
	},
	Format4D: {
		Manufacturer: "4D Neuroimaging",
		Models:       map[int]string{148: "Magnes 2500 WH", 248: "Magnes 3600 WH"},
	},
	FormatYokogawa: {
		Manufacturer: "Yokogawa",
		Models:       map[int]string{160: "MEGvision", 208: "MEGvision PQ1160C"},
	},
	FormatITAB: {
		Manufacturer: "ITAB",
		Models:       map[int]string{153: "Chieti-153"},
	},
}

// Vendor returns the vendor of the format, if it is a vendor format.
func (f Format) Vendor() (Vendor, bool) {
	v, ok := vendors[f]
	return v, ok
}

// Model returns the model name for a system with the given number of MEG sensors.
func (v Vendor) Model(megChannels int) (string, bool) {
	m, ok := v.Models[megChannels]
	return m, ok
}
