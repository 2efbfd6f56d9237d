package sidecar

import (
	"path/filepath"
	"strings"

	"github.com/agentstation/bidsify/pkg/constants"
)

// acquisitionExts are stripped from an acquisition file name to find the
// sidecar base name. Longer suffixes come first.
var acquisitionExts = []string{
	".acq.yaml", ".acq.yml", ".acq.json",
	".nii.gz", ".nii", ".edf", ".ds", ".fif", ".con", ".sqd",
}

// Paths are the sidecar files of one acquisition.
type Paths struct {
	Metadata string
	Channels string
	Events   string
}

// BaseName returns the acquisition file name without its format extension.
func BaseName(acqPath string) string {
	name := filepath.Base(filepath.Clean(acqPath))
	lower := strings.ToLower(name)
	for _, ext := range acquisitionExts {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// PathsFor returns the sidecar paths for an acquisition. Sidecars are placed
// next to the acquisition unless outDir is set.
func PathsFor(acqPath, outDir string) Paths {
	dir := outDir
	if dir == "" {
		dir = filepath.Dir(filepath.Clean(acqPath))
	}
	base := filepath.Join(dir, BaseName(acqPath))
	return Paths{
		Metadata: base + constants.MetadataExt,
		Channels: base + constants.ChannelsSuffix,
		Events:   base + constants.EventsSuffix,
	}
}
