// Package calibration reads the calibration record that accompanies an
// anatomical image: a flat JSON or YAML mapping of scanner parameters.
package calibration

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/bidsify/pkg/errors"
)

// Extensions are the calibration file extensions searched for, in order.
var Extensions = []string{".calib.json", ".calib.yaml", ".calib.yml"}

// Reader reads calibration files. It implements acquisition.CalibrationReader.
type Reader struct{}

// New creates a calibration reader.
func New() *Reader {
	return &Reader{}
}

// ReadCalibration reads the calibration record at path. YAML is a superset
// of JSON, so one decoder serves both. A missing file is reported with
// errors.ErrNotFound.
func (r *Reader) ReadCalibration(ctx context.Context, path string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.NewNotFoundError("calibration", path)
	}
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	var rec map[string]any
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if rec == nil {
		rec = map[string]any{}
	}
	return rec, nil
}

// Find returns the first calibration file next to the image whose base
// name is base, or "" when there is none.
func Find(dir, base string) string {
	for _, ext := range Extensions {
		p := filepath.Join(dir, base+ext)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// IsCalibrationFile reports whether path names a calibration file.
func IsCalibrationFile(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
