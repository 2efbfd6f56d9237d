// Package nifti reads the header of NIfTI-1 anatomical images and the
// calibration record stored next to them.
package nifti

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/agentstation/bidsify/internal/readers/calibration"
	"github.com/agentstation/bidsify/pkg/acquisition"
	"github.com/agentstation/bidsify/pkg/errors"
	"github.com/agentstation/bidsify/pkg/logging"
)

// Suffixes are the file name suffixes handled by the reader.
var Suffixes = []string{".nii.gz", ".nii"}

// Reader reads NIfTI-1 images. It implements acquisition.Reader.
type Reader struct {
	calibration     acquisition.CalibrationReader
	calibrationPath string
}

// Option configures a Reader.
type Option func(*Reader)

// WithCalibrationReader sets the reader used for calibration records.
func WithCalibrationReader(cr acquisition.CalibrationReader) Option {
	return func(r *Reader) {
		r.calibration = cr
	}
}

// WithCalibrationPath reads the calibration record from path instead of
// searching next to the image.
func WithCalibrationPath(path string) Option {
	return func(r *Reader) {
		r.calibrationPath = path
	}
}

// New creates a NIfTI reader.
func New(opts ...Option) *Reader {
	r := &Reader{calibration: calibration.New()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read implements acquisition.Reader. A missing calibration record is not
// an error; the image is returned without one.
func (r *Reader) Read(ctx context.Context, path string) (acquisition.Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("acquisition", path)
		}
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	var src io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.WrapParse("nifti", path, err)
		}
		defer func() { _ = gz.Close() }()
		src = gz
	}

	voxel, err := ReadHeader(src)
	if err != nil {
		return nil, errors.WrapParse("nifti", path, err)
	}

	a := &acquisition.Anatomical{Format: acquisition.FormatNIfTI, Voxel: voxel}
	cal, err := r.readCalibration(ctx, path)
	if err != nil {
		return nil, err
	}
	a.Calibration = cal
	return a, nil
}

func (r *Reader) readCalibration(ctx context.Context, imagePath string) (map[string]any, error) {
	logger := logging.FromContext(ctx)
	path := r.calibrationPath
	if path == "" {
		base := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
		base = strings.TrimSuffix(base, ".nii")
		path = calibration.Find(filepath.Dir(imagePath), base)
	}
	if path == "" {
		logger.Debug().Str("image", imagePath).Msg("No calibration file found")
		return nil, nil
	}

	cal, err := r.calibration.ReadCalibration(ctx, path)
	if errors.IsNotFound(err) {
		logger.Debug().Str("calibration", path).Msg("Calibration file not found")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("calibration", path).Int("fields", len(cal)).Msg("Read calibration record")
	return cal, nil
}

// ReadHeader decodes a NIfTI-1 header from the start of r. Both byte
// orders are accepted.
func ReadHeader(r io.Reader) (acquisition.VoxelHeader, error) {
	buf := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return acquisition.VoxelHeader{}, err
	}

	var order binary.ByteOrder = binary.LittleEndian
	if int32(binary.LittleEndian.Uint32(buf)) != HeaderSize {
		order = binary.BigEndian
		if int32(binary.BigEndian.Uint32(buf)) != HeaderSize {
			return acquisition.VoxelHeader{}, errors.New("not a NIfTI-1 header")
		}
	}

	var h header
	if err := binary.Read(bytes.NewReader(buf), order, &h); err != nil {
		return acquisition.VoxelHeader{}, err
	}
	magic := string(bytes.TrimRight(h.Magic[:], "\x00"))
	if magic != "n+1" && magic != "ni1" {
		return acquisition.VoxelHeader{}, errors.New("bad NIfTI-1 magic " + magic)
	}

	ndim := int(h.Dim[0])
	if ndim < 1 || ndim > 7 {
		return acquisition.VoxelHeader{}, errors.New("invalid dimension count")
	}
	v := acquisition.VoxelHeader{
		Dim:          make([]int, ndim),
		PixDim:       make([]float64, ndim),
		SpatialUnits: spatialUnits[h.XYZTUnits&0x07],
		DataType:     datatypes[h.Datatype],
		Description:  strings.TrimSpace(string(bytes.TrimRight(h.Descrip[:], "\x00"))),
	}
	for i := 0; i < ndim; i++ {
		v.Dim[i] = int(h.Dim[i+1])
		v.PixDim[i] = float64(h.PixDim[i+1])
	}
	return v, nil
}
