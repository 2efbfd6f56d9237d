package nifti

// HeaderSize is the size of a NIfTI-1 header in bytes.
const HeaderSize = 348

// header is the on-disk NIfTI-1 header. Field order and sizes follow the
// file layout exactly so the struct can be decoded in one read.
type header struct {
	SizeofHdr    int32
	DataType     [10]byte
	DBName       [18]byte
	Extents      int32
	SessionError int16
	Regular      byte
	DimInfo      byte

	// Dim[0] is the number of dimensions, Dim[1:] their sizes.
	Dim        [8]int16
	IntentP1   float32
	IntentP2   float32
	IntentP3   float32
	IntentCode int16
	Datatype   int16
	Bitpix     int16
	SliceStart int16
	// PixDim[1:] are the voxel sizes, PixDim[0] the qfac sign.
	PixDim        [8]float32
	VoxOffset     float32
	SclSlope      float32
	SclInter      float32
	SliceEnd      int16
	SliceCode     byte
	XYZTUnits     byte
	CalMax        float32
	CalMin        float32
	SliceDuration float32
	TOffset       float32
	GLMax         int32
	GLMin         int32

	Descrip [80]byte
	AuxFile [24]byte

	QFormCode int16
	SFormCode int16
	QuaternB  float32
	QuaternC  float32
	QuaternD  float32
	QOffsetX  float32
	QOffsetY  float32
	QOffsetZ  float32
	SRowX     [4]float32
	SRowY     [4]float32
	SRowZ     [4]float32

	IntentName [16]byte
	Magic      [4]byte
}

var datatypes = map[int16]string{
	2:    "uint8",
	4:    "int16",
	8:    "int32",
	16:   "float32",
	32:   "complex64",
	64:   "float64",
	128:  "rgb24",
	256:  "int8",
	512:  "uint16",
	768:  "uint32",
	1024: "int64",
	1280: "uint64",
	1792: "complex128",
}

var spatialUnits = map[byte]string{
	1: "m",
	2: "mm",
	3: "um",
}
