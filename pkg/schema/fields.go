package schema

// Field types. FieldTypeAny fields accept several shapes (string or list, string or object).
const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeInteger FieldType = "integer"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
	FieldTypeAny     FieldType = "any"
)

func genericFields() []Field {
	return []Field{
		{Name: "TaskName", Type: FieldTypeString, Description: "Name of the task"},
		{Name: "TaskDescription", Type: FieldTypeString},
		{Name: "Instructions", Type: FieldTypeString},
		{Name: "CogAtlasID", Type: FieldTypeString},
		{Name: "CogPOID", Type: FieldTypeString},
		{Name: "InstitutionName", Type: FieldTypeString},
		{Name: "InstitutionAddress", Type: FieldTypeString},
		{Name: "InstitutionalDepartmentName", Type: FieldTypeString},
		{Name: "Manufacturer", Type: FieldTypeString, Description: "Manufacturer of the acquisition system"},
		{Name: "ManufacturersModelName", Type: FieldTypeString},
		{Name: "DeviceSerialNumber", Type: FieldTypeString},
		{Name: "SoftwareVersions", Type: FieldTypeString},
	}
}

func anatomicalFields() []Field {
	return []Field{
		{Name: "MagneticFieldStrength", Type: FieldTypeNumber, Description: "Nominal field strength in tesla"},
		{Name: "ReceiveCoilName", Type: FieldTypeString},
		{Name: "ReceiveCoilActiveElements", Type: FieldTypeString},
		{Name: "GradientSetType", Type: FieldTypeString},
		{Name: "MRTransmitCoilSequence", Type: FieldTypeString},
		{Name: "MatrixCoilMode", Type: FieldTypeString},
		{Name: "CoilCombinationMethod", Type: FieldTypeString},
		{Name: "StationName", Type: FieldTypeString},
		{Name: "PulseSequenceType", Type: FieldTypeString},
		{Name: "ScanningSequence", Type: FieldTypeAny},
		{Name: "SequenceVariant", Type: FieldTypeAny},
		{Name: "ScanOptions", Type: FieldTypeAny},
		{Name: "SequenceName", Type: FieldTypeString},
		{Name: "PulseSequenceDetails", Type: FieldTypeString},
		{Name: "NonlinearGradientCorrection", Type: FieldTypeBoolean},
		{Name: "MRAcquisitionType", Type: FieldTypeString},
		{Name: "NumberShots", Type: FieldTypeAny},
		{Name: "ParallelReductionFactorInPlane", Type: FieldTypeNumber},
		{Name: "ParallelAcquisitionTechnique", Type: FieldTypeString},
		{Name: "PartialFourier", Type: FieldTypeNumber},
		{Name: "PartialFourierDirection", Type: FieldTypeString},
		{Name: "PhaseEncodingDirection", Type: FieldTypeString},
		{Name: "EffectiveEchoSpacing", Type: FieldTypeNumber},
		{Name: "TotalReadoutTime", Type: FieldTypeNumber},
		{Name: "EchoTime", Type: FieldTypeNumber, Description: "Echo time in seconds"},
		{Name: "InversionTime", Type: FieldTypeNumber},
		{Name: "RepetitionTime", Type: FieldTypeNumber},
		{Name: "SliceTiming", Type: FieldTypeArray},
		{Name: "SliceEncodingDirection", Type: FieldTypeString},
		{Name: "SliceThickness", Type: FieldTypeNumber},
		{Name: "DwellTime", Type: FieldTypeNumber},
		{Name: "FlipAngle", Type: FieldTypeNumber, Description: "Flip angle in degrees"},
		{Name: "MultibandAccelerationFactor", Type: FieldTypeNumber},
		{Name: "ImageType", Type: FieldTypeArray},
		{Name: "ContrastBolusIngredient", Type: FieldTypeString},
		{Name: "AnatomicalLandmarkCoordinates", Type: FieldTypeObject},
	}
}

func recordingFields() []Field {
	return []Field{
		{Name: "SamplingFrequency", Type: FieldTypeNumber, Description: "Sampling frequency in Hz"},
		{Name: "PowerLineFrequency", Type: FieldTypeNumber, Description: "Power line frequency in Hz"},
		{Name: "DewarPosition", Type: FieldTypeString},
		{Name: "SoftwareFilters", Type: FieldTypeAny},
		{Name: "HardwareFilters", Type: FieldTypeAny},
		{Name: "DigitizedLandmarks", Type: FieldTypeBoolean},
		{Name: "DigitizedHeadPoints", Type: FieldTypeBoolean},
		{Name: "MEGChannelCount", Type: FieldTypeInteger},
		{Name: "MEGREFChannelCount", Type: FieldTypeInteger},
		{Name: "EEGChannelCount", Type: FieldTypeInteger},
		{Name: "ECOGChannelCount", Type: FieldTypeInteger},
		{Name: "SEEGChannelCount", Type: FieldTypeInteger},
		{Name: "EOGChannelCount", Type: FieldTypeInteger},
		{Name: "ECGChannelCount", Type: FieldTypeInteger},
		{Name: "EMGChannelCount", Type: FieldTypeInteger},
		{Name: "MiscChannelCount", Type: FieldTypeInteger},
		{Name: "TriggerChannelCount", Type: FieldTypeInteger},
		{Name: "RecordingDuration", Type: FieldTypeNumber, Description: "Length of the recording in seconds"},
		{Name: "RecordingType", Type: FieldTypeString},
		{Name: "EpochLength", Type: FieldTypeNumber},
		{Name: "ContinuousHeadLocalization", Type: FieldTypeBoolean},
		{Name: "HeadCoilFrequency", Type: FieldTypeAny},
		{Name: "MaxMovement", Type: FieldTypeNumber},
		{Name: "SubjectArtefactDescription", Type: FieldTypeString},
		{Name: "AssociatedEmptyRoom", Type: FieldTypeAny},
		{Name: "EEGPlacementScheme", Type: FieldTypeString},
		{Name: "EEGReference", Type: FieldTypeString},
		{Name: "ManufacturersAmplifierModelName", Type: FieldTypeString},
		{Name: "CapManufacturer", Type: FieldTypeString},
		{Name: "CapManufacturersModelName", Type: FieldTypeString},
	}
}
