package domain

// Field constants shared by the JSON and config representations.
const (
	// KeyPortrait is the serialized name of the portrait slot and class.
	KeyPortrait = "portrait"
	// KeyLandscape is the serialized name of the landscape slot and class.
	KeyLandscape = "landscape"
	// KeyUnknown is the serialized name of the indeterminate reading.
	KeyUnknown = "unknown"
)
