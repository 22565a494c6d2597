package broadcast

import "errors"

// Sentinel errors for the broadcast service layer.
var (
	ErrNotFound       = errors.New("broadcast template not found")
	ErrRecordNotFound = errors.New("broadcast not found")
	ErrValidation     = errors.New("broadcast template failed validation")
	ErrTemplateLocked = errors.New("template already dispatched and is immutable")
)
