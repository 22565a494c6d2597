package questions

import "errors"

// Sentinel errors for the questions service layer.
var (
	ErrNotFound   = errors.New("question not found")
	ErrValidation = errors.New("question failed validation")
)
