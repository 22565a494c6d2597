package flows

import "errors"

// Sentinel errors for the flows service layer.
var (
	ErrNotFound     = errors.New("flow not found")
	ErrInvalidField = errors.New("field is not filterable")
	ErrValidation   = errors.New("flow failed validation")
)
