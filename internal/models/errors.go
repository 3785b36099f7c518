package models

import "errors"

// ErrValidation wraps every invariant violation reported by Validate methods.
var ErrValidation = errors.New("validation failed")
