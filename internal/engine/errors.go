package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoIdentity    = errors.New("engine: identity function is required")
	ErrNoAttrs       = errors.New("engine: at least one attribute is required")
	ErrInvalidAttr   = errors.New("engine: attribute needs exactly one of Num or Color")
	ErrDuplicateAttr = errors.New("engine: duplicate attribute name")
	ErrDuplicateKey  = errors.New("engine: duplicate identity key")
	ErrNoColorScale  = errors.New("engine: no adjustable color scale configured")
)

// DuplicateKeyError reports two visible records sharing one identity key.
// The render call that produced it changed nothing.
type DuplicateKeyError struct {
	Key           string
	First, Second int // positions in the visible set
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("engine: duplicate identity key %q at visible positions %d and %d", e.Key, e.First, e.Second)
}

func (e *DuplicateKeyError) Unwrap() error { return ErrDuplicateKey }
