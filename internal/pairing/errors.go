package pairing

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCatalog         = errors.New("catalog has no usable fonts")
	ErrNoCandidateAvailable = errors.New("no candidate font available")
)

// NoCandidateError reports that the locked font is the only distinct family
// in the catalog. It matches both ErrNoCandidateAvailable and ErrEmptyCatalog.
type NoCandidateError struct {
	Locked string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no candidate font available to pair with %q", e.Locked)
}

func (e *NoCandidateError) Is(target error) bool {
	return target == ErrNoCandidateAvailable || target == ErrEmptyCatalog
}
