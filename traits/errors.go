package traits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

var (
	// ErrUnknownParameter is returned for a parameter name the owner does not define.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrInvalidParameter is returned for a value outside the parameter's domain.
	ErrInvalidParameter = errors.New("invalid parameter value")
)

// ParamError describes a rejected parameter assignment.
type ParamError struct {
	Owner      string // Species name or landscape symbol
	Name       string
	Value      float64
	Reason     string
	Suggestion string // Closest known name for unknown parameters
	Err        error  // ErrUnknownParameter or ErrInvalidParameter
}

func (e *ParamError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %v %q", e.Owner, e.Err, e.Name)
	if errors.Is(e.Err, ErrInvalidParameter) {
		fmt.Fprintf(&b, " = %g", e.Value)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, " (did you mean %q?)", e.Suggestion)
	}
	return b.String()
}

func (e *ParamError) Unwrap() error {
	return e.Err
}

// Suggest returns the known name closest to name, or "" if nothing is close.
func Suggest(name string, known []string) string {
	best := ""
	bestDist := len(name)/2 + 1
	for _, cand := range known {
		if strings.EqualFold(cand, name) {
			return cand
		}
		dist := levenshtein.ComputeDistance(name, cand)
		if dist < bestDist {
			best = cand
			bestDist = dist
		}
	}
	return best
}
