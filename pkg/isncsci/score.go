package isncsci

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Errors returned for structurally invalid exam input
var (
	ErrUnknownLevel       = errors.New("unknown level")
	ErrInvalidObservation = errors.New("observation must be Yes, No or NT")
)

var (
	notTestablePattern       = regexp.MustCompile(`(?i)\bNT\b`)
	impairmentPattern        = regexp.MustCompile(`.+!`)
	impairmentFlagsPattern   = regexp.MustCompile(`[*!]`)
	notTestableNormalPattern = regexp.MustCompile(`(?i)^NT\*$`)
)

// Score is one recorded exam value: the label as written and what it means
type Score struct {
	Label string
	Value int

	// ImpairmentNotDueToSCI marks a deficit with a cause other than the injury ("3!").
	ImpairmentNotDueToSCI bool
	// NotTestable is set when the label carries the NT token.
	NotTestable bool
}

// ParseScore interprets a raw label for a modality whose normal value is normal.
// Unparseable labels degrade to zero.
func ParseScore(label string, normal int) Score {
	label = strings.TrimSpace(label)

	s := Score{
		Label:                 label,
		ImpairmentNotDueToSCI: impairmentPattern.MatchString(label),
		NotTestable:           notTestablePattern.MatchString(label),
	}

	if notTestableNormalPattern.MatchString(label) {
		s.Value = normal
		return s
	}

	if v, err := strconv.Atoi(impairmentFlagsPattern.ReplaceAllString(label, "")); err == nil {
		s.Value = v
	}

	return s
}

func normalScore(value int) Score {
	return Score{Label: strconv.Itoa(value), Value: value}
}

// IsZeroLabel reports whether the label is literally "0"
func (s Score) IsZeroLabel() bool {
	return s.Label == "0"
}

// BinaryObservation is the result of a yes/no exam item
type BinaryObservation int

const (
	ObservationNo BinaryObservation = iota
	ObservationYes
	ObservationNT
)

// String returns the canonical label
func (o BinaryObservation) String() string {
	switch o {
	case ObservationYes:
		return "Yes"
	case ObservationNT:
		return "NT"
	default:
		return "No"
	}
}

// YesOrNT reports whether the observation could be positive
func (o BinaryObservation) YesOrNT() bool {
	return o == ObservationYes || o == ObservationNT
}

// NoOrNT reports whether the observation could be negative
func (o BinaryObservation) NoOrNT() bool {
	return o == ObservationNo || o == ObservationNT
}

// ParseBinaryObservation parses Yes, No or NT case-insensitively
func ParseBinaryObservation(s string) (BinaryObservation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES":
		return ObservationYes, nil
	case "NO":
		return ObservationNo, nil
	case "NT":
		return ObservationNT, nil
	}
	return ObservationNo, fmt.Errorf("%w: %q", ErrInvalidObservation, s)
}

// MarshalText implements encoding.TextMarshaler
func (o BinaryObservation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *BinaryObservation) UnmarshalText(text []byte) error {
	v, err := ParseBinaryObservation(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
