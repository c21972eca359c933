package columns

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/gridkit/pkg/errors"
)

// Unit is the unit of a column Size.
type Unit int

const (
	// UnitNone marks an unset size.
	UnitNone Unit = iota
	UnitPx
	UnitPercent
	UnitFr
	UnitAuto
)

// Size is a column width, min width or max width.
type Size struct {
	Unit  Unit
	Value float64
}

func Px(v float64) Size      { return Size{Unit: UnitPx, Value: v} }
func Percent(v float64) Size { return Size{Unit: UnitPercent, Value: v} }
func Fr(v float64) Size      { return Size{Unit: UnitFr, Value: v} }
func Auto() Size             { return Size{Unit: UnitAuto} }

// IsSet reports whether s holds a value.
func (s Size) IsSet() bool { return s.Unit != UnitNone }

// IsStatic reports whether s resolves without looking at sibling columns.
func (s Size) IsStatic() bool { return s.Unit == UnitPx || s.Unit == UnitPercent }

// Static resolves a px or percent size against the container width.
// Percentages are floored to whole pixels.
func (s Size) Static(containerWidth float64) float64 {
	switch s.Unit {
	case UnitPx:
		return s.Value
	case UnitPercent:
		return math.Floor(s.Value / 100 * containerWidth)
	}
	return 0
}

func (s Size) String() string {
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	switch s.Unit {
	case UnitPx:
		return v
	case UnitPercent:
		return v + "%"
	case UnitFr:
		return v + "fr"
	case UnitAuto:
		return "auto"
	}
	return ""
}

// ParseSize parses "120", "120px", "25%", "2fr" or "auto". The empty string
// yields an unset size.
func ParseSize(s string) (Size, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Size{}, nil
	}
	if s == "auto" {
		return Auto(), nil
	}

	unit, num := UnitPx, s
	switch {
	case strings.HasSuffix(s, "%"):
		unit, num = UnitPercent, strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "fr"):
		unit, num = UnitFr, strings.TrimSuffix(s, "fr")
	case strings.HasSuffix(s, "px"):
		num = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
	if err != nil {
		return Size{}, errors.Wrap(errors.ErrCodeInvalidColumnSize, err, "invalid column size %q", s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Size{}, errors.New(errors.ErrCodeInvalidColumnSize, "column size %q must be a finite non-negative number", s)
	}
	if unit == UnitFr && v == 0 {
		return Size{}, errors.New(errors.ErrCodeInvalidColumnSize, "flex factor in %q must be positive", s)
	}
	return Size{Unit: unit, Value: v}, nil
}

// MustParseSize is like ParseSize but panics on error. Use it for literals.
func MustParseSize(s string) Size {
	sz, err := ParseSize(s)
	if err != nil {
		panic(err)
	}
	return sz
}
