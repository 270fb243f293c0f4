// Package sizing resolves the font size of each card field.
//
// Sizes are expressed in em; one em is BaseUnit logical units on a card.
package sizing

import (
	"unicode/utf8"

	"github.com/ByLCY/namecard/card"
)

// BaseUnit is the logical size of 1em on a card.
const BaseUnit = 16.0

const (
	gradeFactor = 1.1
	phoneFactor = 0.85
)

var defaults = map[card.Field]float64{
	card.FieldFamily:  1.2,
	card.FieldName:    1.8,
	card.FieldSubject: 2.4,
	card.FieldGrade:   1.2,
	card.FieldPhone:   1.0,
	card.FieldSchool:  1.0,
}

type step struct {
	over int
	mult float64
}

// steps are checked in order; the first threshold exceeded wins.
var steps = map[card.Field][]step{
	card.FieldName:    {{35, 0.55}, {25, 0.65}, {18, 0.8}, {12, 0.9}},
	card.FieldSubject: {{12, 0.6}, {8, 0.8}},
	card.FieldSchool:  {{30, 0.75}, {20, 0.9}},
}

// Base returns the size before length reduction. With auto-scale on it is
// the per-field default, otherwise the manual entry (1.0 when missing).
func Base(f card.Field, autoScale bool, manual map[card.Field]float64) float64 {
	if autoScale {
		if v, ok := defaults[f]; ok {
			return v
		}
		return 1.0
	}
	if v, ok := manual[f]; ok && v > 0 {
		return v
	}
	return 1.0
}

// Multiplier returns the length reduction for a text of n characters.
// It is always 1.0 when auto-scale is off.
func Multiplier(f card.Field, n int, autoScale bool) float64 {
	if !autoScale {
		return 1.0
	}
	for _, s := range steps[f] {
		if n > s.over {
			return s.mult
		}
	}
	return 1.0
}

// Resolve returns the size of f in em for text. Empty text counts as length 0.
func Resolve(f card.Field, text string, autoScale bool, manual map[card.Field]float64) float64 {
	n := utf8.RuneCountInString(text)
	return Base(f, autoScale, manual) * Multiplier(f, n, autoScale)
}

// Grade is the displayed grade size: the resolved size scaled by 1.1.
func Grade(text string, autoScale bool, manual map[card.Field]float64) float64 {
	return Resolve(card.FieldGrade, text, autoScale, manual) * gradeFactor
}

// Phone is the displayed phone size: the resolved size scaled by 0.85.
func Phone(text string, autoScale bool, manual map[card.Field]float64) float64 {
	return Resolve(card.FieldPhone, text, autoScale, manual) * phoneFactor
}

// Display returns the size a field is drawn with, applying the grade and
// phone derivations.
func Display(f card.Field, text string, autoScale bool, manual map[card.Field]float64) float64 {
	switch f {
	case card.FieldGrade:
		return Grade(text, autoScale, manual)
	case card.FieldPhone:
		return Phone(text, autoScale, manual)
	}
	return Resolve(f, text, autoScale, manual)
}

// ForSpec is Display with the scaling settings taken from s.
func ForSpec(s card.Spec, f card.Field) float64 {
	return Display(f, s.Text(f), s.AutoScale, s.Sizes)
}
