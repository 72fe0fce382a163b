package utils

import (
	"math"
	"strconv"
	"strings"
)

// Stars is a 0-10 rating projected onto a five star scale.
type Stars struct {
	Full  int
	Half  int
	Empty int
	Score float64 // five star score rounded to one decimal
}

// RatingStars converts a 0-10 rating into stars. Out of range input is clamped.
func RatingStars(rating10 float64) Stars {
	if math.IsNaN(rating10) || rating10 < 0 {
		rating10 = 0
	}
	if rating10 > 10 {
		rating10 = 10
	}
	r5 := math.Round(rating10/2*10) / 10
	full := int(math.Floor(r5))
	half := 0
	if r5-float64(full) >= 0.5 {
		half = 1
	}
	return Stars{
		Full:  full,
		Half:  half,
		Empty: 5 - full - half,
		Score: r5,
	}
}

// String renders e.g. "★★★⯪☆ (3.5/5)".
func (s Stars) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("★", s.Full))
	if s.Half == 1 {
		b.WriteString("⯪")
	}
	b.WriteString(strings.Repeat("☆", s.Empty))
	b.WriteString(" (")
	b.WriteString(strconv.FormatFloat(s.Score, 'f', -1, 64))
	b.WriteString("/5)")
	return b.String()
}
