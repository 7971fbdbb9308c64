package render

import "golang.org/x/text/unicode/bidi"

type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// DirectionOf returns the reading direction of the first strongly typed
// character in s, or LTR when s has none. It is cheap enough to call on
// every render, so callers never cache it.
func DirectionOf(s string) Direction {
	for _, r := range s {
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			return RTL
		case bidi.L:
			return LTR
		}
	}
	return LTR
}
