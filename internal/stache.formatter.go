package internal

import (
	"strings"
	"unicode/utf8"
)

// Formatter is the injected capability that applies a format specifier to
// a value. The core never implements locale-aware formatting itself.
type Formatter interface {
	Format(spec string, value any) (string, error)
}

// FormatValue renders a value applying the optional format specifier and
// alignment. A nil value yields the empty string regardless of specifier
// or alignment.
func FormatValue(f Formatter, value any, alignment int, format string) (string, error) {
	if value == nil {
		return StringValueEmpty, nil
	}

	var s string
	if format != StringValueEmpty && f != nil {
		formatted, err := f.Format(format, value)
		if err != nil {
			return StringValueEmpty, &RenderError{
				Code:    CodeFormatFailed,
				Message: ErrMsgFormatFailed,
				Detail:  format,
				Cause:   err,
			}
		}
		s = formatted
	} else {
		s = Stringify(value)
	}

	return Align(s, alignment), nil
}

// Align pads a string with spaces to |alignment| runes. A positive
// alignment right-aligns (leading padding), a negative one left-aligns
// (trailing padding), zero leaves the string untouched.
func Align(s string, alignment int) string {
	if alignment == 0 {
		return s
	}

	width := alignment
	if width < 0 {
		width = -width
	}
	length := utf8.RuneCountInString(s)
	if width <= length {
		return s
	}

	pad := strings.Repeat(string(CharSpace), width-length)
	if alignment > 0 {
		return pad + s
	}
	return s + pad
}
