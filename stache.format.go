package stache

import (
	"fmt"
	"strings"
	"time"

	"github.com/itsatony/go-stache/internal"
)

// FormatProvider is the injected capability that applies a format
// specifier to a resolved value. The core never implements locale-aware
// date or number formatting; hosts plug a provider that does.
type FormatProvider interface {
	// Format renders value according to spec
	Format(spec string, value any) (string, error)
}

// FormatProviderFunc is a convenience adapter for function-based providers
type FormatProviderFunc func(spec string, value any) (string, error)

// Format implements FormatProvider
func (f FormatProviderFunc) Format(spec string, value any) (string, error) {
	return f(spec, value)
}

// ErrMsgUnsupportedFormat is returned by the default provider for
// specifiers it does not understand
const ErrMsgUnsupportedFormat = "unsupported format specifier"

// defaultFormatProvider handles fmt verbs and time.Time layout strings
type defaultFormatProvider struct{}

// Format implements FormatProvider
func (defaultFormatProvider) Format(spec string, value any) (string, error) {
	if strings.ContainsRune(spec, '%') {
		return fmt.Sprintf(spec, value), nil
	}

	switch t := value.(type) {
	case time.Time:
		return t.Format(spec), nil
	case *time.Time:
		if t == nil {
			return "", nil
		}
		return t.Format(spec), nil
	}

	return "", fmt.Errorf("%s: %q", ErrMsgUnsupportedFormat, spec)
}

// DefaultFormatProvider returns the provider used when the host does not
// inject one: fmt verb specifiers for any value, Go layout strings for
// time.Time values.
func DefaultFormatProvider() FormatProvider {
	return defaultFormatProvider{}
}

// PropertyResolver is the injected capability that looks up a named key
// on a scope value, returning the child value and true, or false on a
// miss. Hosts plug this to bridge structs, maps, or dynamic objects.
type PropertyResolver func(scope any, name string) (any, bool)

// ReflectResolver returns the default reflection-based property resolver:
// string-keyed maps, exported struct fields, and pointers to either.
func ReflectResolver() PropertyResolver {
	return PropertyResolver(internal.DefaultResolver)
}
