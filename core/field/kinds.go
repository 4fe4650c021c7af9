package field

import (
	"math"
	"net/mail"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/firepack/firepack/core/errs"
)

// Built-in field kinds. Each constructor returns a fresh Field so the result
// can be configured without affecting other declarations.

// Bool accepts a boolean value.
func Bool() *Field {
	return New("bool", func(name string, raw any) (any, error) {
		b, ok := raw.(bool)
		if !ok {
			return nil, errs.NewValidation(name, "must be a boolean")
		}
		return b, nil
	})
}

// Int accepts an integer and coerces it to int64. JSON numbers arrive as
// float64, so integral floats are accepted too.
func Int() *Field {
	return New("int", func(name string, raw any) (any, error) {
		n, ok := toInt64(raw)
		if !ok {
			return nil, errs.NewValidation(name, "must be an integer")
		}
		return n, nil
	})
}

// Float accepts a number and coerces it to float64.
func Float() *Field {
	return New("float", func(name string, raw any) (any, error) {
		n, ok := toFloat64(raw)
		if !ok {
			return nil, errs.NewValidation(name, "must be a number")
		}
		return n, nil
	})
}

// Str accepts a string.
func Str() *Field {
	return New("string", coerceString)
}

// Char accepts a string of exactly one character.
func Char() *Field {
	return New("char", coerceString, func(name string, value any) error {
		if n := utf8.RuneCountInString(value.(string)); n != 1 {
			return errs.NewValidation(name, "must be a single character, got length %d", n)
		}
		return nil
	})
}

// Email accepts an email address.
func Email() *Field {
	return New("email", coerceString, func(name string, value any) error {
		if _, err := mail.ParseAddress(value.(string)); err != nil {
			return errs.NewValidation(name, "invalid email address")
		}
		return nil
	})
}

// URL accepts an absolute URL.
func URL() *Field {
	return New("url", coerceString, func(name string, value any) error {
		if _, err := url.ParseRequestURI(value.(string)); err != nil {
			return errs.NewValidation(name, "invalid URL")
		}
		return nil
	})
}

// UUID accepts a UUID string and normalizes it to its canonical form.
func UUID() *Field {
	return New("uuid", func(name string, raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, errs.NewValidation(name, "must be a string")
		}
		u, err := uuid.Parse(s)
		if err != nil {
			return nil, errs.NewValidation(name, "invalid UUID format")
		}
		return u.String(), nil
	})
}

// Enum accepts a string limited to the given values.
func Enum(values ...string) *Field {
	return New("enum", coerceString, OneOf(values...))
}

// Date accepts a calendar date, either a "YYYY-MM-DD" string or a time.Time,
// and normalizes it to the "YYYY-MM-DD" string form.
func Date() *Field {
	return New("date", func(name string, raw any) (any, error) {
		switch v := raw.(type) {
		case string:
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return nil, errs.NewValidation(name, "must be a date in YYYY-MM-DD form")
			}
			return t.Format(time.DateOnly), nil
		case time.Time:
			return v.Format(time.DateOnly), nil
		default:
			return nil, errs.NewValidation(name, "must be a date in YYYY-MM-DD form")
		}
	})
}

// DateTime accepts a timestamp, either an RFC 3339 string or a time.Time,
// and coerces it to time.Time.
func DateTime() *Field {
	return New("datetime", func(name string, raw any) (any, error) {
		switch v := raw.(type) {
		case string:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, errs.NewValidation(name, "must be an RFC 3339 timestamp")
			}
			return t, nil
		case time.Time:
			return v, nil
		default:
			return nil, errs.NewValidation(name, "must be an RFC 3339 timestamp")
		}
	})
}

// Map accepts a string-keyed mapping.
func Map() *Field {
	return New("map", func(name string, raw any) (any, error) {
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, errs.NewValidation(name, "must be a mapping")
		}
		return m, nil
	})
}

// Any accepts any value as-is.
func Any() *Field {
	return New("any", nil)
}

// Secret accepts a non-empty string and replaces it with its bcrypt hash at
// coercion time. Secret fields are internal: they are never exported.
func Secret() *Field {
	f := New("secret", func(name string, raw any) (any, error) {
		s, ok := raw.(string)
		if !ok {
			return nil, errs.NewValidation(name, "must be a string")
		}
		if s == "" {
			return nil, errs.NewValidation(name, "must not be empty")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(s), bcrypt.DefaultCost)
		if err != nil {
			return nil, errs.NewValidation(name, "cannot hash secret: %v", err)
		}
		return string(hash), nil
	})
	return f.Internal()
}

func coerceString(name string, raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, errs.NewValidation(name, "must be a string")
	}
	return s, nil
}

// toInt64 converts raw numeric types to int64. Floats are accepted only
// when integral, since JSON decoding yields float64 for every number.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	// math.MaxInt64 is not exactly representable as a float64; values at or
	// beyond it would wrap in the conversion.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// toFloat64 converts raw numeric types to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
