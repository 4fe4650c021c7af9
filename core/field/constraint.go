package field

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/firepack/firepack/core/errs"
)

// Reusable constraint validators. These compose with any field kind via
// Check; kind constructors also use them as base checks (Enum uses OneOf).

// Min requires a numeric value of at least min. Coerced integers are
// compared as int64 when the bound is integral, so values beyond float64's
// 2^53 integer range stay exact.
func Min(min float64) Validator {
	return func(name string, value any) error {
		if n, ok := value.(int64); ok {
			if bound, integral := floatToInt64(min); integral {
				if n < bound {
					return errs.NewValidation(name, "must be at least %v", min)
				}
				return nil
			}
		}
		v, ok := toFloat64(value)
		if !ok {
			return nil
		}
		if v < min {
			return errs.NewValidation(name, "must be at least %v", min)
		}
		return nil
	}
}

// Max requires a numeric value of at most max. Integer comparison rules
// match Min.
func Max(max float64) Validator {
	return func(name string, value any) error {
		if n, ok := value.(int64); ok {
			if bound, integral := floatToInt64(max); integral {
				if n > bound {
					return errs.NewValidation(name, "must be at most %v", max)
				}
				return nil
			}
		}
		v, ok := toFloat64(value)
		if !ok {
			return nil
		}
		if v > max {
			return errs.NewValidation(name, "must be at most %v", max)
		}
		return nil
	}
}

// MinLen requires a string of at least n characters, or a list or mapping
// of at least n elements.
func MinLen(n int) Validator {
	return func(name string, value any) error {
		l, ok := lengthOf(value)
		if !ok {
			return nil
		}
		if l < n {
			return errs.NewValidation(name, "must have length at least %d, got %d", n, l)
		}
		return nil
	}
}

// MaxLen requires a string of at most n characters, or a list or mapping
// of at most n elements.
func MaxLen(n int) Validator {
	return func(name string, value any) error {
		l, ok := lengthOf(value)
		if !ok {
			return nil
		}
		if l > n {
			return errs.NewValidation(name, "must have length at most %d, got %d", n, l)
		}
		return nil
	}
}

// Match requires a string matching the pattern.
func Match(re *regexp.Regexp) Validator {
	return func(name string, value any) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if !re.MatchString(s) {
			return errs.NewValidation(name, "does not match required pattern %s", re.String())
		}
		return nil
	}
}

// NotEmpty requires a string with at least one non-whitespace character.
func NotEmpty() Validator {
	return func(name string, value any) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		if strings.TrimSpace(s) == "" {
			return errs.NewValidation(name, "must not be empty")
		}
		return nil
	}
}

// OneOf requires a string equal to one of the given values.
func OneOf(values ...string) Validator {
	return func(name string, value any) error {
		s, ok := value.(string)
		if !ok {
			return nil
		}
		for _, v := range values {
			if v == s {
				return nil
			}
		}
		return errs.NewValidation(name, "must be one of: %s", strings.Join(values, ", "))
	}
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return utf8.RuneCountInString(v), true
	case []any:
		return len(v), true
	case map[string]any:
		return len(v), true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}
