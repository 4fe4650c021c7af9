package field

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/firepack/firepack/core/errs"
)

func TestKindsRejectWrongTypes(t *testing.T) {
	tests := []struct {
		name  string
		field *Field
		raw   any
	}{
		{"bool rejects int", Bool(), 1},
		{"char rejects int", Char(), 1},
		{"char rejects long string", Char(), "ab"},
		{"char rejects empty string", Char(), ""},
		{"string rejects int", Str(), 1},
		{"int rejects fraction", Int(), 1.5},
		{"int rejects string", Int(), "1"},
		{"float rejects string", Float(), "a"},
		{"date rejects timestamp string", Date(), "2024-01-02T10:00:00Z"},
		{"datetime rejects date string", DateTime(), "2024-01-02"},
		{"map rejects list", Map(), []any{}},
		{"email rejects bare domain", Email(), "aaa.com"},
		{"uuid rejects malformed", UUID(), "not-a-uuid"},
		{"enum rejects unknown value", Enum("a", "b"), "c"},
		{"url rejects relative", URL(), "nope"},
		{"secret rejects empty", Secret(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.field.Process("a", tt.raw, true)
			if err == nil {
				t.Fatalf("Process(%v) succeeded, want validation error", tt.raw)
			}
			if _, ok := err.(*errs.ValidationError); !ok {
				t.Errorf("Process(%v) error type = %T, want *errs.ValidationError", tt.raw, err)
			}
		})
	}
}

func TestKindsCoerceValidValues(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		field *Field
		raw   any
		want  any
	}{
		{"bool", Bool(), true, true},
		{"char", Char(), "a", "a"},
		{"string", Str(), "aaa", "aaa"},
		{"int from int", Int(), 7, int64(7)},
		{"int from json float", Int(), float64(7), int64(7)},
		{"float from int", Float(), 2, float64(2)},
		{"float", Float(), 1.5, 1.5},
		{"email", Email(), "aaa@aaa.com", "aaa@aaa.com"},
		{"url", URL(), "https://example.com/x", "https://example.com/x"},
		{"uuid normalizes case", UUID(), "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "6ba7b810-9dad-11d1-80b4-00c04fd430c8"},
		{"enum", Enum("a", "b"), "b", "b"},
		{"date from string", Date(), "2024-03-01", "2024-03-01"},
		{"date from time", Date(), ts, "2024-03-01"},
		{"datetime from string", DateTime(), "2024-03-01T10:30:00Z", ts},
		{"datetime from time", DateTime(), ts, ts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, set, err := tt.field.Process("a", tt.raw, true)
			if err != nil {
				t.Fatalf("Process(%v) error: %v", tt.raw, err)
			}
			if !set {
				t.Fatalf("Process(%v) set = false, want true", tt.raw)
			}
			if got != tt.want {
				t.Errorf("Process(%v) = %v (%T), want %v (%T)", tt.raw, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestIntRejectsOutOfRangeFloats(t *testing.T) {
	rejects := []float64{
		1e19,
		-1e19,
		float64(math.MaxInt64), // rounds to 2^63, not representable
		math.Inf(1),
		math.Inf(-1),
		math.NaN(),
	}
	for _, f := range rejects {
		v, set, err := Int().Process("n", f, true)
		if err == nil {
			t.Errorf("Process(%v) = (%v, %v, nil), want out-of-range error", f, v, set)
		}
	}

	accepts := []struct {
		raw  float64
		want int64
	}{
		{math.MinInt64, math.MinInt64},                   // -2^63 is exact
		{9223372036854774784, 9223372036854774784},       // largest float64 below 2^63
		{float64(math.MaxUint32), int64(math.MaxUint32)},
	}
	for _, tt := range accepts {
		v, set, err := Int().Process("n", tt.raw, true)
		if err != nil || !set {
			t.Errorf("Process(%v) error: %v", tt.raw, err)
			continue
		}
		if v != tt.want {
			t.Errorf("Process(%v) = %v, want %v", tt.raw, v, tt.want)
		}
	}
}

func TestRequiredAndDefault(t *testing.T) {
	t.Run("required absent fails", func(t *testing.T) {
		_, _, err := Int().Process("a", nil, false)
		ve, ok := err.(*errs.ValidationError)
		if !ok {
			t.Fatalf("error type = %T, want *errs.ValidationError", err)
		}
		if ve.Msg != "field is required" {
			t.Errorf("Msg = %q, want %q", ve.Msg, "field is required")
		}
	})

	t.Run("optional absent stays unset", func(t *testing.T) {
		v, set, err := Int().Optional().Process("a", nil, false)
		if err != nil || set || v != nil {
			t.Errorf("got (%v, %v, %v), want (nil, false, nil)", v, set, err)
		}
	})

	t.Run("nil input counts as absent", func(t *testing.T) {
		_, _, err := Int().Process("a", nil, true)
		if err == nil {
			t.Error("required field with nil input succeeded, want error")
		}
	})

	t.Run("default substitutes and coerces", func(t *testing.T) {
		v, set, err := Int().Default(5).Process("a", nil, false)
		if err != nil || !set || v != int64(5) {
			t.Errorf("got (%v, %v, %v), want (5, true, nil)", v, set, err)
		}
	})

	t.Run("default runs the full validation chain", func(t *testing.T) {
		_, _, err := Int().Default("a").Process("a", nil, false)
		if err == nil {
			t.Error("invalid default passed validation, want error")
		}
	})
}

func TestUserValidatorsRunInOrderFirstFailureWins(t *testing.T) {
	var ran []string
	mk := func(id string, fail bool) Validator {
		return func(name string, value any) error {
			ran = append(ran, id)
			if fail {
				return errs.NewValidation(name, "check %s failed", id)
			}
			return nil
		}
	}

	f := Str().Check(mk("first", false), mk("second", true), mk("third", true))
	_, _, err := f.Process("a", "x", true)

	ve, ok := err.(*errs.ValidationError)
	if !ok {
		t.Fatalf("error type = %T, want *errs.ValidationError", err)
	}
	if ve.Msg != "check second failed" {
		t.Errorf("Msg = %q, want first failing check", ve.Msg)
	}
	if strings.Join(ran, ",") != "first,second" {
		t.Errorf("ran = %v, want [first second]", ran)
	}
}

func TestDeriveCustomKind(t *testing.T) {
	// A custom kind layered on Str: values in xxx-yyy-zzz form.
	id := Str().Derive("id", func(name string, value any) error {
		parts := strings.Split(value.(string), "-")
		if len(parts) != 3 {
			return errs.NewValidation(name, "improper format")
		}
		for _, p := range parts {
			if len(p) != 3 {
				return errs.NewValidation(name, "improper format")
			}
		}
		return nil
	})

	if id.Kind() != "id" {
		t.Errorf("Kind() = %q, want %q", id.Kind(), "id")
	}

	if _, _, err := id.Process("user_id", "foo-bar-baz", true); err != nil {
		t.Errorf("valid id rejected: %v", err)
	}
	if _, _, err := id.Process("user_id", "foo-bar", true); err == nil {
		t.Error("malformed id accepted")
	}
	// The base kind's check still runs first.
	if _, _, err := id.Process("user_id", 7, true); err == nil {
		t.Error("non-string accepted by derived kind")
	}
}

func TestSecretHashesAndIsInternal(t *testing.T) {
	f := Secret()
	if !f.IsInternal() {
		t.Error("Secret() not internal")
	}

	v, set, err := f.Process("password", "hunter22", true)
	if err != nil || !set {
		t.Fatalf("Process error: %v", err)
	}
	hash, ok := v.(string)
	if !ok || hash == "hunter22" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("value %q does not look like a bcrypt hash", hash)
	}
}

func TestConstructorsReturnFreshFields(t *testing.T) {
	a := Int().Optional()
	b := Int()
	if b.IsRequired() != true {
		t.Error("configuring one Int() leaked into another")
	}
	_ = a
}
