package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	err := NewValidation("age", "must be at least %v", 1)
	want := `field "age": must be at least 1`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestMultiAppendQualifiesPaths(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		err    error
		want   []string
	}{
		{
			name:   "no prefix keeps field",
			prefix: "",
			err:    NewValidation("a", "bad"),
			want:   []string{"a"},
		},
		{
			name:   "named prefix joins with dot",
			prefix: "owner",
			err:    NewValidation("email", "bad"),
			want:   []string{"owner.email"},
		},
		{
			name:   "positional field attaches directly",
			prefix: "tags",
			err:    NewValidation("[2]", "bad"),
			want:   []string{"tags[2]"},
		},
		{
			name:   "nested aggregate flattens in order",
			prefix: "item",
			err: &MultiValidationError{Errors: []*ValidationError{
				{Field: "a", Msg: "bad"},
				{Field: "[0]", Msg: "bad"},
			}},
			want: []string{"item.a", "item[0]"},
		},
		{
			name:   "foreign error recorded against prefix",
			prefix: "blob",
			err:    errors.New("boom"),
			want:   []string{"blob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := &MultiValidationError{}
			agg.Append(tt.prefix, tt.err)
			if len(agg.Errors) != len(tt.want) {
				t.Fatalf("got %d errors, want %d", len(agg.Errors), len(tt.want))
			}
			for i, want := range tt.want {
				if agg.Errors[i].Field != want {
					t.Errorf("Errors[%d].Field = %q, want %q", i, agg.Errors[i].Field, want)
				}
			}
		})
	}
}

func TestMultiErrNilWhenEmpty(t *testing.T) {
	agg := &MultiValidationError{}
	if err := agg.Err(); err != nil {
		t.Errorf("empty aggregate Err() = %v, want nil", err)
	}

	agg.Append("", NewValidation("a", "bad"))
	if err := agg.Err(); err == nil {
		t.Error("non-empty aggregate Err() = nil, want error")
	}
}

func TestMultiErrorJoinsMessages(t *testing.T) {
	agg := &MultiValidationError{}
	agg.Append("", NewValidation("a", "first"))
	agg.Append("", NewValidation("b", "second"))
	want := `field "a": first; field "b": second`
	if agg.Error() != want {
		t.Errorf("Error() = %q, want %q", agg.Error(), want)
	}
}

func TestModificationError(t *testing.T) {
	err := &ModificationError{Field: "a"}
	want := `field "a": already set, record fields are write-once`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestAsMulti(t *testing.T) {
	mve := &MultiValidationError{Errors: []*ValidationError{{Field: "a", Msg: "bad"}}}
	wrapped := fmt.Errorf("populate: %w", mve)

	got, ok := AsMulti(wrapped)
	if !ok || got != mve {
		t.Errorf("AsMulti(wrapped) = %v, %v; want original aggregate", got, ok)
	}

	if _, ok := AsMulti(errors.New("boom")); ok {
		t.Error("AsMulti(plain error) = true, want false")
	}
}
