package record_test

import (
	"fmt"
	"strings"

	"github.com/firepack/firepack/core/errs"
	"github.com/firepack/firepack/core/field"
	"github.com/firepack/firepack/core/record"
)

func ExampleRecord_ToJSON() {
	user := record.MustSchema("user",
		record.F("name", field.Str().Check(field.NotEmpty())),
		record.F("email", field.Email()),
		record.F("age", field.Int().Optional().Check(field.Min(0))),
	)

	r, err := record.FromDict(user, map[string]any{
		"name":  "Ada",
		"email": "ada@example.com",
		"age":   36,
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := r.ToJSON()
	fmt.Println(string(data))
	// Output: {"age":36,"email":"ada@example.com","name":"Ada"}
}

func ExampleRecord_Populate_errors() {
	user := record.MustSchema("user",
		record.F("name", field.Str().Check(field.NotEmpty())),
		record.F("email", field.Email()),
	)

	r := record.New(user)
	err := r.Populate(map[string]any{"name": "", "email": "not-an-address"})

	multi, _ := errs.AsMulti(err)
	for _, ve := range multi.Errors {
		fmt.Println(ve.Field + ": " + ve.Msg)
	}
	// Output:
	// name: must not be empty
	// email: invalid email address
}

func ExampleList_nested() {
	grid := record.MustSchema("grid",
		record.F("rows", field.List(field.List(field.Char()))),
	)

	r, err := record.FromDict(grid, map[string]any{
		"rows": []any{
			[]any{"a", "b"},
			[]any{"c", "d"},
		},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(r.ToDict()["rows"])
	// Output: [[a b] [c d]]
}

func Example_derivedField() {
	// An order code field built on Str: upper-cased on the way in, and
	// constrained to an ORD- prefix.
	orderCode := field.Str().
		Derive("order_code", func(name string, v any) error {
			s, _ := v.(string)
			if !strings.HasPrefix(s, "ORD-") {
				return errs.NewValidation(name, "must start with ORD-")
			}
			return nil
		}).
		Check(field.MaxLen(12))

	order := record.MustSchema("order", record.F("code", orderCode))

	if _, err := record.FromDict(order, map[string]any{"code": "ORD-1234"}); err != nil {
		fmt.Println("unexpected:", err)
	}
	_, err := record.FromDict(order, map[string]any{"code": "X-1"})
	fmt.Println(err)
	// Output: field "code": must start with ORD-
}
