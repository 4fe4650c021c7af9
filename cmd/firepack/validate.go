package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/firepack/firepack/core/errs"
	"github.com/firepack/firepack/core/manifest"
	"github.com/firepack/firepack/core/record"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a JSON document against a record schema",
	Long: `Validate a JSON document against a compiled record schema.

The document is populated through the full coercion and validation chain;
every failing field is reported, not just the first.

Examples:
  firepack validate -r user user.json
  cat user.json | firepack validate -r user -
  firepack validate -r user --allow-unknown user.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

var (
	validateRecord       string
	validateAllowUnknown bool
)

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateRecord, "record", "r", "", "record schema to validate against (required)")
	validateCmd.Flags().BoolVar(&validateAllowUnknown, "allow-unknown", false, "ignore input keys not declared in the schema")
	validateCmd.MarkFlagRequired("record")
}

const (
	checkMark = "\033[32m✓\033[0m"
	crossMark = "\033[31m✗\033[0m"
)

func runValidate(cmd *cobra.Command, args []string) error {
	schemas, err := manifest.LoadDir(manifestDir)
	if err != nil {
		fmt.Printf("  %s Manifests compile\n", crossMark)
		return err
	}
	fmt.Printf("  %s Manifests compile (%d schemas)\n", checkMark, len(schemas))

	schema, ok := schemas[validateRecord]
	if !ok {
		fmt.Printf("  %s Schema %q exists\n", crossMark, validateRecord)
		return fmt.Errorf("schema %q not found in %s", validateRecord, manifestDir)
	}
	fmt.Printf("  %s Schema %q exists\n", checkMark, validateRecord)

	data, err := readInput(args[0])
	if err != nil {
		return err
	}

	var opts []record.Option
	if validateAllowUnknown {
		opts = append(opts, record.AllowUnknown())
	}

	rec := record.New(schema)
	if err := rec.LoadJSON(data, opts...); err != nil {
		fmt.Printf("  %s Document valid\n", crossMark)
		if mve, ok := errs.AsMulti(err); ok {
			for _, ve := range mve.Errors {
				fmt.Printf("      %s: %s\n", ve.Field, ve.Msg)
			}
			return fmt.Errorf("%d validation error(s)", len(mve.Errors))
		}
		return err
	}
	fmt.Printf("  %s Document valid\n", checkMark)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return data, nil
}
