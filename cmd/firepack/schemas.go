package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/firepack/firepack/core/manifest"
)

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "Compile and list the record schemas in the manifest directory",
	RunE:  runSchemas,
}

func init() {
	rootCmd.AddCommand(schemasCmd)
}

func runSchemas(cmd *cobra.Command, args []string) error {
	schemas, err := manifest.LoadDir(manifestDir)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := schemas[name]
		fmt.Printf("%s (%d fields)\n", name, s.Len())
		for _, d := range s.Fields() {
			required := ""
			if d.Field.IsRequired() {
				required = " required"
			}
			fmt.Printf("  %-20s %s%s\n", d.Name, d.Field.Kind(), required)
		}
	}
	return nil
}
