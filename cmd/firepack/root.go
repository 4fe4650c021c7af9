package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	manifestDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "firepack",
	Short: "Declarative record schemas with validation and serialization",
	Long: `firepack compiles declarative YAML record definitions into schemas and
validates JSON documents against them.

Quick start:
  firepack schemas                      # Compile and list record schemas
  firepack validate -r user input.json  # Validate a document`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestDir, "manifests", "m", "manifests", "manifest directory")
}
