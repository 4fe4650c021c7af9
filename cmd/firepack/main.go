// Package main is the firepack command line tool: it compiles declarative
// record manifests and validates JSON documents against them.
package main

func main() {
	Execute()
}
