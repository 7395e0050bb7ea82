// The main package for the bookdash executable.
package main

import (
	"bookdash/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
