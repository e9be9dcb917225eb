// The main package for the tracker executable.
package main

import (
	"github.com/ctsc/internship-tracker/cmd"
)

// main defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
