// Command classkit runs the registered behavior specs and calls stored
// plugins through decorator chains.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}
