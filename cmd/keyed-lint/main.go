// Package main provides the CLI entrypoint for keyed-lint.
//
// keyed-lint loads Go packages and checks their `keyed` struct tags:
//   - check reports tag mistakes, empty segments, duplicate key paths,
//     invalid flattened fields and unknown transforms
//   - paths prints the key path every tagged field resolves to
package main

import (
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
