//go:build tools

package tools

// This file tracks CLI tool dependencies. It is not compiled into the binary.
//
// - github.com/pressly/goose/v3/cmd/goose: migrations, run via "go tool goose"
// - github.com/matryer/moq: regenerates the hand-kept mocks referenced by the
//   //go:generate directives in _test files
