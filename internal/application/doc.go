// Package application provides application initialization and dependency wiring.
// It builds the storage, environment lookup, resolver, and debug identity
// provider from configuration, and runs a command that resolves the signing
// identity and manifest placeholders, keeping the main package focused on CLI
// parsing.
package application
