// Package manifest resolves the placeholder values injected into the
// packaged Android manifest.
package manifest

import "github.com/eugenenazirov/release-signing/internal/signing"

const (
	// GoogleClientIDKey is both the project property and the environment variable consulted.
	GoogleClientIDKey = "GOOGLE_CLIENT_ID"
	// GoogleClientIDPlaceholder is the manifest placeholder name.
	GoogleClientIDPlaceholder = "googleClientId"
)

// Placeholder is a resolved manifest placeholder value.
type Placeholder struct {
	Name   string         `json:"name" yaml:"name"`
	Value  string         `json:"value" yaml:"value"`
	Origin signing.Origin `json:"origin" yaml:"origin"`
}

// Defaults holds the literal placeholder values used when nothing else is set.
type Defaults struct {
	GoogleClientID string
}

// Resolve computes the manifest placeholders. Project properties take
// precedence over the environment, which takes precedence over defaults.
func Resolve(props, env signing.LookupFunc, defaults Defaults) []Placeholder {
	value, origin := signing.Fallback(defaults.GoogleClientID,
		signing.Candidate{Key: GoogleClientIDKey, Lookup: props, Origin: signing.OriginProjectProperty},
		signing.Env(env, GoogleClientIDKey),
	)

	return []Placeholder{
		{Name: GoogleClientIDPlaceholder, Value: value, Origin: origin},
	}
}
