package manifest

import (
	"testing"

	"github.com/eugenenazirov/release-signing/internal/signing"
)

func TestResolveGoogleClientID(t *testing.T) {
	t.Parallel()

	defaults := Defaults{GoogleClientID: "default.apps.googleusercontent.com"}

	testCases := []struct {
		name       string
		props      map[string]string
		env        map[string]string
		wantValue  string
		wantOrigin signing.Origin
	}{
		{
			name:       "project property wins",
			props:      map[string]string{GoogleClientIDKey: "prop-id"},
			env:        map[string]string{GoogleClientIDKey: "env-id"},
			wantValue:  "prop-id",
			wantOrigin: signing.OriginProjectProperty,
		},
		{
			name:       "environment",
			env:        map[string]string{GoogleClientIDKey: "env-id"},
			wantValue:  "env-id",
			wantOrigin: signing.OriginEnvironment,
		},
		{
			name:       "default",
			wantValue:  "default.apps.googleusercontent.com",
			wantOrigin: signing.OriginDefault,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Resolve(signing.MapLookup(tc.props), signing.MapLookup(tc.env), defaults)
			if len(got) != 1 {
				t.Fatalf("expected one placeholder, got %d", len(got))
			}
			if got[0].Name != GoogleClientIDPlaceholder {
				t.Fatalf("unexpected placeholder name %s", got[0].Name)
			}
			if got[0].Value != tc.wantValue || got[0].Origin != tc.wantOrigin {
				t.Fatalf("expected (%q, %s), got (%q, %s)", tc.wantValue, tc.wantOrigin, got[0].Value, got[0].Origin)
			}
		})
	}
}

func TestResolveWithNilProperties(t *testing.T) {
	t.Parallel()

	got := Resolve(nil, signing.MapLookup(map[string]string{GoogleClientIDKey: "env-id"}), Defaults{})
	if got[0].Value != "env-id" {
		t.Fatalf("expected environment value, got %q", got[0].Value)
	}
}
