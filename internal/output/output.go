// Package output renders resolution reports for the packaging step.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/release-signing/internal/manifest"
	"github.com/eugenenazirov/release-signing/internal/signing"
)

const (
	redacted = "********"

	keySigningKind       = "signingKind"
	keyPlaceholderPrefix = "manifestPlaceholders."
)

// Supported report formats.
const (
	FormatJSON       = "json"
	FormatYAML       = "yaml"
	FormatProperties = "properties"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Report is everything a build step needs to sign and package an artifact.
// Empty fields are omitted from the rendered output.
type Report struct {
	Kind         signing.Kind                     `json:"kind,omitempty" yaml:"kind,omitempty"`
	Source       signing.Source                   `json:"source,omitempty" yaml:"source,omitempty"`
	Identity     *signing.Identity                `json:"identity,omitempty" yaml:"identity,omitempty"`
	Origins      map[signing.Field]signing.Origin `json:"origins,omitempty" yaml:"origins,omitempty"`
	Placeholders []manifest.Placeholder           `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// Render writes report to w in format. Passwords are masked unless showSecrets is set.
func Render(w io.Writer, format string, report Report, showSecrets bool) error {
	if !showSecrets && report.Identity != nil {
		masked := redact(*report.Identity)
		report.Identity = &masked
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		return nil
	case FormatProperties:
		return writeProperties(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// writeProperties emits a document that can be used as a key.properties file.
func writeProperties(w io.Writer, report Report) error {
	props := properties.NewProperties()
	props.DisableExpansion = true

	if report.Kind != "" {
		if _, _, err := props.Set(keySigningKind, string(report.Kind)); err != nil {
			return fmt.Errorf("set %s: %w", keySigningKind, err)
		}
	}
	if report.Identity != nil {
		for _, field := range signing.Fields {
			v, ok := report.Identity.Value(field)
			if !ok {
				continue
			}
			if _, _, err := props.Set(string(field), v); err != nil {
				return fmt.Errorf("set %s: %w", field, err)
			}
		}
	}
	for _, p := range report.Placeholders {
		key := keyPlaceholderPrefix + p.Name
		if _, _, err := props.Set(key, p.Value); err != nil {
			return fmt.Errorf("set %s: %w", key, err)
		}
	}

	if _, err := props.Write(w, properties.ISO_8859_1); err != nil {
		return fmt.Errorf("write properties: %w", err)
	}
	return nil
}

func redact(id signing.Identity) signing.Identity {
	mask := func(v *string) *string {
		if v == nil {
			return nil
		}
		m := redacted
		return &m
	}
	id.StorePassword = mask(id.StorePassword)
	id.KeyPassword = mask(id.KeyPassword)
	return id
}
