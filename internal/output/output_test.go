package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/release-signing/internal/manifest"
	"github.com/eugenenazirov/release-signing/internal/signing"
)

func ptr(s string) *string {
	return &s
}

func sampleReport() Report {
	return Report{
		Kind:   signing.KindRelease,
		Source: signing.SourceBundledKeystore,
		Identity: &signing.Identity{
			StoreFile:     ptr("/keys/release.jks"),
			StorePassword: ptr("s3cret=1"),
			KeyPassword:   ptr("k3y"),
			KeyAlias:      ptr("release"),
		},
		Origins: map[signing.Field]signing.Origin{
			signing.FieldStoreFile:     signing.OriginBundledKeystore,
			signing.FieldStorePassword: signing.OriginEnvironment,
			signing.FieldKeyPassword:   signing.OriginEnvironment,
			signing.FieldKeyAlias:      signing.OriginDefault,
		},
		Placeholders: []manifest.Placeholder{
			{Name: manifest.GoogleClientIDPlaceholder, Value: "client-id", Origin: signing.OriginDefault},
		},
	}
}

func TestRenderJSONRedactsSecrets(t *testing.T) {
	t.Parallel()

	report := sampleReport()
	var buf bytes.Buffer
	if err := Render(&buf, "json", report, false); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	if strings.Contains(buf.String(), "s3cret") || strings.Contains(buf.String(), "k3y") {
		t.Fatalf("expected passwords to be redacted, got %s", buf.String())
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	if decoded.Kind != signing.KindRelease || decoded.Source != signing.SourceBundledKeystore {
		t.Fatalf("unexpected kind/source %s/%s", decoded.Kind, decoded.Source)
	}
	if *decoded.Identity.StorePassword != redacted || *decoded.Identity.KeyAlias != "release" {
		t.Fatalf("unexpected identity %+v", decoded.Identity)
	}
	if decoded.Origins[signing.FieldKeyAlias] != signing.OriginDefault {
		t.Fatalf("unexpected origins %v", decoded.Origins)
	}

	// the caller's report is untouched
	if *report.Identity.StorePassword != "s3cret=1" {
		t.Fatalf("Render must not mutate the report")
	}
}

func TestRenderYAMLWithSecrets(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, "yaml", sampleReport(), true); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode YAML: %v", err)
	}
	identity, ok := decoded["identity"].(map[string]any)
	if !ok {
		t.Fatalf("expected identity mapping, got %T", decoded["identity"])
	}
	if identity["storePassword"] != "s3cret=1" {
		t.Fatalf("expected clear-text password, got %v", identity["storePassword"])
	}
}

func TestRenderPropertiesIsReadableAsKeyProperties(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Render(&buf, "properties", sampleReport(), true); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	id, err := signing.ParseProperties(buf.Bytes())
	if err != nil {
		t.Fatalf("ParseProperties returned error: %v", err)
	}
	want := sampleReport().Identity
	for _, field := range signing.Fields {
		got, _ := id.Value(field)
		expected, _ := want.Value(field)
		if got != expected {
			t.Fatalf("%s: expected %q, got %q", field, expected, got)
		}
	}
	if !strings.Contains(buf.String(), "manifestPlaceholders.googleClientId = client-id") {
		t.Fatalf("expected placeholder entry, got %s", buf.String())
	}
	if !strings.Contains(buf.String(), "signingKind = release") {
		t.Fatalf("expected signing kind entry, got %s", buf.String())
	}
}

func TestRenderPlaceholdersOnly(t *testing.T) {
	t.Parallel()

	report := Report{Placeholders: sampleReport().Placeholders}
	var buf bytes.Buffer
	if err := Render(&buf, "json", report, false); err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if strings.Contains(buf.String(), "identity") || strings.Contains(buf.String(), "kind") {
		t.Fatalf("expected only placeholders, got %s", buf.String())
	}
}

func TestRenderUnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := Render(&bytes.Buffer{}, "xml", sampleReport(), false)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
