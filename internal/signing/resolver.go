package signing

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magiconair/properties"

	"github.com/eugenenazirov/release-signing/internal/storage"
)

const (
	DefaultPropertiesFile  = "key.properties"
	DefaultBundledKeystore = "../release-keystore.jks"
	DefaultKeyAlias        = "release"
	// DefaultPassword is a placeholder, never a real credential.
	DefaultPassword = "changeit"

	EnvStorePassword = "RELEASE_KEYSTORE_PASSWORD"
	EnvKeyPassword   = "RELEASE_KEY_PASSWORD"
	EnvKeyAlias      = "RELEASE_KEY_ALIAS"
)

// Defaults holds the literal values used when the environment is silent.
type Defaults struct {
	StorePassword string
	KeyPassword   string
	KeyAlias      string
}

// DefaultDefaults returns the stock literal defaults.
func DefaultDefaults() Defaults {
	return Defaults{
		StorePassword: DefaultPassword,
		KeyPassword:   DefaultPassword,
		KeyAlias:      DefaultKeyAlias,
	}
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPropertiesFile sets the path of the external properties file.
func WithPropertiesFile(path string) Option {
	return func(r *Resolver) {
		r.propertiesFile = path
	}
}

// WithBundledKeystore sets the path of the keystore shipped with the project.
func WithBundledKeystore(path string) Option {
	return func(r *Resolver) {
		r.bundledKeystore = path
	}
}

// WithDefaults overrides the literal fallback values.
func WithDefaults(defaults Defaults) Option {
	return func(r *Resolver) {
		r.defaults = defaults
	}
}

// Resolver picks one signing identity from the prioritized credential sources.
type Resolver struct {
	store           storage.Storage
	env             LookupFunc
	propertiesFile  string
	bundledKeystore string
	defaults        Defaults
}

// NewResolver creates a Resolver reading files from store and variables from env.
// A nil env behaves like an empty environment.
func NewResolver(store storage.Storage, env LookupFunc, opts ...Option) *Resolver {
	if env == nil {
		env = MapLookup(nil)
	}
	r := &Resolver{
		store:           store,
		env:             env,
		propertiesFile:  DefaultPropertiesFile,
		bundledKeystore: DefaultBundledKeystore,
		defaults:        DefaultDefaults(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewOSResolver creates a Resolver over the local filesystem and process environment.
func NewOSResolver(opts ...Option) *Resolver {
	return NewResolver(storage.NewOSStorage(), os.LookupEnv, opts...)
}

// Resolve returns the signing identity for the current filesystem and
// environment. Missing sources are not errors: when nothing usable is found
// the identity has no store file. The only failure is a properties file that
// exists but cannot be read or parsed; it never falls through to the bundled
// keystore.
func (r *Resolver) Resolve() (Resolution, error) {
	exists, err := r.store.Exists(r.propertiesFile)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %w", ErrUnreadableProperties, err)
	}
	if exists {
		return r.fromPropertiesFile()
	}

	// Inspection errors on the bundled keystore are treated like absence.
	if ok, err := r.store.Exists(r.bundledKeystore); err == nil && ok {
		return r.fromBundledKeystore(), nil
	}

	return Resolution{
		Source:  SourceNone,
		Origins: map[Field]Origin{},
	}, nil
}

func (r *Resolver) fromPropertiesFile() (Resolution, error) {
	data, err := r.store.ReadFile(r.propertiesFile)
	if err != nil {
		return Resolution{}, fmt.Errorf("%w: %w", ErrUnreadableProperties, err)
	}

	id, err := ParseProperties(data)
	if err != nil {
		return Resolution{}, fmt.Errorf("%s: %w", r.propertiesFile, err)
	}

	origins := make(map[Field]Origin, len(Fields))
	for _, field := range Fields {
		if _, ok := id.Value(field); ok {
			origins[field] = OriginPropertiesFile
		}
	}

	return Resolution{
		Identity: id,
		Source:   SourcePropertiesFile,
		Origins:  origins,
	}, nil
}

func (r *Resolver) fromBundledKeystore() Resolution {
	storeFile := r.bundledKeystore
	if abs, err := filepath.Abs(storeFile); err == nil {
		storeFile = abs
	}

	var id Identity
	origins := make(map[Field]Origin, len(Fields))

	id.set(FieldStoreFile, storeFile)
	origins[FieldStoreFile] = OriginBundledKeystore

	lookups := []struct {
		field Field
		env   string
		def   string
	}{
		{field: FieldStorePassword, env: EnvStorePassword, def: r.defaults.StorePassword},
		{field: FieldKeyPassword, env: EnvKeyPassword, def: r.defaults.KeyPassword},
		{field: FieldKeyAlias, env: EnvKeyAlias, def: r.defaults.KeyAlias},
	}
	for _, l := range lookups {
		value, origin := Fallback(l.def, Env(r.env, l.env))
		id.set(l.field, value)
		origins[l.field] = origin
	}

	return Resolution{
		Identity: id,
		Source:   SourceBundledKeystore,
		Origins:  origins,
	}
}

// ParseProperties reads an identity from Java properties content. Keys other
// than the four identity fields are ignored; missing keys stay absent.
func ParseProperties(data []byte) (Identity, error) {
	loader := &properties.Loader{
		Encoding:         properties.ISO_8859_1,
		DisableExpansion: true,
	}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedProperties, err)
	}

	var id Identity
	for _, field := range Fields {
		if v, ok := props.Get(string(field)); ok {
			id.set(field, v)
		}
	}
	return id, nil
}
