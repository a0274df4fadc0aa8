package signing

// Field names a signing identity attribute. The values double as the keys
// recognised in the external properties file.
type Field string

const (
	FieldStoreFile     Field = "storeFile"
	FieldStorePassword Field = "storePassword"
	FieldKeyPassword   Field = "keyPassword"
	FieldKeyAlias      Field = "keyAlias"
)

// Fields lists every identity attribute in properties-file order.
var Fields = []Field{FieldStoreFile, FieldStorePassword, FieldKeyPassword, FieldKeyAlias}

// Identity is the keystore and credentials used to sign a release artifact.
// A nil field is absent.
type Identity struct {
	StoreFile     *string `json:"storeFile,omitempty" yaml:"storeFile,omitempty"`
	StorePassword *string `json:"storePassword,omitempty" yaml:"storePassword,omitempty"`
	KeyPassword   *string `json:"keyPassword,omitempty" yaml:"keyPassword,omitempty"`
	KeyAlias      *string `json:"keyAlias,omitempty" yaml:"keyAlias,omitempty"`
}

// Usable reports whether the identity can sign a release build.
func (id Identity) Usable() bool {
	return id.StoreFile != nil
}

// Value returns the value of field and whether it is present.
func (id Identity) Value(field Field) (string, bool) {
	var v *string
	switch field {
	case FieldStoreFile:
		v = id.StoreFile
	case FieldStorePassword:
		v = id.StorePassword
	case FieldKeyPassword:
		v = id.KeyPassword
	case FieldKeyAlias:
		v = id.KeyAlias
	}
	if v == nil {
		return "", false
	}
	return *v, true
}

func (id *Identity) set(field Field, value string) {
	v := value
	switch field {
	case FieldStoreFile:
		id.StoreFile = &v
	case FieldStorePassword:
		id.StorePassword = &v
	case FieldKeyPassword:
		id.KeyPassword = &v
	case FieldKeyAlias:
		id.KeyAlias = &v
	}
}

// Source identifies the credential source an identity was resolved from.
type Source string

const (
	SourcePropertiesFile  Source = "properties-file"
	SourceBundledKeystore Source = "bundled-keystore"
	SourceNone            Source = "none"
)

// Origin identifies where a single value came from.
type Origin string

const (
	OriginPropertiesFile  Origin = "properties-file"
	OriginBundledKeystore Origin = "bundled-keystore"
	OriginEnvironment     Origin = "environment"
	OriginProjectProperty Origin = "project-property"
	OriginDefault         Origin = "default"
)

// Resolution is the outcome of a single Resolve call.
type Resolution struct {
	Identity Identity
	Source   Source
	Origins  map[Field]Origin
}

// Defaulted lists the fields whose value is a literal default, in Fields order.
func (r Resolution) Defaulted() []Field {
	var out []Field
	for _, field := range Fields {
		if r.Origins[field] == OriginDefault {
			out = append(out, field)
		}
	}
	return out
}

// Kind tells the packaging step which identity it is being handed.
type Kind string

const (
	KindRelease Kind = "release"
	KindDebug   Kind = "debug"
	KindNone    Kind = "none"
)

// Selection is the identity that will actually sign the artifact.
type Selection struct {
	Kind     Kind
	Identity Identity
}

// LookupFunc is a read-only key/value lookup such as os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// MapLookup returns a LookupFunc backed by a copy of values.
func MapLookup(values map[string]string) LookupFunc {
	snapshot := make(map[string]string, len(values))
	for k, v := range values {
		snapshot[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := snapshot[key]
		return v, ok
	}
}
