package signing

import "path/filepath"

const (
	debugStorePassword = "android"
	debugKeyPassword   = "android"
	debugKeyAlias      = "androiddebugkey"
)

// DebugProvider supplies the build tool's ambient debug identity.
type DebugProvider interface {
	DebugIdentity() Identity
}

// DebugProviderFunc adapts a function to DebugProvider.
type DebugProviderFunc func() Identity

// DebugIdentity calls f.
func (f DebugProviderFunc) DebugIdentity() Identity {
	return f()
}

// DefaultDebugKeystorePath returns where the Android tooling keeps its debug keystore.
func DefaultDebugKeystorePath(home string) string {
	return filepath.Join(home, ".android", "debug.keystore")
}

// AndroidDebugIdentity returns a provider for the stock Android debug keystore at path.
func AndroidDebugIdentity(path string) DebugProvider {
	return DebugProviderFunc(func() Identity {
		var id Identity
		if path == "" {
			return id
		}
		id.set(FieldStoreFile, path)
		id.set(FieldStorePassword, debugStorePassword)
		id.set(FieldKeyPassword, debugKeyPassword)
		id.set(FieldKeyAlias, debugKeyAlias)
		return id
	})
}

// SelectActiveIdentity returns identity unchanged when it can sign a release
// build. Otherwise it substitutes the debug identity and says so in Kind. If
// the debug provider is missing or returns an identity without a store file,
// the result is KindNone so an unusable identity is never handed out as
// signable.
func SelectActiveIdentity(identity Identity, debug DebugProvider) Selection {
	if identity.Usable() {
		return Selection{Kind: KindRelease, Identity: identity}
	}

	if debug == nil {
		return Selection{Kind: KindNone}
	}
	fallback := debug.DebugIdentity()
	if !fallback.Usable() {
		return Selection{Kind: KindNone}
	}
	return Selection{Kind: KindDebug, Identity: fallback}
}
