package application

import (
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/eugenenazirov/release-signing/internal/config"
	"github.com/eugenenazirov/release-signing/internal/manifest"
	"github.com/eugenenazirov/release-signing/internal/output"
	"github.com/eugenenazirov/release-signing/internal/signing"
	"github.com/eugenenazirov/release-signing/internal/storage"
)

var (
	// ErrLiteralDefaults is returned in strict mode when a password came from a literal default.
	ErrLiteralDefaults = errors.New("signing password resolved from a literal default")
	// ErrNoReleaseIdentity is returned in strict mode when release signing is unavailable.
	ErrNoReleaseIdentity = errors.New("no release signing identity available")
)

// Command selects what App.Run reports.
type Command string

const (
	CommandResolve      Command = "resolve"
	CommandPlaceholders Command = "placeholders"
)

// App encapsulates the resolver and its collaborators.
type App struct {
	cfg      config.Config
	resolver *signing.Resolver
	debug    signing.DebugProvider
	env      signing.LookupFunc
	props    signing.LookupFunc
	logger   *zap.Logger
}

// Option customises App construction, primarily for tests.
type Option func(*App, *deps)

type deps struct {
	store storage.Storage
}

// WithStorage replaces the filesystem used for resolution.
func WithStorage(store storage.Storage) Option {
	return func(_ *App, d *deps) {
		d.store = store
	}
}

// WithEnv replaces the process environment lookup.
func WithEnv(env signing.LookupFunc) Option {
	return func(a *App, _ *deps) {
		a.env = env
	}
}

// WithProjectProperties supplies build project properties (-P KEY=VALUE).
func WithProjectProperties(props map[string]string) Option {
	return func(a *App, _ *deps) {
		a.props = signing.MapLookup(props)
	}
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	app := &App{
		cfg:    cfg,
		env:    os.LookupEnv,
		props:  signing.MapLookup(nil),
		debug:  signing.AndroidDebugIdentity(cfg.DebugKeystore),
		logger: logger,
	}
	d := deps{store: storage.NewOSStorage()}
	for _, opt := range opts {
		opt(app, &d)
	}

	app.resolver = signing.NewResolver(d.store, app.env,
		signing.WithPropertiesFile(cfg.PropertiesFile),
		signing.WithBundledKeystore(cfg.BundledKeystore),
		signing.WithDefaults(cfg.Defaults),
	)

	return app, nil
}

// Run executes cmd and writes the rendered report to w.
func (a *App) Run(w io.Writer, cmd Command) error {
	var report output.Report

	switch cmd {
	case CommandResolve, "":
		r, err := a.resolve()
		if err != nil {
			return err
		}
		report = r
	case CommandPlaceholders:
		report.Placeholders = a.placeholders()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return output.Render(w, a.cfg.Output, report, a.cfg.ShowSecrets)
}

func (a *App) resolve() (output.Report, error) {
	res, err := a.resolver.Resolve()
	if err != nil {
		return output.Report{}, fmt.Errorf("resolve signing identity: %w", err)
	}

	a.logger.Debug("signing identity resolved",
		zap.String("source", string(res.Source)),
		zap.Bool("usable", res.Identity.Usable()),
	)

	if err := a.checkDefaults(res); err != nil {
		return output.Report{}, err
	}

	selection := signing.SelectActiveIdentity(res.Identity, a.debug)
	switch selection.Kind {
	case signing.KindDebug:
		a.logger.Warn("no release keystore found, release build will be signed with the debug identity",
			zap.String("properties_file", a.cfg.PropertiesFile),
			zap.String("bundled_keystore", a.cfg.BundledKeystore),
		)
	case signing.KindNone:
		a.logger.Warn("no release keystore and no debug keystore configured")
	}
	if a.cfg.Strict && selection.Kind != signing.KindRelease {
		return output.Report{}, ErrNoReleaseIdentity
	}

	report := output.Report{
		Kind:         selection.Kind,
		Source:       res.Source,
		Origins:      res.Origins,
		Placeholders: a.placeholders(),
	}
	if selection.Kind != signing.KindNone {
		identity := selection.Identity
		report.Identity = &identity
	}
	return report, nil
}

// checkDefaults flags literal fallback passwords; strict mode rejects them.
func (a *App) checkDefaults(res signing.Resolution) error {
	var passwords []string
	for _, field := range res.Defaulted() {
		if field == signing.FieldStorePassword || field == signing.FieldKeyPassword {
			passwords = append(passwords, string(field))
		}
	}
	if len(passwords) == 0 {
		return nil
	}

	if a.cfg.Strict {
		return fmt.Errorf("%w: %v", ErrLiteralDefaults, passwords)
	}
	a.logger.Warn("signing password taken from literal default, set the environment variables instead",
		zap.Strings("fields", passwords),
		zap.Strings("env", []string{signing.EnvStorePassword, signing.EnvKeyPassword}),
	)
	return nil
}

func (a *App) placeholders() []manifest.Placeholder {
	return manifest.Resolve(a.props, a.env, manifest.Defaults{GoogleClientID: a.cfg.GoogleClientID})
}
