package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/release-signing/internal/application"
	"github.com/eugenenazirov/release-signing/internal/config"
	"github.com/eugenenazirov/release-signing/internal/logging"
)

type cliArgs struct {
	configFile      string
	projectDir      string
	propertiesFile  string
	bundledKeystore string
	debugKeystore   string
	output          string
	logLevel        string
	showSecrets     bool
	showSecretsSet  bool
	strict          bool
	strictSet       bool
	properties      map[string]string
}

func newCLI() (*kingpin.Application, *cliArgs) {
	args := &cliArgs{properties: map[string]string{}}

	app := kingpin.New("signcfg", "Release signing resolver - selects the keystore and credentials used to sign a release build")
	app.Flag("config", "Path to YAML configuration file").StringVar(&args.configFile)
	app.Flag("project-dir", "Directory relative properties and keystore paths are anchored at").StringVar(&args.projectDir)
	app.Flag("properties-file", "External signing properties file").StringVar(&args.propertiesFile)
	app.Flag("bundled-keystore", "Keystore shipped with the project, used when no properties file exists").StringVar(&args.bundledKeystore)
	app.Flag("debug-keystore", "Debug keystore substituted when no release keystore is available").StringVar(&args.debugKeystore)
	app.Flag("output", "Report format: json, yaml or properties").Short('o').StringVar(&args.output)
	app.Flag("log-level", "Log level: debug, info, warn or error").StringVar(&args.logLevel)
	app.Flag("show-secrets", "Print passwords instead of masking them").IsSetByUser(&args.showSecretsSet).BoolVar(&args.showSecrets)
	app.Flag("strict", "Fail when no release identity is available or a password falls back to a literal default").IsSetByUser(&args.strictSet).BoolVar(&args.strict)
	app.Flag("project-property", "Build project property KEY=VALUE (repeatable)").Short('P').StringMapVar(&args.properties)

	app.Command(string(application.CommandResolve), "Resolve the signing identity and manifest placeholders").Default()
	app.Command(string(application.CommandPlaceholders), "Resolve manifest placeholders only")

	return app, args
}

// overrides converts parsed flags into configuration overrides; unset flags stay nil.
func (a *cliArgs) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: a.configFile,
	}

	for _, f := range []struct {
		value string
		dst   **string
	}{
		{a.projectDir, &overrides.ProjectDir},
		{a.propertiesFile, &overrides.PropertiesFile},
		{a.bundledKeystore, &overrides.BundledKeystore},
		{a.debugKeystore, &overrides.DebugKeystore},
		{a.output, &overrides.Output},
		{a.logLevel, &overrides.LogLevel},
	} {
		if f.value != "" {
			v := f.value
			*f.dst = &v
		}
	}

	if a.showSecretsSet {
		overrides.ShowSecrets = &a.showSecrets
	}
	if a.strictSet {
		overrides.Strict = &a.strict
	}

	return overrides
}

func main() {
	cli, args := newCLI()
	command := kingpin.MustParse(cli.Parse(os.Args[1:]))

	cfg, err := config.Load(args.overrides())
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(application.Command(command), cfg, args.properties, os.Stdout, logger); err != nil {
		logger.Fatal("signing resolution failed", zap.Error(err))
	}
}

func run(command application.Command, cfg config.Config, props map[string]string, w io.Writer, logger *zap.Logger) error {
	app, err := application.New(cfg, logger, application.WithProjectProperties(props))
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	return app.Run(w, command)
}
