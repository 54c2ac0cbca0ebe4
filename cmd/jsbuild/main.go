package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Rafaelius/jsbuild"
	"github.com/Rafaelius/jsbuild/internal/cli"
	"github.com/Rafaelius/jsbuild/internal/ctxlog"
	"github.com/Rafaelius/jsbuild/internal/manifest"
)

// defaultUnit is what gets built when no manifest is given.
var defaultUnit = manifest.Unit{
	Name:       "Meio.Mask",
	SourceRoot: jsbuild.DefaultSourceRoot,
	Files: jsbuild.List{
		"Meio.Mask",
		"Meio.Mask.Fixed",
		"Meio.Mask.Reverse",
		"Meio.Mask.Repeat",
		"Meio.Mask.Regexp",
		"Meio.Mask.Extras",
	},
}

func main() {
	os.Exit(jsbuildMain())
}

// jsbuildMain runs the program against the real process streams and returns
// its exit code.
func jsbuildMain() int {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))
	err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(os.Stderr, err)
	return 1
}

// run builds every requested unit in order, stopping at the first failure.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, shouldExit, err := cli.Parse(args, stdout)
	if err != nil || shouldExit {
		return err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, stderr)
	ctx = ctxlog.WithLogger(ctx, logger)

	settings := manifest.Settings{}
	units := []manifest.Unit{defaultUnit}
	if cfg.ManifestPath != "" {
		m, err := manifest.Load(ctx, cfg.ManifestPath)
		if err != nil {
			return err
		}
		settings, units = m.Settings, m.Units
	}
	settings = resolveSettings(cfg, settings)
	logger.Debug("Settings resolved.", "settings", settings)

	builder, err := newBuilder(cfg, settings, stdout, stderr)
	if err != nil {
		return err
	}
	builder.WithLogger(logger)
	for _, u := range units {
		if _, err := builder.Build(ctx, u.Name, u.Files, u.SourceRoot); err != nil {
			return err
		}
	}
	return nil
}

// resolveSettings layers explicit flags over manifest settings, and
// manifest settings over flag defaults.
func resolveSettings(cfg *cli.Config, s manifest.Settings) manifest.Settings {
	pick := func(flagName, flagValue, manifestValue string) string {
		if cfg.IsSet(flagName) || manifestValue == "" {
			return flagValue
		}
		return manifestValue
	}
	s.BuildFolder = pick("build-folder", cfg.BuildFolder, s.BuildFolder)
	s.Extension = pick("extension", cfg.Extension, s.Extension)
	s.MinifyPostfix = pick("minify-postfix", cfg.MinifyPostfix, s.MinifyPostfix)
	s.Minifier = pick("minifier", cfg.Minifier, s.Minifier)
	return s
}

func newBuilder(cfg *cli.Config, s manifest.Settings, stdout, stderr io.Writer) (*jsbuild.Builder, error) {
	minifier := jsbuild.YUICompressor(jsbuild.DefaultYUIJar)
	if s.Minifier != "" {
		var err error
		minifier, err = jsbuild.ParseCommand(s.Minifier)
		if err != nil {
			return nil, &cli.ExitError{Code: 2, Message: err.Error()}
		}
	}
	minifier.WithStderr(stderr)

	b := jsbuild.NewBuilder().
		WithStdout(stdout).
		WithBuildFolder(s.BuildFolder).
		WithExtension(s.Extension).
		WithMinifyPostfix(s.MinifyPostfix).
		WithMinifier(minifier)
	if s.Separator != "" {
		b.WithSeparator(s.Separator)
	}
	if cfg.IgnoreMinifierErrors {
		b.IgnoreMinifierErrors()
	}
	return b, nil
}
