// Package cli parses and validates command-line arguments into a Config, and
// carries the exit code a failure should end the process with.
package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is an error that ends the process with a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// Config holds everything the command line can set.
type Config struct {
	ManifestPath         string
	BuildFolder          string
	Extension            string
	MinifyPostfix        string
	Minifier             string
	IgnoreMinifierErrors bool
	LogLevel             string
	LogFormat            string

	// Explicit records the names of flags given on the command line, so
	// they can take precedence over manifest settings.
	Explicit map[string]bool
}

// IsSet reports whether the named flag was given explicitly.
func (c *Config) IsSet(name string) bool {
	return c.Explicit[name]
}

// Parse processes command-line arguments. It returns the Config, whether the
// program should exit straight away with success (after printing help), or
// an *ExitError for invalid input.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("jsbuild", flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = func() {
		fmt.Fprint(output, `
jsbuild - concatenate JavaScript sources and minify the result.

Usage:
  jsbuild [options] [MANIFEST]

With no manifest, builds Meio.Mask from Source/ into Build/.

Arguments:
  MANIFEST
    A .yaml, .yml or .hcl manifest, or a directory of them.

Options:
`)
		flagSet.PrintDefaults()
	}

	manifestFlag := flagSet.String("manifest", "", "Path to a manifest file or directory.")
	buildFolderFlag := flagSet.String("build-folder", "Build/", "Folder to write outputs to.")
	extensionFlag := flagSet.String("extension", "js", "Extension of source and output files.")
	postfixFlag := flagSet.String("minify-postfix", "min", "Suffix of the minified output, before the extension.")
	minifierFlag := flagSet.String("minifier", "", "Minifier command line. {{.Input}} is the file to minify. Defaults to the YUI compressor.")
	ignoreFlag := flagSet.Bool("ignore-minifier-errors", false, "Report success even if the minifier fails.")
	logLevelFlag := flagSet.String("log-level", "warn", "Logging level. Options: 'debug', 'info', 'warn', 'error'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := *manifestFlag
	switch {
	case flagSet.NArg() > 1:
		return nil, false, &ExitError{Code: 2, Message: "too many arguments: expected at most one manifest"}
	case flagSet.NArg() == 1 && path != "":
		return nil, false, &ExitError{Code: 2, Message: "manifest given both as -manifest and as an argument"}
	case flagSet.NArg() == 1:
		path = flagSet.Arg(0)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	if *buildFolderFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "invalid build-folder: must not be empty"}
	}

	explicit := make(map[string]bool)
	flagSet.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	config := &Config{
		ManifestPath:         path,
		BuildFolder:          *buildFolderFlag,
		Extension:            *extensionFlag,
		MinifyPostfix:        *postfixFlag,
		Minifier:             *minifierFlag,
		IgnoreMinifierErrors: *ignoreFlag,
		LogLevel:             logLevel,
		LogFormat:            logFormat,
		Explicit:             explicit,
	}
	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
