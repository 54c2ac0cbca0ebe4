// Package jsbuild joins declared lists of JavaScript source files into a
// single file per build unit, and runs an external minifier over the result.
//
// A build unit's files are described by a FileSpec, which is a name (Leaf), a
// list of names (List), or a Group of named directories holding further
// specs:
//
//	spec := jsbuild.Group{
//		{Name: "Core", Spec: jsbuild.List{"Meio.Mask", "Meio.Mask.Fixed"}},
//		{Name: "Extras", Spec: jsbuild.Leaf("Meio.Mask.Extras")},
//	}
//	res, err := jsbuild.NewBuilder().Build(ctx, "Meio.Mask", spec, "Source/")
//
// This reads Source/Core/Meio.Mask.js, Source/Core/Meio.Mask.Fixed.js and
// Source/Extras/Meio.Mask.Extras.js, in that order, writes them to
// Build/Meio.Mask.js, and appends the minifier's output to
// Build/Meio.Mask.min.js.
//
// The lower-level pieces are available too: Expand flattens a FileSpec,
// Concatenate writes a BuildUnit to a file, and Pipe, with its sources and
// sinks, is what both are built from.
package jsbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Defaults used by NewBuilder.
const (
	DefaultSourceRoot    = "Source/"
	DefaultBuildFolder   = "Build/"
	DefaultExtension     = "js"
	DefaultMinifyPostfix = "min"
)

// Builder builds units into its build folder. A Builder holds configuration
// only; nothing carries over from one Build call to the next.
type Builder struct {
	buildFolder          string
	extension            string
	minifyPostfix        string
	separator            string
	minifier             Minifier
	ignoreMinifierErrors bool
	stdout               io.Writer
	logger               *slog.Logger
}

// Result describes a completed build.
type Result struct {
	Unit         string
	Entries      BuildUnit
	Concatenated string
	Minified     string
	// MinifierErr is the minifier failure that was ignored, if any.
	MinifierErr error
}

// NewBuilder returns a Builder with the legacy defaults: build folder
// "Build/", extension "js", minified suffix "min", a CRLF separator, and the
// YUI compressor at DefaultYUIJar.
func NewBuilder() *Builder {
	return &Builder{
		buildFolder:   DefaultBuildFolder,
		extension:     DefaultExtension,
		minifyPostfix: DefaultMinifyPostfix,
		separator:     DefaultLineSeparator,
		minifier:      YUICompressor(DefaultYUIJar),
		stdout:        os.Stdout,
		logger:        slog.Default(),
	}
}

// WithBuildFolder sets the folder outputs are written to.
func (b *Builder) WithBuildFolder(dir string) *Builder {
	b.buildFolder = dir
	return b
}

// WithExtension sets the file extension of sources and outputs, with or
// without a leading dot.
func (b *Builder) WithExtension(ext string) *Builder {
	b.extension = strings.TrimPrefix(ext, ".")
	return b
}

// WithMinifyPostfix sets the suffix inserted before the extension of the
// minified output.
func (b *Builder) WithMinifyPostfix(postfix string) *Builder {
	b.minifyPostfix = postfix
	return b
}

// WithSeparator sets what is written after each concatenated file.
func (b *Builder) WithSeparator(sep string) *Builder {
	b.separator = sep
	return b
}

// WithMinifier sets the minifier run over each concatenated file.
func (b *Builder) WithMinifier(m Minifier) *Builder {
	b.minifier = m
	return b
}

// IgnoreMinifierErrors makes a failing minifier a logged warning instead of
// a build failure, as the legacy build script behaved.
func (b *Builder) IgnoreMinifierErrors() *Builder {
	b.ignoreMinifierErrors = true
	return b
}

// WithStdout sets where status messages are printed, instead of os.Stdout.
func (b *Builder) WithStdout(w io.Writer) *Builder {
	b.stdout = w
	return b
}

// WithLogger sets the logger for diagnostic output.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) ext() string {
	if b.extension == "" {
		return ""
	}
	return "." + b.extension
}

// OutputPaths returns where the concatenated and minified files for unitName
// are written. The build folder is a directory, with or without a trailing
// separator, and is joined with filepath.Join. Source paths are different:
// Expand builds them by plain concatenation, so a source root keeps whatever
// separator it ends in.
func (b *Builder) OutputPaths(unitName string) (concatenated, minified string) {
	concatenated = filepath.Join(b.buildFolder, unitName+b.ext())
	minified = filepath.Join(b.buildFolder, unitName+"."+b.minifyPostfix+b.ext())
	return concatenated, minified
}

// EnsureBuildFolder creates the build folder. A folder that already exists is
// left as it is.
func (b *Builder) EnsureBuildFolder() error {
	err := os.Mkdir(b.buildFolder, 0o755)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		info, statErr := os.Stat(b.buildFolder)
		if statErr == nil && info.IsDir() {
			return nil
		}
		if statErr == nil {
			statErr = errors.New("not a directory")
		}
		err = statErr
	}
	return &DirectoryError{Path: b.buildFolder, Err: err}
}

// Build concatenates the files spec describes, under sourceRoot, into the
// build folder, then runs the minifier on the result.
func (b *Builder) Build(ctx context.Context, unitName string, spec FileSpec, sourceRoot string) (*Result, error) {
	logger := b.logger.With("unit", unitName)
	if err := b.EnsureBuildFolder(); err != nil {
		return nil, err
	}
	unit, err := Expand(spec, sourceRoot, "", b.ext())
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", unitName, err)
	}
	logger.Debug("Expanded file spec.", "files", len(unit))

	fmt.Fprintf(b.stdout, "Starting to build %s files...\n", unitName)
	concatenated, minified := b.OutputPaths(unitName)
	if err := Concatenate(unit, concatenated, b.separator); err != nil {
		return nil, fmt.Errorf("building %s: %w", unitName, err)
	}
	fmt.Fprintf(b.stdout, "** Successfully created \"%s\" file. **\n", concatenated)

	res := &Result{
		Unit:         unitName,
		Entries:      unit,
		Concatenated: concatenated,
		Minified:     minified,
	}
	if err := b.minifier.Minify(ctx, concatenated, minified); err != nil {
		if !b.ignoreMinifierErrors || !errors.Is(err, ErrMinifier) {
			return nil, fmt.Errorf("building %s: %w", unitName, err)
		}
		logger.Warn("Ignoring minifier failure.", "error", err, "status", ExitStatus(err))
		res.MinifierErr = err
	}
	fmt.Fprintln(b.stdout, "** Successfully created minified file. **")
	fmt.Fprintln(b.stdout)
	logger.Info("Built unit.", "output", concatenated, "minified", minified)
	return res, nil
}
