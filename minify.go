package jsbuild

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/shell"
)

// A Minifier compresses the file at inputPath and appends the result to
// outputPath.
type Minifier interface {
	Minify(ctx context.Context, inputPath, outputPath string) error
}

// DefaultYUIJar is where the legacy build expects the YUI compressor.
const DefaultYUIJar = "../../assets/yui-compressor/yui.jar"

// CommandMinifier runs an external program as a Minifier. Each argument is a
// text/template, executed with the input path as {{.Input}}. If no argument
// uses the input, it is passed as the last argument. Whatever the program
// writes to standard output is appended to the output file, even if it fails.
type CommandMinifier struct {
	Name   string
	Args   []string
	env    []string
	stderr io.Writer
}

// commandData is the template data for minifier arguments. It records
// whether any argument used the input path.
type commandData struct {
	input string
	used  bool
}

// Input returns the path of the file to minify.
func (d *commandData) Input() string {
	d.used = true
	return d.input
}

// NewCommandMinifier returns a CommandMinifier running name with args.
func NewCommandMinifier(name string, args ...string) *CommandMinifier {
	return &CommandMinifier{
		Name:   name,
		Args:   args,
		stderr: os.Stderr,
	}
}

// ParseCommand splits a command line using shell quoting rules, and returns
// a CommandMinifier for it. Environment variables in the line are expanded.
func ParseCommand(cmdLine string) (*CommandMinifier, error) {
	args, err := shell.Fields(cmdLine, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing minifier command %q: %w", cmdLine, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty minifier command %q", cmdLine)
	}
	return NewCommandMinifier(args[0], args[1:]...), nil
}

// YUICompressor returns the minifier the legacy build used: the YUI
// compressor jar at jarPath, run with warnings on and UTF-8 input.
func YUICompressor(jarPath string) *CommandMinifier {
	return NewCommandMinifier("java", "-jar", jarPath, "--warn", "--charset", "utf8", "{{.Input}}")
}

// WithEnv adds environment variables, in "KEY=value" form, for the program.
func (m *CommandMinifier) WithEnv(vars ...string) *CommandMinifier {
	m.env = append(m.env, vars...)
	return m
}

// WithStderr sets where the program's standard error goes, instead of the
// default os.Stderr.
func (m *CommandMinifier) WithStderr(w io.Writer) *CommandMinifier {
	m.stderr = w
	return m
}

func (m *CommandMinifier) String() string {
	return strings.Join(append([]string{m.Name}, m.Args...), " ")
}

func (m *CommandMinifier) argv(input string) ([]string, error) {
	args := make([]string, 0, len(m.Args)+1)
	data := &commandData{input: input}
	for _, arg := range m.Args {
		tpl, err := template.New(m.Name).Parse(arg)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		if err := tpl.Execute(&b, data); err != nil {
			return nil, err
		}
		args = append(args, b.String())
	}
	if !data.used {
		args = append(args, input)
	}
	return args, nil
}

// Minify runs the program on inputPath and appends its standard output to
// outputPath. A program that can't be started or exits with a non-zero status
// is a *MinifierError.
func (m *CommandMinifier) Minify(ctx context.Context, inputPath, outputPath string) error {
	args, err := m.argv(inputPath)
	if err != nil {
		return &MinifierError{Command: m.String(), Status: -1, Err: err}
	}
	p := NewPipe().WithStderr(m.stderr)
	if len(m.env) > 0 {
		p = p.WithEnv(m.env...)
	}
	q := p.Exec(ctx, m.Name, args...)
	runErr, status := q.Error(), q.ExitStatus()
	q.SetError(nil)
	if _, err := q.AppendFile(outputPath); err != nil {
		return fmt.Errorf("writing minified output: %w", err)
	}
	if runErr == nil {
		return nil
	}
	if status == 0 {
		status = -1
	}
	return &MinifierError{Command: m.String(), Status: status, Err: runErr}
}

// ExitStatus returns the exit status carried by a *MinifierError in err's
// chain, or zero if there is none.
func ExitStatus(err error) int {
	var merr *MinifierError
	if errors.As(err, &merr) {
		return merr.Status
	}
	return 0
}
