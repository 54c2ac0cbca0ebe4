package jsbuild

import (
	"errors"
	"io"
	"os"
	"os/exec"
)

// Pipe represents a stream of bytes with an attached error status. Once a
// pipe operation fails, the error is recorded and later operations on the
// same pipe do nothing, so a whole chain can be checked once at the end:
//
//	_, err := Files(unit, "\n").WriteFile("Build/all.js")
//
// Nil and zero-value pipes are safe to use and read as empty.
type Pipe struct {
	Reader ReadAutoCloser
	err    error
	stderr io.Writer
	env    []string
}

// NewPipe returns a pointer to a new empty pipe.
func NewPipe() *Pipe {
	return &Pipe{
		Reader: ReadAutoCloser{},
		stderr: os.Stderr,
	}
}

// Close closes the pipe's associated reader. It is always safe to call.
func (p *Pipe) Close() error {
	if p == nil {
		return nil
	}
	return p.Reader.Close()
}

// Error returns the error recorded by the last failed pipe operation, or nil.
func (p *Pipe) Error() error {
	if p == nil {
		return nil
	}
	return p.err
}

// ExitStatus returns the exit status of a command run by Exec, if the pipe's
// error status records one. Otherwise it returns zero.
func (p *Pipe) ExitStatus() int {
	var exitErr *exec.ExitError
	if errors.As(p.Error(), &exitErr) {
		return exitErr.ExitCode()
	}
	return 0
}

// Read reads up to len(b) bytes from the pipe into b. At end of input, or on
// a nil pipe, Read returns 0, io.EOF.
func (p *Pipe) Read(b []byte) (int, error) {
	if p == nil {
		return 0, io.EOF
	}
	return p.Reader.Read(b)
}

// SetError sets the pipe's error status. Setting a non-nil error also closes
// the pipe's reader.
func (p *Pipe) SetError(err error) {
	if p == nil {
		return
	}
	if err != nil {
		p.Close()
	}
	p.err = err
}

// WithReader associates the pipe with r. If r is closable, it is closed
// automatically once it has been read to the end.
func (p *Pipe) WithReader(r io.Reader) *Pipe {
	if p == nil {
		return nil
	}
	p.Reader = NewReadAutoCloser(r)
	return p
}

// WithStderr sets where commands run by the pipe send their standard error,
// instead of the default os.Stderr.
func (p *Pipe) WithStderr(w io.Writer) *Pipe {
	if p == nil {
		return nil
	}
	p.stderr = w
	return p
}

// WithEnv adds environment variables, in "KEY=value" form, to those that
// commands run by the pipe inherit from the current process.
func (p *Pipe) WithEnv(vars ...string) *Pipe {
	if p == nil {
		return nil
	}
	if p.env == nil {
		p.env = os.Environ()
	}
	p.env = append(p.env, vars...)
	return p
}

// WithError sets the pipe's error status and returns the pipe.
func (p *Pipe) WithError(err error) *Pipe {
	p.SetError(err)
	return p
}
