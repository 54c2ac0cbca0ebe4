package jsbuild

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"
)

// File returns a pipe reading the named file. If the file can't be opened,
// the pipe's error status is set.
func File(name string) *Pipe {
	p := NewPipe()
	f, err := os.Open(name)
	if err != nil {
		return p.WithError(err)
	}
	return p.WithReader(f)
}

// Files returns a pipe that reads every file in unit, in order, writing
// separator after the contents of each one. Files are opened one at a time,
// only when the previous file has been read to the end. Reading stops at the
// first file that can't be opened or read, with a *FileReadError.
func Files(unit BuildUnit, separator string) *Pipe {
	return NewPipe().WithReader(&unitReader{unit: unit, sep: separator})
}

// unitReader reads the files of a BuildUnit in sequence.
type unitReader struct {
	unit BuildUnit
	sep  string
	next int
	cur  io.Reader
	file ReadAutoCloser
	err  error
}

func (r *unitReader) Read(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, r.err
	}
	for r.err == nil {
		if r.cur == nil {
			if r.next == len(r.unit) {
				return 0, io.EOF
			}
			r.open(r.unit[r.next])
			r.next++
			continue
		}
		n, err := r.cur.Read(b)
		if err == io.EOF {
			r.cur = nil
			r.file = ReadAutoCloser{}
			err = nil
		}
		if err != nil {
			r.fail(r.unit[r.next-1], err)
		}
		if n > 0 {
			return n, nil
		}
	}
	return 0, r.err
}

func (r *unitReader) open(e Entry) {
	f, err := os.Open(e.Path)
	if err != nil {
		r.fail(e, err)
		return
	}
	r.file = NewReadAutoCloser(f)
	r.cur = io.MultiReader(r.file, strings.NewReader(r.sep))
}

func (r *unitReader) fail(e Entry, err error) {
	r.release()
	r.err = &FileReadError{Name: e.Name, Path: e.Path, Err: err}
}

func (r *unitReader) release() error {
	err := r.file.Close()
	r.file = ReadAutoCloser{}
	r.cur = nil
	return err
}

// Close releases any source file still open. Reads after Close fail.
func (r *unitReader) Close() error {
	if r.err == nil {
		r.err = os.ErrClosed
	}
	return r.release()
}

// Exec runs the named program with args and returns a pipe containing its
// standard output. Standard error goes to os.Stderr; use NewPipe().WithStderr
// followed by the Exec method to redirect it. If the command can't be started
// or exits with a non-zero status, the pipe's error status is set, but the
// output it produced is still readable once the error is cleared.
func Exec(ctx context.Context, name string, args ...string) *Pipe {
	return NewPipe().Exec(ctx, name, args...)
}

// Exec runs a command as described by the Exec function, using the pipe's
// configured standard error. The pipe's own contents are not used.
func (p *Pipe) Exec(ctx context.Context, name string, args ...string) *Pipe {
	if p == nil || p.Error() != nil {
		return p
	}
	q := NewPipe().WithStderr(p.stderr)
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = p.stderr
	cmd.Env = p.env
	if err := cmd.Run(); err != nil {
		q.SetError(err)
	}
	return q.WithReader(&out)
}
