package jsbuild

import (
	"io"
	"os"
)

// String returns the contents of the pipe as a string, and closes the pipe
// after reading. If there is an error reading, the pipe's error status is
// also set.
func (p *Pipe) String() (string, error) {
	data, err := p.Bytes()
	return string(data), err
}

// Bytes returns the contents of the pipe as a []byte, and closes the pipe
// after reading. If there is an error reading, the pipe's error status is
// also set.
func (p *Pipe) Bytes() ([]byte, error) {
	if p.Error() != nil {
		return nil, p.Error()
	}
	defer p.Close()
	data, err := io.ReadAll(p)
	if err != nil {
		p.SetError(err)
		return nil, err
	}
	return data, nil
}

// WriteFile writes the contents of the pipe to the named file, replacing any
// existing contents, and closes the pipe after reading. It returns the number
// of bytes written. If reading fails part way, whatever was written so far
// stays in the file, and the pipe's error status is set.
func (p *Pipe) WriteFile(name string) (int64, error) {
	return p.writeOrAppendFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendFile appends the contents of the pipe to the named file, creating it
// if necessary, and closes the pipe after reading. It returns the number of
// bytes written.
func (p *Pipe) AppendFile(name string) (int64, error) {
	return p.writeOrAppendFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func (p *Pipe) writeOrAppendFile(name string, flag int) (int64, error) {
	if p.Error() != nil {
		return 0, p.Error()
	}
	defer p.Close()
	out, err := os.OpenFile(name, flag, 0o644)
	if err != nil {
		p.SetError(err)
		return 0, err
	}
	wrote, err := io.Copy(out, p)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		p.SetError(err)
		return wrote, err
	}
	return wrote, nil
}
