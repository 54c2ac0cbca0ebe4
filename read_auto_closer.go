package jsbuild

import "io"

// ReadAutoCloser wraps a reader and closes it as soon as reading stops,
// whether at end of input or on a read error. This keeps at most one source
// file open at a time while a BuildUnit is being concatenated.
type ReadAutoCloser struct {
	r io.ReadCloser
}

// NewReadAutoCloser returns a ReadAutoCloser for r. Readers that cannot be
// closed get a no-op Close.
func NewReadAutoCloser(r io.Reader) ReadAutoCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return ReadAutoCloser{rc}
	}
	return ReadAutoCloser{io.NopCloser(r)}
}

// Read reads from the wrapped reader, closing it once Read returns any error,
// including io.EOF.
func (a ReadAutoCloser) Read(b []byte) (int, error) {
	if a.r == nil {
		return 0, io.EOF
	}
	n, err := a.r.Read(b)
	if err != nil {
		a.Close()
	}
	return n, err
}

// Close closes the wrapped reader.
func (a ReadAutoCloser) Close() error {
	if a.r == nil {
		return nil
	}
	return a.r.Close()
}
