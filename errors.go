package jsbuild

import (
	"errors"
	"fmt"
)

// Sentinel errors for each kind of build failure. Every typed error in this
// package matches exactly one of them with errors.Is.
var (
	ErrInvalidSpec = errors.New("invalid file spec")
	ErrDirectory   = errors.New("cannot create build folder")
	ErrFileRead    = errors.New("cannot read source file")
	ErrMinifier    = errors.New("minifier failed")
)

// InvalidSpecError reports a FileSpec value of a shape that can't be expanded.
type InvalidSpecError struct {
	Value  any
	Prefix string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	msg := fmt.Sprintf("%v: %#v", ErrInvalidSpec, e.Value)
	if e.Prefix != "" {
		msg += fmt.Sprintf(" at %q", e.Prefix)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *InvalidSpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// DirectoryError reports a build folder that could not be created, for any
// reason other than it already existing as a directory.
type DirectoryError struct {
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("%v %s: %v", ErrDirectory, e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

func (e *DirectoryError) Is(target error) bool {
	return target == ErrDirectory
}

// FileReadError reports a listed source file that is missing or unreadable.
type FileReadError struct {
	Name string
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("%v %q (%s): %v", ErrFileRead, e.Name, e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

func (e *FileReadError) Is(target error) bool {
	return target == ErrFileRead
}

// MinifierError reports an external minifier that could not be started or
// exited with a non-zero status. Status is -1 when the program never ran.
type MinifierError struct {
	Command string
	Status  int
	Err     error
}

func (e *MinifierError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrMinifier, e.Command, e.Err)
}

func (e *MinifierError) Unwrap() error { return e.Err }

func (e *MinifierError) Is(target error) bool {
	return target == ErrMinifier
}
