package jsbuild_test

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Rafaelius/jsbuild"
	"github.com/google/go-cmp/cmp"
)

func TestNilPipeIsSafeToUse(t *testing.T) {
	t.Parallel()
	var p *jsbuild.Pipe
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic using nil pipe: %v", r)
		}
	}()
	if p.Error() != nil {
		t.Errorf("want nil error, got %v", p.Error())
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
	if n, err := p.Read(make([]byte, 1)); n != 0 || err != io.EOF {
		t.Errorf("want 0, io.EOF; got %d, %v", n, err)
	}
	got, err := p.String()
	if err != nil || got != "" {
		t.Errorf("want empty string and no error, got %q, %v", got, err)
	}
	if p.ExitStatus() != 0 {
		t.Errorf("want exit status 0, got %d", p.ExitStatus())
	}
	p.SetError(errors.New("ignored"))
	if p.WithReader(strings.NewReader("x")) != nil {
		t.Error("want nil pipe from WithReader on nil pipe")
	}
}

func TestZeroPipeReadsAsEmpty(t *testing.T) {
	t.Parallel()
	got, err := (&jsbuild.Pipe{}).String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("want empty, got %q", got)
	}
}

func TestFileReadsWholeContents(t *testing.T) {
	t.Parallel()
	got, err := jsbuild.File("testdata/hello.txt").String()
	if err != nil {
		t.Fatal(err)
	}
	if want := "hello world\n"; want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestFileNonexistentSetsErrorStatusAndSinksReturnIt(t *testing.T) {
	t.Parallel()
	p := jsbuild.File("testdata/doesntexist.txt")
	if !errors.Is(p.Error(), os.ErrNotExist) {
		t.Fatalf("want ErrNotExist, got %v", p.Error())
	}
	if _, err := p.String(); err != p.Error() {
		t.Errorf("String: want pipe error, got %v", err)
	}
	out := filepath.Join(t.TempDir(), "out")
	if _, err := p.WriteFile(out); err != p.Error() {
		t.Errorf("WriteFile: want pipe error, got %v", err)
	}
	if _, err := os.Stat(out); !errors.Is(err, os.ErrNotExist) {
		t.Error("WriteFile on an erroring pipe should not create the file")
	}
}

func TestStringClosesPipeAfterReading(t *testing.T) {
	t.Parallel()
	p := jsbuild.File("testdata/hello.txt")
	if _, err := p.String(); err != nil {
		t.Fatal(err)
	}
	if _, err := p.String(); err == nil {
		t.Fatal("want error reading a closed pipe")
	}
	if p.Error() == nil {
		t.Error("want error status set after reading a closed pipe")
	}
}

func TestWithErrorSetsErrorStatus(t *testing.T) {
	t.Parallel()
	e := errors.New("fake error")
	p := jsbuild.NewPipe().WithError(e)
	if p.Error() != e {
		t.Errorf("want %v, got %v", e, p.Error())
	}
	p.SetError(nil)
	if p.Error() != nil {
		t.Errorf("want nil after clearing, got %v", p.Error())
	}
}

func TestWriteFileReplacesAndAppendFileAppends(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	if err := os.WriteFile(path, []byte("old contents\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	wrote, err := jsbuild.NewPipe().WithReader(strings.NewReader("one\n")).WriteFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if wrote != 4 {
		t.Errorf("want 4 bytes written, got %d", wrote)
	}
	if _, err := jsbuild.NewPipe().WithReader(strings.NewReader("two\n")).AppendFile(path); err != nil {
		t.Fatal(err)
	}
	want := "one\ntwo\n"
	got := readFile(t, path)
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestFilesReadsContentUpToTheFirstMissingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeSources(t, dir, source{"a", "A"})
	unit = append(unit, jsbuild.Entry{Name: "gone", Path: filepath.Join(dir, "gone.js")})
	got, err := io.ReadAll(jsbuild.Files(unit, "|"))
	if !errors.Is(err, jsbuild.ErrFileRead) {
		t.Fatalf("want ErrFileRead, got %v", err)
	}
	if string(got) != "A|" {
		t.Errorf("want %q before the error, got %q", "A|", got)
	}
}

func TestFilesOpensSourcesOnlyWhenReached(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeSources(t, dir, source{"a", "A"}, source{"b", "B"})
	p := jsbuild.Files(unit, "")
	// Removing a source before reading it must be noticed at read time.
	if err := os.Remove(unit[1].Path); err != nil {
		t.Fatal(err)
	}
	_, err := p.String()
	var readErr *jsbuild.FileReadError
	if !errors.As(err, &readErr) || readErr.Name != "b" {
		t.Fatalf("want *FileReadError for b, got %v", err)
	}
}

func TestFilesEmptyReadReturnsImmediately(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeSources(t, dir, source{"a", "A"})
	p := jsbuild.Files(unit, "\n")
	done := make(chan struct{})
	go func() {
		defer close(done)
		if n, err := p.Read(nil); n != 0 || err != nil {
			t.Errorf("want 0, nil; got %d, %v", n, err)
		}
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("empty read did not return")
	}
	got, err := p.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "A\n" {
		t.Errorf("want %q, got %q", "A\n", got)
	}
}

func TestFilesFailsReadsAfterClose(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeSources(t, dir, source{"a", "A"}, source{"b", "B"})
	p := jsbuild.Files(unit, "\n")
	buf := make([]byte, 1)
	if _, err := p.Read(buf); err != nil {
		t.Fatal(err)
	}
	p.Close()
	if _, err := p.Read(buf); !errors.Is(err, os.ErrClosed) {
		t.Errorf("want os.ErrClosed, got %v", err)
	}
}

func TestExecCapturesStandardOutput(t *testing.T) {
	t.Parallel()
	p := jsbuild.NewPipe().
		WithEnv("JSBUILD_TEST_MINIFIER=args").
		Exec(context.Background(), os.Args[0], "one", "two")
	got, err := p.String()
	if err != nil {
		t.Fatal(err)
	}
	if want := "one\ntwo\n"; want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestExecRecordsExitStatusAndKeepsOutput(t *testing.T) {
	t.Parallel()
	p := jsbuild.NewPipe().
		WithEnv("JSBUILD_TEST_MINIFIER=fail").
		WithStderr(io.Discard).
		Exec(context.Background(), os.Args[0])
	var exitErr *exec.ExitError
	if !errors.As(p.Error(), &exitErr) {
		t.Fatalf("want *exec.ExitError, got %v", p.Error())
	}
	if p.ExitStatus() != 3 {
		t.Errorf("want exit status 3, got %d", p.ExitStatus())
	}
	p.SetError(nil)
	got, err := p.String()
	if err != nil {
		t.Fatal(err)
	}
	if got != "partial" {
		t.Errorf("want %q, got %q", "partial", got)
	}
}

func TestExecOfMissingProgramSetsError(t *testing.T) {
	t.Parallel()
	p := jsbuild.Exec(context.Background(), "jsbuild-no-such-program")
	if p.Error() == nil {
		t.Fatal("want error running a program that doesn't exist")
	}
	if p.ExitStatus() != 0 {
		t.Errorf("want exit status 0 for a program that never ran, got %d", p.ExitStatus())
	}
}

func TestExecOnErroringPipeDoesNothing(t *testing.T) {
	t.Parallel()
	e := errors.New("earlier failure")
	p := jsbuild.NewPipe().WithError(e).Exec(context.Background(), "jsbuild-no-such-program")
	if p.Error() != e {
		t.Errorf("want earlier error preserved, got %v", p.Error())
	}
}
