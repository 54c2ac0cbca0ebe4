package jsbuild_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Rafaelius/jsbuild"
	"github.com/google/go-cmp/cmp"
)

func TestCommandMinifierAppendsProgramOutputToOutputFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	unit := writeSources(t, dir, source{"in", "var  a =\n  1;\n"})
	out := filepath.Join(dir, "in.min.js")
	m := fakeMinifier("squeeze")
	for i := 0; i < 2; i++ {
		if err := m.Minify(context.Background(), unit[0].Path, out); err != nil {
			t.Fatal(err)
		}
	}
	want := "var a = 1;var a = 1;"
	got := readFile(t, out)
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestCommandMinifierExpandsInputTemplateInArguments(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	m := fakeMinifier("args", "--in={{.Input}}", "--warn")
	if err := m.Minify(context.Background(), "Build/x.js", out); err != nil {
		t.Fatal(err)
	}
	want := "--in=Build/x.js\n--warn\n"
	got := readFile(t, out)
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestCommandMinifierPassesInputLastWhenNoArgumentMentionsIt(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	m := fakeMinifier("args", "--charset", "utf8")
	if err := m.Minify(context.Background(), "Build/x.js", out); err != nil {
		t.Fatal(err)
	}
	want := "--charset\nutf8\nBuild/x.js\n"
	got := readFile(t, out)
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestCommandMinifierPassesInputLastWhenArgumentsOnlyLookLikeTheTemplate(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	m := fakeMinifier("args", "--out=my.Input.log", "{{/* .Input */}}")
	if err := m.Minify(context.Background(), "Build/x.js", out); err != nil {
		t.Fatal(err)
	}
	want := "--out=my.Input.log\n\nBuild/x.js\n"
	got := readFile(t, out)
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestCommandMinifierFailureIsMinifierErrorWithExitStatus(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	err := fakeMinifier("fail").Minify(context.Background(), "in.js", out)
	if !errors.Is(err, jsbuild.ErrMinifier) {
		t.Fatalf("want ErrMinifier, got %v", err)
	}
	if status := jsbuild.ExitStatus(err); status != 3 {
		t.Errorf("want exit status 3, got %d", status)
	}
	// Output is appended regardless, like a shell redirection.
	if got := readFile(t, out); got != "partial" {
		t.Errorf("want %q, got %q", "partial", got)
	}
}

func TestCommandMinifierMissingProgramIsMinifierError(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	err := jsbuild.NewCommandMinifier("jsbuild-no-such-minifier").Minify(context.Background(), "in.js", out)
	if !errors.Is(err, jsbuild.ErrMinifier) {
		t.Fatalf("want ErrMinifier, got %v", err)
	}
	if status := jsbuild.ExitStatus(err); status != -1 {
		t.Errorf("want exit status -1, got %d", status)
	}
}

func TestCommandMinifierBadTemplateIsMinifierError(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "out")
	err := fakeMinifier("args", "{{.Input").Minify(context.Background(), "in.js", out)
	if !errors.Is(err, jsbuild.ErrMinifier) {
		t.Fatalf("want ErrMinifier, got %v", err)
	}
}

func TestParseCommandSplitsUsingShellQuoting(t *testing.T) {
	t.Parallel()
	m, err := jsbuild.ParseCommand(`java -jar "my tools/yui.jar" --warn '{{.Input}}'`)
	if err != nil {
		t.Fatal(err)
	}
	if m.Name != "java" {
		t.Errorf("want name java, got %q", m.Name)
	}
	want := []string{"-jar", "my tools/yui.jar", "--warn", "{{.Input}}"}
	if !cmp.Equal(want, m.Args) {
		t.Error(cmp.Diff(want, m.Args))
	}
}

func TestParseCommandRejectsBadCommandLines(t *testing.T) {
	t.Parallel()
	for _, line := range []string{"", "   ", "java -jar 'yui.jar"} {
		if _, err := jsbuild.ParseCommand(line); err == nil {
			t.Errorf("ParseCommand(%q): want error", line)
		}
	}
}

func TestYUICompressorRunsTheLegacyCommand(t *testing.T) {
	t.Parallel()
	m := jsbuild.YUICompressor("yui.jar")
	got := m.String()
	want := "java -jar yui.jar --warn --charset utf8 {{.Input}}"
	if want != got {
		t.Error(cmp.Diff(want, got))
	}
}

func TestExitStatusOfOtherErrorsIsZero(t *testing.T) {
	t.Parallel()
	if status := jsbuild.ExitStatus(errors.New("other")); status != 0 {
		t.Errorf("want 0, got %d", status)
	}
}
