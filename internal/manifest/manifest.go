// Package manifest loads build units and build settings from declarative
// manifest files, written in YAML or HCL.
//
// Both formats keep the order in which files and groups are declared, since
// that order is the order the files are concatenated in.
package manifest

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rafaelius/jsbuild"
	"github.com/Rafaelius/jsbuild/internal/ctxlog"
)

// Settings are build options a manifest may set. Empty fields are unset.
type Settings struct {
	BuildFolder   string
	Extension     string
	MinifyPostfix string
	Minifier      string
	Separator     string
}

// Unit is one build unit: the output name, the folder its sources live in,
// and the files it is made of.
type Unit struct {
	Name       string
	SourceRoot string
	Files      jsbuild.FileSpec
}

// Manifest is everything loaded from one or more manifest files.
type Manifest struct {
	Settings Settings
	Units    []Unit
}

// Extensions lists the file extensions Load recognises.
var Extensions = []string{".yaml", ".yml", ".hcl"}

// Load reads the manifest at path. If path is a directory, every manifest file
// beneath it is loaded in lexical order: units are appended, and settings in
// later files override those in earlier ones.
func Load(ctx context.Context, path string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	files := []string{path}
	if info.IsDir() {
		files, err = findManifests(path)
		if err != nil {
			return nil, fmt.Errorf("failed to find manifests in %s: %w", path, err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no manifest files found in %s", path)
		}
	}

	m := &Manifest{}
	for _, file := range files {
		logger.Debug("Loading manifest.", "path", file)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest %s: %w", file, err)
		}
		part, err := Parse(file, data)
		if err != nil {
			return nil, err
		}
		m.Settings.merge(part.Settings)
		m.Units = append(m.Units, part.Units...)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	logger.Debug("Manifest loaded.", "units", len(m.Units))
	return m, nil
}

// Parse decodes manifest data, choosing the format by filename's extension.
func Parse(filename string, data []byte) (*Manifest, error) {
	var (
		m   *Manifest
		err error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		m, err = parseYAML(filename, data)
	case ".hcl":
		m, err = parseHCL(filename, data)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filename)
	}
	if err != nil {
		return nil, err
	}
	for i := range m.Units {
		if m.Units[i].SourceRoot == "" {
			m.Units[i].SourceRoot = jsbuild.DefaultSourceRoot
		}
	}
	return m, nil
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Units))
	for _, u := range m.Units {
		if u.Name == "" {
			return fmt.Errorf("manifest unit has no name")
		}
		if seen[u.Name] {
			return fmt.Errorf("duplicate manifest unit %q", u.Name)
		}
		seen[u.Name] = true
	}
	return nil
}

func (s *Settings) merge(o Settings) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&s.BuildFolder, o.BuildFolder)
	set(&s.Extension, o.Extension)
	set(&s.MinifyPostfix, o.MinifyPostfix)
	set(&s.Minifier, o.Minifier)
	set(&s.Separator, o.Separator)
}

func findManifests(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(d.Name()))
		for _, want := range Extensions {
			if ext == want {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
