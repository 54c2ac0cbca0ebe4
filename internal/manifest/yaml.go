package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/Rafaelius/jsbuild"
)

type yamlFile struct {
	BuildFolder   string     `yaml:"build_folder"`
	Extension     string     `yaml:"extension"`
	MinifyPostfix string     `yaml:"minify_postfix"`
	Minifier      string     `yaml:"minifier"`
	Separator     string     `yaml:"separator"`
	Units         []yamlUnit `yaml:"units"`
}

// yamlUnit keeps files as a raw node, because decoding a mapping into a Go
// map would lose its key order.
type yamlUnit struct {
	Name  string    `yaml:"name"`
	Root  string    `yaml:"root"`
	Files yaml.Node `yaml:"files"`
}

func parseYAML(filename string, data []byte) (*Manifest, error) {
	var f yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(&f)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, fmt.Errorf("failed to parse YAML manifest %s: %w", filename, err)
	default:
		var next yaml.Node
		if err := dec.Decode(&next); !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse YAML manifest %s: a manifest holds a single document", filename)
		}
	}

	m := &Manifest{
		Settings: Settings{
			BuildFolder:   f.BuildFolder,
			Extension:     f.Extension,
			MinifyPostfix: f.MinifyPostfix,
			Minifier:      f.Minifier,
			Separator:     f.Separator,
		},
		Units: make([]Unit, 0, len(f.Units)),
	}
	for _, u := range f.Units {
		if u.Files.Kind == 0 {
			return nil, fmt.Errorf("%s: unit %q has no files", filename, u.Name)
		}
		spec, err := specFromNode(&u.Files)
		if err != nil {
			return nil, fmt.Errorf("%s: unit %q: %w", filename, u.Name, err)
		}
		m.Units = append(m.Units, Unit{Name: u.Name, SourceRoot: u.Root, Files: spec})
	}
	return m, nil
}

func specFromNode(n *yaml.Node) (jsbuild.FileSpec, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if isName(n) {
			return jsbuild.Leaf(n.Value), nil
		}
	case yaml.SequenceNode:
		names := make(jsbuild.List, 0, len(n.Content))
		for _, c := range n.Content {
			c = resolveAlias(c)
			if !isName(c) {
				return nil, invalidNode(c, "list elements must be file names")
			}
			names = append(names, c.Value)
		}
		return names, nil
	case yaml.MappingNode:
		group := make(jsbuild.Group, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := resolveAlias(n.Content[i])
			if !isName(key) {
				return nil, invalidNode(key, "group names must be strings")
			}
			spec, err := specFromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			group = append(group, jsbuild.GroupEntry{Name: key.Value, Spec: spec})
		}
		return group, nil
	}
	return nil, invalidNode(n, "")
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isName(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() != "!!null" && n.Value != ""
}

func invalidNode(n *yaml.Node, reason string) error {
	value := n.Value
	if n.Kind != yaml.ScalarNode || value == "" {
		value = n.ShortTag()
	}
	return fmt.Errorf("line %d, column %d: %w", n.Line, n.Column,
		&jsbuild.InvalidSpecError{Value: value, Reason: reason})
}
