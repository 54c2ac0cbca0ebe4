package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/Rafaelius/jsbuild"
)

// hclFile is the top-level structure of an HCL manifest.
type hclFile struct {
	Build *hclBuild  `hcl:"build,block"`
	Units []*hclUnit `hcl:"unit,block"`
}

type hclBuild struct {
	Folder        string `hcl:"folder,optional"`
	Extension     string `hcl:"extension,optional"`
	MinifyPostfix string `hcl:"minify_postfix,optional"`
	Minifier      string `hcl:"minifier,optional"`
	Separator     string `hcl:"separator,optional"`
}

type hclUnit struct {
	Name   string         `hcl:"name,label"`
	Root   string         `hcl:"root,optional"`
	Files  hcl.Expression `hcl:"files,optional"`
	Groups []*hclGroup    `hcl:"group,block"`
}

type hclGroup struct {
	Name   string         `hcl:"name,label"`
	Files  hcl.Expression `hcl:"files,optional"`
	Groups []*hclGroup    `hcl:"group,block"`
}

func parseHCL(filename string, data []byte) (*Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL manifest %s: %w", filename, diags)
	}

	var parsed hclFile
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL manifest %s: %w", filename, diags)
	}

	m := &Manifest{Units: make([]Unit, 0, len(parsed.Units))}
	if b := parsed.Build; b != nil {
		m.Settings = Settings{
			BuildFolder:   b.Folder,
			Extension:     b.Extension,
			MinifyPostfix: b.MinifyPostfix,
			Minifier:      b.Minifier,
			Separator:     b.Separator,
		}
	}
	for _, u := range parsed.Units {
		spec, err := bodySpec(u.Files, u.Groups)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", u.Name, err)
		}
		m.Units = append(m.Units, Unit{Name: u.Name, SourceRoot: u.Root, Files: spec})
	}
	return m, nil
}

// bodySpec builds the FileSpec of a unit or group body, which holds either a
// files attribute or nested group blocks. An absent files attribute decodes
// as a null expression ranging over the end of its block.
func bodySpec(files hcl.Expression, groups []*hclGroup) (jsbuild.FileSpec, error) {
	rng := files.Range()
	val, diags := files.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	hasFiles := !val.IsNull()
	switch {
	case hasFiles && len(groups) > 0:
		return nil, fmt.Errorf("%s: a block may set files or contain groups, not both", rng)
	case hasFiles:
		return valueSpec(val, rng)
	case len(groups) > 0:
		group := make(jsbuild.Group, 0, len(groups))
		for _, g := range groups {
			spec, err := bodySpec(g.Files, g.Groups)
			if err != nil {
				return nil, err
			}
			group = append(group, jsbuild.GroupEntry{Name: g.Name, Spec: spec})
		}
		return group, nil
	}
	return nil, fmt.Errorf("%s: block has no files", rng)
}

// valueSpec converts a files attribute value: a string is a Leaf, and a list
// or tuple of strings is a List.
func valueSpec(val cty.Value, rng hcl.Range) (jsbuild.FileSpec, error) {
	invalid := func(reason string) error {
		return fmt.Errorf("%s: %w", rng, &jsbuild.InvalidSpecError{
			Value:  val.GoString(),
			Reason: reason,
		})
	}
	if !val.IsWhollyKnown() {
		return nil, invalid("value must be known")
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return jsbuild.Leaf(val.AsString()), nil
	case ty.IsTupleType() || ty.IsListType():
		names := make(jsbuild.List, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			if elem.IsNull() || elem.Type() != cty.String {
				return nil, invalid("list elements must be file names")
			}
			names = append(names, elem.AsString())
		}
		return names, nil
	}
	return nil, invalid("files must be a name or a list of names")
}
