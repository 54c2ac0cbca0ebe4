package jsbuild

import "fmt"

// FileSpec describes which source files make up a build unit. It is one of
// Leaf, List or Group; no other implementations exist.
type FileSpec interface {
	fileSpec()
}

// Leaf names a single source file, without directory or extension.
type Leaf string

// List names several source files in the same directory, in order.
type List []string

// Group maps directory segments to nested specs. Entries expand in slice
// order.
type Group []GroupEntry

// GroupEntry is one segment of a Group.
type GroupEntry struct {
	Name string
	Spec FileSpec
}

func (Leaf) fileSpec()  {}
func (List) fileSpec()  {}
func (Group) fileSpec() {}

// Entry is one resolved source file: the name it was declared with, and the
// path it will be read from.
type Entry struct {
	Name string
	Path string
}

// BuildUnit is the flattened, ordered list of files a FileSpec describes.
type BuildUnit []Entry

// Paths returns the resolved path of every entry, in order.
func (u BuildUnit) Paths() []string {
	paths := make([]string, len(u))
	for i, e := range u {
		paths[i] = e.Path
	}
	return paths
}

// SpecFromValue converts a loosely typed value into a FileSpec. It accepts a
// string, a []string, a []any holding only strings, or an existing FileSpec.
// Maps are rejected, since they have no defined order; build a Group instead.
func SpecFromValue(v any) (FileSpec, error) {
	switch v := v.(type) {
	case FileSpec:
		return v, nil
	case string:
		return Leaf(v), nil
	case []string:
		return List(v), nil
	case []any:
		names := make(List, 0, len(v))
		for _, elem := range v {
			name, ok := elem.(string)
			if !ok {
				return nil, &InvalidSpecError{
					Value:  elem,
					Reason: fmt.Sprintf("list elements must be names, not %T", elem),
				}
			}
			names = append(names, name)
		}
		return names, nil
	}
	if isMap(v) {
		return nil, &InvalidSpecError{Value: v, Reason: "maps are unordered, use Group"}
	}
	return nil, &InvalidSpecError{Value: v}
}

func isMap(v any) bool {
	switch v.(type) {
	case map[string]any, map[string]string, map[string][]string:
		return true
	}
	return false
}
