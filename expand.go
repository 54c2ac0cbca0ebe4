package jsbuild

// Separator joins group segments in resolved paths.
const Separator = "/"

// Expand flattens spec into a BuildUnit. Each name resolves to rootPrefix +
// pathPrefix + name + extension, where every enclosing Group entry adds its
// name and a Separator to pathPrefix. Order is preserved exactly and
// duplicates are kept.
//
// A nil spec, at any depth, is an *InvalidSpecError.
func Expand(spec FileSpec, rootPrefix, pathPrefix, extension string) (BuildUnit, error) {
	var unit BuildUnit
	if err := expandInto(&unit, spec, rootPrefix, pathPrefix, extension); err != nil {
		return nil, err
	}
	return unit, nil
}

func expandInto(unit *BuildUnit, spec FileSpec, root, path, ext string) error {
	switch spec := spec.(type) {
	case Group:
		for _, entry := range spec {
			err := expandInto(unit, entry.Spec, root, path+entry.Name+Separator, ext)
			if err != nil {
				return err
			}
		}
	case List:
		for _, name := range spec {
			*unit = append(*unit, Entry{Name: name, Path: root + path + name + ext})
		}
	case Leaf:
		name := string(spec)
		*unit = append(*unit, Entry{Name: name, Path: root + path + name + ext})
	default:
		return &InvalidSpecError{Value: spec, Prefix: root + path}
	}
	return nil
}
