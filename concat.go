package jsbuild

// DefaultLineSeparator is written after the contents of every concatenated
// file.
const DefaultLineSeparator = "\r\n"

// Concatenate writes the contents of every file in unit, in order and each
// followed by separator, to outputPath. Any existing contents of outputPath
// are replaced. An empty unit produces an empty file.
//
// A missing or unreadable source stops the build with a *FileReadError. The
// output written up to that point is left on disk.
func Concatenate(unit BuildUnit, outputPath, separator string) error {
	_, err := Files(unit, separator).WriteFile(outputPath)
	return err
}
