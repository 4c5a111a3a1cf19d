package workspace

import "os"

// readFile loads a source file as UTF-8 text. Reading UTF-8 source text is a
// stdlib concern with no ecosystem library among the examples worth wrapping
// it in (documented in DESIGN.md).
func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
