package build

import (
	"path"
	"strconv"
	"strings"
)

// DedupeFilenames renames every file whose filename is shared with another
// file to name.N.ext, numbering from 1 in generation order. N skips any
// name already taken in the batch. Unique names are left alone.
func DedupeFilenames(outputs []RenderedFile) []RenderedFile {
	counts := make(map[string]int, len(outputs))
	taken := make(map[string]bool, len(outputs))
	for _, f := range outputs {
		counts[f.Filename]++
		taken[f.Filename] = true
	}

	next := make(map[string]int)
	out := make([]RenderedFile, len(outputs))
	for i, f := range outputs {
		if counts[f.Filename] > 1 {
			name := f.Filename
			for {
				next[name]++
				candidate := numbered(name, next[name])
				if !taken[candidate] {
					taken[candidate] = true
					f.Filename = candidate
					break
				}
			}
		}
		out[i] = f
	}
	return out
}

func numbered(name string, n int) string {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + strconv.Itoa(n) + ext
}
