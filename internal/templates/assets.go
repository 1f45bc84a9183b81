package templates

import "slices"

// AssetSet is an ordered set of asset paths. Paths keep first-seen order.
type AssetSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewAssetSet returns an empty set.
func NewAssetSet() *AssetSet {
	return &AssetSet{seen: make(map[string]struct{})}
}

// Add records path and reports whether it was new. Empty paths are ignored.
func (s *AssetSet) Add(path string) bool {
	if path == "" {
		return false
	}
	if _, ok := s.seen[path]; ok {
		return false
	}
	s.seen[path] = struct{}{}
	s.paths = append(s.paths, path)
	return true
}

// Merge adds every path of other in its order.
func (s *AssetSet) Merge(other *AssetSet) {
	if other == nil {
		return
	}
	for _, p := range other.paths {
		s.Add(p)
	}
}

// Paths returns a copy of the recorded paths.
func (s *AssetSet) Paths() []string {
	return slices.Clone(s.paths)
}

// Len reports the number of recorded paths.
func (s *AssetSet) Len() int {
	return len(s.paths)
}
