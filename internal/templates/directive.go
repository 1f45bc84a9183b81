package templates

import (
	"regexp"
	"slices"
	"strings"
)

// DirectiveKind identifies one directive form of the template language.
//
// The numeric order is also the match priority when two kinds could match at
// the same offset: end markers, start markers, partial import, asset, variable.
type DirectiveKind int

const (
	DirectiveForEnd DirectiveKind = iota
	DirectiveIfEnd
	DirectiveForStart
	DirectiveIfStart
	DirectiveImport
	DirectiveAsset
	DirectiveVariable
)

var directiveNames = [...]string{
	DirectiveForEnd:   "FOR_LOOP_END",
	DirectiveIfEnd:    "IF_BLOCK_END",
	DirectiveForStart: "FOR_LOOP_START",
	DirectiveIfStart:  "IF_BLOCK_START",
	DirectiveImport:   "IMPORT_PARTIAL",
	DirectiveAsset:    "ASSET_REFERENCE",
	DirectiveVariable: "VARIABLE_REFERENCE",
}

func (k DirectiveKind) String() string {
	if k < 0 || int(k) >= len(directiveNames) {
		return "UNKNOWN"
	}
	return directiveNames[k]
}

// Each fragment has exactly one capture group.
var directivePatterns = [...]string{
	DirectiveForEnd:   `(endfor)`,
	DirectiveIfEnd:    `(endif)`,
	DirectiveForStart: `for:(\S+?)`,
	DirectiveIfStart:  `if:\[([^\]]+)\]`,
	DirectiveImport:   `import:(\S+?)`,
	DirectiveAsset:    `asset:(\S+?)`,
	DirectiveVariable: `([A-Za-z0-9_]+)`,
}

// Match is one directive occurrence within a text span.
type Match struct {
	Kind DirectiveKind
	// Arg is the captured argument: loop variable, raw condition, partial or
	// asset path, or variable name. Empty for end markers.
	Arg   string
	Start int
	End   int
}

// Matcher locates the earliest directive of a fixed set of kinds.
type Matcher struct {
	re    *regexp.Regexp
	kinds []DirectiveKind
}

// NewMatcher compiles a matcher for kinds. Duplicates are ignored and the
// priority order is always the DirectiveKind order.
func NewMatcher(kinds ...DirectiveKind) *Matcher {
	sorted := slices.Clone(kinds)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	alternatives := make([]string, len(sorted))
	for i, k := range sorted {
		alternatives[i] = directivePatterns[k]
	}
	// Go regexps prefer the earlier alternative at the same start offset,
	// which is what makes the kind order a priority order.
	re := regexp.MustCompile(`<!--\s*talc:(?:` + strings.Join(alternatives, "|") + `)\s*-->`)
	return &Matcher{re: re, kinds: sorted}
}

// Next returns the earliest directive in text. ok is false when text holds no
// directive, in which case all of text is literal.
func (m *Matcher) Next(text string) (match Match, ok bool) {
	loc := m.re.FindStringSubmatchIndex(text)
	if loc == nil {
		return Match{}, false
	}
	for i, kind := range m.kinds {
		start, end := loc[2*i+2], loc[2*i+3]
		if start < 0 {
			continue
		}
		match = Match{Kind: kind, Start: loc[0], End: loc[1]}
		if kind != DirectiveForEnd && kind != DirectiveIfEnd {
			match.Arg = text[start:end]
		}
		return match, true
	}
	return Match{}, false
}

// ParserMatcher recognizes the structural directives handled at parse time.
var ParserMatcher = NewMatcher(DirectiveForEnd, DirectiveIfEnd, DirectiveForStart, DirectiveIfStart, DirectiveImport)

// RenderMatcher recognizes the directives substituted inside literal text at render time.
var RenderMatcher = NewMatcher(DirectiveAsset, DirectiveVariable)
