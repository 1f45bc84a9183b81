package build

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"git.home.luguber.info/inful/talc/internal/dates"
	"git.home.luguber.info/inful/talc/internal/templates"
)

// DefaultSortKey orders listings when a template configures no sort keys.
const DefaultSortKey = KeyPublishDate

// Sorter orders document metadata by a list of keys.
type Sorter struct {
	keys  []string
	dates *dates.Dates
}

// NewSorter returns a sorter comparing keys in order. Date keys compare by
// parsed instant, newest first; all other keys compare case-insensitively,
// ascending. Missing values sort last.
func NewSorter(keys []string, d *dates.Dates) *Sorter {
	if len(keys) == 0 {
		keys = []string{DefaultSortKey}
	}
	return &Sorter{keys: keys, dates: d}
}

// Sort stably sorts docs in place.
func (s *Sorter) Sort(docs []templates.Metadata) {
	fold := cases.Fold()
	keyed := make([]sortEntry, len(docs))
	for i, doc := range docs {
		keyed[i] = sortEntry{doc: doc, values: make([]sortValue, len(s.keys))}
		for k, key := range s.keys {
			keyed[i].values[k] = s.value(doc, key, fold)
		}
	}

	slices.SortStableFunc(keyed, func(a, b sortEntry) int {
		for k := range s.keys {
			if c := a.values[k].compare(b.values[k]); c != 0 {
				return c
			}
		}
		return 0
	})

	for i := range keyed {
		docs[i] = keyed[i].doc
	}
}

type sortEntry struct {
	doc    templates.Metadata
	values []sortValue
}

type sortValue struct {
	present bool
	isDate  bool
	instant time.Time
	text    string
}

func (s *Sorter) value(doc templates.Metadata, key string, fold cases.Caser) sortValue {
	if isDateKey(key) {
		raw := doc.String(key)
		if raw == "" && key == KeyUpdateDate {
			raw = doc.String(KeyPublishDate)
		}
		if raw == "" || s.dates == nil {
			return sortValue{isDate: true}
		}
		t, err := s.dates.Parse(raw)
		if err != nil {
			return sortValue{isDate: true}
		}
		return sortValue{present: true, isDate: true, instant: t}
	}

	raw := doc.String(key)
	if raw == "" {
		return sortValue{}
	}
	return sortValue{present: true, text: fold.String(raw)}
}

func (a sortValue) compare(b sortValue) int {
	switch {
	case !a.present && !b.present:
		return 0
	case !a.present:
		return 1
	case !b.present:
		return -1
	case a.isDate:
		return b.instant.Compare(a.instant)
	default:
		return strings.Compare(a.text, b.text)
	}
}

func isDateKey(key string) bool {
	return slices.Contains(DateKeys, key)
}
