package dataset

import (
	"strings"
	"unicode/utf8"

	"github.com/vanshika/granttrace/backend/internal/domain"
)

const (
	minSearchLength  = 2
	maxSearchResults = 5
	unknownOrgName   = "Unknown Organization"
)

type lookupKind uint8

const (
	nameEntry lookupKind = iota
	searchEntry
)

type lookupEntry struct {
	key  string
	kind lookupKind
}

// Index is a single lookup table holding two registrations per charity:
// EIN -> name, and the lowercased "EIN name" composite -> EIN. Entries keep
// registration order so search results are stable.
type Index struct {
	lookup  map[string]string
	entries []lookupEntry
}

func newIndex(ds *Dataset) *Index {
	idx := &Index{
		lookup:  make(map[string]string, 2*len(ds.order)),
		entries: make([]lookupEntry, 0, 2*len(ds.order)),
	}
	for _, ein := range ds.order {
		name := ds.charities[ein].Name
		idx.register(ein, name, nameEntry)
		idx.register(strings.ToLower(ein+" "+name), ein, searchEntry)
	}
	return idx
}

func (idx *Index) register(key, value string, kind lookupKind) {
	if _, exists := idx.lookup[key]; !exists {
		idx.entries = append(idx.entries, lookupEntry{key: key, kind: kind})
	}
	idx.lookup[key] = value
}

// Name resolves an EIN to its display name.
func (idx *Index) Name(ein string) (string, bool) {
	name, ok := idx.lookup[ein]
	return name, ok
}

// Search returns up to five charities whose "EIN name" composite contains text,
// case-insensitively, in load order. Inputs shorter than two characters match nothing.
func (idx *Index) Search(text string) []domain.OrgMatch {
	if utf8.RuneCountInString(text) < minSearchLength {
		return []domain.OrgMatch{}
	}

	needle := strings.ToLower(text)
	matches := make([]domain.OrgMatch, 0, maxSearchResults)
	for _, entry := range idx.entries {
		if entry.kind != searchEntry {
			continue
		}
		if !strings.Contains(entry.key, needle) {
			continue
		}
		ein := idx.lookup[entry.key]
		name, ok := idx.lookup[ein]
		if !ok {
			name = unknownOrgName
		}
		matches = append(matches, domain.OrgMatch{EIN: ein, Name: name})
		if len(matches) == maxSearchResults {
			break
		}
	}
	return matches
}
