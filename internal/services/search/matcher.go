// Package search ranks catalog instruments against free-text queries and
// drives the debounced remote lookup used when the catalog has no match.
package search

import (
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"StockTerm/internal/domain/models"
	"StockTerm/internal/domain/repository"
)

const (
	DefaultMaxResults = 8
	// RemoteMinQueryLen is the shortest query for which a remote lookup is advised.
	RemoteMinQueryLen = 2
	minTokenLen       = 2
)

// Points awarded per rule.
const (
	pointsSymbolExact    = 100
	pointsSymbolPrefix   = 80
	pointsSymbolContains = 50
	pointsNamePrefix     = 70
	pointsNameContains   = 40
	pointsTokenSymbol    = 30
	pointsTokenName      = 25
	pointsTokenSector    = 10
	pointsWordPrefix     = 35
	pointsWordToken      = 15
)

var ErrEmptyCatalog = errors.New("search: catalog is empty")

// exchangeSuffixes are stripped from symbols before comparison.
var exchangeSuffixes = []string{".ns", ".bo"}

// State is the outcome of a local match.
type State string

const (
	StateEmpty         State = "empty"
	StateLocalHit      State = "local_hit"
	StateLocalMiss     State = "local_miss"
	StateRemoteAdvised State = "remote_advised"
)

// Result is the ranked local answer for one query.
type Result struct {
	Query      string                   `json:"query"`
	State      State                    `json:"state"`
	Candidates []models.ScoredCandidate `json:"results"`
}

type query struct {
	term   string
	tokens []string
}

func prepare(raw string) (query, bool) {
	term := strings.ToLower(strings.TrimSpace(raw))
	if term == "" {
		return query{}, false
	}
	return query{term: term, tokens: strings.Fields(term)}, true
}

// ComparableSymbol lower-cases a symbol and strips a known exchange suffix.
func ComparableSymbol(symbol string) string {
	s := strings.ToLower(symbol)
	for _, suffix := range exchangeSuffixes {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// Score returns the additive relevance of e for the raw query. Symbol and
// name rules are tiered: only the strongest of exact/prefix/contains applies.
func Score(raw string, e models.CatalogEntry) int {
	q, ok := prepare(raw)
	if !ok {
		return 0
	}
	return score(q, e)
}

func score(q query, e models.CatalogEntry) int {
	sym := ComparableSymbol(e.Symbol)
	name := strings.ToLower(e.Name)
	sector := strings.ToLower(e.Sector)

	total := 0
	switch {
	case sym == q.term:
		total += pointsSymbolExact
	case strings.HasPrefix(sym, q.term):
		total += pointsSymbolPrefix
	case strings.Contains(sym, q.term):
		total += pointsSymbolContains
	}

	switch {
	case strings.HasPrefix(name, q.term):
		total += pointsNamePrefix
	case strings.Contains(name, q.term):
		total += pointsNameContains
	}

	for _, tok := range q.tokens {
		if utf8.RuneCountInString(tok) < minTokenLen {
			continue
		}
		if strings.Contains(sym, tok) {
			total += pointsTokenSymbol
		}
		if strings.Contains(name, tok) {
			total += pointsTokenName
		}
		if strings.Contains(sector, tok) {
			total += pointsTokenSector
		}
	}

	for _, word := range strings.Fields(name) {
		if strings.HasPrefix(word, q.term) {
			total += pointsWordPrefix
		}
		for _, tok := range q.tokens {
			if strings.HasPrefix(word, tok) {
				total += pointsWordToken
			}
		}
	}
	return total
}

// Rank scores every entry and returns up to limit candidates with a positive
// score, best first. Equal scores keep catalog order.
func Rank(raw string, entries []models.CatalogEntry, limit int) []models.ScoredCandidate {
	q, ok := prepare(raw)
	if !ok {
		return nil
	}
	out := make([]models.ScoredCandidate, 0, limit)
	for _, e := range entries {
		if s := score(q, e); s > 0 {
			out = append(out, models.ScoredCandidate{CatalogEntry: e, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Matcher ranks queries against a fixed catalog.
type Matcher struct {
	catalog repository.SymbolCatalog
	limit   int
}

type MatcherOption func(*Matcher)

// WithMaxResults caps the number of candidates returned.
func WithMaxResults(n int) MatcherOption {
	return func(m *Matcher) {
		if n > 0 {
			m.limit = n
		}
	}
}

// NewMatcher fails with ErrEmptyCatalog when there is nothing to search.
func NewMatcher(catalog repository.SymbolCatalog, opts ...MatcherOption) (*Matcher, error) {
	if catalog == nil || len(catalog.Entries()) == 0 {
		return nil, ErrEmptyCatalog
	}
	m := &Matcher{catalog: catalog, limit: DefaultMaxResults}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Match ranks the catalog for raw. An empty query returns StateEmpty without
// touching the catalog.
func (m *Matcher) Match(raw string) Result {
	res := Result{Query: raw, Candidates: []models.ScoredCandidate{}}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		res.State = StateEmpty
		return res
	}

	res.Candidates = Rank(trimmed, m.catalog.Entries(), m.limit)
	switch {
	case len(res.Candidates) > 0:
		res.State = StateLocalHit
	case utf8.RuneCountInString(trimmed) >= RemoteMinQueryLen:
		res.State = StateRemoteAdvised
	default:
		res.State = StateLocalMiss
	}
	return res
}

// MergeRemote appends a remotely found entry unless its symbol is already listed.
func MergeRemote(candidates []models.ScoredCandidate, e models.CatalogEntry) ([]models.ScoredCandidate, bool) {
	for _, c := range candidates {
		if c.Symbol == e.Symbol {
			return candidates, false
		}
	}
	return append(candidates, models.ScoredCandidate{CatalogEntry: e, Remote: true}), true
}
