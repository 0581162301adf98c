package icon

import (
	"cmp"
	"math"
	"slices"

	"github.com/secmon-lab/badgeforge/pkg/domain/model"
)

// Defaults for Matcher
const (
	DefaultMaxDF           = 0.5
	DefaultMinScore        = 0.15
	DefaultBoostMultiplier = 1.2
	DefaultBoostPerMatch   = 0.05
	DefaultTopK            = 3
	DefaultIconName        = "trophy.png"
)

// keywordOverlapSaturation is the match count at which a keyword score reaches 1.0
const keywordOverlapSaturation = 8.0

// Boost rewards entries whose keywords appear verbatim in the query.
// A boosted score is score*Multiplier + PerMatch*matches.
type Boost struct {
	Enabled    bool
	Multiplier float64
	PerMatch   float64
}

type keywordEntry struct {
	name     string
	keywords []string
}

// Matcher ranks catalog icons against free text. It is safe for concurrent use.
type Matcher struct {
	catalog     *Catalog
	index       *index
	keywords    []keywordEntry
	maxDF       float64
	minScore    float64
	boost       Boost
	defaultIcon string
}

type Option func(*Matcher)

// WithMaxDF sets the document frequency ceiling used when building the index
func WithMaxDF(maxDF float64) Option {
	return func(m *Matcher) {
		m.maxDF = maxDF
	}
}

// WithMinScore sets the similarity below which keyword fallback is used instead
func WithMinScore(score float64) Option {
	return func(m *Matcher) {
		m.minScore = score
	}
}

func WithBoost(boost Boost) Option {
	return func(m *Matcher) {
		m.boost = boost
	}
}

func WithDefaultIcon(name string) Option {
	return func(m *Matcher) {
		m.defaultIcon = name
	}
}

// NewMatcher builds the similarity index for catalog. A nil or empty catalog
// makes the matcher rely on the built-in keyword table.
func NewMatcher(catalog *Catalog, opts ...Option) *Matcher {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}

	m := &Matcher{
		catalog:  catalog,
		maxDF:    DefaultMaxDF,
		minScore: DefaultMinScore,
		boost: Boost{
			Enabled:    true,
			Multiplier: DefaultBoostMultiplier,
			PerMatch:   DefaultBoostPerMatch,
		},
		defaultIcon: DefaultIconName,
	}
	for _, opt := range opts {
		opt(m)
	}

	if catalog.Len() == 0 {
		m.keywords = fallbackKeywords
		return m
	}

	docs := make([][]string, catalog.Len())
	m.keywords = make([]keywordEntry, catalog.Len())
	for i, ic := range catalog.icons {
		docs[i] = terms(tokenize(document(ic)))
		m.keywords[i] = keywordEntry{name: ic.Name, keywords: ic.Keywords}
	}
	m.index = newIndex(docs, m.maxDF)

	return m
}

// Catalog returns the catalog the matcher was built from
func (m *Matcher) Catalog() *Catalog {
	return m.catalog
}

// Rank scores every catalog entry against text, best first. Ties keep catalog order.
func (m *Matcher) Rank(text string) []model.IconScore {
	q := newQuery(text)
	if q.empty() || m.index == nil {
		return nil
	}
	return m.rank(q)
}

func (m *Matcher) rank(q *query) []model.IconScore {
	scores := m.index.scores(q.terms)
	if m.boost.Enabled {
		m.applyBoost(q, scores)
	}

	ranked := make([]model.IconScore, len(scores))
	for i, s := range scores {
		ranked[i] = m.score(m.catalog.icons[i].Name, roundScore(s))
	}
	slices.SortStableFunc(ranked, byScore)
	return ranked
}

func (m *Matcher) applyBoost(q *query, scores []float64) {
	for i, entry := range m.keywords {
		if n := q.keywordMatches(entry.keywords); n > 0 {
			scores[i] = scores[i]*m.boost.Multiplier + m.boost.PerMatch*float64(n)
		}
	}
}

// Suggest returns the best icon for text along with up to topK-1 alternatives.
// It never fails: when nothing matches, the default icon is returned.
func (m *Matcher) Suggest(text string, topK int) *model.IconSuggestion {
	if topK <= 0 {
		topK = DefaultTopK
	}

	q := newQuery(text)
	if q.empty() {
		return m.defaultSuggestion()
	}

	if m.index == nil {
		if s := m.keywordSuggestion(q, topK); s != nil {
			return s
		}
		return m.defaultSuggestion()
	}

	ranked := m.rank(q)
	if ranked[0].Score < m.minScore {
		if s := m.keywordSuggestion(q, topK); s != nil {
			return s
		}
		return m.defaultSuggestion()
	}

	return &model.IconSuggestion{
		IconScore:    ranked[0],
		Method:       model.MatchMethodSimilarity,
		Alternatives: ranked[1:min(topK, len(ranked))],
	}
}

// keywordSuggestion ranks entries by the number of their keywords found in the query
func (m *Matcher) keywordSuggestion(q *query, topK int) *model.IconSuggestion {
	var ranked []model.IconScore
	for _, entry := range m.keywords {
		n := q.keywordMatches(entry.keywords)
		if n == 0 {
			continue
		}
		ranked = append(ranked, m.score(entry.name, math.Min(float64(n)/keywordOverlapSaturation, 1)))
	}
	if len(ranked) == 0 {
		return nil
	}

	slices.SortStableFunc(ranked, byScore)

	return &model.IconSuggestion{
		IconScore:    ranked[0],
		Method:       model.MatchMethodKeyword,
		Alternatives: ranked[1:min(topK, len(ranked))],
	}
}

func (m *Matcher) defaultSuggestion() *model.IconSuggestion {
	s := m.score(m.defaultIcon, 0)
	if s.DisplayName == "" && s.Name == DefaultIconName {
		s.DisplayName = "Trophy"
		s.Category = "achievement"
	}
	return &model.IconSuggestion{
		IconScore: s,
		Method:    model.MatchMethodDefault,
	}
}

// roundScore keeps four decimals so float noise cannot reorder tied entries
func roundScore(s float64) float64 {
	return math.Round(s*1e4) / 1e4
}

// byScore orders scores descending
func byScore(a, b model.IconScore) int {
	return cmp.Compare(b.Score, a.Score)
}

func (m *Matcher) score(name string, score float64) model.IconScore {
	s := model.IconScore{Name: name, Score: score}
	if ic, ok := m.catalog.Lookup(name); ok {
		s.DisplayName = ic.DisplayName
		s.Category = ic.Category
	}
	return s
}
