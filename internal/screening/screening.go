// Package screening matches supplier names against a sanctioned-entity
// list so the data layer can derive risk categories and PEP flags.
package screening

import (
	"math"
	"regexp"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

// Config defines matching thresholds and normalization behavior.
type Config struct {
	// MatchThreshold is the minimum combined score treated as a hit.
	MatchThreshold float64 `json:"match_threshold" yaml:"match_threshold"`
	// NameWeight balances edit-distance similarity against token overlap.
	NameWeight float64 `json:"name_weight" yaml:"name_weight"`
	// Affixes stripped before comparison (legal forms, honorifics).
	Affixes []string `json:"affixes" yaml:"affixes"`
}

// DefaultConfig returns thresholds tuned for company-name screening.
// The threshold sits just below the partial-match band so a
// single-character variation of a listed name still registers.
func DefaultConfig() Config {
	return Config{
		MatchThreshold: 0.72,
		NameWeight:     0.7,
		Affixes: []string{
			"ltd", "llc", "gmbh", "inc", "corp", "co", "sa", "ag", "plc",
			"mr", "mrs", "ms", "dr",
		},
	}
}

// DefaultEntities returns the built-in sanctioned-entity list used when
// no override is configured. It includes names inside the mock-data
// generator's namespace so seeded ledgers exercise the screening path.
func DefaultEntities() []string {
	return []string{
		"Caspian Exports",
		"Crescent Supply",
		"Falcon Freight",
		"Volkov Trading",
		"Zarya Industrial Group",
		"Eastwind Commodities",
	}
}

// Match is one screening outcome against a single list entry.
type Match struct {
	Entity     string  `json:"entity"`
	Score      float64 `json:"score"`
	IsSanction bool    `json:"is_sanction"`
}

// Screener scores supplier names against a fixed entity list. It holds
// no mutable state after construction and is safe for concurrent use.
type Screener struct {
	logger   *zap.SugaredLogger
	config   Config
	entities []string
	nonAlnum *regexp.Regexp
}

// NewScreener creates a screener over the given sanctioned-entity list.
func NewScreener(logger *zap.SugaredLogger, config Config, entities []string) *Screener {
	return &Screener{
		logger:   logger,
		config:   config,
		entities: entities,
		nonAlnum: regexp.MustCompile(`[^a-z0-9\s]`),
	}
}

// Screen scores a supplier name against every listed entity and returns
// the best match. A zero-value Match means nothing scored above zero.
func (s *Screener) Screen(name string) Match {
	normalized := s.normalize(name)

	var best Match
	for _, entity := range s.entities {
		score := s.score(normalized, s.normalize(entity))
		if score > best.Score {
			best = Match{Entity: entity, Score: score}
		}
	}
	best.IsSanction = best.Score >= s.config.MatchThreshold

	if best.IsSanction && s.logger != nil {
		s.logger.Infow("supplier matched sanctions list",
			"supplier", name, "entity", best.Entity, "score", best.Score)
	}
	return best
}

// IsSanctioned reports whether the name clears the match threshold.
func (s *Screener) IsSanctioned(name string) bool {
	return s.Screen(name).IsSanction
}

// score combines Levenshtein similarity with token-set overlap.
func (s *Screener) score(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	lev := s.levenshteinSimilarity(a, b)
	tok := tokenSimilarity(a, b)
	return s.config.NameWeight*lev + (1-s.config.NameWeight)*tok
}

func (s *Screener) levenshteinSimilarity(a, b string) float64 {
	distance := levenshtein.ComputeDistance(a, b)
	maxLen := math.Max(float64(len(a)), float64(len(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(distance)/maxLen
}

// tokenSimilarity is the Jaccard index over whitespace tokens.
func tokenSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// normalize lowercases, strips punctuation and drops legal-form affixes.
func (s *Screener) normalize(name string) string {
	name = strings.ToLower(name)
	name = s.nonAlnum.ReplaceAllString(name, "")

	tokens := strings.Fields(name)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !s.isAffix(tok) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func (s *Screener) isAffix(token string) bool {
	for _, affix := range s.config.Affixes {
		if token == affix {
			return true
		}
	}
	return false
}
