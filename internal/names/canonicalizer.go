// Package names resolves user-supplied team names to the canonical names used
// in the match history, via an alias table and Levenshtein fuzzy matching.
package names

import (
	"sort"
	"strings"
)

const (
	// matchCutoff is the minimum similarity for an automatic fuzzy
	// resolution.
	matchCutoff = 0.72

	// suggestCutoff is the looser bound used when listing alternatives.
	suggestCutoff = 0.55

	// maxSuggestions caps the alternatives returned by Suggest.
	maxSuggestions = 5
)

// defaultAliases maps common short forms to canonical names. Keys are
// normalized; values must match the history's canonical spelling.
var defaultAliases = map[string]string{
	"spurs":         "Tottenham Hotspur FC",
	"tottenham":     "Tottenham Hotspur FC",
	"man city":      "Manchester City FC",
	"man u":         "Manchester United FC",
	"man utd":       "Manchester United FC",
	"man united":    "Manchester United FC",
	"wolves":        "Wolverhampton Wanderers FC",
	"gunners":       "Arsenal FC",
	"hammers":       "West Ham United FC",
	"toffees":       "Everton FC",
	"villa":         "Aston Villa FC",
	"brighton":      "Brighton & Hove Albion FC",
	"forest":        "Nottingham Forest FC",
	"newcastle":     "Newcastle United FC",
	"palace":        "Crystal Palace FC",
	"leeds":         "Leeds United FC",
	"leicester":     "Leicester City FC",
	"west brom":     "West Bromwich Albion FC",
	"sheffield utd": "Sheffield United FC",
	"the blades":    "Sheffield United FC",
	"the cherries":  "AFC Bournemouth",
	"bournemouth":   "AFC Bournemouth",
	"saints":        "Southampton FC",
	"the saints":    "Southampton FC",
	"the reds":      "Liverpool FC",
	"the citizens":  "Manchester City FC",
	"red devils":    "Manchester United FC",
	"the magpies":   "Newcastle United FC",
	"the foxes":     "Leicester City FC",
	"the eagles":    "Crystal Palace FC",
	"the seagulls":  "Brighton & Hove Albion FC",
	"the hornets":   "Watford FC",
	"the clarets":   "Burnley FC",
	"the blues":     "Chelsea FC",
	"the gunners":   "Arsenal FC",
	"the hammers":   "West Ham United FC",
	"the toffees":   "Everton FC",
	"the villans":   "Aston Villa FC",
	"the bees":      "Brentford FC",
	"tractor boys":  "Ipswich Town FC",
}

// Canonicalizer resolves free-form team names against a known-team roster.
// The zero value is not usable; construct with NewCanonicalizer. All methods
// return best-effort results and never error: an unresolvable name passes
// through unchanged so the caller can surface it verbatim.
type Canonicalizer struct {
	known   []string
	lookup  map[string]string // normalized known name -> canonical
	aliases map[string]string // normalized alias -> canonical
}

// NewCanonicalizer builds a resolver over the given canonical team names.
func NewCanonicalizer(known []string) *Canonicalizer {
	c := &Canonicalizer{aliases: defaultAliases}
	c.SetKnown(known)
	return c
}

// SetKnown replaces the roster of canonical names. Called after retraining so
// newly promoted teams resolve immediately.
func (c *Canonicalizer) SetKnown(known []string) {
	c.known = append([]string(nil), known...)
	sort.Strings(c.known)
	c.lookup = make(map[string]string, len(known))
	for _, name := range known {
		c.lookup[normalize(name)] = name
	}
}

// Known returns the sorted roster of canonical names.
func (c *Canonicalizer) Known() []string {
	return append([]string(nil), c.known...)
}

// Resolution methods reported by Resolve.
const (
	MethodExact      = "exact"
	MethodAlias      = "alias"
	MethodFuzzy      = "fuzzy"
	MethodUnresolved = "unresolved"
)

// Canonicalize resolves a name to its canonical form. Resolution order:
// exact (case-insensitive) roster match, alias table, then fuzzy match
// against the roster. Names that clear none of the three are returned
// unchanged.
func (c *Canonicalizer) Canonicalize(name string) string {
	resolved, _ := c.Resolve(name)
	return resolved
}

// Resolve is Canonicalize plus the method that produced the result.
func (c *Canonicalizer) Resolve(name string) (string, string) {
	norm := normalize(name)
	if norm == "" {
		return name, MethodUnresolved
	}
	if canonical, ok := c.lookup[norm]; ok {
		return canonical, MethodExact
	}
	if canonical, ok := c.aliases[norm]; ok {
		return canonical, MethodAlias
	}

	best, score := c.closest(norm)
	if score >= matchCutoff {
		return best, MethodFuzzy
	}
	return name, MethodUnresolved
}

// Suggest lists roster names similar to the input, best first, for "did you
// mean" output when Canonicalize passed the name through unresolved.
func (c *Canonicalizer) Suggest(name string) []string {
	norm := normalize(name)
	if norm == "" {
		return nil
	}

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	for _, canonical := range c.known {
		s := similarity(norm, normalize(canonical))
		if s >= suggestCutoff {
			candidates = append(candidates, scored{canonical, s})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]string, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.name
	}
	return out
}

func (c *Canonicalizer) closest(norm string) (string, float64) {
	var best string
	bestScore := -1.0
	for _, canonical := range c.known {
		s := similarity(norm, normalize(canonical))
		if s > bestScore {
			bestScore = s
			best = canonical
		}
	}
	return best, bestScore
}

// normalize lowercases, trims, collapses internal whitespace, and drops a
// trailing club suffix so "Arsenal" scores well against "Arsenal FC".
func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.Join(strings.Fields(name), " ")
	for _, suffix := range []string{" fc", " afc", " cf"} {
		name = strings.TrimSuffix(name, suffix)
	}
	name = strings.TrimPrefix(name, "afc ")
	return name
}

// similarity is normalized Levenshtein: 1 - distance/len(longer). Identical
// strings score 1.0, fully dissimilar strings approach 0.0.
func similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longer := len(a)
	if len(b) > longer {
		longer = len(b)
	}
	if longer == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(a, b))/float64(longer)
}

// levenshtein computes edit distance with a two-row rolling table.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
