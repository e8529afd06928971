// Package phrase learns statistical merge rules for adjacent token pairs
// and applies them, turning "climate change" into "climate_change". A
// second pass over pair-merged text yields trigram compounds.
package phrase

import (
	"math"
	"strings"
)

// DefaultConnectorWords are function words allowed inside a compound
// ("bank of america") without starting or ending one.
var DefaultConnectorWords = []string{
	"a", "an", "the",
	"for", "of", "with", "without", "at", "from", "to", "in", "on", "by",
	"and", "or",
}

// Options controls phrase detection.
type Options struct {
	// MinCount is the minimum pair frequency; rarer pairs never merge.
	MinCount int
	// Threshold is the minimum significance score for a merge.
	Threshold float64
	// Delimiter joins merged tokens.
	Delimiter string
	// ConnectorWords overrides DefaultConnectorWords when non-nil.
	ConnectorWords []string
}

func (o *Options) init() {
	if o.MinCount <= 0 {
		o.MinCount = 5
	}
	if o.Threshold <= 0 {
		o.Threshold = 1
	}
	if o.Delimiter == "" {
		o.Delimiter = "_"
	}
	if o.ConnectorWords == nil {
		o.ConnectorWords = DefaultConnectorWords
	}
}

type pairStat struct {
	first  string
	second string
	count  int
}

// Detector accumulates token and pair frequencies over a corpus pass.
type Detector struct {
	options    Options
	connectors map[string]struct{}
	words      map[string]int
	pairs      map[string]*pairStat
}

// NewDetector creates a Detector with the given options.
func NewDetector(options Options) *Detector {
	options.init()
	connectors := make(map[string]struct{}, len(options.ConnectorWords))
	for _, word := range options.ConnectorWords {
		connectors[word] = struct{}{}
	}
	return &Detector{
		options:    options,
		connectors: connectors,
		words:      map[string]int{},
		pairs:      map[string]*pairStat{},
	}
}

// Add feeds one sentence into the frequency tables. Pair candidates form
// between two content words; connector words in between are carried into
// the merged key but never begin or end a candidate.
func (d *Detector) Add(sentence []string) {
	start := ""
	var inBetween []string
	for _, token := range sentence {
		d.words[token]++
		if _, isConnector := d.connectors[token]; isConnector {
			if start != "" {
				inBetween = append(inBetween, token)
			}
			continue
		}
		if start != "" {
			key := d.joinCandidate(start, inBetween, token)
			stat, ok := d.pairs[key]
			if !ok {
				stat = &pairStat{first: start, second: token}
				d.pairs[key] = stat
			}
			stat.count++
		}
		start = token
		inBetween = inBetween[:0]
	}
}

func (d *Detector) joinCandidate(start string, inBetween []string, end string) string {
	parts := make([]string, 0, len(inBetween)+2)
	parts = append(parts, start)
	parts = append(parts, inBetween...)
	parts = append(parts, end)
	return strings.Join(parts, d.options.Delimiter)
}

// Score computes the significance of a pair:
//
//	(count(ab) - minCount) * vocabSize / (count(a) * count(b))
func (d *Detector) score(stat *pairStat) float64 {
	countA := d.words[stat.first]
	countB := d.words[stat.second]
	if countA == 0 || countB == 0 {
		return 0
	}
	return float64(stat.count-d.options.MinCount) * float64(len(d.words)) /
		(float64(countA) * float64(countB))
}

// Model freezes the detector into a transform-only model holding the pairs
// whose frequency and score clear both thresholds.
func (d *Detector) Model() *Model {
	model := &Model{
		Delimiter:  d.options.Delimiter,
		Threshold:  d.options.Threshold,
		Scores:     map[string]float64{},
		connectors: d.connectors,
	}
	for key, stat := range d.pairs {
		if stat.count < d.options.MinCount {
			continue
		}
		if score := d.score(stat); score > d.options.Threshold {
			model.Scores[key] = score
		}
	}
	return model
}

// Model is a frozen pair-merge mapping.
type Model struct {
	Delimiter string
	Threshold float64
	// Scores maps the merged compound token to its significance score.
	Scores map[string]float64

	connectors map[string]struct{}
}

// Inject forces a merge for the given compound regardless of measured
// frequency. Injected compounds carry an infinite score, so they are never
// split by later passes.
func (m *Model) Inject(compounds ...string) {
	for _, compound := range compounds {
		m.Scores[compound] = math.Inf(1)
	}
}

// Transform merges scored pairs in one sentence, scanning left to right.
// A merged compound does not chain into the following token.
func (m *Model) Transform(sentence []string) []string {
	out := make([]string, 0, len(sentence))
	start := ""
	var inBetween []string
	flush := func() {
		if start != "" {
			out = append(out, start)
			start = ""
		}
		out = append(out, inBetween...)
		inBetween = inBetween[:0]
	}
	for _, token := range sentence {
		if _, isConnector := m.connectors[token]; isConnector {
			if start == "" {
				out = append(out, token)
			} else {
				inBetween = append(inBetween, token)
			}
			continue
		}
		if start != "" {
			parts := make([]string, 0, len(inBetween)+2)
			parts = append(parts, start)
			parts = append(parts, inBetween...)
			parts = append(parts, token)
			candidate := strings.Join(parts, m.Delimiter)
			if _, merged := m.Scores[candidate]; merged {
				out = append(out, candidate)
				start = ""
				inBetween = inBetween[:0]
				continue
			}
			flush()
		}
		start = token
	}
	flush()
	return out
}
