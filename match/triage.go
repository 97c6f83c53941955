package match

import "github.com/poiesic/vehiclematch/core"

// bands holds triaged candidates. Order within each band follows the
// retrieval ranking (highest score first).
type bands struct {
	high       []core.Candidate
	bestEffort []core.Candidate
}

// triageCandidates splits candidates into confidence bands. Candidates
// scoring below bestEffort are discarded.
func triageCandidates(candidates []core.Candidate, high, bestEffort float32) bands {
	var b bands
	for _, c := range candidates {
		switch {
		case c.Score >= high:
			b.high = append(b.high, c)
		case c.Score >= bestEffort:
			b.bestEffort = append(b.bestEffort, c)
		}
	}
	return b
}

// empty reports whether both bands are empty, which is an immediate
// confident no-match.
func (b bands) empty() bool {
	return len(b.high) == 0 && len(b.bestEffort) == 0
}

// fastPath returns the single high-confidence candidate when direct
// acceptance applies: not strict and exactly one high-band member.
func (b bands) fastPath(strict bool) (core.Candidate, bool) {
	if !strict && len(b.high) == 1 {
		return b.high[0], true
	}
	return core.Candidate{}, false
}

// arbitrationSet selects the candidates offered to the oracle, by priority:
// strict mode takes everything in both bands; two or more strong candidates
// must be disambiguated among themselves, so the best-effort band is
// dropped; otherwise both bands are offered.
func (b bands) arbitrationSet(strict bool) []core.Candidate {
	if !strict && len(b.high) >= 2 {
		return b.high
	}
	set := make([]core.Candidate, 0, len(b.high)+len(b.bestEffort))
	set = append(set, b.high...)
	set = append(set, b.bestEffort...)
	return set
}
