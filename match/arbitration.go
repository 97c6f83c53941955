package match

import (
	"context"

	"github.com/poiesic/vehiclematch/core"
)

// arbitrate resolves the candidate identifiers to catalog records and asks
// the oracle which one, if any, describes the same vehicle as the partner's
// original text. The oracle sees the raw description, not the normalized
// form used for retrieval.
//
// Candidates whose identifiers are missing from storage are dropped with a
// warning; if nothing resolves, the outcome is a no-match and the oracle is
// never invoked. An oracle selection outside the offered options is treated
// as a no-match, never trusted.
func (m *Matcher) arbitrate(ctx context.Context, rawDescription string, candidates []core.Candidate) (core.MatchOutcome, error) {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	records, err := m.vehicles.GetVehicles(ctx, ids...)
	if err != nil {
		m.logger.Error("error resolving candidate records", "candidates", len(ids), "err", err)
		return core.MatchOutcome{}, err
	}

	byID := make(map[string]*core.VehicleRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	if len(byID) < len(candidates) {
		m.logger.Warn("candidate identifiers missing from storage",
			"candidates", len(candidates),
			"resolved", len(byID))
	}

	if len(byID) == 0 {
		m.logger.Warn("no candidates resolved, skipping arbitration")
		return core.MatchOutcome{}, nil
	}

	// Build options in retrieval order, deduplicated by identifier.
	options := make([]core.Option, 0, len(byID))
	seen := make(map[string]bool, len(byID))
	for _, c := range candidates {
		record, ok := byID[c.ID]
		if !ok || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		options = append(options, core.Option{ID: record.ID, Description: record.Description})
	}

	verdict, err := m.arbiter.Decide(ctx, rawDescription, options)
	if err != nil {
		m.logger.Error("arbitration failed", "options", len(options), "err", err)
		return core.MatchOutcome{}, err
	}

	if verdict.SelectedID == "" {
		m.logger.Debug("oracle declined to choose",
			"options", len(options),
			"reasoning", verdict.Reasoning)
		return core.MatchOutcome{}, nil
	}

	record, ok := byID[verdict.SelectedID]
	if !ok {
		m.logger.Warn("oracle selected an identifier outside the offered options",
			"selected_id", verdict.SelectedID,
			"options", len(options))
		return core.MatchOutcome{}, nil
	}

	m.logger.Debug("arbitration selected a record",
		"selected_id", verdict.SelectedID,
		"confidence", verdict.Confidence)

	return core.MatchOutcome{
		Record:     record,
		Band:       m.bandFor(candidates, verdict.SelectedID),
		Arbitrated: true,
	}, nil
}

// bandFor reports the confidence band of the candidate whose identifier was
// selected, based on its retrieval score.
func (m *Matcher) bandFor(candidates []core.Candidate, id string) core.ConfidenceBand {
	for _, c := range candidates {
		if c.ID == id {
			if c.Score >= m.highThreshold {
				return core.BandHigh
			}
			return core.BandBestEffort
		}
	}
	return core.BandBestEffort
}
