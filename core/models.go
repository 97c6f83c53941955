package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint generates a deterministic 64-bit digest of text content using
// BLAKE2b hashing. Identical content always produces identical fingerprints,
// which lets the bulk loader detect unchanged descriptions across reloads.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// VehicleRecord is a canonical catalog entry. The ID is assigned by the
// partner integration and is unique across the catalog. Records are
// immutable once created.
type VehicleRecord struct {
	ID          string
	Description string
	InsertedAt  time.Time // When the record was inserted into the catalog
}

// Candidate is a single hit from vector retrieval. Candidates are transient;
// their lifetime is a single matching request and they are never persisted.
type Candidate struct {
	ID       string
	Score    float32           // Similarity in [0,1], higher is more similar
	Metadata map[string]string // Optional metadata carried by the index
}

// MatchQuery describes one matching request. Strict forces oracle
// arbitration even when a single high-confidence candidate exists.
type MatchQuery struct {
	Description string
	Strict      bool
}

// ConfidenceBand classifies how a match outcome was reached.
type ConfidenceBand int

const (
	// BandNone means no confident match was found.
	BandNone ConfidenceBand = iota
	// BandBestEffort means the match came from the best-effort score band.
	BandBestEffort
	// BandHigh means the match came from the high-confidence score band.
	BandHigh
)

// String returns the band name for logging.
func (b ConfidenceBand) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandBestEffort:
		return "best_effort"
	default:
		return "none"
	}
}

// MatchOutcome is the terminal result of one matching request. Either Record
// is set, or it is nil and Band is BandNone: a nil record with BandNone is a
// confident negative decision, not a failure.
type MatchOutcome struct {
	Record     *VehicleRecord
	Band       ConfidenceBand
	Arbitrated bool // True when the arbitration oracle produced the decision
}

// Matched reports whether the outcome carries a catalog record.
func (o MatchOutcome) Matched() bool {
	return o.Record != nil
}

// Option is the projection of a VehicleRecord offered to the arbitration
// oracle. Options are deduplicated by ID before the oracle sees them.
type Option struct {
	ID          string
	Description string
}
