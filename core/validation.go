// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "fmt"

// ValidateVehicleRecord validates a VehicleRecord according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Description must not be empty
//
// NOT validated:
//   - InsertedAt (populated by storage on creation)
func ValidateVehicleRecord(record *VehicleRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidVehicleRecord)
	}

	if record.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVehicleRecord, ErrEmptyID)
	}

	if record.Description == "" {
		return fmt.Errorf("%w: %w", ErrInvalidVehicleRecord, ErrEmptyDescription)
	}

	return nil
}

// ValidateCandidate validates a retrieval candidate.
//
// Validation rules:
//   - ID must not be empty
//   - Score must be within [0,1]
func ValidateCandidate(candidate *Candidate) error {
	if candidate == nil {
		return fmt.Errorf("%w: candidate is nil", ErrInvalidCandidate)
	}

	if candidate.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidCandidate, ErrEmptyID)
	}

	if candidate.Score < 0 || candidate.Score > 1 {
		return fmt.Errorf("%w: %w: %f", ErrInvalidCandidate, ErrScoreOutOfRange, candidate.Score)
	}

	return nil
}
