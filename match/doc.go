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


// Package match implements the vehicle matching decision pipeline.
//
// The Matcher type runs a fixed sequence per request:
//
//	normalize -> retrieve -> triage -> fast accept or arbitrate
//
// Retrieval embeds the fully normalized description and ranks catalog
// candidates by vector similarity. Triage splits candidates into a
// high-confidence band and a best-effort band; a single high-confidence
// candidate is accepted directly unless strict mode is requested, anything
// else goes to the arbitration oracle, which reasons over the original
// partner text.
//
// A confident no-match is a valid outcome (zero-value core.MatchOutcome),
// distinct from collaborator failures, which are returned as errors. The
// Matcher holds no per-request state and is safe for concurrent use.
package match
