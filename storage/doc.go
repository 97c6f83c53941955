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


// Package storage defines the persistence abstractions for the vehicle
// catalog: a record repository keyed by partner-assigned identifier and a
// vector index for similarity retrieval.
//
// The matching core depends only on these interfaces. The storage/badger
// sub-package provides the embedded BadgerDB implementation; tests use its
// in-memory mode. Values are serialized with the MUS binary format.
//
// Retrieval and record storage are allowed to drift slightly out of sync:
// repository lookups for identifiers the index returned may come back
// empty, and callers are expected to treat that as missing data, not as a
// hard failure.
package storage
