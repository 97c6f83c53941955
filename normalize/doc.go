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


// Package normalize canonicalizes free-text vehicle descriptions.
//
// Partners describe the same vehicle in wildly different ways: different
// field order, repeated fields, mixed vocabularies and unit formats. The
// Normalize function folds these variations into the catalog's canonical
// form so that embedding-based retrieval sees comparable text.
//
// Normalization is deterministic and side-effect free: the same input and
// flag always produce the same output. The terminology tables in rules.go
// are data, not control flow; new partner vocabularies are added by
// extending the tables.
package normalize
