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


// Package ai provides abstractions for the AI collaborators of the
// matching pipeline: text embedding and semantic arbitration.
//
// The matching core depends only on these interfaces; any implementation
// satisfying the contracts can be injected. The ai/openai sub-package
// talks to OpenAI-compatible APIs, and ai/mock provides deterministic
// test doubles so the decision logic can be tested without external
// services.
//
// Public constructors in implementation packages return interface types
// (ai.Embedder, ai.Arbiter, ai.Provider) to prevent coupling to concrete
// implementations; mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
package ai
