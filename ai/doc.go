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


// Package ai provides abstractions for the AI services used by ticketvec.
//
// It defines interfaces for the two remote calls the system makes: text
// embedding (Embedder) and generative note writing (NoteWriter). The core
// ingestion and search logic depends on these abstractions rather than on a
// concrete provider.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation against any OpenAI-compatible API
//   - ai/mock: test doubles with call counting for unit tests
//
// Production constructors (openai.NewProvider, openai.NewEmbedder) return
// interface types to enforce abstraction. Mock constructors return concrete
// types so tests can assert call counts and inject behavior.
package ai
