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


// Package ingestion contains the ticket ingestion pipeline.
//
// Ingestor is the single-record operation: validate text under the
// configured policy, call the embeddings provider once, upsert once. It
// backs the direct embed endpoint and is reused as the per-record step of
// bulk ingestion.
//
// Controller is the bulk path: it paginates the ticket source, skips short
// and already-stored tickets (the duplicate check always runs before the
// provider call), tolerates per-record failures, honors an optional
// processing cap, and returns an IngestionReport. Processing is strictly
// serial per invocation to bound load on the rate-limited provider; the
// context is checked at least once per record so a caller can cancel a pass
// embedded in a request/response cycle.
package ingestion
