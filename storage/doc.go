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


// Package storage defines the vector store gateway consumed by ingestion and
// search. The production implementation lives in storage/postgres, backed by
// PostgreSQL with the pgvector extension; storage/mock provides an in-memory
// double for tests.
//
// Similarity search and indexing are delegated entirely to the store's native
// vector operator; this package defines no ranking of its own.
package storage
