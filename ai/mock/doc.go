// Package mock provides test doubles for the ai interfaces.
// The mocks count calls and support behavior injection via function fields,
// which the ingestion tests use to assert that duplicate tickets never reach
// the embeddings provider.
package mock
