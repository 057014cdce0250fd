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


package ticketvec

import (
	"context"
	"log/slog"

	"github.com/poiesic/ticketvec/ai"
	"github.com/poiesic/ticketvec/ai/openai"
	"github.com/poiesic/ticketvec/config"
	"github.com/poiesic/ticketvec/core"
	"github.com/poiesic/ticketvec/ingestion"
	"github.com/poiesic/ticketvec/search"
	"github.com/poiesic/ticketvec/source"
	"github.com/poiesic/ticketvec/storage"
	"github.com/poiesic/ticketvec/storage/postgres"
)

// Service wires the repository, AI provider and ticket source into the
// ingestion and search services. It is the composition root used by the
// HTTP server and the CLI.
type Service struct {
	backend    *postgres.Backend
	repository storage.EmbeddingRepository
	provider   ai.Provider
	ingestor   *ingestion.Ingestor
	controller *ingestion.Controller
	searcher   *search.Searcher
	logger     *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	monitor ingestion.Monitor
}

// WithIngestionMonitor attaches an observer to bulk ingestion passes.
func WithIngestionMonitor(m ingestion.Monitor) ServiceOption {
	return func(o *serviceOptions) {
		o.monitor = m
	}
}

// NewService builds a fully wired service from configuration.
func NewService(cfg *config.Config, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := postgres.OpenBackend(cfg.DatabaseURL, cfg.EmbeddingDims)
	if err != nil {
		return nil, err
	}

	repository, err := postgres.NewEmbeddingRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(ai.NewConfig(
		ai.WithBaseURL(cfg.ProviderBaseURL),
		ai.WithToken(cfg.ProviderToken),
		ai.WithEmbeddingModel(cfg.ProviderModel),
		ai.WithChatModel(cfg.ChatModel),
	))
	if err != nil {
		backend.Close()
		return nil, err
	}

	policy := core.TextPolicy{
		MinLength:    cfg.MinTextLength,
		IncludeNotes: cfg.IncludeNotes,
	}

	ingestor, err := ingestion.NewIngestor(repository, provider.Embedder(), policy)
	if err != nil {
		backend.Close()
		return nil, err
	}

	ticketSource, err := source.NewClient(cfg.SourceBaseURL,
		source.WithBasicAuth(cfg.SourceUsername, cfg.SourcePassword),
		source.WithFilter(cfg.SourceFilter),
	)
	if err != nil {
		backend.Close()
		return nil, err
	}

	controllerOpts := []ingestion.ControllerOption{
		ingestion.WithPageSize(cfg.PageSize),
	}
	if options.monitor != nil {
		controllerOpts = append(controllerOpts, ingestion.WithMonitor(options.monitor))
	}

	controller, err := ingestion.NewController(ticketSource, repository, ingestor, controllerOpts...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	searcher, err := search.NewSearcher(repository, provider,
		search.WithLimit(cfg.SearchLimit),
		search.WithPolicy(policy),
	)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:    backend,
		repository: repository,
		provider:   provider,
		ingestor:   ingestor,
		controller: controller,
		searcher:   searcher,
		logger:     slog.Default().With("component", "service"),
	}, nil
}

// Ingestor returns the single-record ingest operation.
func (s *Service) Ingestor() *ingestion.Ingestor {
	return s.ingestor
}

// Controller returns the bulk ingestion controller.
func (s *Service) Controller() *ingestion.Controller {
	return s.controller
}

// Searcher returns the similarity query service.
func (s *Service) Searcher() *search.Searcher {
	return s.searcher
}

// Repository returns the embedding repository.
func (s *Service) Repository() storage.EmbeddingRepository {
	return s.repository
}

// Ping verifies the backing store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repository.Ping(ctx)
}

// Close releases the provider and store resources.
func (s *Service) Close() error {
	s.logger.Debug("closing service")
	if err := s.provider.Close(); err != nil {
		return err
	}
	return s.backend.Close()
}
