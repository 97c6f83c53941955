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


package vehiclematch

import (
	"log/slog"

	"github.com/poiesic/vehiclematch/ai"
	"github.com/poiesic/vehiclematch/ai/openai"
	"github.com/poiesic/vehiclematch/ingest"
	"github.com/poiesic/vehiclematch/match"
	"github.com/poiesic/vehiclematch/storage"
	"github.com/poiesic/vehiclematch/storage/badger"
)

// Catalog bundles the vehicle store, the vector index, and the AI provider
// behind one lifecycle. It is the entry point for embedding the matching
// system in a host application.
type Catalog struct {
	backend  *badger.Backend
	vehicles storage.VehicleRepository
	index    storage.VectorIndex
	provider ai.Provider
	logger   *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the AI service configuration used to build the default
// OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider instead of constructing one
// from configuration. The catalog takes ownership and closes it.
func WithProvider(provider ai.Provider) CatalogOption {
	return func(o *catalogOptions) {
		o.provider = provider
	}
}

// WithInMemoryStorage opens the backing store in memory. Intended for tests
// and experiments; nothing survives Close.
func WithInMemoryStorage() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// NewCatalog opens the catalog at filePath.
func NewCatalog(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	vehicles := badger.NewVehicleRepository(backend)
	index := badger.NewVectorIndex(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Catalog{
		backend:  backend,
		vehicles: vehicles,
		index:    index,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the AI provider and the backing store.
func (c *Catalog) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing AI provider", "err", err)
	}

	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Vehicles returns the catalog record repository.
func (c *Catalog) Vehicles() storage.VehicleRepository {
	return c.vehicles
}

// Index returns the vector index.
func (c *Catalog) Index() storage.VectorIndex {
	return c.index
}

// Provider returns the AI provider.
func (c *Catalog) Provider() ai.Provider {
	return c.provider
}

// NewMatcher builds a matching pipeline over this catalog.
func (c *Catalog) NewMatcher(opts ...match.Option) (*match.Matcher, error) {
	return match.NewMatcher(c.vehicles, c.index, c.provider, opts...)
}

// NewLoader builds a bulk loader over this catalog.
func (c *Catalog) NewLoader(opts ...ingest.Option) (*ingest.Loader, error) {
	return ingest.NewLoader(c.vehicles, c.index, c.provider, opts...)
}
