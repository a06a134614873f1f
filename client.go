package fusedex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/db/redisearch"
	"github.com/kailas-cloud/fusedex/internal/db/solr"
	"github.com/kailas-cloud/fusedex/internal/domain"
	"github.com/kailas-cloud/fusedex/internal/repository/embcache"
	schemarepo "github.com/kailas-cloud/fusedex/internal/repository/schema"
	searchrepo "github.com/kailas-cloud/fusedex/internal/repository/search"
	openaiTransport "github.com/kailas-cloud/fusedex/internal/transport/openai"
	askuc "github.com/kailas-cloud/fusedex/internal/usecase/ask"
	schemauc "github.com/kailas-cloud/fusedex/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/fusedex/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Embedder converts query text into a dense vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// ChatCompleter produces one chat completion from a system and user prompt.
type ChatCompleter interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// FieldInfo describes one field of a collection schema.
type FieldInfo struct {
	Name        string
	Type        string // backend type, "unknown" for sampled-only fields
	MultiValued bool
	Stored      bool
	Indexed     bool
	DocValues   bool
}

// Client is the fusedex entry point for embedded use.
type Client struct {
	store     db.Store
	searchSvc *searchuc.Service
	schemaSvc *schemauc.Service
	askSvc    *askuc.Service
}

// New creates a fusedex Client and connects to the search backend.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("fusedex: backend required (use WithSolr or WithRedisearch)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("fusedex: backend not ready: %w", err)
	}

	return wireClient(store, cfg)
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "solr":
		s, err := solr.NewStore(solr.Config{
			BaseURL:       cfg.baseURL,
			Username:      cfg.username,
			Password:      cfg.password,
			VectorField:   cfg.vectorField,
			Timeout:       cfg.timeout,
			CacheCapacity: cfg.cacheCapacity,
		}, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("fusedex: create solr store: %w", err)
		}
		return s, nil
	case "redisearch":
		s, err := redisearch.NewStore(redisearch.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("fusedex: create redisearch store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("fusedex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Embedder: noop если не задан (поиск деградирует до keyword_only)
	var domEmb domain.Embedder
	switch {
	case cfg.embedder != nil:
		domEmb = &embedderAdapter{inner: cfg.embedder}
	case cfg.openAIKey != "":
		base := openaiTransport.NewEmbedder(&openaiTransport.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.openAIModel,
			Dimensions: cfg.openAIDimensions,
			Provider:   "openai",
			Logger:     logger,
		})
		cached, err := embcache.New(base, embcache.DefaultCapacity, nil)
		if err != nil {
			return nil, fmt.Errorf("fusedex: embedding cache: %w", err)
		}
		domEmb = cached
	default:
		domEmb = noopEmbedder{}
	}
	if cfg.queryInstruction != "" {
		domEmb = domain.NewInstructionEmbedder(domEmb, cfg.queryInstruction)
	}

	rrfK := cfg.rrfK
	if rrfK <= 0 {
		rrfK = searchuc.DefaultK
	}
	merger, err := searchuc.NewMerger(rrfK)
	if err != nil {
		return nil, fmt.Errorf("fusedex: %w", err)
	}

	searchSvc := searchuc.New(searchrepo.New(store), domEmb, merger, logger)
	schemaSvc := schemauc.New(schemarepo.New(store), cfg.sampleSize, logger)

	var chat askuc.ChatCompleter
	switch {
	case cfg.chat != nil:
		chat = cfg.chat
	case cfg.chatModel != "" && cfg.openAIKey != "":
		chat = openaiTransport.NewChatClient(&openaiTransport.ChatConfig{
			APIKey:  cfg.openAIKey,
			BaseURL: cfg.openAIBaseURL,
			Model:   cfg.chatModel,
			Logger:  logger,
		})
	}
	var askSvc *askuc.Service
	if chat != nil {
		askSvc = askuc.New(searchSvc, chat, cfg.maxContextDocs, logger)
	}

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		schemaSvc: schemaSvc,
		askSvc:    askSvc,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks backend connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search returns the search service for a given collection.
func (c *Client) Search(collection string) *SearchService {
	return &SearchService{collection: collection, svc: c.searchSvc}
}

// Fields resolves the queryable field schema of a collection.
func (c *Client) Fields(ctx context.Context, collection string) ([]FieldInfo, error) {
	fields, err := c.schemaSvc.DescribeUsedFields(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("fields: %w", err)
	}

	out := make([]FieldInfo, len(fields))
	for i := range fields {
		out[i] = FieldInfo{
			Name:        fields[i].Name(),
			Type:        string(fields[i].FieldType()),
			MultiValued: fields[i].MultiValued(),
			Stored:      fields[i].Stored(),
			Indexed:     fields[i].Indexed(),
			DocValues:   fields[i].DocValues(),
		}
	}
	return out, nil
}

// CacheSize returns the number of cached per-collection backend handles.
func (c *Client) CacheSize() int { return c.store.CacheSize() }

// CacheEvict drops one collection handle, reporting whether it was cached.
func (c *Client) CacheEvict(collection string) bool { return c.store.CacheEvict(collection) }

// CacheClear drops every cached collection handle.
func (c *Client) CacheClear() { c.store.CacheClear() }

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

// noopEmbedder returns an error on Embed call (used when no embedder configured).
type noopEmbedder struct{}

func (noopEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{}, errors.New(
		"fusedex: embedder not configured (use WithEmbedder or WithOpenAI)",
	)
}
