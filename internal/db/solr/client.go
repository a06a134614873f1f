package solr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/fusedex/internal/db"
	"github.com/kailas-cloud/fusedex/internal/db/collcache"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

const defaultTimeout = 10 * time.Second

// Config holds connection parameters for a Solr store.
type Config struct {
	BaseURL       string // e.g. http://localhost:8983/solr
	Username      string // basic auth, optional
	Password      string
	VectorField   string        // dense vector field name, default "vector"
	Timeout       time.Duration // per-request, 0 uses 10s
	CacheCapacity int           // per-collection handle cache, 0 uses collcache default
}

// Store implements db.Store over the Solr JSON HTTP API. Per-collection
// request handles are cached and reused across queries.
type Store struct {
	baseURL     string
	username    string
	password    string
	vectorField string
	timeout     time.Duration
	clients     *collcache.Cache[*collectionClient]
}

// collectionClient is the request handle for one collection: precomputed
// endpoint URLs and a dedicated HTTP client with its own idle pool.
type collectionClient struct {
	selectURL  string
	fieldsURL  string
	dynamicURL string
	pingURL    string
	http       *http.Client
	transport  *http.Transport
}

// NewStore creates a Solr store. cacheTotal is a counter vec with label
// "result" ("hit"/"miss") for the handle cache; cacheEvictions counts
// capacity evictions. Both may be nil.
func NewStore(cfg Config, cacheTotal *prometheus.CounterVec, cacheEvictions prometheus.Counter) (*Store, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if cfg.VectorField == "" {
		cfg.VectorField = "vector"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	s := &Store{
		baseURL:     cfg.BaseURL,
		username:    cfg.Username,
		password:    cfg.Password,
		vectorField: cfg.VectorField,
		timeout:     cfg.Timeout,
	}

	clients, err := collcache.New(cfg.CacheCapacity, s.newCollectionClient, closeCollectionClient, cacheTotal, cacheEvictions)
	if err != nil {
		return nil, err
	}
	s.clients = clients

	return s, nil
}

func (s *Store) newCollectionClient(collection string) (*collectionClient, error) {
	base, err := url.JoinPath(s.baseURL, collection)
	if err != nil {
		return nil, fmt.Errorf("collection URL: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &collectionClient{
		selectURL:  base + "/select",
		fieldsURL:  base + "/schema/fields",
		dynamicURL: base + "/schema/dynamicfields",
		pingURL:    base + "/admin/ping",
		http:       &http.Client{Timeout: s.timeout, Transport: transport},
		transport:  transport,
	}, nil
}

func closeCollectionClient(_ string, c *collectionClient) {
	c.transport.CloseIdleConnections()
}

// Ping checks connectivity against the Solr system info endpoint.
func (s *Store) Ping(ctx context.Context) error {
	u, err := url.JoinPath(s.baseURL, "admin", "info", "system")
	if err != nil {
		return fmt.Errorf("ping URL: %w", err)
	}

	client := &http.Client{Timeout: s.timeout}
	var out struct {
		Lucene map[string]any `json:"lucene"`
	}
	if err := s.getJSON(ctx, client, u+"?wt=json", &out); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close drops every cached collection handle.
func (s *Store) Close() {
	s.clients.Clear()
}

// WaitForReady polls Ping until the backend responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for backend: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// CacheSize returns the number of cached collection handles.
func (s *Store) CacheSize() int { return s.clients.Size() }

// CacheEvict drops one collection handle, reporting whether it was cached.
func (s *Store) CacheEvict(collection string) bool { return s.clients.Evict(collection) }

// CacheClear drops every cached collection handle.
func (s *Store) CacheClear() { s.clients.Clear() }

// getJSON issues an authenticated GET and decodes the JSON response into out.
func (s *Store) getJSON(ctx context.Context, client *http.Client, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if s.username != "" {
		req.SetBasicAuth(s.username, s.password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return db.ErrCollectionNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", db.ErrBadQuery, readErrorMessage(resp.Body))
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("status %d: %s", resp.StatusCode, readErrorMessage(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts the error message from a Solr error body.
func readErrorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "no error body"
	}

	var parsed struct {
		Error struct {
			Msg string `json:"msg"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Error.Msg != "" {
		return parsed.Error.Msg
	}
	return string(data)
}
