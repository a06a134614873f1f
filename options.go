package fusedex

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver        string // "solr" or "redisearch"
	baseURL       string
	addrs         []string
	username      string
	password      string
	vectorField   string
	timeout       time.Duration
	cacheCapacity int

	rrfK       int
	sampleSize int

	embedder         Embedder
	openAIKey        string
	openAIBaseURL    string
	openAIModel      string
	openAIDimensions int
	queryInstruction string

	chat           ChatCompleter
	chatModel      string
	maxContextDocs int

	logger *zap.Logger
}

// WithSolr configures the client to query a Solr instance.
func WithSolr(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "solr"
		c.baseURL = baseURL
	})
}

// WithRedisearch configures the client to query Redis 8+ with the search module.
func WithRedisearch(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redisearch"
		c.addrs = addrs
	})
}

// WithBasicAuth sets backend credentials (Solr basic auth, Redis AUTH).
func WithBasicAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithVectorField sets the dense vector field name used for KNN sub-queries.
// Default: "vector".
func WithVectorField(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorField = name
	})
}

// WithTimeout sets the per-request backend timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithCacheCapacity bounds the per-collection handle cache. Default: 100.
func WithCacheCapacity(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheCapacity = n
	})
}

// WithRRFK sets the Reciprocal Rank Fusion smoothing constant. Default: 60.
func WithRRFK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.rrfK = k
	})
}

// WithSampleSize sets how many documents the field resolver samples when a
// collection has no explicit schema. Default: 100.
func WithSampleSize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.sampleSize = n
	})
}

// WithEmbedder sets a custom text embedding provider. Takes precedence over
// WithOpenAI. Without any embedder, searches degrade to keyword-only.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithOpenAI configures an OpenAI-compatible embedding provider.
// dimensions 0 keeps the model's native dimensionality.
func WithOpenAI(apiKey, model string, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIModel = model
		c.openAIDimensions = dimensions
	})
}

// WithOpenAIBaseURL routes OpenAI-compatible requests to a custom gateway.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = url
	})
}

// WithQueryInstruction prepends instruction text to every query before
// embedding. Instruction-tuned models retrieve better with a task prefix.
func WithQueryInstruction(instruction string) Option {
	return optionFunc(func(c *clientConfig) {
		c.queryInstruction = instruction
	})
}

// WithChat sets a custom chat completion provider for Ask.
// Takes precedence over WithChatModel.
func WithChat(chat ChatCompleter) Option {
	return optionFunc(func(c *clientConfig) {
		c.chat = chat
	})
}

// WithChatModel enables Ask with an OpenAI-compatible chat model, reusing
// the WithOpenAI credentials.
func WithChatModel(model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.chatModel = model
	})
}

// WithMaxContextDocs caps how many retrieved documents ground an Ask answer.
// Default: 5.
func WithMaxContextDocs(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxContextDocs = n
	})
}

// WithLogger enables structured logging for client operations.
// Default: no logging.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
