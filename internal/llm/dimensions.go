package llm

import (
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/everlightos/federation/internal/domain"
)

// knownDimensions maps embedding models to the length of the vectors they return.
var knownDimensions = map[string]int{
	"nomic-embed-text":             768,
	"mxbai-embed-large":            1024,
	"all-minilm":                   384,
	"snowflake-arctic-embed":       1024,
	string(openai.AdaEmbeddingV2):  1536,
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
}

// EmbeddingModelName returns the configured embedding model or the provider's default.
func EmbeddingModelName(s Settings) string {
	if s.EmbeddingModel != "" {
		return s.EmbeddingModel
	}
	if s.Provider == ProviderOpenAI {
		return string(DefaultEmbeddingModel)
	}
	return DefaultOllamaEmbeddingModel
}

// ResolveDimensions returns the explicit dimensionality when set, otherwise
// the known length for the embedding model. Ollama tags such as ":latest" are
// ignored. Unknown models fall back to domain.DefaultEmbeddingDimensions.
func ResolveDimensions(s Settings) int {
	if s.EmbeddingDimensions > 0 {
		return s.EmbeddingDimensions
	}
	name := EmbeddingModelName(s)
	if i := strings.IndexByte(name, ':'); i >= 0 {
		name = name[:i]
	}
	if dims, ok := knownDimensions[name]; ok {
		return dims
	}
	return domain.DefaultEmbeddingDimensions
}
