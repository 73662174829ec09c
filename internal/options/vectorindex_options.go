package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// VectorIndexOptions selects and configures the backing store for
// relevant_examples / relevant_tables similarity search. An empty Host
// leaves the service on the in-process brute-force fallback.
type VectorIndexOptions struct {
	Host               string `json:"host" mapstructure:"host"`
	Port               int    `json:"port" mapstructure:"port"`
	APIKey             string `json:"api-key" mapstructure:"api-key"`
	UseTLS             bool   `json:"use-tls" mapstructure:"use-tls"`
	ExamplesCollection string `json:"examples-collection" mapstructure:"examples-collection"`
	TablesCollection   string `json:"tables-collection" mapstructure:"tables-collection"`
	EmbeddingProvider  string `json:"embedding-provider" mapstructure:"embedding-provider"`
	EmbeddingModel     string `json:"embedding-model" mapstructure:"embedding-model"`
	EmbeddingAPIKey    string `json:"embedding-api-key" mapstructure:"embedding-api-key"`
	EmbeddingBaseURL   string `json:"embedding-base-url" mapstructure:"embedding-base-url"`
}

func NewVectorIndexOptions() *VectorIndexOptions {
	return &VectorIndexOptions{
		ExamplesCollection: "echosql_query_examples",
		TablesCollection:   "echosql_table_relevance",
	}
}

func (o *VectorIndexOptions) Validate() []error {
	var errs []error
	if o.Host != "" && o.EmbeddingModel == "" {
		errs = append(errs, fmt.Errorf("vectorindex.embedding-model is required when vectorindex.host is set"))
	}
	return errs
}

func (o *VectorIndexOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Host, "vectorindex.host", o.Host, "Qdrant host. Empty keeps the in-process brute-force index.")
	fs.IntVar(&o.Port, "vectorindex.port", o.Port, "Qdrant gRPC port.")
	fs.StringVar(&o.APIKey, "vectorindex.api-key", o.APIKey, "Qdrant API key.")
	fs.BoolVar(&o.UseTLS, "vectorindex.use-tls", o.UseTLS, "Use TLS when dialing Qdrant.")
	fs.StringVar(&o.ExamplesCollection, "vectorindex.examples-collection", o.ExamplesCollection, "Collection name for query examples.")
	fs.StringVar(&o.TablesCollection, "vectorindex.tables-collection", o.TablesCollection, "Collection name for table descriptors.")
	fs.StringVar(&o.EmbeddingProvider, "vectorindex.embedding-provider", o.EmbeddingProvider, "Provider ID used to embed requests.")
	fs.StringVar(&o.EmbeddingModel, "vectorindex.embedding-model", o.EmbeddingModel, "Model ID used to embed requests.")
	fs.StringVar(&o.EmbeddingAPIKey, "vectorindex.embedding-api-key", o.EmbeddingAPIKey, "API key for the embedding endpoint.")
	fs.StringVar(&o.EmbeddingBaseURL, "vectorindex.embedding-base-url", o.EmbeddingBaseURL, "Base URL for an OpenAI-compatible embeddings endpoint.")
}
