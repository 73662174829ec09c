package options

import "github.com/spf13/pflag"

// StoreOptions selects the operational-store backend for sessions,
// requests, and query metadata. An empty Path keeps the in-process,
// non-durable store, matching the warehouse/cache defaults of running
// with zero external state by default.
type StoreOptions struct {
	Path string `json:"path" mapstructure:"path"`
}

func NewStoreOptions() *StoreOptions {
	return &StoreOptions{}
}

func (o *StoreOptions) Validate() []error {
	return nil
}

func (o *StoreOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Path, "store.path", o.Path, "BoltDB file path for durable session/request/query storage. Empty keeps the in-memory store.")
}
