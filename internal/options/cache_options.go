package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// CacheOptions selects the Store backing schema/validation caching. When
// Enabled is false, or Endpoint is empty, the in-process Memory store is
// used and nothing leaves the process.
type CacheOptions struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Endpoint string        `json:"endpoint" mapstructure:"endpoint"`
	Password string        `json:"password" mapstructure:"password"`
	DB       int           `json:"db" mapstructure:"db"`
	TTL      time.Duration `json:"ttl" mapstructure:"ttl"`
}

func NewCacheOptions() *CacheOptions {
	return &CacheOptions{
		Enabled: false,
		TTL:     10 * time.Minute,
	}
}

func (o *CacheOptions) Validate() []error {
	var errs []error
	if o.Enabled && o.Endpoint == "" {
		errs = append(errs, fmt.Errorf("cache.endpoint is required when cache.enabled is true"))
	}
	return errs
}

func (o *CacheOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "cache.enabled", o.Enabled, "Back the cache with an external Redis endpoint instead of in-process memory.")
	fs.StringVar(&o.Endpoint, "cache.endpoint", o.Endpoint, "Redis endpoint, host:port.")
	fs.StringVar(&o.Password, "cache.password", o.Password, "Redis password, empty for none.")
	fs.IntVar(&o.DB, "cache.db", o.DB, "Redis logical database index.")
	fs.DurationVar(&o.TTL, "cache.ttl", o.TTL, "Default entry TTL.")
}
