package options

import "github.com/spf13/pflag"

// AuthOptions reserves the configuration slot for authentication keys.
// Authentication enforcement itself is out of scope; Enabled stays false
// and RequireAuth (middleware.RequireAuth) stays a passthrough until a
// concrete scheme is chosen.
type AuthOptions struct {
	Enabled bool              `json:"enabled" mapstructure:"enabled"`
	APIKeys map[string]string `json:"api-keys" mapstructure:"api-keys"` // key -> owner label
}

func NewAuthOptions() *AuthOptions {
	return &AuthOptions{APIKeys: make(map[string]string)}
}

func (o *AuthOptions) Validate() []error {
	return nil
}

func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "auth.enabled", o.Enabled, "Reserved: enforce API key authentication. Not yet implemented.")
}
