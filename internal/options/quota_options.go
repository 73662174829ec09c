package options

import "github.com/spf13/pflag"

// QuotaOptions holds the per-session request-cap settings of the
// configuration surface. They are parsed with the other options, but no
// handler reads them: no request is rejected on their account. The cap is
// session-scoped rather than owner-scoped: there is no cross-session
// owner index in the operational store to aggregate against.
type QuotaOptions struct {
	Enabled               bool `json:"enabled" mapstructure:"enabled"`
	MaxRequestsPerSession int  `json:"max-requests-per-session" mapstructure:"max-requests-per-session"`
}

func NewQuotaOptions() *QuotaOptions {
	return &QuotaOptions{
		Enabled:               false,
		MaxRequestsPerSession: 200,
	}
}

func (o *QuotaOptions) Validate() []error {
	return nil
}

func (o *QuotaOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "quota.enabled", o.Enabled, "Per-session request cap switch (accepted; not enforced by any handler).")
	fs.IntVar(&o.MaxRequestsPerSession, "quota.max-requests-per-session", o.MaxRequestsPerSession, "Per-session request cap value (accepted; not enforced by any handler).")
}
