// Package options assembles the echosql server's command-line/config
// surface: one named flag set per concern, composed the way the rest of
// the realm composes its option groups.
package options

import (
	pkgoptions "github.com/kiosk404/echosql/internal/pkg/options"
	"github.com/kiosk404/echosql/pkg/utils/cliflag"
	"github.com/kiosk404/echosql/pkg/utils/json"
)

// Options is the complete, unvalidated configuration surface for the
// echosql server binary.
type Options struct {
	ServerOptions      *ServerOptions           `json:"server" mapstructure:"server"`
	WarehouseOptions   *WarehouseOptions        `json:"warehouse" mapstructure:"warehouse"`
	StoreOptions       *StoreOptions            `json:"store" mapstructure:"store"`
	VectorIndexOptions *VectorIndexOptions      `json:"vectorindex" mapstructure:"vectorindex"`
	CacheOptions       *CacheOptions            `json:"cache" mapstructure:"cache"`
	AuthOptions        *AuthOptions             `json:"auth" mapstructure:"auth"`
	QuotaOptions       *QuotaOptions            `json:"quota" mapstructure:"quota"`
	ModelOptions       *pkgoptions.ModelOptions `json:"models" mapstructure:"models"`
}

func NewOptions() *Options {
	return &Options{
		ServerOptions:      NewServerOptions(),
		WarehouseOptions:   NewWarehouseOptions(),
		StoreOptions:       NewStoreOptions(),
		VectorIndexOptions: NewVectorIndexOptions(),
		CacheOptions:       NewCacheOptions(),
		AuthOptions:        NewAuthOptions(),
		QuotaOptions:       NewQuotaOptions(),
		ModelOptions:       pkgoptions.NewModelOptions(),
	}
}

// Flags splits every option group's flags into its own named set, so a
// --help listing groups "server", "warehouse", "vectorindex", and so on
// instead of one undifferentiated wall of flags.
func (o *Options) Flags() (fss cliflag.NamedFlagSets) {
	o.ServerOptions.AddFlags(fss.FlagSet("server"))
	o.WarehouseOptions.AddFlags(fss.FlagSet("warehouse"))
	o.StoreOptions.AddFlags(fss.FlagSet("store"))
	o.VectorIndexOptions.AddFlags(fss.FlagSet("vectorindex"))
	o.CacheOptions.AddFlags(fss.FlagSet("cache"))
	o.AuthOptions.AddFlags(fss.FlagSet("auth"))
	o.QuotaOptions.AddFlags(fss.FlagSet("quota"))
	o.ModelOptions.AddFlags(fss.FlagSet("models"))
	return fss
}

// Validate runs every option group's Validate and flattens the errors.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.ServerOptions.Validate()...)
	errs = append(errs, o.WarehouseOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.VectorIndexOptions.Validate()...)
	errs = append(errs, o.CacheOptions.Validate()...)
	errs = append(errs, o.AuthOptions.Validate()...)
	errs = append(errs, o.QuotaOptions.Validate()...)
	errs = append(errs, o.ModelOptions.Validate()...)
	return errs
}

// Complete fills in anything that depends on another option group having
// already been read. Nothing currently needs this, but the method exists
// so callers don't need to special-case "no completion needed".
func (o *Options) Complete() error {
	return nil
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
