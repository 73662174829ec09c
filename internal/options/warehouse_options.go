package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// WarehouseOptions points at the on-disk warehouse profile map. The map
// itself (driver, DSN, pinned tables, schema descriptor path per profile)
// is loaded by warehouse.LoadConfig, same as the MCP subsystem loads its
// own standalone file.
type WarehouseOptions struct {
	ConfigFile     string `json:"config-file" mapstructure:"config-file"`
	DefaultProfile string `json:"default-profile" mapstructure:"default-profile"`
}

func NewWarehouseOptions() *WarehouseOptions {
	return &WarehouseOptions{
		ConfigFile: "conf/warehouse.json",
	}
}

func (o *WarehouseOptions) Validate() []error {
	var errs []error
	if o.ConfigFile == "" {
		errs = append(errs, fmt.Errorf("warehouse.config-file is required"))
	}
	return errs
}

func (o *WarehouseOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.ConfigFile, "warehouse.config-file", o.ConfigFile, "Path to the warehouse profile configuration file.")
	fs.StringVar(&o.DefaultProfile, "warehouse.default-profile", o.DefaultProfile, "Profile used when a request does not name one.")
}
