package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewOptions_ValidatesClean(t *testing.T) {
	o := NewOptions()
	require.Empty(t, o.Validate())
}

func TestServerOptions_Validate_BadPort(t *testing.T) {
	o := NewServerOptions()
	o.BindPort = 0
	errs := o.Validate()
	require.Len(t, errs, 1)
}

func TestCacheOptions_Validate_EnabledWithoutEndpoint(t *testing.T) {
	o := NewCacheOptions()
	o.Enabled = true
	errs := o.Validate()
	require.Len(t, errs, 1)
}

func TestVectorIndexOptions_Validate_HostWithoutModel(t *testing.T) {
	o := NewVectorIndexOptions()
	o.Host = "localhost"
	errs := o.Validate()
	require.Len(t, errs, 1)
}

func TestOptions_Flags_GroupsByName(t *testing.T) {
	o := NewOptions()
	fss := o.Flags()
	require.Contains(t, fss.Order, "server")
	require.Contains(t, fss.Order, "warehouse")
	require.Contains(t, fss.Order, "store")
	require.Contains(t, fss.Order, "vectorindex")
	require.Contains(t, fss.Order, "cache")
	require.Contains(t, fss.Order, "models")
}

func TestStoreOptions_Validate_AlwaysClean(t *testing.T) {
	o := NewStoreOptions()
	require.Empty(t, o.Validate())
	o.Path = "/tmp/echosql.db"
	require.Empty(t, o.Validate())
}
