package viper

import (
	"strings"

	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util"
	v "github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override (PRESSCTL_BASE_URL)
var EnvPrefix = strings.ToUpper(meta.CLIName)

// ConfigureEnvVars makes vip resolve keys from the environment using prefix.
// Dots and dashes in keys become underscores.
func ConfigureEnvVars(vip *v.Viper, prefix string) {
	vip.SetEnvPrefix(prefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	vip.AutomaticEnv()
}

// InitializeDefaultViper loads path, creating it from defaultValues when the
// file is missing or empty.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)
	if len(rv.AllSettings()) > 0 {
		return rv, nil
	}

	if err := rv.MergeConfigMap(defaultValues); err != nil {
		return nil, err
	}
	if err := rv.WriteConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViperE loads path strictly, failing when it cannot be read
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper loads path if possible and otherwise returns an env-only viper
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, EnvPrefix)
	return rv
}
