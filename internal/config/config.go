package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressroom/pressctl/internal/meta"
	"github.com/pressroom/pressctl/internal/util/viper"
	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

const (
	defaultConfigFileName = "config.yaml"

	// DefaultProfile is used when neither --profile nor PRESSCTL_PROFILE is set
	DefaultProfile = "default"

	BaseURLConfigPath  = "base-url"
	DefaultBaseURL     = "http://localhost:5000/api"
	TokenConfigPath    = "token"
	PageSizeConfigPath = "page-size"
	DefaultPageSize    = 10
	TimeoutConfigPath  = "timeout"
	DefaultTimeout     = "30s"
	LogFileConfigPath  = "log-file"
	ThemeConfigPath    = "color-theme"
	DefaultTheme       = "press"
)

// GetDefaultConfigPath returns $XDG_CONFIG_HOME/pressctl, falling back to
// ~/.config/pressctl when XDG_CONFIG_HOME is unset.
func GetDefaultConfigPath() (string, error) {
	val, set := os.LookupEnv("XDG_CONFIG_HOME")
	if !set || val == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		val = filepath.Join(home, ".config")
	}
	return os.ExpandEnv(filepath.Join(val, meta.CLIName)), nil
}

func GetDefaultConfigFilePath() (string, error) {
	dir, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultConfigFileName), nil
}

// GetConfig loads the configuration for profile. An explicit path must
// exist; the default path is created with defaults on first use.
func GetConfig(path string, profile string, defaultConfigFilePath string) (*ProfiledConfig, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); err == nil {
		vip, err := viper.NewViperE(path)
		if err != nil {
			return nil, err
		}
		return BuildProfiledConfig(profile, path, vip), nil
	}

	if path != defaultConfigFilePath {
		return nil, fmt.Errorf("the provided config file path does not exist: %s", path)
	}

	vip, err := viper.InitializeDefaultViper(getDefaultConfig(profile, path), path)
	if err != nil {
		return nil, err
	}
	return BuildProfiledConfig(profile, path, vip), nil
}

type Key struct{}

// ConfigKey is the context key the root command stores the Hook under
var ConfigKey = Key{}

// Hook is the narrow view of the configuration commands are given. Reads
// resolve against the active profile, flags and environment.
type Hook interface {
	Save() error
	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetIntOrElse(key string, orElse int) int
	GetStringSlice(key string) []string
	SetString(key string, value string)
	Set(k string, v any)
	Get(key string) any
	BindFlag(configPath string, f *pflag.Flag) error
	GetProfile() string
	GetPath() string
}

// ProfiledConfig wraps the file level viper and the sub-viper for one
// profile. Getters always read from the profile.
type ProfiledConfig struct {
	*v.Viper
	subViper    *v.Viper
	ProfileName string
	Path        string
}

func (p *ProfiledConfig) GetProfile() string {
	return p.ProfileName
}

// Save writes the profile's values back into the file level config
// before persisting, so that Set calls survive.
func (p *ProfiledConfig) Save() error {
	p.Viper.Set(p.ProfileName, p.subViper.AllSettings())
	return p.WriteConfig()
}

func (p *ProfiledConfig) GetString(key string) string {
	return p.subViper.GetString(key)
}

func (p *ProfiledConfig) GetBool(key string) bool {
	return p.subViper.GetBool(key)
}

func (p *ProfiledConfig) GetInt(key string) int {
	return p.subViper.GetInt(key)
}

func (p *ProfiledConfig) GetIntOrElse(key string, orElse int) int {
	if p.subViper.IsSet(key) {
		return p.subViper.GetInt(key)
	}
	return orElse
}

func (p *ProfiledConfig) GetStringSlice(key string) []string {
	return p.subViper.GetStringSlice(key)
}

func (p *ProfiledConfig) Get(key string) any {
	return p.subViper.Get(key)
}

func (p *ProfiledConfig) BindFlag(configPath string, f *pflag.Flag) error {
	return p.subViper.BindPFlag(configPath, f)
}

func (p *ProfiledConfig) SetString(k string, v string) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) Set(k string, v any) {
	p.subViper.Set(k, v)
}

func (p *ProfiledConfig) GetPath() string {
	return p.Path
}

func BuildProfiledConfig(profile string, path string, mainv *v.Viper) *ProfiledConfig {
	subv := mainv.Sub(profile)
	if subv == nil {
		// no section for this profile in the file, but profile scoped
		// environment variables must still resolve
		subv = v.New()
		envPrefix := viper.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(profile, "-", "_"))
		viper.ConfigureEnvVars(subv, envPrefix)
	}

	return &ProfiledConfig{
		Viper:       mainv,
		ProfileName: profile,
		subViper:    subv,
		Path:        path,
	}
}

func getDefaultConfig(profileName, configFilePath string) map[string]any {
	configDir := filepath.Dir(configFilePath)
	defaultLogPath := filepath.Join(configDir, "logs", meta.CLIName+".log")

	return map[string]any{
		profileName: map[string]any{
			"output":           "text",
			LogFileConfigPath:  defaultLogPath,
			BaseURLConfigPath:  DefaultBaseURL,
			PageSizeConfigPath: DefaultPageSize,
			TimeoutConfigPath:  DefaultTimeout,
			ThemeConfigPath:    DefaultTheme,
		},
	}
}
