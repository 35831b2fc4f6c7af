package common

import "fmt"

// OutputFormat is the value of --output
type OutputFormat int

type LogLevel int

type ColorMode int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

const (
	ColorModeAuto ColorMode = iota
	ColorModeAlways
	ColorModeNever
)

const (
	// --output
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	DefaultColorMode = "auto"

	// --profile
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"

	// --config-file
	ConfigFilePathFlagName = "config-file"

	// --log-level
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// --log-file
	LogFileFlagName = "log-file"

	// --base-url
	BaseURLFlagName = "base-url"

	// --token, overrides the stored session like a personal access token
	TokenFlagName = "token"

	// --page-size
	PageSizeFlagName = "page-size"

	// --timeout
	TimeoutFlagName = "timeout"

	// --color-theme
	ThemeFlagName = "color-theme"
)

var outputFormats = []string{"json", "yaml", "text"}

func (of OutputFormat) String() string {
	return outputFormats[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	switch format {
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	case "text":
		return TEXT, nil
	default:
		return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, outputFormats)
	}
}

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

func (ll LogLevel) String() string {
	return logLevels[ll]
}

func LogLevelStringToIota(level string) (LogLevel, error) {
	for i, l := range logLevels {
		if l == level {
			return LogLevel(i), nil
		}
	}
	return ERROR, fmt.Errorf("invalid log level %q, must be one of %v", level, logLevels)
}

func (cm ColorMode) String() string {
	switch cm {
	case ColorModeAlways:
		return "always"
	case ColorModeNever:
		return "never"
	default:
		return "auto"
	}
}

func ColorModeStringToIota(mode string) (ColorMode, error) {
	switch mode {
	case "auto", "":
		return ColorModeAuto, nil
	case "always":
		return ColorModeAlways, nil
	case "never":
		return ColorModeNever, nil
	default:
		return ColorModeAuto, fmt.Errorf("invalid color mode %q, must be one of %v", mode,
			[]string{"auto", "always", "never"})
	}
}
