package meta

const (
	// CLIName is the binary name and the prefix used for config and env lookups
	CLIName = "pressctl"

	// CLIDescription is a short human readable description of the tool
	CLIDescription = "pressctl manages blogs, news and testimonials on a content backend"
)
