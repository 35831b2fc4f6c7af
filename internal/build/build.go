package build

// Info carries values stamped into the binary by the linker.
type Info struct {
	Version string
	Commit  string
	Date    string
}

type infoKey struct{}

// InfoKey is the context key the root command stores *Info under
var InfoKey = infoKey{}
