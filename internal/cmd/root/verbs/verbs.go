package verbs

const (
	Get      = VerbValue("get")
	List     = VerbValue("list")
	Create   = VerbValue("create")
	Update   = VerbValue("update")
	Delete   = VerbValue("delete")
	View     = VerbValue("view")
	Login    = VerbValue("login")
	Logout   = VerbValue("logout")
	Register = VerbValue("register")
	Version  = VerbValue("version")
)

// Empty type to represent the _type_ Verb. Genesis is to support a key in a Context
type VerbKey struct{}

// Verb is a global instance of the VerbKey type
var Verb = VerbKey{}

// Will represent a specific Verb (get, create, update, delete, etc)
type VerbValue string

func (v VerbValue) String() string {
	return string(v)
}
