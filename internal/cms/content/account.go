package content

import (
	perr "github.com/pressroom/pressctl/internal/err"
)

const MinPasswordLength = 6

// User is the account record returned next to a token
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c Credentials) Validate() error {
	v := &perr.ValidationFailure{Resource: "credentials"}
	v.Require("username", c.Username)
	v.Require("password", c.Password)
	return v.OrNil()
}

// Registration is the sign-up form. Confirm never leaves the client.
type Registration struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Confirm  string `json:"-"`
}

func (r Registration) Validate() error {
	v := &perr.ValidationFailure{Resource: "registration"}
	v.Require("username", r.Username)
	v.Require("name", r.Name)
	v.Require("password", r.Password)
	v.Require("confirmPassword", r.Confirm)
	if len(v.Fields) > 0 {
		// the form reports missing fields before anything else
		return v
	}
	if len([]rune(r.Password)) < MinPasswordLength {
		v.Reject("password", "must be at least 6 characters")
	}
	if r.Password != r.Confirm {
		v.Reject("confirmPassword", "passwords do not match")
	}
	return v.OrNil()
}
