package user

import (
	"encoding/json"

	"github.com/example/foodyham/internal/domain/ident"
)

// Role is the collaborator-assigned account role
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Identity is the authenticated user record. The credential token is kept
// next to it by the session store, never inside it.
type Identity struct {
	ID      ident.ID `json:"id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Role    Role     `json:"role"`
	IsAdmin bool     `json:"isAdmin"`
	Phone   string   `json:"phone,omitempty"`
	Address string   `json:"address,omitempty"`
}

// UnmarshalJSON falls back to "_id" and always re-derives IsAdmin from Role,
// so a stale or tampered isAdmin flag never survives ingress.
func (i *Identity) UnmarshalJSON(data []byte) error {
	type alias Identity
	aux := struct {
		*alias
		MongoID ident.ID `json:"_id"`
	}{alias: (*alias)(i)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if i.ID.IsZero() {
		i.ID = aux.MongoID
	}
	i.IsAdmin = i.Role == RoleAdmin
	return nil
}

// WithDerived returns i with IsAdmin derived from Role
func (i Identity) WithDerived() Identity {
	i.IsAdmin = i.Role == RoleAdmin
	return i
}

// ProfilePatch is the body of PUT /auth/profile; empty fields are omitted
type ProfilePatch struct {
	Name    string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address string `json:"address,omitempty" validate:"omitempty,max=300"`
}

// Merge applies the non-empty fields of p onto i
func (p ProfilePatch) Merge(i Identity) Identity {
	if p.Name != "" {
		i.Name = p.Name
	}
	if p.Email != "" {
		i.Email = p.Email
	}
	if p.Phone != "" {
		i.Phone = p.Phone
	}
	if p.Address != "" {
		i.Address = p.Address
	}
	return i
}

// UndefinedToken is the literal some front ends persist when a login
// response carried no token. It is treated as absent everywhere.
const UndefinedToken = "undefined"

// Credentials is a successful login or registration response
type Credentials struct {
	Identity Identity
	Token    string
}

// HasToken reports whether c carries a usable bearer token
func (c Credentials) HasToken() bool {
	return c.Token != "" && c.Token != UndefinedToken
}
