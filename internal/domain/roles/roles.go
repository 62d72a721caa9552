package roles

import (
	"errors"
	"strings"
)

var ErrUnknownRole = errors.New("unknown role")

// Role es advisory: el backend es quien autoriza de verdad.
type Role string

const (
	Admin   Role = "ADMIN"
	Creator Role = "CREATOR"
	Team    Role = "TEAM"
	Viewer  Role = "VIEWER"
)

func All() []Role { return []Role{Admin, Creator, Team, Viewer} }

func Parse(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case Admin, Creator, Team, Viewer:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// Label para la UI.
func (r Role) Label() string {
	switch r {
	case Admin:
		return "Admin"
	case Creator:
		return "Creator"
	case Team:
		return "Team member"
	case Viewer:
		return "Viewer"
	}
	return string(r)
}

// Registrable: roles que se pueden elegir al crear cuenta.
func Registrable() []Role { return []Role{Viewer, Creator} }

// Set de roles permitidos. Vacío = cualquier usuario autenticado.
type Set map[Role]struct{}

func NewSet(rs ...Role) Set {
	s := make(Set, len(rs))
	for _, r := range rs {
		s[r] = struct{}{}
	}
	return s
}

// Any = sin restricción de rol.
var Any = Set{}

func (s Set) Allows(r Role) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[r]
	return ok
}

func (s Set) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range All() {
		if _, ok := s[r]; ok {
			out = append(out, r)
		}
	}
	return out
}

// CanManageVideos: subir, publicar y borrar (ADMIN borra cualquiera).
func CanManageVideos(r Role) bool { return r == Creator || r == Admin }
