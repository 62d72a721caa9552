// Package guard decide qué hacer con una navegación según la sesión.
// Es solo UX: el backend autoriza cada request por su cuenta.
package guard

import (
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/domain/session"
)

type Decision int

const (
	Loading Decision = iota
	Unauthenticated
	Unauthorized
	Authorized
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case Unauthorized:
		return "unauthorized"
	case Authorized:
		return "authorized"
	}
	return "unknown"
}

// Paths de redirección.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Decide: loading -> esperar; sin usuario -> login; rol fuera del set ->
// dashboard; si no, adelante. Set vacío = cualquier autenticado.
func Decide(st session.State, allowed roles.Set) Decision {
	if st.Loading {
		return Loading
	}
	if st.User == nil {
		return Unauthenticated
	}
	if !allowed.Allows(st.User.Role) {
		return Unauthorized
	}
	return Authorized
}

// Redirect devuelve a dónde mandar al usuario ("" si no corresponde).
func (d Decision) Redirect() string {
	switch d {
	case Unauthenticated:
		return LoginPath
	case Unauthorized:
		return DashboardPath
	}
	return ""
}
