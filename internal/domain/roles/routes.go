package roles

// Permisos por ruta (patrones chi). Lo que no está acá: cualquier autenticado.
var routePermissions = map[string]Set{
	"/upload":             NewSet(Creator, Admin),
	"/teams":              NewSet(Admin, Team),
	"/teams/{id}/members": NewSet(Admin, Team),
	"/videos/{id}/access": NewSet(Creator),
}

// ForRoute devuelve los roles permitidos para un patrón de ruta.
func ForRoute(pattern string) Set {
	if s, ok := routePermissions[pattern]; ok {
		return s
	}
	return Any
}

type MenuItem struct {
	ID      string
	Path    string
	Label   string
	Allowed Set
}

var menu = []MenuItem{
	{ID: "dashboard", Path: "/dashboard", Label: "Dashboard", Allowed: Any},
	{ID: "videos", Path: "/videos", Label: "Videos", Allowed: Any},
	{ID: "upload", Path: "/upload", Label: "Upload", Allowed: NewSet(Creator, Admin)},
	{ID: "unlock", Path: "/unlock", Label: "Unlock Video", Allowed: NewSet(Viewer)},
	{ID: "access-requests", Path: "/access-requests", Label: "Access Requests", Allowed: Any},
	{ID: "creators", Path: "/creators", Label: "Creators", Allowed: Any},
	{ID: "teams", Path: "/teams", Label: "Teams", Allowed: NewSet(Admin, Team)},
}

// Menu filtra la navegación para un rol.
func Menu(r Role) []MenuItem {
	out := make([]MenuItem, 0, len(menu))
	for _, it := range menu {
		if it.Allowed.Allows(r) {
			out = append(out, it)
		}
	}
	return out
}
