package pages

import (
	"net/http"
	"strconv"
	"strings"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/web/view"
)

type teamsPage struct {
	Teams     []api.Team
	CanCreate bool
	Selected  *api.Team
	Members   []api.UserSummary
}

// teamsHandler sirve /teams y /teams/{id}/members (misma página con el
// equipo seleccionado).
func teamsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		teams := store.Client().Teams()
		p := d.View.Page(r, "Teams", "teams")
		data := teamsPage{CanCreate: user.Role == roles.Admin}

		list, err := teams.List(r.Context())
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load teams")
		}
		data.Teams = list

		if id, ok := idParam(r, "id"); ok {
			for i := range list {
				if list[i].ID == id {
					data.Selected = &list[i]
					break
				}
			}
			if data.Selected == nil {
				data.Selected = &api.Team{ID: id, Name: "Team " + strconv.FormatInt(id, 10)}
			}
			members, err := teams.Members(r.Context(), id)
			if err != nil {
				p.Error = view.ErrorText(err, "Failed to load members")
			}
			data.Members = members
		}

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "teams", p)
	}
}

func createTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		if user.Role != roles.Admin {
			view.Redirect(w, r, "/teams", view.MsgUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil {
			view.Redirect(w, r, "/teams", "Invalid form")
			return
		}
		in := api.TeamRequest{
			Name:        strings.TrimSpace(r.PostFormValue("name")),
			Description: strings.TrimSpace(r.PostFormValue("description")),
		}
		if in.Name == "" {
			view.Redirect(w, r, "/teams", "Team name is required")
			return
		}
		if _, err := store.Client().Teams().Create(r.Context(), in); err != nil {
			view.Redirect(w, r, "/teams", view.ErrorText(err, "Failed to create team"))
			return
		}
		view.Redirect(w, r, "/teams", "Team created successfully!")
	}
}
