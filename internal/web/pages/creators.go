package pages

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/web/view"
)

type creatorsPage struct {
	Heading  string
	Query    string
	Creators []api.UserSummary
}

// filterCreators: búsqueda por nombre o email, sin distinguir mayúsculas.
func filterCreators(cs []api.UserSummary, query string) []api.UserSummary {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return cs
	}
	out := make([]api.UserSummary, 0, len(cs))
	for _, c := range cs {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Email), q) {
			out = append(out, c)
		}
	}
	return out
}

func creatorsHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		users := store.Client().Users()
		p := d.View.Page(r, "Creators", "creators")
		data := creatorsPage{Query: r.URL.Query().Get("q")}

		var (
			cs  []api.UserSummary
			err error
		)
		if user.Role == roles.Viewer {
			data.Heading = "My Creators"
			cs, err = users.AccessibleCreators(r.Context())
		} else {
			data.Heading = "Discover Creators"
			cs, err = users.Creators(r.Context())
		}
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load creators")
		}
		data.Creators = filterCreators(cs, data.Query)

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "creators", p)
	}
}

type creatorPage struct {
	Creator api.UserSummary
	Videos  []api.Video
}

// creatorVideos: el viewer ve solo lo accesible, el propio creator ve sus
// borradores, el resto solo lo publicado.
func creatorVideos(ctx context.Context, c *api.Client, user api.User, creatorID int64) ([]api.Video, error) {
	videos := c.Videos()
	switch {
	case user.Role == roles.Viewer:
		all, err := videos.Accessible(ctx)
		if err != nil {
			return nil, err
		}
		return keepVideos(all, func(v api.Video) bool { return v.CreatorID() == creatorID }), nil
	case user.UserID == creatorID:
		return videos.ByCreator(ctx, creatorID)
	default:
		all, err := videos.ByCreator(ctx, creatorID)
		if err != nil {
			return nil, err
		}
		return keepVideos(all, func(v api.Video) bool { return v.IsPublished }), nil
	}
}

func keepVideos(vs []api.Video, keep func(api.Video) bool) []api.Video {
	out := make([]api.Video, 0, len(vs))
	for _, v := range vs {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func creatorHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		p := d.View.Page(r, "Creator", "creators")

		id, ok := idParam(r, "id")
		if !ok {
			p.Error = "Creator not found"
			d.View.Render(w, r, http.StatusNotFound, "error", p)
			return
		}

		c := store.Client()
		var data creatorPage
		g, gctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			creator, err := c.Users().Creator(gctx, id)
			data.Creator = creator
			return err
		})
		g.Go(func() error {
			vs, err := creatorVideos(gctx, c, user, id)
			data.Videos = vs
			return err
		})
		if err := g.Wait(); err != nil {
			status := http.StatusBadGateway
			p.Error = view.ErrorText(err, "Failed to load creator profile")
			if errors.Is(err, api.ErrNotFound) {
				status = http.StatusNotFound
				p.Error = "Creator not found"
			}
			d.View.Render(w, r, status, "error", p)
			return
		}

		p.Title = data.Creator.Name
		p.Data = data
		d.View.Render(w, r, http.StatusOK, "creator", p)
	}
}
