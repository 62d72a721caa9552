package pages

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/access"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/web/view"
)

type dashboardStats struct {
	Total     int
	Published int
	Feedbacks int
}

func statsOf(vs []api.Video) dashboardStats {
	s := dashboardStats{Total: len(vs)}
	for _, v := range vs {
		if v.IsPublished {
			s.Published++
		}
		s.Feedbacks += len(v.Feedbacks)
	}
	return s
}

type dashboardPage struct {
	Videos     []api.Video
	Stats      dashboardStats
	Own        bool
	CanPublish bool
}

func dashboardHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		if user.Role == roles.Viewer {
			http.Redirect(w, r, "/creators", http.StatusSeeOther)
			return
		}

		p := d.View.Page(r, "Dashboard", "dashboard")
		data := dashboardPage{
			Own:        user.Role == roles.Creator,
			CanPublish: roles.CanManageVideos(user.Role),
			Videos:     []api.Video{},
		}

		var (
			vs  []api.Video
			err error
		)
		if data.Own {
			vs, err = store.Client().Videos().ByCreator(r.Context(), user.UserID)
		} else {
			vs, err = store.Client().Videos().Published(r.Context())
		}
		if err != nil {
			logger.FromContext(r.Context()).Warn("dashboard load failed", map[string]any{"error": err})
			p.Error = view.ErrorText(err, "Failed to load dashboard")
		} else {
			data.Videos = vs
			data.Stats = statsOf(vs)
		}

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "dashboard", p)
	}
}

type videosPage struct {
	Heading    string
	Videos     []api.Video
	ShowUnlock bool
	CanUpload  bool
}

func videosHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		videos := store.Client().Videos()
		p := d.View.Page(r, "Videos", "videos")

		data := videosPage{CanUpload: roles.CanManageVideos(user.Role)}
		var (
			vs  []api.Video
			err error
		)
		switch user.Role {
		case roles.Creator:
			data.Heading = "My Videos"
			vs, err = videos.ByCreator(r.Context(), user.UserID)
		case roles.Viewer:
			data.Heading = "My Accessible Videos"
			data.ShowUnlock = true
			vs, err = videos.Accessible(r.Context())
		default:
			data.Heading = "Published Videos"
			vs, err = videos.Published(r.Context())
		}
		if err != nil {
			p.Error = view.ErrorText(err, "Failed to load videos")
		}
		data.Videos = vs

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "videos", p)
	}
}

type videoPage struct {
	Video      api.Video
	Decision   access.Decision
	Feedbacks  []api.Feedback
	AccessCode string
	CanDelete  bool
}

func videoHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		p := d.View.Page(r, "Video", "videos")

		id, ok := idParam(r, "id")
		if !ok {
			p.Error = "Video not found"
			d.View.Render(w, r, http.StatusNotFound, "error", p)
			return
		}

		c := store.Client()
		video, err := c.Videos().Get(r.Context(), id)
		if err != nil {
			status := http.StatusBadGateway
			p.Error = view.ErrorText(err, "Failed to load video")
			if errors.Is(err, api.ErrNotFound) {
				status = http.StatusNotFound
				p.Error = "Video not found"
			}
			d.View.Render(w, r, status, "error", p)
			return
		}
		p.Title = video.Title

		svc := access.FromClient(c)
		dec, err := svc.Resolve(r.Context(), user, video)
		if err != nil {
			logger.FromContext(r.Context()).Warn("access state failed", map[string]any{"video_id": id, "error": err})
			p.Error = view.ErrorText(err, "Failed to check access")
			d.View.Render(w, r, http.StatusBadGateway, "error", p)
			return
		}

		data := videoPage{
			Video:     video,
			Decision:  dec,
			Feedbacks: video.Feedbacks,
			CanDelete: dec.CanModerate() && roles.CanManageVideos(user.Role),
		}

		if !dec.Locked() {
			g, gctx := errgroup.WithContext(r.Context())
			g.Go(func() error {
				fs, err := c.Feedback().ByVideo(gctx, id)
				if err != nil {
					return err
				}
				data.Feedbacks = fs
				return nil
			})
			if dec.CanModerate() {
				g.Go(func() error {
					code, err := svc.CurrentCode(gctx, id)
					data.AccessCode = code
					return err
				})
			}
			if err := g.Wait(); err != nil {
				p.Error = view.ErrorText(err, "Failed to load feedback")
			}
		}

		p.Data = data
		d.View.Render(w, r, http.StatusOK, "video", p)
	}
}

// videoAction: parsea {id}, corre fn y redirige con flash.
func videoAction(fn func(ctx context.Context, r *http.Request, c *api.Client, id int64) (to, flash string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if !ok {
			view.Redirect(w, r, "/videos", "Video not found")
			return
		}
		if err := r.ParseForm(); err != nil {
			view.Redirect(w, r, videoPath(id), "Invalid form")
			return
		}
		to, flash := fn(r.Context(), r, store.Client(), id)
		view.Redirect(w, r, to, flash)
	}
}

func publishHandler() http.HandlerFunc {
	return videoAction(func(ctx context.Context, r *http.Request, c *api.Client, id int64) (string, string) {
		to := back(r, videoPath(id))
		if err := c.Videos().Publish(ctx, id); err != nil {
			return to, "Failed to publish video: " + view.ErrorText(err, "")
		}
		return to, "Video published successfully!"
	})
}

func deleteVideoHandler() http.HandlerFunc {
	return videoAction(func(ctx context.Context, r *http.Request, c *api.Client, id int64) (string, string) {
		if err := c.Videos().Delete(ctx, id); err != nil {
			return videoPath(id), "Failed to delete video: " + view.ErrorText(err, "")
		}
		logger.FromContext(ctx).Info("video deleted", map[string]any{"video_id": id})
		return "/videos", "Video deleted successfully!"
	})
}

func createFeedbackHandler() http.HandlerFunc {
	return videoAction(func(ctx context.Context, r *http.Request, c *api.Client, id int64) (string, string) {
		comment := strings.TrimSpace(r.PostFormValue("comment"))
		if comment == "" {
			return videoPath(id), "Please write a comment"
		}
		ts, err := strconv.Atoi(strings.TrimSpace(r.PostFormValue("timestampSeconds")))
		if err != nil || ts < 0 {
			ts = 0
		}
		_, err = c.Feedback().Create(ctx, api.FeedbackRequest{VideoID: id, Comment: comment, TimestampSeconds: ts})
		if err != nil {
			return videoPath(id), view.ErrorText(err, "Failed to submit feedback.")
		}
		return videoPath(id), "Feedback submitted successfully!"
	})
}

func requestAccessHandler() http.HandlerFunc {
	return videoAction(func(ctx context.Context, r *http.Request, c *api.Client, id int64) (string, string) {
		if _, err := access.FromClient(c).RequestAccess(ctx, id, r.PostFormValue("reason")); err != nil {
			return videoPath(id), view.ErrorText(err, "Failed to send access request")
		}
		return videoPath(id), "Access request sent."
	})
}

func redeemForVideoHandler() http.HandlerFunc {
	return videoAction(func(ctx context.Context, r *http.Request, c *api.Client, id int64) (string, string) {
		return videoPath(id), redeemMessage(access.FromClient(c).Redeem(ctx, r.PostFormValue("code")))
	})
}

// redeemMessage traduce el resultado de un canje al texto que ve el usuario.
func redeemMessage(ok bool, err error) string {
	switch {
	case errors.Is(err, access.ErrCodeTooShort):
		return "Please enter a valid access code"
	case err != nil, !ok:
		return "Invalid access code. Please check and try again."
	default:
		return "Access granted! You can now watch this video."
	}
}

// Feedback

type feedbackAction func(ctx context.Context, c *api.Client, id int64) error

func approveFeedback(ctx context.Context, c *api.Client, id int64) error {
	return c.Feedback().Approve(ctx, id)
}

func rejectFeedback(ctx context.Context, c *api.Client, id int64) error {
	return c.Feedback().Reject(ctx, id)
}

func moderateFeedbackHandler(action feedbackAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if err := r.ParseForm(); err != nil || !ok {
			view.Redirect(w, r, "/videos", "Invalid form")
			return
		}
		to := "/videos"
		if videoID, ok := formInt(r, "videoId"); ok {
			to = videoPath(videoID)
		}
		if err := action(r.Context(), store.Client(), id); err != nil {
			view.Redirect(w, r, to, "Failed to update feedback: "+view.ErrorText(err, ""))
			return
		}
		view.Redirect(w, r, to, "Feedback updated")
	}
}

func feedbackStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, _ := current(r)
		id, ok := idParam(r, "id")
		if err := r.ParseForm(); err != nil || !ok {
			view.Redirect(w, r, "/videos", "Invalid form")
			return
		}
		to := "/videos"
		if videoID, ok := formInt(r, "videoId"); ok {
			to = videoPath(videoID)
		}

		status := api.FeedbackStatus(strings.ToUpper(strings.TrimSpace(r.PostFormValue("status"))))
		if err := store.Client().Feedback().UpdateStatus(r.Context(), id, status); err != nil {
			if errors.Is(err, api.ErrInvalidStatus) {
				view.Redirect(w, r, to, "Invalid feedback status")
				return
			}
			view.Redirect(w, r, to, "Failed to update feedback: "+view.ErrorText(err, ""))
			return
		}
		view.Redirect(w, r, to, "Feedback marked as "+string(status))
	}
}
