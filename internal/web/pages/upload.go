package pages

import (
	"errors"
	"net/http"
	"strings"

	"annotate-web/internal/domain/upload"
	"annotate-web/internal/platform/logger"
	"annotate-web/internal/web/view"
)

// parte en memoria del multipart; el resto va a disco temporal
const multipartMemory = 32 << 20

type uploadPage struct {
	Title       string
	Description string
	Accept      string
	MaxMB       int64
	// Progress queda en 0: el archivo se envía en un solo request.
	Progress int
}

func newUploadPage() uploadPage {
	return uploadPage{
		Accept: strings.Join(upload.Extensions(), ","),
		MaxMB:  upload.MaxFileSize >> 20,
	}
}

func uploadPageHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := d.View.Page(r, "Upload", "upload")
		p.Data = newUploadPage()
		d.View.Render(w, r, http.StatusOK, "upload", p)
	}
}

func uploadErrorText(err error) string {
	switch {
	case errors.Is(err, upload.ErrNoFile):
		return "Please select a video file"
	case errors.Is(err, upload.ErrNotVideo):
		return "Please upload a valid video file"
	case errors.Is(err, upload.ErrTooLarge):
		return "Video file must be 500 MB or smaller"
	case errors.Is(err, upload.ErrTitleRequired):
		return "Please enter a title"
	}
	return view.ErrorText(err, "Failed to upload video.")
}

func uploadHandler(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, user := current(r)
		data := newUploadPage()

		fail := func(status int, msg string) {
			p := d.View.Page(r, "Upload", "upload")
			p.Error = msg
			p.Data = data
			d.View.Render(w, r, status, "upload", p)
		}

		r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				fail(http.StatusRequestEntityTooLarge, uploadErrorText(upload.ErrTooLarge))
				return
			}
			fail(http.StatusBadRequest, uploadErrorText(upload.ErrNoFile))
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		data.Title = r.PostFormValue("title")
		data.Description = r.PostFormValue("description")

		in := upload.Input{Title: data.Title, Description: data.Description}
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			in.File = file
			in.FileName = header.Filename
			in.ContentType = header.Header.Get("Content-Type")
			in.Size = header.Size
		}

		video, err := upload.NewService(store.Client().Videos()).Upload(r.Context(), in)
		if err != nil {
			logger.FromContext(r.Context()).Warn("upload failed", map[string]any{
				"user_id": user.UserID,
				"file":    in.FileName,
				"error":   err,
			})
			status := http.StatusBadRequest
			if errors.Is(err, upload.ErrTooLarge) {
				status = http.StatusRequestEntityTooLarge
			} else if !errors.Is(err, upload.ErrNoFile) && !errors.Is(err, upload.ErrNotVideo) && !errors.Is(err, upload.ErrTitleRequired) {
				status = http.StatusBadGateway
			}
			fail(status, uploadErrorText(err))
			return
		}

		logger.FromContext(r.Context()).Info("video uploaded", map[string]any{"video_id": video.ID, "size": in.Size})
		to := "/videos"
		if video.ID > 0 {
			to = videoPath(video.ID)
		}
		view.Redirect(w, r, to, "Video uploaded successfully!")
	}
}
