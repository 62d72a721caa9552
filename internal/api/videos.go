package api

import (
	"context"
	"io"
	"net/http"

	"annotate-web/internal/platform/httpclient"
)

type VideosAPI struct{ c *Client }

func (v VideosAPI) Published(ctx context.Context) ([]Video, error) {
	return getList[Video](ctx, v.c, "/videos/published")
}

func (v VideosAPI) ByCreator(ctx context.Context, creatorID int64) ([]Video, error) {
	return getList[Video](ctx, v.c, path("/videos/creator/%d", creatorID))
}

func (v VideosAPI) Accessible(ctx context.Context) ([]Video, error) {
	return getList[Video](ctx, v.c, "/videos/accessible")
}

func (v VideosAPI) Get(ctx context.Context, id int64) (Video, error) {
	var out Video
	if err := v.c.get(ctx, path("/videos/%d", id), &out); err != nil {
		return Video{}, err
	}
	if out.ID == 0 {
		return Video{}, ErrNotFound
	}
	return out, nil
}

// VideoFile es el archivo a subir tal como llegó del formulario.
type VideoFile struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// UploadFile manda file+title+description en un único multipart.
func (v VideosAPI) UploadFile(ctx context.Context, f VideoFile, title, description string) (Video, error) {
	res, err := v.c.hc.Upload(ctx, "/videos/upload-file",
		httpclient.MultipartFile{Field: "file", Name: f.Name, ContentType: f.ContentType, Reader: f.Reader},
		httpclient.FormField{Name: "title", Value: title},
		httpclient.FormField{Name: "description", Value: description},
	)
	if err != nil {
		return Video{}, err
	}
	var out Video
	if err := res.Decode(&out); err != nil {
		return Video{}, err
	}
	return out, nil
}

func (v VideosAPI) Publish(ctx context.Context, id int64) error {
	return v.c.do(ctx, http.MethodPut, path("/videos/%d/publish", id), nil, nil)
}

func (v VideosAPI) Delete(ctx context.Context, id int64) error {
	return v.c.do(ctx, http.MethodDelete, path("/videos/%d", id), nil, nil)
}
