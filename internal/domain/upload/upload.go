// Package upload valida y envía un video al backend en un único multipart.
package upload

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"annotate-web/internal/api"
)

const MaxFileSize int64 = 500 << 20

var (
	ErrNoFile        = errors.New("no video file")
	ErrNotVideo      = errors.New("not a video file")
	ErrTooLarge      = errors.New("video file too large")
	ErrTitleRequired = errors.New("title required")
)

var videoExtensions = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

// Extensions aceptadas (para el atributo accept del form).
func Extensions() []string {
	return []string{".mp4", ".mov", ".avi", ".mkv", ".webm"}
}

type Input struct {
	Title       string
	Description string

	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// Backend: lo implementa api.VideosAPI.
type Backend interface {
	UploadFile(ctx context.Context, f api.VideoFile, title, description string) (api.Video, error)
}

type Service struct {
	backend Backend
}

func NewService(b Backend) *Service {
	return &Service{backend: b}
}

// ContentTypeFor: el declarado si es video/*; si no, por extensión.
func ContentTypeFor(fileName, declared string) (string, bool) {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && strings.HasPrefix(mt, "video/") {
		return mt, true
	}
	if ct, ok := videoExtensions[strings.ToLower(filepath.Ext(fileName))]; ok {
		return ct, true
	}
	return "", false
}

// Validate corre todas las reglas locales; nada sale a la red si falla.
func Validate(in Input) (string, error) {
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return "", ErrNoFile
	}
	ct, ok := ContentTypeFor(in.FileName, in.ContentType)
	if !ok {
		return "", ErrNotVideo
	}
	if in.Size > MaxFileSize {
		return "", ErrTooLarge
	}
	if strings.TrimSpace(in.Title) == "" {
		return "", ErrTitleRequired
	}
	return ct, nil
}

// Upload: un solo request, sin chunks ni reanudación.
func (s *Service) Upload(ctx context.Context, in Input) (api.Video, error) {
	ct, err := Validate(in)
	if err != nil {
		return api.Video{}, err
	}
	return s.backend.UploadFile(ctx, api.VideoFile{
		Name:        filepath.Base(in.FileName),
		ContentType: ct,
		Reader:      in.File,
	}, strings.TrimSpace(in.Title), strings.TrimSpace(in.Description))
}
