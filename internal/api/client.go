// Package api es el cliente tipado del backend REST de Annotate.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"annotate-web/internal/platform/httpclient"
)

var ErrNotFound = errors.New("not found")

// Client agrupa los endpoints del backend sobre un httpclient.Client
// (que ya lleva el token de la sesión).
type Client struct {
	hc *httpclient.Client
}

func New(hc *httpclient.Client) *Client {
	return &Client{hc: hc}
}

// HTTP expone el cliente base (token, uploads crudos).
func (c *Client) HTTP() *httpclient.Client { return c.hc }

func (c *Client) Auth() AuthAPI               { return AuthAPI{c} }
func (c *Client) Videos() VideosAPI           { return VideosAPI{c} }
func (c *Client) Feedback() FeedbackAPI       { return FeedbackAPI{c} }
func (c *Client) VideoAccess() VideoAccessAPI { return VideoAccessAPI{c} }
func (c *Client) AccessCodes() AccessCodesAPI { return AccessCodesAPI{c} }
func (c *Client) Teams() TeamsAPI             { return TeamsAPI{c} }
func (c *Client) Users() UsersAPI             { return UsersAPI{c} }

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.hc.DoJSON(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	return c.hc.DoJSON(ctx, method, endpoint, in, out)
}

// getList: respuesta vacía => lista vacía, nunca nil.
func getList[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	out := []T{}
	if err := c.get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
