package api

import (
	"context"
	"net/http"
)

type AccessCodesAPI struct{ c *Client }

func (a AccessCodesAPI) Generate(ctx context.Context, videoID int64) (string, error) {
	var out accessCodeResponse
	if err := a.c.do(ctx, http.MethodPost, path("/video-access-code/generate/%d", videoID), nil, &out); err != nil {
		return "", err
	}
	return out.AccessCode, nil
}

// Get devuelve "" si el video no tiene código activo.
func (a AccessCodesAPI) Get(ctx context.Context, videoID int64) (string, error) {
	var out accessCodeResponse
	if err := a.c.get(ctx, path("/video-access-code/%d", videoID), &out); err != nil {
		return "", err
	}
	return out.AccessCode, nil
}

// Redeem manda el código ya formateado (XXXX-XXXX).
func (a AccessCodesAPI) Redeem(ctx context.Context, code string) (bool, error) {
	var out redeemResponse
	if err := a.c.do(ctx, http.MethodPost, "/video-access-code/redeem", codeBody{Code: code}, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

func (a AccessCodesAPI) Disable(ctx context.Context, videoID int64) error {
	return a.c.do(ctx, http.MethodDelete, path("/video-access-code/%d", videoID), nil, nil)
}
