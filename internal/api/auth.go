package api

import (
	"context"
	"errors"
	"net/http"
)

var ErrNoToken = errors.New("auth response without token")

type AuthAPI struct{ c *Client }

// Login devuelve el usuario con su token; no toca la sesión.
func (a AuthAPI) Login(ctx context.Context, email, password string) (User, error) {
	var u User
	if err := a.c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, &u); err != nil {
		return User{}, err
	}
	if u.Token == "" {
		return User{}, ErrNoToken
	}
	return u, nil
}

func (a AuthAPI) Register(ctx context.Context, in RegisterRequest) (User, error) {
	var u User
	if err := a.c.do(ctx, http.MethodPost, "/auth/register", in, &u); err != nil {
		return User{}, err
	}
	if u.Token == "" {
		return User{}, ErrNoToken
	}
	return u, nil
}
