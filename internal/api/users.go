package api

import "context"

type UsersAPI struct{ c *Client }

func (u UsersAPI) Creators(ctx context.Context) ([]UserSummary, error) {
	return getList[UserSummary](ctx, u.c, "/users/creators")
}

// AccessibleCreators: creators con al menos un video al que el viewer accede.
func (u UsersAPI) AccessibleCreators(ctx context.Context) ([]UserSummary, error) {
	return getList[UserSummary](ctx, u.c, "/users/accessible-creators")
}

func (u UsersAPI) Creator(ctx context.Context, id int64) (UserSummary, error) {
	var out UserSummary
	if err := u.c.get(ctx, path("/users/creators/%d", id), &out); err != nil {
		return UserSummary{}, err
	}
	if out.ID == 0 {
		return UserSummary{}, ErrNotFound
	}
	return out, nil
}

func (u UsersAPI) Profile(ctx context.Context) (UserSummary, error) {
	var out UserSummary
	if err := u.c.get(ctx, "/users/profile", &out); err != nil {
		return UserSummary{}, err
	}
	return out, nil
}
