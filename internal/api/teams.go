package api

import (
	"context"
	"net/http"
)

type TeamsAPI struct{ c *Client }

func (t TeamsAPI) List(ctx context.Context) ([]Team, error) {
	return getList[Team](ctx, t.c, "/teams")
}

func (t TeamsAPI) Create(ctx context.Context, in TeamRequest) (Team, error) {
	var out Team
	if err := t.c.do(ctx, http.MethodPost, "/teams", in, &out); err != nil {
		return Team{}, err
	}
	return out, nil
}

func (t TeamsAPI) Members(ctx context.Context, teamID int64) ([]UserSummary, error) {
	return getList[UserSummary](ctx, t.c, path("/teams/%d/members", teamID))
}
