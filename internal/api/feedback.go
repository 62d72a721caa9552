package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-querystring/query"
)

var ErrInvalidStatus = errors.New("invalid feedback status")

type FeedbackAPI struct{ c *Client }

type statusQuery struct {
	Status FeedbackStatus `url:"status"`
}

func (f FeedbackAPI) Create(ctx context.Context, in FeedbackRequest) (Feedback, error) {
	var out Feedback
	if err := f.c.do(ctx, http.MethodPost, "/feedback", in, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}

func (f FeedbackAPI) ByVideo(ctx context.Context, videoID int64) ([]Feedback, error) {
	return getList[Feedback](ctx, f.c, path("/feedback/video/%d", videoID))
}

func (f FeedbackAPI) Approve(ctx context.Context, id int64) error {
	return f.c.do(ctx, http.MethodPut, path("/feedback/%d/approve", id), nil, nil)
}

func (f FeedbackAPI) Reject(ctx context.Context, id int64) error {
	return f.c.do(ctx, http.MethodPut, path("/feedback/%d/reject", id), nil, nil)
}

func (f FeedbackAPI) UpdateStatus(ctx context.Context, id int64, status FeedbackStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	q, err := query.Values(statusQuery{Status: status})
	if err != nil {
		return fmt.Errorf("api: encode status: %w", err)
	}
	return f.c.do(ctx, http.MethodPut, path("/feedback/%d/status?%s", id, q.Encode()), nil, nil)
}
