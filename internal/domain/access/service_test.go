package access

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"annotate-web/internal/api"
	"annotate-web/internal/domain/roles"
	"annotate-web/internal/platform/httpclient"
)

// -------------------------
// Backend fake
// -------------------------

type fakeBackend struct {
	mu sync.Mutex

	hasAccess map[int64]bool
	mine      []api.AccessRequest
	pending   []api.AccessRequest
	approved  []api.AccessRequest
	grants    []api.Grant

	checkErr error
	codeErr  error

	calls []string
	sent  map[string]any
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{hasAccess: map[int64]bool{}, sent: map[string]any{}}
}

func (f *fakeBackend) record(name string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.sent[name] = v
}

func (f *fakeBackend) Check(_ context.Context, videoID int64) (bool, error) {
	f.record("check", videoID)
	return f.hasAccess[videoID], f.checkErr
}

func (f *fakeBackend) MyRequests(context.Context) ([]api.AccessRequest, error) {
	f.record("my-requests", nil)
	return f.mine, nil
}

func (f *fakeBackend) Pending(context.Context) ([]api.AccessRequest, error) {
	f.record("pending", nil)
	return f.pending, nil
}

func (f *fakeBackend) Approved(context.Context) ([]api.AccessRequest, error) {
	f.record("approved", nil)
	return f.approved, nil
}

func (f *fakeBackend) RequestAccess(_ context.Context, in api.AccessRequestInput) (api.AccessRequest, error) {
	f.record("request", in)
	return api.AccessRequest{ID: 1, VideoID: in.VideoID, Status: api.RequestPending, RequestReason: in.RequestReason}, nil
}

func (f *fakeBackend) Approve(_ context.Context, id int64, msg string) error {
	f.record("approve", msg)
	return nil
}

func (f *fakeBackend) Deny(_ context.Context, id int64, msg string) error {
	f.record("deny", msg)
	return nil
}

func (f *fakeBackend) Revoke(_ context.Context, id int64) error {
	f.record("revoke", id)
	return nil
}

func (f *fakeBackend) ForVideo(context.Context, int64) ([]api.Grant, error) {
	f.record("for-video", nil)
	return f.grants, nil
}

func (f *fakeBackend) Suspend(_ context.Context, id int64, until time.Time) error {
	f.record("suspend", until)
	return nil
}

func (f *fakeBackend) RevokePermanent(_ context.Context, id int64, msg string) error {
	f.record("revoke-permanent", msg)
	return nil
}

func (f *fakeBackend) Restore(_ context.Context, id int64) error {
	f.record("restore", id)
	return nil
}

func (f *fakeBackend) Generate(context.Context, int64) (string, error) { return "ABCD-EFGH", nil }

func (f *fakeBackend) Get(context.Context, int64) (string, error) { return "ABCD-EFGH", f.codeErr }

func (f *fakeBackend) Redeem(_ context.Context, code string) (bool, error) {
	f.record("redeem", code)
	return true, nil
}

func (f *fakeBackend) Disable(context.Context, int64) error { return nil }

func newTestService(f *fakeBackend, now time.Time) *Service {
	s := NewService(f, f)
	s.now = func() time.Time { return now }
	return s
}

func video(id, creatorID int64) api.Video {
	return api.Video{ID: id, Title: "v", Creator: &api.UserSummary{ID: creatorID}}
}

// -------------------------
// Resolve
// -------------------------

func TestResolve_OwnerSkipsNetwork(t *testing.T) {
	f := newFakeBackend()
	f.checkErr = errors.New("should not be called")
	s := newTestService(f, time.Now())

	d, err := s.Resolve(context.Background(), api.User{UserID: 7, Role: roles.Creator}, video(42, 7))
	require.NoError(t, err)
	require.Equal(t, StateOwner, d.State)
	require.True(t, d.CanModerate())

	d, err = s.Resolve(context.Background(), api.User{UserID: 1, Role: roles.Admin}, video(42, 7))
	require.NoError(t, err)
	require.Equal(t, StateOwner, d.State)
	require.Empty(t, f.calls)
}

func TestResolve_HasAccessWinsOverStaleDenied(t *testing.T) {
	f := newFakeBackend()
	f.hasAccess[42] = true
	f.mine = []api.AccessRequest{{ID: 3, VideoID: 42, Status: api.RequestDenied}}
	s := newTestService(f, time.Now())

	d, err := s.Resolve(context.Background(), api.User{UserID: 9, Role: roles.Viewer}, video(42, 7))
	require.NoError(t, err)
	require.Equal(t, StateHasAccess, d.State)
	require.True(t, d.CanComment())
	require.False(t, d.Locked())
	require.Equal(t, []string{"check"}, f.calls)
}

func TestResolve_RequestStates(t *testing.T) {
	cases := []struct {
		name    string
		mine    []api.AccessRequest
		state   State
		status  api.RequestStatus
		message string
	}{
		{"none", nil, StateNoRequest, "", ""},
		{"other video only", []api.AccessRequest{{VideoID: 41, Status: api.RequestPending}}, StateNoRequest, "", ""},
		{"pending", []api.AccessRequest{{VideoID: 42, Status: api.RequestPending}}, StateRequestPending, api.RequestPending, ""},
		{"denied with message", []api.AccessRequest{{VideoID: 42, Status: api.RequestDenied, ResponseMessage: "Not this time"}}, StateRequestResolved, api.RequestDenied, "Not this time"},
		{"approved but no access", []api.AccessRequest{{VideoID: 42, Status: api.RequestApproved}}, StateRequestResolved, api.RequestApproved, ""},
		{"first match wins", []api.AccessRequest{
			{ID: 1, VideoID: 42, Status: api.RequestDenied, ResponseMessage: "first"},
			{ID: 2, VideoID: 42, Status: api.RequestPending},
		}, StateRequestResolved, api.RequestDenied, "first"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFakeBackend()
			f.mine = tc.mine
			s := newTestService(f, time.Now())

			d, err := s.Resolve(context.Background(), api.User{UserID: 9, Role: roles.Viewer}, video(42, 7))
			require.NoError(t, err)
			require.Equal(t, tc.state, d.State)
			require.Equal(t, tc.status, d.Status())
			require.Equal(t, tc.message, d.ResponseMessage())
			require.True(t, d.Locked())
		})
	}
}

func TestResolve_CheckErrorPropagates(t *testing.T) {
	f := newFakeBackend()
	f.checkErr = &httpclient.HTTPError{StatusCode: 500, Body: "boom"}
	s := newTestService(f, time.Now())

	_, err := s.Resolve(context.Background(), api.User{UserID: 9, Role: roles.Viewer}, video(42, 7))
	require.EqualError(t, err, "boom")
}

// -------------------------
// Grant status
// -------------------------

func TestDisplayStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *api.LocalTime { return api.NewLocalTime(now.Add(d)) }

	cases := []struct {
		name    string
		g       api.Grant
		want    GrantStatus
		restore bool
	}{
		{"raw status", api.Grant{Status: api.RequestApproved}, GrantStatus(api.RequestApproved), false},
		{"future suspension", api.Grant{Status: api.RequestApproved, SuspendedUntil: at(time.Hour)}, StatusTempSuspended, true},
		{"expired suspension", api.Grant{Status: api.RequestApproved, SuspendedUntil: at(-time.Hour)}, GrantStatus(api.RequestApproved), false},
		{"suspension equal to now is expired", api.Grant{Status: api.RequestApproved, SuspendedUntil: at(0)}, GrantStatus(api.RequestApproved), false},
		{"revoked beats future suspension", api.Grant{Status: api.RequestApproved, Revoked: true, SuspendedUntil: at(time.Hour)}, StatusPermanentlyRevoked, true},
		{"revoked", api.Grant{Status: api.RequestDenied, Revoked: true}, StatusPermanentlyRevoked, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, DisplayStatus(tc.g, now))
			require.Equal(t, tc.restore, CanRestore(tc.g, now))
		})
	}
}

func TestGrants_UsesServiceClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f := newFakeBackend()
	f.grants = []api.Grant{
		{ID: 1, Status: api.RequestApproved, SuspendedUntil: api.NewLocalTime(now.Add(time.Minute))},
		{ID: 2, Status: api.RequestApproved},
	}
	s := newTestService(f, now)

	views, err := s.Grants(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, StatusTempSuspended, views[0].DisplayStatus)
	require.Equal(t, GrantStatus(api.RequestApproved), views[1].DisplayStatus)
}

func TestSuspend_BuildsLocalDateTime(t *testing.T) {
	prev := api.Location
	api.Location = time.UTC
	t.Cleanup(func() { api.Location = prev })

	f := newFakeBackend()
	s := newTestService(f, time.Now())

	require.ErrorIs(t, s.Suspend(context.Background(), 5, "2025-12-10", ""), ErrSuspendWindow)
	require.ErrorIs(t, s.Suspend(context.Background(), 0, "2025-12-10", "18:00"), ErrInvalidInput)
	require.Empty(t, f.calls)

	require.NoError(t, s.Suspend(context.Background(), 5, "2025-12-10", "18:00"))
	require.Equal(t, time.Date(2025, 12, 10, 18, 0, 0, 0, time.UTC), f.sent["suspend"])
}

// -------------------------
// Requests
// -------------------------

func TestRequestAccess_DefaultReason(t *testing.T) {
	f := newFakeBackend()
	s := newTestService(f, time.Now())

	_, err := s.RequestAccess(context.Background(), 42, "   ")
	require.NoError(t, err)
	require.Equal(t, api.AccessRequestInput{VideoID: 42, RequestReason: DefaultRequestReason}, f.sent["request"])
}

func TestOverview_OnlyCreatorsLoadModeration(t *testing.T) {
	f := newFakeBackend()
	f.pending = []api.AccessRequest{{ID: 1}}
	f.approved = []api.AccessRequest{{ID: 2}}
	f.mine = []api.AccessRequest{{ID: 3}}
	s := newTestService(f, time.Now())

	ov, err := s.Overview(context.Background(), roles.Viewer)
	require.NoError(t, err)
	require.Len(t, ov.MyRequests, 1)
	require.Empty(t, ov.Pending)
	require.Equal(t, []string{"my-requests"}, f.calls)

	ov, err = s.Overview(context.Background(), roles.Creator)
	require.NoError(t, err)
	require.Len(t, ov.Pending, 1)
	require.Len(t, ov.Approved, 1)
}

// -------------------------
// Codes
// -------------------------

func TestCodes_NormalizeAndFormat(t *testing.T) {
	require.Equal(t, "ABCD", FormatCode("abcd"))
	require.Equal(t, "ABCD-E", FormatCode("ab-cd e"))
	require.Equal(t, "ABCD-EFGH", FormatCode("abcd-efgh-ijk"))
	require.Equal(t, "ABCDEFGH", NormalizeCode(" ab cd/ef gh "))

	_, err := ValidateCode("ABCD-EFG")
	require.ErrorIs(t, err, ErrCodeTooShort)

	code, err := ValidateCode("abcdefgh")
	require.NoError(t, err)
	require.Equal(t, "ABCD-EFGH", code)
}

func TestRedeem_ShortCodeNeverHitsNetwork(t *testing.T) {
	f := newFakeBackend()
	s := newTestService(f, time.Now())

	_, err := s.Redeem(context.Background(), "abc-12")
	require.ErrorIs(t, err, ErrCodeTooShort)
	require.Empty(t, f.calls)

	ok, err := s.Redeem(context.Background(), "abcd efgh")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "ABCD-EFGH", f.sent["redeem"])
}

func TestCurrentCode_HTTPErrorMeansNoCode(t *testing.T) {
	f := newFakeBackend()
	f.codeErr = &httpclient.HTTPError{StatusCode: 400, Body: "No access code"}
	s := newTestService(f, time.Now())

	code, err := s.CurrentCode(context.Background(), 42)
	require.NoError(t, err)
	require.Empty(t, code)

	f.codeErr = errors.New("dial tcp: refused")
	_, err = s.CurrentCode(context.Background(), 42)
	require.Error(t, err)
}

// -------------------------
// Escenario contra backend HTTP fake
// -------------------------

type codeBackend struct {
	mu       sync.Mutex
	code     string
	redeemed map[string]bool
}

func (b *codeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	user := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/video-access-code/generate/42":
		b.code = "K7QM-2XPL"
		_, _ = w.Write([]byte(`{"accessCode":"K7QM-2XPL"}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/video-access-code/42":
		_, _ = w.Write([]byte(`{"accessCode":"` + b.code + `"}`))
	case r.Method == http.MethodPost && r.URL.Path == "/api/video-access-code/redeem":
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"code":"`+b.code+`"`) {
			_, _ = w.Write([]byte(`{"success":false}`))
			return
		}
		b.redeemed[user] = true
		_, _ = w.Write([]byte(`{"success":true}`))
	case r.Method == http.MethodGet && r.URL.Path == "/api/video-access/check/42":
		if b.redeemed[user] {
			_, _ = w.Write([]byte(`{"hasAccess":true}`))
		} else {
			_, _ = w.Write([]byte(`{"hasAccess":false}`))
		}
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func TestScenario_GenerateGetRedeemCheck(t *testing.T) {
	backend := &codeBackend{redeemed: map[string]bool{}}
	ts := httptest.NewServer(backend)
	t.Cleanup(ts.Close)

	base, err := httpclient.NewWithBaseURL(ts.URL+"/api", time.Second)
	require.NoError(t, err)

	creator := FromClient(api.New(base.WithToken("creator")))
	viewer := FromClient(api.New(base.WithToken("viewer")))
	ctx := context.Background()

	code, err := creator.GenerateCode(ctx, 42)
	require.NoError(t, err)

	current, err := creator.CurrentCode(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, code, current)

	ok, err := viewer.Redeem(ctx, strings.ToLower(strings.ReplaceAll(code, "-", "")))
	require.NoError(t, err)
	require.True(t, ok)

	d, err := viewer.Resolve(ctx, api.User{UserID: 9, Role: roles.Viewer}, video(42, 7))
	require.NoError(t, err)
	require.Equal(t, StateHasAccess, d.State)
}
