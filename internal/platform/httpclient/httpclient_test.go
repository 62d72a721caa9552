package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Observations []int
}

func (s *sample) ObserveUpstream(_ string, status int, _ time.Duration) {
	s.Observations = append(s.Observations, status)
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)

	c, err := NewWithBaseURL(ts.URL+"/api", time.Second)
	require.NoError(t, err)
	return c, ts
}

func TestRequest_AttachesBearerOnlyWithToken(t *testing.T) {
	var seen []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	session := c.WithToken("tok-1")
	_, err := session.Request(context.Background(), http.MethodGet, "/videos/published", nil)
	require.NoError(t, err)

	session.ClearToken()
	_, err = session.Request(context.Background(), http.MethodGet, "/videos/published", nil)
	require.NoError(t, err)

	require.Equal(t, []string{"Bearer tok-1", ""}, seen)
	// El client base nunca tuvo token.
	require.Empty(t, c.Token())
}

func TestRequest_SendsJSONBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		require.Equal(t, "ana@example.com", in["email"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"t","userId":7}`))
	})

	var out struct {
		Token  string `json:"token"`
		UserID int64  `json:"userId"`
	}
	err := c.DoJSON(context.Background(), http.MethodPost, "/auth/login",
		map[string]string{"email": "ana@example.com", "password": "secret1"}, &out)
	require.NoError(t, err)
	require.Equal(t, "t", out.Token)
	require.EqualValues(t, 7, out.UserID)
}

func TestRequest_NormalizesBodies(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		kind    BodyKind
		text    string
	}{
		{
			name: "204",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
			kind: BodyEmpty,
		},
		{
			name: "content-length 0",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Content-Length", "0")
				w.WriteHeader(http.StatusOK)
			},
			kind: BodyEmpty,
		},
		{
			name: "missing content-type",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header()["Content-Type"] = nil
				_, _ = w.Write([]byte(`{"ignored":true}`))
			},
			kind: BodyEmpty,
		},
		{
			name: "json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json;charset=UTF-8")
				_, _ = w.Write([]byte(`{"hasAccess":true}`))
			},
			kind: BodyJSON,
			text: `{"hasAccess":true}`,
		},
		{
			name: "text",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("Access revoked"))
			},
			kind: BodyText,
			text: "Access revoked",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, tc.handler)
			res, err := c.Request(context.Background(), http.MethodGet, "/x", nil)
			require.NoError(t, err)
			require.Equal(t, tc.kind, res.Kind)
			require.Equal(t, tc.text, res.Text())
		})
	}
}

func TestDecode_EmptyLeavesOutUntouched_TextFillsString(t *testing.T) {
	out := map[string]any{"keep": 1}
	require.NoError(t, Result{Kind: BodyEmpty}.Decode(&out))
	require.Equal(t, map[string]any{"keep": 1}, out)

	var s string
	require.NoError(t, Result{Kind: BodyText, Raw: []byte("ok")}.Decode(&s))
	require.Equal(t, "ok", s)
}

func TestRequest_HTTPErrorCarriesBodyText(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("Invalid access code"))
	})

	_, err := c.Request(context.Background(), http.MethodPost, "/video-access-code/redeem", map[string]string{"code": "X"})
	require.Error(t, err)
	require.Equal(t, "Invalid access code", err.Error())
	require.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestRequest_HTTPErrorWithoutBody(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.Request(context.Background(), http.MethodDelete, "/videos/1", nil)
	require.EqualError(t, err, "HTTP error! status: 403")
}

func TestRequest_ObserverAndCancellation(t *testing.T) {
	obs := &sample{}
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	c.Observer = obs

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Request(ctx, http.MethodGet, "/videos/1", nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, []int{0}, obs.Observations)
}

func TestUpload_SendsMultipart(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/videos/upload-file", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "Demo", r.FormValue("title"))
		require.Equal(t, "desc", r.FormValue("description"))

		f, fh, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		require.Equal(t, "clip.mp4", fh.Filename)
		require.Equal(t, "video/mp4", fh.Header.Get("Content-Type"))
		require.Equal(t, "bytes", string(b))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1}`))
	})

	res, err := c.WithToken("tok").Upload(context.Background(), "/videos/upload-file",
		MultipartFile{Field: "file", Name: "clip.mp4", ContentType: "video/mp4", Reader: strings.NewReader("bytes")},
		FormField{Name: "title", Value: "Demo"},
		FormField{Name: "description", Value: "desc"},
	)
	require.NoError(t, err)
	require.Equal(t, BodyJSON, res.Kind)
}

func TestResolveURL(t *testing.T) {
	c := New(0)
	c.BaseURL = "http://backend/api/"

	u, err := c.resolveURL("videos/1")
	require.NoError(t, err)
	require.Equal(t, "http://backend/api/videos/1", u)

	u, err = c.resolveURL("https://elsewhere/x")
	require.NoError(t, err)
	require.Equal(t, "https://elsewhere/x", u)

	_, err = c.resolveURL("  ")
	require.Error(t, err)
}
