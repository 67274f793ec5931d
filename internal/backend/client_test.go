package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemTokens() *memTokens { return &memTokens{m: map[string]string{}} }

func (t *memTokens) Get(_ context.Context, key string) (string, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.m[key]
	return v, ok, nil
}

func (t *memTokens) Set(_ context.Context, key, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m[key] = value
	return nil
}

func (t *memTokens) Delete(_ context.Context, keys ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, k := range keys {
		delete(t.m, k)
	}
	return nil
}

func signedInSession(t *testing.T) (*Session, *memTokens) {
	t.Helper()
	tokens := newMemTokens()
	s := NewSession(tokens)
	require.NoError(t, s.SetTokens(context.Background(), "access-1", "refresh-1"))
	require.NoError(t, s.SetOrg(context.Background(), "org-9"))
	return s, tokens
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *Session, *memTokens) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	s, tokens := signedInSession(t)
	return New(s, Options{BaseURL: srv.URL}), s, tokens
}

func TestClient_DecoratesRequests(t *testing.T) {
	var got http.Header
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		json.NewEncoder(w).Encode(ReviewDraftResponse{Draft: &ReviewDraft{MaterialID: "m1"}})
	})

	_, err := c.GetReviewDraft(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer access-1", got.Get("Authorization"))
	assert.Equal(t, "org-9", got.Get("X-Org-ID"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
}

func TestClient_ExtraDecorator(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("X-Trace")
		w.Write([]byte(`{"transcript":"t"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(nil, Options{BaseURL: srv.URL}, WithHeader("X-Trace", "abc"))
	text, err := c.FetchTranscript(context.Background(), "https://youtu.be/x")
	require.NoError(t, err)
	assert.Equal(t, "t", text)
	assert.Equal(t, "abc", got)
}

func TestClient_SignedOutSendsNoAuthorization(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{"id":"p1","materialId":"m1"}`))
	}))
	t.Cleanup(srv.Close)

	c := New(NewSession(nil), Options{BaseURL: srv.URL})
	_, err := c.GetStudyPack(context.Background(), "m1")
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestClient_UnauthorizedClearsTokens(t *testing.T) {
	c, s, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	})

	_, err := c.GetReviewDraft(context.Background(), "m1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsUnauthorized(err))

	assert.False(t, s.SignedIn())
	assert.Empty(t, s.RefreshToken())
	assert.Equal(t, "org-9", s.OrgID())

	_, ok, _ := tokens.Get(context.Background(), KeyAccessToken)
	assert.False(t, ok)
	_, ok, _ = tokens.Get(context.Background(), KeyActiveOrgID)
	assert.True(t, ok)
}

func TestClient_UnauthorizedOnAuthPathKeepsTokens(t *testing.T) {
	c, s, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := c.doJSON(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, s.SignedIn())
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, s, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := c.GetStudyPack(context.Background(), "m1")
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, s.SignedIn())
		})
	}
}

func TestClient_ApproveSendsBody(t *testing.T) {
	var got ApproveRequest
	var path string
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(ReviewDraftResponse{Draft: &ReviewDraft{Status: "PUBLISHED"}})
	})

	req := ApproveRequest{Summary: "s", KeyPoints: []string{"a"}, KeyPointsText: "- a", StudyPackID: "p1"}
	draft, err := c.ApproveDraft(context.Background(), "m1", req)
	require.NoError(t, err)
	assert.Equal(t, "PUBLISHED", draft.Status)
	assert.Equal(t, "/ai/review/m1/approve", path)
	assert.Equal(t, req, got)
}

func TestClient_YouTubeTranscriptError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"no captions found"}`, "no captions found"},
		{"message field", `{"message":"quota"}`, "quota"},
		{"no body", ``, "HTTP 502"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "https://www.youtube.com/watch?v=XYZ", r.URL.Query().Get("url"))
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			})
			_, _, err := c.YouTubeTranscript(context.Background(), "https://www.youtube.com/watch?v=XYZ")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClient_SubmitQuizAttempt(t *testing.T) {
	var got QuizAttempt
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analytics/quiz/attempt", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":7,"score":1,"total":2}`))
	})

	res, err := c.SubmitQuizAttempt(context.Background(), QuizAttempt{QuizID: "q", Answers: map[string]int{"a": 1, "b": 0}})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.ID)
	assert.Equal(t, map[string]int{"a": 1, "b": 0}, got.Answers)
}

func TestLoadSession(t *testing.T) {
	tokens := newMemTokens()
	tokens.m[KeyAccessToken] = "a"
	tokens.m[KeyActiveOrgID] = "o"

	s, err := LoadSession(context.Background(), tokens)
	require.NoError(t, err)
	assert.Equal(t, "a", s.AccessToken())
	assert.Empty(t, s.RefreshToken())
	assert.Equal(t, "o", s.OrgID())

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, tokens.m)
}
