package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lifedeck/internal/core"
	"lifedeck/internal/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	return session.NewStore(filepath.Join(t.TempDir(), "session.json"))
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClientIsUsedForRequests(t *testing.T) {
	var seen *http.Request
	canned := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		seen = r
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`{"id":"u1","email":"a@b.c","name":"Alice"}`)),
		}, nil
	})}

	client := NewClient("https://api.invalid", newTestStore(t), WithHTTPClient(canned))
	user, err := client.Me(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	require.NotNil(t, seen, "the injected client must carry the request")
	assert.Equal(t, "api.invalid", seen.URL.Host)
}

func TestBearerTokenReadPerRequest(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_ = json.NewEncoder(w).Encode(core.User{ID: "u1"})
	}))
	defer srv.Close()

	store := newTestStore(t)
	client := NewClient(srv.URL, store)

	// First request before login carries no token.
	_, err := client.Me(context.Background(), "u1")
	require.NoError(t, err)

	// Token picked up after login without rebuilding the client.
	require.NoError(t, store.Login("tok-123", "u1", "Alice"))
	_, err = client.Me(context.Background(), "u1")
	require.NoError(t, err)

	require.Len(t, gotAuth, 2)
	assert.Empty(t, gotAuth[0])
	assert.Equal(t, "Bearer tok-123", gotAuth[1])
}

func TestUnauthorizedClearsSessionAndSignals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := newTestStore(t)
	require.NoError(t, store.Login("stale", "u1", "Alice"))

	signaled := false
	client := NewClient(srv.URL, store, WithUnauthorizedHandler(func() { signaled = true }))

	_, err := client.Me(context.Background(), "u1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, signaled)
	assert.False(t, store.IsAuthenticated())
}

func TestServerMessagePreferred(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"amount is required"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newTestStore(t))
	_, err := client.CreateTransaction(context.Background(), "u1", core.Transaction{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "amount is required", apiErr.Message)
	assert.Equal(t, "amount is required", UserMessage(err))
}

func TestGenericFallbackWhenNoMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newTestStore(t))
	_, err := client.Me(context.Background(), "u1")

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, genericFailure, apiErr.Message)
}

func TestListSchedulesSendsQueryAndUserHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedules", r.URL.Path)
		assert.Equal(t, "u7", r.Header.Get("X-User-Id"))
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "startDatetime", q.Get("sortBy"))
		assert.Equal(t, "desc", q.Get("sortDirection"))

		_ = json.NewEncoder(w).Encode(Page[core.Schedule]{
			Content:       []core.Schedule{{ID: "s1", Title: "Team Meeting"}},
			TotalPages:    3,
			TotalElements: 25,
			CurrentPage:   2,
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newTestStore(t))
	page, err := client.ListSchedules(context.Background(), "u7", ListQuery{
		Page: 2, Size: 10, SortBy: "startDatetime", SortDirection: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 25, page.TotalElements)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Team Meeting", page.Content[0].Title)
}

func TestLoginReturnsCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var body loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.c", body.Email)

		_ = json.NewEncoder(w).Encode(Credentials{Token: "tok", UserID: "u1", Name: "Alice"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, newTestStore(t))
	creds, err := client.Login(context.Background(), "a@b.c", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Token: "tok", UserID: "u1", Name: "Alice"}, creds)
}
