package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func hit(t *testing.T, base string, params url.Values) *http.Response {
	t.Helper()
	resp, err := http.Get(base + "?" + params.Encode())
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// redirect fires the provider redirect without caring about the response,
// for tests that block in Wait.
func redirect(base string, params url.Values) {
	resp, err := http.Get(base + "?" + params.Encode())
	if err == nil {
		resp.Body.Close()
	}
}

func TestCallbackDeliversCredentials(t *testing.T) {
	srv, err := NewCallbackServer("127.0.0.1:0")
	require.NoError(t, err)

	go redirect(srv.RedirectURL(), url.Values{
		"token":  {"tok-1"},
		"userId": {"u1"},
		"name":   {"Kim Min-ji"}, // percent-encoded on the wire, decoded here
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	res, err := srv.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, Result{Token: "tok-1", UserID: "u1", Name: "Kim Min-ji"}, res)
}

func TestCallbackProviderError(t *testing.T) {
	srv, err := NewCallbackServer("127.0.0.1:0")
	require.NoError(t, err)

	go redirect(srv.RedirectURL(), url.Values{"error": {"access_denied"}})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = srv.Wait(ctx)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "access_denied", perr.Reason)
}

func TestCallbackMissingParams(t *testing.T) {
	srv, err := NewCallbackServer("127.0.0.1:0")
	require.NoError(t, err)

	go redirect(srv.RedirectURL(), url.Values{"token": {"tok"}})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = srv.Wait(ctx)
	assert.ErrorIs(t, err, ErrMissingParams)
}

func TestCallbackConsumedOnce(t *testing.T) {
	srv, err := NewCallbackServer("127.0.0.1:0")
	require.NoError(t, err)
	defer srv.Close()

	params := url.Values{"token": {"t"}, "userId": {"u"}, "name": {"n"}}
	first := hit(t, srv.RedirectURL(), params)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := hit(t, srv.RedirectURL(), params)
	assert.Equal(t, http.StatusGone, second.StatusCode)
}

func TestWaitHonorsContext(t *testing.T) {
	srv, err := NewCallbackServer("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = srv.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
