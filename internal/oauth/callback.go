// Package oauth receives the browser redirect that ends a social login.
// The provider sends the user back to a loopback URL carrying token, userId
// and name (or error) query parameters; the listener consumes them exactly
// once and shuts down.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Result is a successfully completed social login.
type Result struct {
	Token  string
	UserID string
	Name   string
}

// ErrMissingParams means the redirect arrived without the full credential
// set; the session must be left untouched.
var ErrMissingParams = errors.New("oauth: redirect is missing login parameters")

// ProviderError carries the error parameter the provider redirected back
// with.
type ProviderError struct {
	Reason string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("oauth: provider reported %q", e.Reason)
}

type outcome struct {
	result Result
	err    error
}

// CallbackServer is a one-shot loopback HTTP listener.
type CallbackServer struct {
	ln   net.Listener
	srv  *http.Server
	done chan outcome
	once sync.Once
}

// NewCallbackServer starts listening on addr ("127.0.0.1:0" picks a free
// port). The redirect path is /oauth2/redirect.
func NewCallbackServer(addr string) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("oauth: listen: %w", err)
	}

	s := &CallbackServer{
		ln:   ln,
		done: make(chan outcome, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/redirect", s.handleRedirect)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		// ErrServerClosed is the normal shutdown path.
		_ = s.srv.Serve(ln)
	}()
	return s, nil
}

// RedirectURL is the address to register with the provider.
func (s *CallbackServer) RedirectURL() string {
	return fmt.Sprintf("http://%s/oauth2/redirect", s.ln.Addr().String())
}

func (s *CallbackServer) handleRedirect(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query() // query values arrive percent-decoded

	var out outcome
	switch {
	case q.Get("error") != "":
		out.err = &ProviderError{Reason: q.Get("error")}
	case q.Get("token") == "" || q.Get("userId") == "" || q.Get("name") == "":
		out.err = ErrMissingParams
	default:
		out.result = Result{
			Token:  q.Get("token"),
			UserID: q.Get("userId"),
			Name:   q.Get("name"),
		}
	}

	consumed := false
	s.once.Do(func() {
		consumed = true
		s.done <- out
	})

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	switch {
	case !consumed:
		http.Error(w, "login already completed", http.StatusGone)
	case out.err != nil:
		http.Error(w, "login failed, you can close this window", http.StatusBadRequest)
	default:
		fmt.Fprintln(w, "login complete, you can close this window")
	}
}

// Wait blocks until the first redirect arrives or ctx expires, then stops
// the listener either way.
func (s *CallbackServer) Wait(ctx context.Context) (Result, error) {
	defer s.Close()

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case out := <-s.done:
		return out.result, out.err
	}
}

// Close stops the listener. Safe to call more than once.
func (s *CallbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
