package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"ytcommentsync/internal/model"
)

// callbackResult carries the outcome of the OAuth redirect back to Authorize.
type callbackResult struct {
	code string
	err  error
}

// Authorize runs the interactive authorization-code flow for one channel: it
// starts a local callback listener, logs the consent URL for the operator to
// open, waits for the redirect, exchanges the code and persists the token.
//
// The whole wait is bounded by timeout via the context deadline; the listener
// is always shut down before Authorize returns, so no orphaned server
// survives a timed-out flow.
func (p *Provider) Authorize(ctx context.Context, ch model.Channel, listenAddr string, timeout time.Duration) error {
	conf, err := p.loadConfig(ch)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("start callback listener on %s: %w", listenAddr, err)
	}
	conf.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())

	state := uuid.NewString()
	results := make(chan callbackResult, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			results <- callbackResult{err: errors.New("authorization state mismatch")}
			return
		}
		if errParam := r.URL.Query().Get("error"); errParam != "" {
			http.Error(w, "authorization denied", http.StatusForbidden)
			results <- callbackResult{err: fmt.Errorf("authorization denied: %s", errParam)}
			return
		}
		fmt.Fprintln(w, "Authorization complete. You can close this tab.")
		results <- callbackResult{code: r.URL.Query().Get("code")}
	})

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	p.logger.Printf("[Auth] Open this URL to authorize %s:\n%s", ch.TokenPath, authURL)

	var res callbackResult
	select {
	case res = <-results:
	case <-ctx.Done():
		return fmt.Errorf("authorization timed out: %w", ctx.Err())
	}
	if res.err != nil {
		return res.err
	}

	tok, err := conf.Exchange(ctx, res.code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	if err := saveToken(ch.TokenPath, tok); err != nil {
		return fmt.Errorf("persist token %s: %w", ch.TokenPath, err)
	}
	p.logger.Printf("[Auth] Token %s updated", ch.TokenPath)

	return nil
}
