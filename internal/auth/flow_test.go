package auth

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytcommentsync/internal/model"
)

// consentURL polls the captured log output for the consent URL Authorize
// prints for the operator.
func consentURL(t *testing.T, buf *bytes.Buffer) *url.URL {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.HasPrefix(line, "https://accounts.google.com/") {
				u, err := url.Parse(strings.TrimSpace(line))
				if err != nil {
					t.Fatalf("parse consent url: %v", err)
				}
				return u
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("consent url never logged")
	return nil
}

func TestAuthorize_ExchangesAndPersistsToken(t *testing.T) {
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"granted","token_type":"Bearer","expires_in":3600,"refresh_token":"granted-refresh"}`))
	}))
	defer tokenSrv.Close()

	dir := t.TempDir()
	ch := model.Channel{
		Name:             "test",
		TokenPath:        filepath.Join(dir, "token.json"),
		ClientSecretPath: writeClientSecret(t, dir, tokenSrv.URL+"/token"),
	}

	var buf bytes.Buffer
	p := NewProvider(log.New(&buf, "", 0))

	done := make(chan error, 1)
	go func() {
		done <- p.Authorize(context.Background(), ch, "127.0.0.1:0", 5*time.Second)
	}()

	consent := consentURL(t, &buf)
	redirect, err := url.Parse(consent.Query().Get("redirect_uri"))
	if err != nil {
		t.Fatalf("parse redirect uri: %v", err)
	}
	redirect.RawQuery = url.Values{
		"state": {consent.Query().Get("state")},
		"code":  {"auth-code"},
	}.Encode()

	resp, err := http.Get(redirect.String())
	if err != nil {
		t.Fatalf("deliver callback: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("callback status %d", resp.StatusCode)
	}

	if err := <-done; err != nil {
		t.Fatalf("authorize: %v", err)
	}

	tok, err := loadToken(ch.TokenPath)
	if err != nil {
		t.Fatalf("token not persisted: %v", err)
	}
	if tok.AccessToken != "granted" || tok.RefreshToken != "granted-refresh" {
		t.Fatalf("unexpected token: %+v", tok)
	}
}

func TestAuthorize_StateMismatchRejected(t *testing.T) {
	dir := t.TempDir()
	ch := model.Channel{
		Name:             "test",
		TokenPath:        filepath.Join(dir, "token.json"),
		ClientSecretPath: writeClientSecret(t, dir, "http://127.0.0.1:1/token"),
	}

	var buf bytes.Buffer
	p := NewProvider(log.New(&buf, "", 0))

	done := make(chan error, 1)
	go func() {
		done <- p.Authorize(context.Background(), ch, "127.0.0.1:0", 5*time.Second)
	}()

	consent := consentURL(t, &buf)
	redirect, _ := url.Parse(consent.Query().Get("redirect_uri"))
	redirect.RawQuery = url.Values{
		"state": {"forged"},
		"code":  {"auth-code"},
	}.Encode()

	resp, err := http.Get(redirect.String())
	if err != nil {
		t.Fatalf("deliver callback: %v", err)
	}
	resp.Body.Close()

	err = <-done
	if err == nil || !strings.Contains(err.Error(), "state mismatch") {
		t.Fatalf("expected state mismatch error, got %v", err)
	}
}

func TestAuthorize_TimesOutWithoutCallback(t *testing.T) {
	dir := t.TempDir()
	ch := model.Channel{
		Name:             "test",
		TokenPath:        filepath.Join(dir, "token.json"),
		ClientSecretPath: writeClientSecret(t, dir, "http://127.0.0.1:1/token"),
	}

	p := NewProvider(testLogger())
	err := p.Authorize(context.Background(), ch, "127.0.0.1:0", 50*time.Millisecond)
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout, got %v", err)
	}
}
