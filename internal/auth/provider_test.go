package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"ytcommentsync/internal/model"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// writeClientSecret writes an installed-app client secret whose token
// endpoint points at tokenURL, so refresh attempts hit the test server.
func writeClientSecret(t *testing.T, dir, tokenURL string) string {
	t.Helper()
	path := filepath.Join(dir, "client_secret.json")
	secret := fmt.Sprintf(`{
  "installed": {
    "client_id": "test-client.apps.googleusercontent.com",
    "client_secret": "test-secret",
    "auth_uri": "https://accounts.google.com/o/oauth2/auth",
    "token_uri": %q,
    "redirect_uris": ["http://localhost"]
  }
}`, tokenURL)
	if err := os.WriteFile(path, []byte(secret), 0600); err != nil {
		t.Fatalf("write client secret: %v", err)
	}
	return path
}

func writeTokenFile(t *testing.T, dir string, tok *oauth2.Token) string {
	t.Helper()
	path := filepath.Join(dir, "token.json")
	data, err := json.Marshal(tok)
	if err != nil {
		t.Fatalf("encode token: %v", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	return path
}

func TestTokenSource_ValidTokenFastPath(t *testing.T) {
	dir := t.TempDir()
	// Any refresh attempt would fail against this endpoint.
	secretPath := writeClientSecret(t, dir, "http://127.0.0.1:1/token")
	tokenPath := writeTokenFile(t, dir, &oauth2.Token{
		AccessToken:  "live-token",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	})

	p := NewProvider(testLogger())
	ts, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        tokenPath,
		ClientSecretPath: secretPath,
	})
	if err != nil {
		t.Fatalf("token source: %v", err)
	}

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "live-token" {
		t.Fatalf("expected stored token, got %q", tok.AccessToken)
	}
}

func TestTokenSource_MissingTokenFile(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, "http://127.0.0.1:1/token")

	p := NewProvider(testLogger())
	_, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        filepath.Join(dir, "missing.json"),
		ClientSecretPath: secretPath,
	})
	if !errors.Is(err, model.ErrReauthorizationRequired) {
		t.Fatalf("expected ErrReauthorizationRequired, got %v", err)
	}
}

func TestTokenSource_ExpiredWithoutRefreshToken(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, "http://127.0.0.1:1/token")
	tokenPath := writeTokenFile(t, dir, &oauth2.Token{
		AccessToken: "stale",
		Expiry:      time.Now().Add(-time.Hour),
	})

	p := NewProvider(testLogger())
	_, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        tokenPath,
		ClientSecretPath: secretPath,
	})
	if !errors.Is(err, model.ErrReauthorizationRequired) {
		t.Fatalf("expected ErrReauthorizationRequired, got %v", err)
	}
}

func TestTokenSource_RevokedGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant","error_description":"Token has been expired or revoked."}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, srv.URL+"/token")
	tokenPath := writeTokenFile(t, dir, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "revoked-refresh",
		Expiry:       time.Now().Add(-time.Hour),
	})

	p := NewProvider(testLogger())
	_, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        tokenPath,
		ClientSecretPath: secretPath,
	})
	if !errors.Is(err, model.ErrReauthorizationRequired) {
		t.Fatalf("expected ErrReauthorizationRequired for invalid_grant, got %v", err)
	}
}

func TestTokenSource_RefreshPersistsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"fresh-token","token_type":"Bearer","expires_in":3600,"refresh_token":"refresh"}`))
	}))
	defer srv.Close()

	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, srv.URL+"/token")
	tokenPath := writeTokenFile(t, dir, &oauth2.Token{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(-time.Hour),
	})

	p := NewProvider(testLogger())
	ts, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        tokenPath,
		ClientSecretPath: secretPath,
	})
	if err != nil {
		t.Fatalf("token source: %v", err)
	}

	tok, err := ts.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "fresh-token" {
		t.Fatalf("expected refreshed token, got %q", tok.AccessToken)
	}

	stored, err := loadToken(tokenPath)
	if err != nil {
		t.Fatalf("reload token file: %v", err)
	}
	if stored.AccessToken != "fresh-token" {
		t.Fatalf("refreshed token not persisted, file has %q", stored.AccessToken)
	}
}

func TestTokenSource_CorruptTokenFileIsNotReauth(t *testing.T) {
	dir := t.TempDir()
	secretPath := writeClientSecret(t, dir, "http://127.0.0.1:1/token")
	tokenPath := filepath.Join(dir, "token.json")
	if err := os.WriteFile(tokenPath, []byte("{not json"), 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}

	p := NewProvider(testLogger())
	_, err := p.TokenSource(context.Background(), model.Channel{
		Name:             "test",
		TokenPath:        tokenPath,
		ClientSecretPath: secretPath,
	})
	if err == nil {
		t.Fatal("expected an error")
	}
	// Corruption is an operator problem, not a consent problem.
	if errors.Is(err, model.ErrReauthorizationRequired) {
		t.Fatalf("corrupt token misreported as reauthorization: %v", err)
	}
}
