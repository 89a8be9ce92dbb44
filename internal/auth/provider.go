package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"ytcommentsync/internal/model"
)

// Scopes requested for every channel token.
var Scopes = []string{
	youtube.YoutubeReadonlyScope,
	youtube.YoutubeForceSslScope,
}

// Provider hands out a valid token source per monitored channel. Tokens live
// in one JSON file per channel; a silent refresh is attempted when the stored
// token has expired, and the refreshed token is written back to disk.
type Provider struct {
	logger *log.Logger
	scopes []string
}

func NewProvider(logger *log.Logger) *Provider {
	return &Provider{
		logger: logger,
		scopes: Scopes,
	}
}

// TokenSource returns a self-refreshing token source for the channel.
//
// Fast path: a stored, still-valid token is returned without any network
// call, so repeated invocations are side-effect free. If the token has
// expired it is refreshed eagerly so that a dead refresh token surfaces here
// as model.ErrReauthorizationRequired instead of failing mid-harvest.
func (p *Provider) TokenSource(ctx context.Context, ch model.Channel) (oauth2.TokenSource, error) {
	conf, err := p.loadConfig(ch)
	if err != nil {
		return nil, err
	}

	tok, err := loadToken(ch.TokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no token at %s", model.ErrReauthorizationRequired, ch.TokenPath)
		}
		return nil, fmt.Errorf("load token %s: %w", ch.TokenPath, err)
	}

	ts := conf.TokenSource(ctx, tok)

	if tok.Valid() {
		return ts, nil
	}

	if tok.RefreshToken == "" {
		return nil, fmt.Errorf("%w: token at %s has no refresh token", model.ErrReauthorizationRequired, ch.TokenPath)
	}

	fresh, err := ts.Token()
	if err != nil {
		if isInvalidGrant(err) {
			p.logger.Printf("[Auth] Refresh token for %s revoked, reauthorization required", ch.TokenPath)
			return nil, fmt.Errorf("%w: %v", model.ErrReauthorizationRequired, err)
		}
		return nil, fmt.Errorf("refresh token %s: %w", ch.TokenPath, err)
	}

	if err := saveToken(ch.TokenPath, fresh); err != nil {
		return nil, fmt.Errorf("persist refreshed token %s: %w", ch.TokenPath, err)
	}
	p.logger.Printf("[Auth] Token %s refreshed", ch.TokenPath)

	return ts, nil
}

func (p *Provider) loadConfig(ch model.Channel) (*oauth2.Config, error) {
	secret, err := os.ReadFile(ch.ClientSecretPath)
	if err != nil {
		return nil, fmt.Errorf("read client secret %s: %w", ch.ClientSecretPath, err)
	}
	conf, err := google.ConfigFromJSON(secret, p.scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse client secret %s: %w", ch.ClientSecretPath, err)
	}
	return conf, nil
}

// isInvalidGrant reports whether the token endpoint rejected the refresh
// token outright (revocation, expiry of the grant itself).
func isInvalidGrant(err error) bool {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		return re.ErrorCode == "invalid_grant"
	}
	return false
}

func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return &tok, nil
}

func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
