package bigquerystorage

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ReadScope is the OAuth scope requested for every BigQuery Storage call.
const ReadScope = "https://www.googleapis.com/auth/bigquery"

// TokenProvider turns a set of OAuth scopes into a bearer token. It is asked
// for a fresh token on every outbound request, so implementations are
// expected to cache and refresh internally (oauth2.TokenSource already does).
type TokenProvider interface {
	Token(ctx context.Context, scopes ...string) (string, error)
}

// TokenSourceProvider adapts an oauth2.TokenSource to TokenProvider. The
// source must already be scoped; the scope arguments are ignored because
// oauth2.TokenSource fixes its scopes at construction time.
type TokenSourceProvider struct {
	Source oauth2.TokenSource
}

func (p TokenSourceProvider) Token(ctx context.Context, scopes ...string) (string, error) {
	tok, err := p.Source.Token()
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// StaticTokenProvider returns the same pre-minted token for every request.
// Useful for tests and short-lived jobs holding an already-issued token.
type StaticTokenProvider string

func (p StaticTokenProvider) Token(ctx context.Context, scopes ...string) (string, error) {
	return string(p), nil
}

// ApplicationDefaultProvider builds a TokenProvider from Application Default
// Credentials (GOOGLE_APPLICATION_CREDENTIALS, gcloud auth, or the metadata
// server), scoped to ReadScope.
func ApplicationDefaultProvider(ctx context.Context) (TokenProvider, error) {
	ts, err := google.DefaultTokenSource(ctx, ReadScope)
	if err != nil {
		return nil, fmt.Errorf("application default credentials: %w", err)
	}
	return TokenSourceProvider{Source: ts}, nil
}
