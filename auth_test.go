package bigquerystorage

import (
	"context"
	"testing"

	"golang.org/x/oauth2"
)

func TestStaticTokenProvider(t *testing.T) {
	tok, err := StaticTokenProvider("abc").Token(context.Background(), ReadScope)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "abc" {
		t.Fatalf("token = %q, want abc", tok)
	}
}

func TestTokenSourceProvider(t *testing.T) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "from-source"})
	tok, err := TokenSourceProvider{Source: src}.Token(context.Background(), ReadScope)
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok != "from-source" {
		t.Fatalf("token = %q, want from-source", tok)
	}
}
