package gravatar_test

import (
	"testing"

	"devconnector-backend/internal/gravatar"
)

func TestURL(t *testing.T) {
	// md5("alice@example.com") = c160f8cc69a4f0bf2b0362752353d060
	want := "https://www.gravatar.com/avatar/c160f8cc69a4f0bf2b0362752353d060?s=200&r=pg&d=mm"
	if got := gravatar.URL("alice@example.com"); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}

func TestURL_NormalizesEmail(t *testing.T) {
	base := gravatar.URL("alice@example.com")
	if got := gravatar.URL("  Alice@Example.COM "); got != base {
		t.Errorf("URL() = %q, want normalized form %q", got, base)
	}
}
