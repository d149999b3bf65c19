package usecase

import (
	"errors"
	"strings"
	"testing"

	domainErrors "github.com/polkiloo/fulfillsync/internal/domain/errors"
)

func TestNormalizeQuery(t *testing.T) {
	valid := map[string]string{
		" 1042 ":           "1042",
		"#1042":            "#1042",
		"jane@example.com": "jane@example.com",
	}
	for in, want := range valid {
		got, err := NormalizeQuery(in)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	}

	invalid := []string{"", "   ", strings.Repeat("9", maxQueryLength+1), "10\x0042"}
	for _, in := range invalid {
		if _, err := NormalizeQuery(in); !errors.Is(err, domainErrors.ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery for %q, got %v", in, err)
		}
	}
}

func TestQueryClassifiers(t *testing.T) {
	if id, ok := numericID("5012345678"); !ok || id != 5012345678 {
		t.Fatalf("expected numeric id, got %d %v", id, ok)
	}
	for _, q := range []string{"#1042", "abc", "-5", "0", "12a"} {
		if _, ok := numericID(q); ok {
			t.Fatalf("did not expect %q to be numeric", q)
		}
	}
	if !looksLikeEmail("a@b.c") || looksLikeEmail("1042") {
		t.Fatal("unexpected email classification")
	}
	if togglePrefix("1042") != "#1042" || togglePrefix("#1042") != "1042" {
		t.Fatal("unexpected prefix toggling")
	}
}
