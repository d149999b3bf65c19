package commerce

import (
	"io"
	"log/slog"
	"testing"

	"github.com/polkiloo/fulfillsync/internal/config"
)

func TestNewCatalogUsesConfig(t *testing.T) {
	cfg := &config.Config{
		CommerceBaseURL:   "https://acme.myshopify.com",
		ShopifyAPIVersion: "2024-10",
		ShopifyAdminToken: "token",
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	catalog, err := newCatalog(catalogParams{Config: cfg, Logger: logger})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog == nil {
		t.Fatal("expected catalog instance")
	}
}

func TestNewCatalogRejectsRelativeURL(t *testing.T) {
	cfg := &config.Config{CommerceBaseURL: "/relative", ShopifyAPIVersion: "2024-10"}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	if _, err := newCatalog(catalogParams{Config: cfg, Logger: logger}); err == nil {
		t.Fatal("expected error for relative url")
	}
}
