package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sendrec/moviedetail/internal/storage"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	// Presigning is local; no bucket needs to be reachable.
	s, err := storage.New(context.Background(), storage.Config{
		Endpoint:       "http://localhost:9000",
		PublicEndpoint: "https://media.example.com",
		Bucket:         "posters",
		AccessKey:      "test",
		SecretKey:      "test",
	})
	if err != nil {
		t.Fatalf("expected no error creating storage client, got: %v", err)
	}
	return s
}

func TestMediaURL_PassesAbsoluteURLsThrough(t *testing.T) {
	s := newTestStorage(t)
	ref := "https://img.youtube.com/vi/dW1BIid8Osg/maxresdefault.jpg"

	got, err := s.MediaURL(context.Background(), ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != ref {
		t.Errorf("expected %q unchanged, got %q", ref, got)
	}
}

func TestMediaURL_EmptyStaysEmpty(t *testing.T) {
	got, err := newTestStorage(t).MediaURL(context.Background(), "  ")
	if err != nil || got != "" {
		t.Errorf("expected empty result, got %q, %v", got, err)
	}
}

func TestMediaURL_PresignsObjectKeys(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.MediaURL(context.Background(), "/posters/gotg2.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "https://media.example.com/posters/posters/gotg2.jpg?") {
		t.Errorf("expected presigned URL on public endpoint, got %q", got)
	}
	if !strings.Contains(got, "X-Amz-Signature=") {
		t.Errorf("expected signed URL, got %q", got)
	}
	if !strings.Contains(got, "X-Amz-Expires=3600") {
		t.Errorf("expected one hour expiry, got %q", got)
	}
}

func TestGenerateDownloadURL_NilStorage(t *testing.T) {
	var s *storage.Storage
	if _, err := s.GenerateDownloadURL(context.Background(), "k", 0); err == nil {
		t.Error("expected error from nil storage")
	}
}
