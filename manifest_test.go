package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testManifestJSON(n int) string {
	images := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			images += ","
		}
		images += fmt.Sprintf(`{
			"filename": "img%03d.jpg",
			"index": %d,
			"variants": {
				"320": {"width": 320, "height": 200, "filename": "img%03d_320.webp"},
				"original": {"width": 2000, "height": 1250, "filename": "img%03d.jpg"}
			}
		}`, i, i, i, i)
	}
	return fmt.Sprintf(`{"totalImages": %d, "images": [%s]}`, n, images)
}

func TestDecodeManifest(t *testing.T) {
	m, err := decodeManifest([]byte(testManifestJSON(3)), "https://cdn.example.com/thumbs/", "https://cdn.example.com/full")
	if err != nil {
		t.Fatalf("decodeManifest failed: %v", err)
	}

	if m.TotalImages != 3 {
		t.Errorf("TotalImages = %d, want 3", m.TotalImages)
	}
	if len(m.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(m.Entries))
	}

	e := m.Entries[1]
	if e.Filename != "img001.jpg" {
		t.Errorf("Filename = %q, want img001.jpg", e.Filename)
	}
	if e.Ref.ThumbnailURL != "https://cdn.example.com/thumbs/img001_320.webp" {
		t.Errorf("ThumbnailURL = %q", e.Ref.ThumbnailURL)
	}
	if e.Ref.FullURL != "https://cdn.example.com/full/img001.jpg" {
		t.Errorf("FullURL = %q", e.Ref.FullURL)
	}
	if e.Original.Width != 2000 || e.Original.Height != 1250 {
		t.Errorf("Original dims = %dx%d, want 2000x1250", e.Original.Width, e.Original.Height)
	}
	if e.Thumbnail.Width != 320 {
		t.Errorf("Thumbnail width = %d, want 320", e.Thumbnail.Width)
	}
}

func TestDecodeManifestInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "<html>error page</html>"},
		{"missing images", `{"totalImages": 5}`},
		{"missing variants", `{"totalImages": 1, "images": [{"filename": "a.jpg"}]}`},
		{"missing original variant", `{"totalImages": 1, "images": [{"filename": "a.jpg", "variants": {"320": {"width": 1, "height": 1, "filename": "a_320.webp"}}}]}`},
		{"zero dimensions", `{"totalImages": 1, "images": [{"filename": "a.jpg", "variants": {"320": {"width": 0, "height": 1, "filename": "a"}, "original": {"width": 1, "height": 1, "filename": "a"}}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeManifest([]byte(tt.data), "", "")
			var formatErr *ManifestFormatError
			if !errors.As(err, &formatErr) {
				t.Errorf("error = %v, want ManifestFormatError", err)
			}
		})
	}
}

func TestDecodeManifestCountMismatch(t *testing.T) {
	data := []byte(`{"totalImages": 99, "images": [` +
		`{"filename": "a.jpg", "variants": {"320": {"width": 320, "height": 200, "filename": "a_320.webp"}, "original": {"width": 2000, "height": 1250, "filename": "a.jpg"}}}]}`)

	m, err := decodeManifest(data, "", "")
	if err != nil {
		t.Fatalf("decodeManifest failed: %v", err)
	}
	// The entry count wins over the declared total
	if m.TotalImages != 1 {
		t.Errorf("TotalImages = %d, want 1", m.TotalImages)
	}
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base string
		name string
		want string
	}{
		{"", "a.jpg", "a.jpg"},
		{"https://x.test/t", "a.jpg", "https://x.test/t/a.jpg"},
		{"https://x.test/t/", "a.jpg", "https://x.test/t/a.jpg"},
	}
	for _, tt := range tests {
		if got := joinURL(tt.base, tt.name); got != tt.want {
			t.Errorf("joinURL(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}

func TestRemoteSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testManifestJSON(5))
	}))
	defer server.Close()

	src := NewRemoteSource(server.URL, "", "")
	m, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if m.TotalImages != 5 {
		t.Errorf("TotalImages = %d, want 5", m.TotalImages)
	}
}

func TestRemoteSourceFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewRemoteSource(server.URL, "", "")
	_, err := src.Fetch(context.Background())

	var fetchErr *ManifestFetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want ManifestFetchError", err)
	}
	if fetchErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", fetchErr.StatusCode)
	}
}

// countingSource counts fetches so tests can assert the store never
// refetches.
type countingSource struct {
	fetches int
	entries []ManifestEntry
}

func (s *countingSource) Fetch(ctx context.Context) (*Manifest, error) {
	s.fetches++
	return &Manifest{TotalImages: len(s.entries), Entries: s.entries}, nil
}

func TestManifestStoreSingleFetch(t *testing.T) {
	src := &countingSource{entries: makeEntries(10)}
	store := NewManifestStore(src, &EntryOrderStrategy{})

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	store.Reshuffle()
	store.Reshuffle()

	if src.fetches != 1 {
		t.Errorf("fetches = %d, want exactly 1", src.fetches)
	}
	if len(store.Entries()) != 10 {
		t.Errorf("len(Entries) = %d, want 10", len(store.Entries()))
	}
}

func TestManifestStoreReshuffleKeepsElements(t *testing.T) {
	src := &countingSource{entries: makeEntries(20)}
	store := NewManifestStore(src, NewShuffleStrategyWithSource(rand.NewSource(1)))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	before := refSet(store.Entries())
	store.Reshuffle()
	after := refSet(store.Entries())

	if len(before) != len(after) {
		t.Fatalf("element count changed: %d -> %d", len(before), len(after))
	}
	for ref := range before {
		if !after[ref] {
			t.Errorf("entry %v lost in reshuffle", ref)
		}
	}
}

func refSet(entries []ManifestEntry) map[ImageRef]bool {
	s := make(map[ImageRef]bool, len(entries))
	for _, e := range entries {
		s[e.Ref] = true
	}
	return s
}
