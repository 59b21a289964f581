package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// ImageRef identifies an image by its URL pair. Grid positions shift as
// pages load, so the pair is the identity, never an array index.
type ImageRef struct {
	FullURL      string
	ThumbnailURL string
}

// Variant describes one stored rendition of an image. Width and height
// are the intrinsic pixel dimensions from the manifest; pan/zoom
// geometry is always derived from these, never from decoded textures.
type Variant struct {
	Width    int
	Height   int
	Filename string
}

// ManifestEntry is one image of the collection.
type ManifestEntry struct {
	Filename  string
	Index     int
	Thumbnail Variant
	Original  Variant
	Ref       ImageRef
}

// Manifest is the full fetched collection description. It is immutable
// once fetched; reordering always works on a copy.
type Manifest struct {
	TotalImages int
	Entries     []ManifestEntry
}

// ManifestSource produces a manifest, either from a remote endpoint or
// from local files.
type ManifestSource interface {
	Fetch(ctx context.Context) (*Manifest, error)
}

// ManifestFetchError reports a network failure or non-success HTTP
// status while fetching the manifest.
type ManifestFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *ManifestFetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetching manifest %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetching manifest %s: status %d", e.URL, e.StatusCode)
}

func (e *ManifestFetchError) Unwrap() error { return e.Err }

// ManifestFormatError reports a payload that is not a valid manifest.
type ManifestFormatError struct {
	Reason string
	Err    error
}

func (e *ManifestFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid manifest: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid manifest: %s", e.Reason)
}

func (e *ManifestFormatError) Unwrap() error { return e.Err }

// manifestSchema is the structural contract for the manifest endpoint.
// Payloads missing the images array or variant dimensions are rejected
// before decoding.
const manifestSchema = `{
  "type": "object",
  "required": ["totalImages", "images"],
  "properties": {
    "totalImages": {"type": "integer", "minimum": 0},
    "images": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["filename", "variants"],
        "properties": {
          "filename": {"type": "string"},
          "index": {"type": "integer"},
          "variants": {
            "type": "object",
            "required": ["320", "original"],
            "additionalProperties": {
              "type": "object",
              "required": ["width", "height", "filename"],
              "properties": {
                "width": {"type": "integer", "minimum": 1},
                "height": {"type": "integer", "minimum": 1},
                "filename": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

// Wire types for the manifest endpoint.

type variantPayload struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Filename string `json:"filename"`
}

type imagePayload struct {
	Filename string                    `json:"filename"`
	Index    int                       `json:"index"`
	Variants map[string]variantPayload `json:"variants"`
}

type manifestPayload struct {
	TotalImages int            `json:"totalImages"`
	Images      []imagePayload `json:"images"`
}

const thumbnailVariantKey = "320"

// decodeManifest validates and decodes a manifest payload, deriving the
// URL pair for every entry from the configured base paths.
func decodeManifest(data []byte, thumbnailBase, fullImageBase string) (*Manifest, error) {
	schemaLoader := gojsonschema.NewStringLoader(manifestSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, &ManifestFormatError{Reason: "payload is not valid JSON", Err: err}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			reasons = append(reasons, desc.String())
		}
		return nil, &ManifestFormatError{Reason: strings.Join(reasons, "; ")}
	}

	var payload manifestPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ManifestFormatError{Reason: "decoding payload", Err: err}
	}

	entries := make([]ManifestEntry, 0, len(payload.Images))
	for _, img := range payload.Images {
		thumb := img.Variants[thumbnailVariantKey]
		orig := img.Variants["original"]
		entries = append(entries, ManifestEntry{
			Filename:  img.Filename,
			Index:     img.Index,
			Thumbnail: Variant(thumb),
			Original:  Variant(orig),
			Ref: ImageRef{
				ThumbnailURL: joinURL(thumbnailBase, thumb.Filename),
				FullURL:      joinURL(fullImageBase, orig.Filename),
			},
		})
	}

	total := payload.TotalImages
	if total != len(entries) {
		// The endpoint's count wins for display, but pagination always
		// works on the entries actually present.
		debugLog("manifest totalImages=%d but %d entries present", total, len(entries))
		total = len(entries)
	}

	return &Manifest{TotalImages: total, Entries: entries}, nil
}

func joinURL(base, name string) string {
	if base == "" {
		return name
	}
	return strings.TrimRight(base, "/") + "/" + name
}

// RemoteSource fetches the manifest from an HTTP endpoint.
type RemoteSource struct {
	URL           string
	ThumbnailBase string
	FullImageBase string
	Client        *http.Client
}

func NewRemoteSource(url, thumbnailBase, fullImageBase string) *RemoteSource {
	return &RemoteSource{
		URL:           url,
		ThumbnailBase: thumbnailBase,
		FullImageBase: fullImageBase,
		Client:        &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *RemoteSource) Fetch(ctx context.Context) (*Manifest, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &ManifestFetchError{URL: s.URL, Err: err}
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, &ManifestFetchError{URL: s.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ManifestFetchError{URL: s.URL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ManifestFetchError{URL: s.URL, Err: err}
	}

	return decodeManifest(data, s.ThumbnailBase, s.FullImageBase)
}

// ManifestStore owns the fetched manifest and its current presentation
// order. Load performs exactly one source fetch; Reshuffle reorders the
// already-fetched entries without touching the source.
type ManifestStore struct {
	source   ManifestSource
	strategy OrderStrategy
	fetched  *Manifest
	ordered  []ManifestEntry
}

func NewManifestStore(source ManifestSource, strategy OrderStrategy) *ManifestStore {
	if strategy == nil {
		strategy = NewShuffleStrategy()
	}
	return &ManifestStore{source: source, strategy: strategy}
}

func (s *ManifestStore) Load(ctx context.Context) error {
	if s.fetched != nil {
		return nil
	}
	m, err := s.source.Fetch(ctx)
	if err != nil {
		return err
	}
	s.fetched = m
	s.ordered = s.strategy.Order(m.Entries)
	return nil
}

// Reshuffle re-runs the ordering strategy over the fetched entries.
// No network traffic; consumers must reset pagination and selection.
func (s *ManifestStore) Reshuffle() {
	if s.fetched == nil {
		return
	}
	s.ordered = s.strategy.Order(s.fetched.Entries)
}

// SetStrategy swaps the ordering strategy and reorders immediately.
func (s *ManifestStore) SetStrategy(strategy OrderStrategy) {
	s.strategy = strategy
	s.Reshuffle()
}

func (s *ManifestStore) Strategy() OrderStrategy { return s.strategy }

func (s *ManifestStore) Loaded() bool { return s.fetched != nil }

// Entries returns the current presentation order.
func (s *ManifestStore) Entries() []ManifestEntry { return s.ordered }

func (s *ManifestStore) TotalImages() int {
	if s.fetched == nil {
		return 0
	}
	return s.fetched.TotalImages
}
