package main

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Minimum visible-placeholder durations. A full-resolution load that
// resolves faster than this keeps the thumbnail on screen until the
// threshold elapses, so the transition stays perceptible even on cache
// hits.
const (
	minTransitionSuccess = 333 * time.Millisecond
	minTransitionFailure = 500 * time.Millisecond
)

// ImageLoadError reports a failed asset load. It is recovered locally:
// the thumbnail stays visible and navigation remains functional.
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("loading image %s: %v", e.URL, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// ImageState is the progressive loading state exposed to consumers.
type ImageState struct {
	DisplayedSrc string
	IsLoaded     bool
	HasError     bool
}

type loadRequest struct {
	url string
}

type loadResult struct {
	url string
	img image.Image
	err error
}

// ProgressiveLoader performs two-stage image loading: the thumbnail is
// displayed immediately while the full-resolution asset loads in a
// background worker. Decoded textures are kept in an LRU cache keyed by
// URL. All state commits happen in Step on the frame loop; workers only
// fetch and decode.
type ProgressiveLoader struct {
	cache    *lru.Cache[string, *ebiten.Image]
	requests chan loadRequest
	results  chan loadResult
	ctx      context.Context
	cancel   context.CancelFunc

	fetch func(ctx context.Context, url string) (image.Image, error)
	now   func() time.Time

	inflight map[string]bool
	failed   map[string]bool
	slots    map[*ImageSlot]bool
}

func NewProgressiveLoader(cacheSize, workers int) *ProgressiveLoader {
	cache, err := lru.NewWithEvict[string, *ebiten.Image](cacheSize, func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		cache, _ = lru.NewWithEvict[string, *ebiten.Image](64, func(_ string, img *ebiten.Image) {
			if img != nil {
				img.Deallocate()
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &ProgressiveLoader{
		cache:    cache,
		requests: make(chan loadRequest, 256),
		results:  make(chan loadResult, 256),
		ctx:      ctx,
		cancel:   cancel,
		fetch:    defaultFetch,
		now:      time.Now,
		inflight: make(map[string]bool),
		failed:   make(map[string]bool),
		slots:    make(map[*ImageSlot]bool),
	}

	if workers <= 0 {
		workers = 4
	}
	for i := 0; i < workers; i++ {
		go l.worker()
	}

	return l
}

func (l *ProgressiveLoader) Stop() {
	l.cancel()
}

func (l *ProgressiveLoader) worker() {
	for {
		select {
		case <-l.ctx.Done():
			return
		case req := <-l.requests:
			img, err := l.fetch(l.ctx, req.url)
			if err != nil {
				err = &ImageLoadError{URL: req.url, Err: err}
			}
			select {
			case <-l.ctx.Done():
				return
			case l.results <- loadResult{url: req.url, img: img, err: err}:
			}
		}
	}
}

// request enqueues a background load unless the URL is already cached,
// in flight, or known failed.
func (l *ProgressiveLoader) request(url string) {
	if url == "" || l.inflight[url] || l.failed[url] {
		return
	}
	if _, ok := l.cache.Get(url); ok {
		return
	}
	select {
	case l.requests <- loadRequest{url: url}:
		l.inflight[url] = true
	default:
		debugLog("load request channel full, dropping %s", url)
	}
}

// Thumbnail returns the cached thumbnail texture for the ref, starting
// a background load on a miss. Returns nil until the texture is ready.
func (l *ProgressiveLoader) Thumbnail(ref ImageRef) *ebiten.Image {
	if img, ok := l.cache.Get(ref.ThumbnailURL); ok {
		return img
	}
	l.request(ref.ThumbnailURL)
	return nil
}

// Step drains finished loads, distributes them to bound slots and
// applies transitions whose minimum-duration deadline has passed.
// Called once per frame tick; this is the only place state commits.
func (l *ProgressiveLoader) Step() {
	for {
		select {
		case r := <-l.results:
			l.handleResult(r)
		default:
			l.applyDueTransitions()
			return
		}
	}
}

func (l *ProgressiveLoader) handleResult(r loadResult) {
	delete(l.inflight, r.url)

	var tex *ebiten.Image
	if r.err != nil {
		l.failed[r.url] = true
		debugLog("load failed: %v", r.err)
	} else {
		tex = ebiten.NewImageFromImage(r.img)
		l.cache.Add(r.url, tex)
	}

	now := l.now()
	for slot := range l.slots {
		slot.handleResult(r.url, tex, r.err, now)
	}
}

func (l *ProgressiveLoader) applyDueTransitions() {
	now := l.now()
	for slot := range l.slots {
		slot.applyPending(now)
	}
}

// NewSlot creates a progressive display slot. Release it when the
// owning view unmounts.
func (l *ProgressiveLoader) NewSlot() *ImageSlot {
	s := &ImageSlot{loader: l}
	l.slots[s] = true
	return s
}

// pendingTransition holds a resolved load until its minimum visible-
// placeholder deadline.
type pendingTransition struct {
	state   ImageState
	texture *ebiten.Image
	applyAt time.Time
}

// ImageSlot is the per-surface progressive loading state: one slot per
// place an image is displayed (the viewer, the hero). Rebinding the
// slot to a new ref invalidates in-flight results by URL mismatch, so a
// stale load can never overwrite newer state.
type ImageSlot struct {
	loader *ProgressiveLoader

	ref       ImageRef
	bound     bool
	state     ImageState
	texture   *ebiten.Image
	startedAt time.Time
	pending   *pendingTransition
}

// Bind points the slot at a new image. The thumbnail becomes the
// displayed source immediately; the full-resolution load starts in the
// background. Binding the already-bound ref is a no-op.
func (s *ImageSlot) Bind(ref ImageRef) {
	if s.bound && s.ref == ref {
		return
	}

	l := s.loader
	s.ref = ref
	s.bound = true
	s.pending = nil
	s.startedAt = l.now()
	s.state = ImageState{DisplayedSrc: ref.ThumbnailURL}
	s.texture = nil

	if tex, ok := l.cache.Get(ref.ThumbnailURL); ok {
		s.texture = tex
	} else {
		l.request(ref.ThumbnailURL)
	}

	if tex, ok := l.cache.Get(ref.FullURL); ok {
		// Cache hits still honor the minimum-duration rule.
		s.pending = &pendingTransition{
			state:   ImageState{DisplayedSrc: ref.FullURL, IsLoaded: true},
			texture: tex,
			applyAt: s.startedAt.Add(minTransitionSuccess),
		}
	} else if l.failed[ref.FullURL] {
		s.pending = &pendingTransition{
			state:   ImageState{DisplayedSrc: ref.ThumbnailURL, HasError: true},
			texture: s.texture,
			applyAt: s.startedAt.Add(minTransitionFailure),
		}
	} else {
		l.request(ref.FullURL)
	}
}

// Release detaches the slot from the loader. In-flight loads are not
// canceled; they may still complete and populate the cache harmlessly.
func (s *ImageSlot) Release() {
	delete(s.loader.slots, s)
	s.bound = false
	s.pending = nil
	s.texture = nil
}

func (s *ImageSlot) State() ImageState { return s.state }

// Image returns the texture for the displayed source, which may be nil
// while the thumbnail itself is still loading.
func (s *ImageSlot) Image() *ebiten.Image { return s.texture }

func (s *ImageSlot) handleResult(url string, tex *ebiten.Image, err error, now time.Time) {
	if !s.bound {
		return
	}

	// Full-resolution result: schedule the transition under the
	// minimum-duration rule. Checked first so that local refs with a
	// coinciding URL pair complete in a single stage.
	if url == s.ref.FullURL {
		if s.state.IsLoaded || s.state.HasError || s.pending != nil {
			return
		}
		if err == nil && url == s.ref.ThumbnailURL && s.texture == nil {
			// Coinciding local pair: the one texture is also the
			// placeholder, so it displays at once and only the loaded
			// flag waits out the deadline.
			s.texture = tex
		}
		var next pendingTransition
		if err != nil {
			next = pendingTransition{
				state:   ImageState{DisplayedSrc: s.ref.ThumbnailURL, HasError: true},
				texture: s.texture,
				applyAt: s.startedAt.Add(minTransitionFailure),
			}
		} else {
			next = pendingTransition{
				state:   ImageState{DisplayedSrc: s.ref.FullURL, IsLoaded: true},
				texture: tex,
				applyAt: s.startedAt.Add(minTransitionSuccess),
			}
		}
		s.pending = &next
		s.applyPending(now)
		return
	}

	if url == s.ref.ThumbnailURL && err == nil && !s.state.IsLoaded {
		s.texture = tex
		if s.pending != nil && s.pending.state.HasError {
			s.pending.texture = tex
		}
	}
}

func (s *ImageSlot) applyPending(now time.Time) {
	if s.pending == nil || now.Before(s.pending.applyAt) {
		return
	}
	s.state = s.pending.state
	if s.pending.texture != nil {
		s.texture = s.pending.texture
	}
	s.pending = nil
}

// defaultFetch loads and decodes an image from an HTTP URL, a local
// file path, or an archive entry URL produced by LocalSource.
func defaultFetch(ctx context.Context, url string) (image.Image, error) {
	var r io.ReadCloser

	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := assetClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		r = resp.Body
	} else {
		f, err := openLocalEntry(url)
		if err != nil {
			return nil, err
		}
		r = f
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return img, nil
}

var assetClient = &http.Client{Timeout: 60 * time.Second}
