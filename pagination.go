package main

import (
	"time"
)

// Pagination constants
const (
	DefaultPageSize = 50

	// Infinite-scroll trigger: distance from the bottom of the grid
	// content to the bottom of the viewport, and the quiet period
	// between trigger evaluations.
	scrollTriggerDistance = 500.0
	scrollDebouncePeriod  = 300 * time.Millisecond
)

// pageOp is a staged pagination operation awaiting commit.
type pageOp int

const (
	pageOpNone pageOp = iota
	pageOpNext
	pageOpPrev
)

// Paginator slices the ordered manifest into fixed-size pages. The
// loaded set is append-only within a session: previously loaded pages
// are never evicted, which keeps grid scroll positions stable.
//
// At most one operation is in flight at a time. NextPage/PreviousPage
// stage the operation and set isPaging; Step commits it on the next
// frame tick and then clears the flag. Two triggers racing within a
// single tick therefore produce exactly one advance.
type Paginator struct {
	entries  []ManifestEntry
	pageSize int

	currentPage int // 1-indexed
	loadedPages int // number of pages present in loaded
	loaded      []ManifestEntry
	isPaging    bool
	staged      pageOp

	onPageReady func()
}

func NewPaginator(entries []ManifestEntry, pageSize int) *Paginator {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	p := &Paginator{pageSize: pageSize}
	p.Reset(entries)
	return p
}

// SetPageReadyFunc registers the signal fired after a page commit.
func (p *Paginator) SetPageReadyFunc(fn func()) {
	p.onPageReady = fn
}

// Reset replaces the backing entries and returns to page 1 with only
// the first page loaded. Used on reshuffle and ordering changes.
func (p *Paginator) Reset(entries []ManifestEntry) {
	p.entries = entries
	p.currentPage = 0
	p.loadedPages = 0
	p.loaded = p.loaded[:0]
	p.isPaging = false
	p.staged = pageOpNone

	if len(entries) > 0 {
		p.currentPage = 1
		p.loadedPages = 1
		p.loaded = append(p.loaded, p.pageSlice(1)...)
	}
}

func (p *Paginator) pageSlice(page int) []ManifestEntry {
	start := (page - 1) * p.pageSize
	end := start + p.pageSize
	if end > len(p.entries) {
		end = len(p.entries)
	}
	if start >= end {
		return nil
	}
	return p.entries[start:end]
}

func (p *Paginator) PageSize() int    { return p.pageSize }
func (p *Paginator) CurrentPage() int { return p.currentPage }
func (p *Paginator) IsPaging() bool   { return p.isPaging }

func (p *Paginator) TotalPages() int {
	if p.pageSize == 0 || len(p.entries) == 0 {
		return 0
	}
	return (len(p.entries) + p.pageSize - 1) / p.pageSize
}

// Loaded returns the committed loaded set. Callers only ever observe
// whole-page snapshots; staged operations are invisible until Step.
func (p *Paginator) Loaded() []ManifestEntry { return p.loaded }

// NextPage stages an advance to the next page. No-op when already on
// the last page or while another operation is in flight.
func (p *Paginator) NextPage() bool {
	if p.isPaging || p.currentPage >= p.TotalPages() {
		return false
	}
	p.isPaging = true
	p.staged = pageOpNext
	return true
}

// PreviousPage stages a move back one page. No-op on page 1 or while
// another operation is in flight. The loaded set is unchanged; earlier
// pages are already present.
func (p *Paginator) PreviousPage() bool {
	if p.isPaging || p.currentPage <= 1 {
		return false
	}
	p.isPaging = true
	p.staged = pageOpPrev
	return true
}

// Step commits the staged operation, fires the page-ready signal and
// clears the in-flight flag. Called once per frame tick.
func (p *Paginator) Step() {
	if p.staged == pageOpNone {
		return
	}

	switch p.staged {
	case pageOpNext:
		p.currentPage++
		if p.currentPage > p.loadedPages {
			p.loaded = append(p.loaded, p.pageSlice(p.currentPage)...)
			p.loadedPages = p.currentPage
		}
	case pageOpPrev:
		p.currentPage--
	}

	p.staged = pageOpNone
	p.isPaging = false
	debugLog("page ready: %d/%d, %d loaded entries", p.currentPage, p.TotalPages(), len(p.loaded))

	if p.onPageReady != nil {
		p.onPageReady()
	}
}

// ScrollWatcher debounces the infinite-scroll pagination trigger.
type ScrollWatcher struct {
	threshold float64
	quiet     time.Duration
	lastEval  time.Time
	now       func() time.Time
}

func NewScrollWatcher() *ScrollWatcher {
	return &ScrollWatcher{
		threshold: scrollTriggerDistance,
		quiet:     scrollDebouncePeriod,
		now:       time.Now,
	}
}

// Check evaluates the trigger for the given distance between the
// content bottom and the viewport bottom. Evaluations within the quiet
// period are skipped; a true result means the caller should request the
// next page (subject to the paginator's own guards).
func (w *ScrollWatcher) Check(distanceToBottom float64) bool {
	now := w.now()
	if now.Sub(w.lastEval) < w.quiet {
		return false
	}
	w.lastEval = now
	return distanceToBottom < w.threshold
}
