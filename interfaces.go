package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const (
	// Overlay message display duration
	overlayMessageDuration = 2 * time.Second
)

// GamePhase is the top-level application phase.
type GamePhase int

const (
	PhaseLoading GamePhase = iota
	PhaseError
	PhaseBrowsing
)

// RenderState provides read-only access to game state for the renderer
type RenderState interface {
	Phase() GamePhase
	ErrorMessage() string

	// Grid state
	Loaded() []ManifestEntry
	GridColumns() int
	ScrollOffset() float64
	ThumbnailFor(ref ImageRef) *ebiten.Image
	SelectionIndex() int

	// Pagination state
	CurrentPage() int
	TotalPages() int
	TotalImages() int
	IsPaging() bool
	OrderName() string

	// Viewer state
	IsViewerOpen() bool
	ViewerState() ImageState
	ViewerImage() *ebiten.Image
	ViewerEntry() (ManifestEntry, bool)
	ViewportInfo() (preset ZoomPreset, panX, panY float64)

	// UI state
	IsShowingHelp() bool
	IsShowingInfo() bool
	GetOverlayMessage() string
	GetOverlayMessageTime() time.Time
	GetFontSize() float64
	GetConfigStatus() ConfigLoadResult
	GetKeybindings() map[string][]string
}

// InputActions provides action methods for the input handler
type InputActions interface {
	// Application control
	Exit()

	// Display toggles
	ToggleHelp()
	ToggleInfo()
	ToggleFullscreen()

	// Viewer control
	OpenViewer()
	CloseViewer()
	NavigateNext()
	NavigatePrevious()

	// Zoom
	CycleZoom()
	SetZoom(preset ZoomPreset)

	// Collection
	NextPage()
	PreviousPage()
	Reshuffle()
	CycleOrdering()

	// Grid scrolling / image panning
	ScrollDown()
	ScrollUp()

	// Messages
	ShowOverlayMessage(message string)
}

// InputState provides read-only access to input-related state
type InputState interface {
	IsViewerOpen() bool
	PanEnabled() bool
}
