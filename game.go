package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input step constants
const (
	wheelScrollStep = 40.0
	keyScrollStep   = 120.0
	keyPanStep      = 60.0
)

// Game wires the gallery components to the frame loop. All state
// commits happen in Update; background goroutines only fetch.
type Game struct {
	config       Config
	configStatus ConfigLoadResult

	store       *ManifestStore
	pager       *Paginator
	selection   *SelectionModel
	viewport    *ViewportController
	coordinator *NavigationCoordinator
	registry    *ListenerRegistry
	loader      *ProgressiveLoader
	viewerSlot  *ImageSlot
	pointer     *PointerTracker
	watcher     *ScrollWatcher
	km          *KeybindingManager
	mm          *MousebindingManager
	renderer    *Renderer

	phase  GamePhase
	errMsg string
	loadCh chan error

	screenW int
	screenH int

	scrollOffset      float64
	scrollToPageStart bool

	showHelp           bool
	showInfo           bool
	overlayMessage     string
	overlayMessageTime time.Time

	deviceClass      DeviceClass
	viewerEverOpened bool

	dragPanning  bool
	dragX, dragY int

	shouldExit bool
}

func newGame(configResult ConfigLoadResult, source ManifestSource) *Game {
	config := configResult.Config

	g := &Game{
		config:       config,
		configStatus: configResult,
		phase:        PhaseLoading,
		loadCh:       make(chan error, 1),
		screenW:      config.WindowWidth,
		screenH:      config.WindowHeight,
		deviceClass:  DeviceDesktop,
	}

	g.store = NewManifestStore(source, GetOrderStrategy(config.OrderMethod))
	g.pager = NewPaginator(nil, config.PageSize)
	g.selection = NewSelectionModel(g.pager)
	g.viewport = NewViewportController(g.deviceClass, &configPrefStore{config: &g.config})
	g.registry = NewListenerRegistry()
	g.coordinator = NewNavigationCoordinator(g.selection, g.pager, g.viewport, g.registry)
	g.loader = NewProgressiveLoader(config.CacheSize, 4)
	g.pointer = NewPointerTracker(NewGestureRecognizer(config.Gestures))
	g.watcher = NewScrollWatcher()
	g.km = NewKeybindingManager(config.Keybindings)
	g.mm = NewMousebindingManager(config.Mousebindings)
	g.renderer = NewRenderer(g)

	g.coordinator.SetViewerImageFunc(g.bindViewerSlot)
	g.pointer.SetPanFuncs(g.viewport.BeginPan, g.viewport.PanBy, g.viewport.EndPan)

	g.registry.Subscribe(EventPageReady, g.onPageReady)
	g.registry.Subscribe(EventViewerOpened, func() { g.viewerEverOpened = true })
	g.registry.Subscribe(EventViewerClosed, g.releaseViewerSlot)

	g.startManifestLoad()
	return g
}

func (g *Game) startManifestLoad() {
	g.phase = PhaseLoading
	g.errMsg = ""
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		g.loadCh <- g.store.Load(ctx)
	}()
}

func (g *Game) bindViewerSlot() {
	entry, ok := g.selection.SelectedEntry()
	if !ok {
		return
	}
	if g.viewerSlot == nil {
		g.viewerSlot = g.loader.NewSlot()
	}
	g.viewerSlot.Bind(entry.Ref)
}

func (g *Game) releaseViewerSlot() {
	if g.viewerSlot != nil {
		g.viewerSlot.Release()
		g.viewerSlot = nil
	}
}

func (g *Game) onPageReady() {
	if g.scrollToPageStart {
		g.scrollToPageStart = false
		first := (g.pager.CurrentPage() - 1) * g.pager.PageSize()
		cell := gridCellSize(float64(g.screenW), g.config.GridColumns)
		_, y := gridCellRect(first, g.config.GridColumns, cell)
		g.scrollOffset = g.clampScroll(y - gridGap)
	}
}

func (g *Game) clampScroll(offset float64) float64 {
	cell := gridCellSize(float64(g.screenW), g.config.GridColumns)
	max := gridContentHeight(len(g.pager.Loaded()), g.config.GridColumns, cell) - float64(g.screenH)
	if max < 0 {
		max = 0
	}
	return clamp(offset, 0, max)
}

// Update advances one frame tick.
func (g *Game) Update() error {
	if g.shouldExit {
		g.saveSessionState()
		return ebiten.Termination
	}

	select {
	case err := <-g.loadCh:
		if err != nil {
			g.phase = PhaseError
			g.errMsg = err.Error()
			debugLog("manifest load failed: %v", err)
		} else {
			g.phase = PhaseBrowsing
			g.pager.Reset(g.store.Entries())
			g.scrollOffset = 0
		}
	default:
	}

	switch g.phase {
	case PhaseLoading:
		return nil
	case PhaseError:
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.startManifestLoad()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			g.shouldExit = true
		}
		return nil
	}

	g.loader.Step()
	g.pager.Step()

	g.handleTouch()
	g.handleMouse()
	g.handleScrollTrigger()

	for _, action := range actionDefinitions {
		if g.km.ExecuteAction(action.Name, g, g) {
			break
		}
	}

	return nil
}

func (g *Game) handleTouch() {
	intents := g.pointer.Update(g.PanEnabled(), g.coordinator.ViewerOpen())

	// A touch device defaults to fit-width; reclassify on the first
	// touch as long as the viewer has never been opened.
	if g.pointer.TouchSeen() && g.deviceClass == DeviceDesktop && !g.viewerEverOpened {
		g.deviceClass = DeviceMobile
		g.viewport.SetDeviceClass(DeviceMobile)
	}

	for _, intent := range intents {
		g.coordinator.HandleGesture(intent)
	}
}

func (g *Game) handleMouse() {
	if g.coordinator.ViewerOpen() {
		g.handleViewerMouse()
		return
	}

	// Wheel scrolls the grid
	_, wy := ebiten.Wheel()
	if wy != 0 {
		g.scrollOffset = g.clampScroll(g.scrollOffset - wy*wheelScrollStep)
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		cell := gridCellSize(float64(g.screenW), g.config.GridColumns)
		idx := gridCellAt(float64(cx), float64(cy), len(g.pager.Loaded()), g.config.GridColumns, cell, g.scrollOffset)
		if idx >= 0 {
			g.coordinator.OpenViewerAt(g.pager.Loaded()[idx].Ref)
		}
	}
}

func (g *Game) handleViewerMouse() {
	// Wheel, double click and the other buttons dispatch through the
	// configurable mouse bindings; only drag-to-pan is handled directly.
	g.mm.ExecuteActions(g, g)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragX, g.dragY = ebiten.CursorPosition()
		g.dragPanning = g.viewport.BeginPan()
	}

	if g.dragPanning && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()
		g.viewport.PanBy(float64(cx-g.dragX), float64(cy-g.dragY))
		g.dragX, g.dragY = cx, cy
	}

	if g.dragPanning && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.viewport.EndPan()
		g.dragPanning = false
	}
}

func (g *Game) handleScrollTrigger() {
	if g.coordinator.ViewerOpen() {
		return
	}
	cell := gridCellSize(float64(g.screenW), g.config.GridColumns)
	content := gridContentHeight(len(g.pager.Loaded()), g.config.GridColumns, cell)
	distance := content - (g.scrollOffset + float64(g.screenH))
	if g.watcher.Check(distance) {
		g.pager.NextPage()
	}
}

// Draw renders the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
}

// Layout reports the logical screen size and tracks resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.screenW || outsideHeight != g.screenH {
		g.screenW = outsideWidth
		g.screenH = outsideHeight
		g.viewport.SetViewportSize(Dimensions{Width: float64(outsideWidth), Height: float64(outsideHeight)})
		g.scrollOffset = g.clampScroll(g.scrollOffset)
	}
	return outsideWidth, outsideHeight
}

// saveSessionState persists window size, ordering and zoom preferences.
func (g *Game) saveSessionState() {
	g.loader.Stop()
	if !ebiten.IsFullscreen() {
		w, h := ebiten.WindowSize()
		if w >= minWidth && h >= minHeight {
			g.config.WindowWidth = w
			g.config.WindowHeight = h
		}
	}
	g.config.Fullscreen = ebiten.IsFullscreen()
	saveConfig(g.config)
}

// InputActions implementation

func (g *Game) Exit() { g.shouldExit = true }

func (g *Game) ToggleHelp() { g.showHelp = !g.showHelp }
func (g *Game) ToggleInfo() { g.showInfo = !g.showInfo }

func (g *Game) ToggleFullscreen() {
	ebiten.SetFullscreen(!ebiten.IsFullscreen())
}

func (g *Game) OpenViewer() {
	loaded := g.pager.Loaded()
	if len(loaded) == 0 {
		return
	}
	ref := loaded[0].Ref
	if entry, ok := g.selection.SelectedEntry(); ok {
		ref = entry.Ref
	}
	g.coordinator.OpenViewerAt(ref)
}

func (g *Game) CloseViewer() {
	g.coordinator.CloseViewer()
}

func (g *Game) NavigateNext()     { g.coordinator.Advance(NavigationForward) }
func (g *Game) NavigatePrevious() { g.coordinator.Advance(NavigationBackward) }

func (g *Game) CycleZoom() {
	if !g.coordinator.ViewerOpen() {
		return
	}
	g.viewport.CycleZoom()
	g.ShowOverlayMessage(g.viewport.Preset().Name())
}

func (g *Game) SetZoom(preset ZoomPreset) {
	if !g.coordinator.ViewerOpen() {
		return
	}
	g.viewport.SetZoom(preset)
	g.ShowOverlayMessage(g.viewport.Preset().Name())
}

func (g *Game) NextPage() {
	if g.pager.NextPage() {
		g.scrollToPageStart = true
	}
}

func (g *Game) PreviousPage() {
	if g.pager.PreviousPage() {
		g.scrollToPageStart = true
	}
}

func (g *Game) Reshuffle() {
	if !g.store.Loaded() {
		if g.phase == PhaseError {
			g.startManifestLoad()
		}
		return
	}
	g.store.Reshuffle()
	g.pager.Reset(g.store.Entries())
	g.scrollOffset = 0
	g.selection.Resync()
	g.ShowOverlayMessage("Reshuffled")
}

func (g *Game) CycleOrdering() {
	next := (g.store.Strategy().ID() + 1) % len(GetAllOrderStrategies())
	strategy := GetOrderStrategy(next)
	g.store.SetStrategy(strategy)
	g.config.OrderMethod = next
	if g.store.Loaded() {
		g.store.Reshuffle()
		g.pager.Reset(g.store.Entries())
		g.scrollOffset = 0
		g.selection.Resync()
	}
	g.ShowOverlayMessage(fmt.Sprintf("Order: %s", strategy.Name()))
}

func (g *Game) ScrollDown() {
	if g.coordinator.ViewerOpen() {
		g.viewport.Nudge(0, -keyPanStep)
		return
	}
	g.scrollOffset = g.clampScroll(g.scrollOffset + keyScrollStep)
}

func (g *Game) ScrollUp() {
	if g.coordinator.ViewerOpen() {
		g.viewport.Nudge(0, keyPanStep)
		return
	}
	g.scrollOffset = g.clampScroll(g.scrollOffset - keyScrollStep)
}

func (g *Game) ShowOverlayMessage(message string) {
	g.overlayMessage = message
	g.overlayMessageTime = time.Now()
}

// InputState implementation

func (g *Game) IsViewerOpen() bool { return g.coordinator.ViewerOpen() }
func (g *Game) PanEnabled() bool   { return g.viewport.PanEnabled() }

// RenderState implementation

func (g *Game) Phase() GamePhase     { return g.phase }
func (g *Game) ErrorMessage() string { return g.errMsg }

func (g *Game) Loaded() []ManifestEntry { return g.pager.Loaded() }
func (g *Game) GridColumns() int        { return g.config.GridColumns }
func (g *Game) ScrollOffset() float64   { return g.scrollOffset }

func (g *Game) ThumbnailFor(ref ImageRef) *ebiten.Image {
	return g.loader.Thumbnail(ref)
}

func (g *Game) SelectionIndex() int { return g.selection.Index() }

func (g *Game) CurrentPage() int  { return g.pager.CurrentPage() }
func (g *Game) TotalPages() int   { return g.pager.TotalPages() }
func (g *Game) TotalImages() int  { return g.store.TotalImages() }
func (g *Game) IsPaging() bool    { return g.pager.IsPaging() }
func (g *Game) OrderName() string { return g.store.Strategy().Name() }

func (g *Game) ViewerState() ImageState {
	if g.viewerSlot == nil {
		return ImageState{}
	}
	return g.viewerSlot.State()
}

func (g *Game) ViewerImage() *ebiten.Image {
	if g.viewerSlot == nil {
		return nil
	}
	return g.viewerSlot.Image()
}

func (g *Game) ViewerEntry() (ManifestEntry, bool) {
	return g.selection.SelectedEntry()
}

func (g *Game) ViewportInfo() (ZoomPreset, float64, float64) {
	x, y := g.viewport.PanOffset()
	return g.viewport.Preset(), x, y
}

func (g *Game) IsShowingHelp() bool              { return g.showHelp }
func (g *Game) IsShowingInfo() bool              { return g.showInfo }
func (g *Game) GetOverlayMessage() string        { return g.overlayMessage }
func (g *Game) GetOverlayMessageTime() time.Time { return g.overlayMessageTime }
func (g *Game) GetFontSize() float64             { return g.config.HelpFontSize }
func (g *Game) GetConfigStatus() ConfigLoadResult {
	return g.configStatus
}
func (g *Game) GetKeybindings() map[string][]string { return g.km.GetKeybindings() }
