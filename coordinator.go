package main

// EventTopic identifies an internal signal the UI subscribes to.
type EventTopic int

const (
	EventPageReady EventTopic = iota
	EventSelectionChanged
	EventViewerOpened
	EventViewerClosed
)

// ListenerRegistry is a minimal subscribe/emit hub. Subscribe returns
// the matching unsubscribe so mount and unmount stay paired.
type ListenerRegistry struct {
	nextID    int
	listeners map[EventTopic]map[int]func()
}

func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{listeners: make(map[EventTopic]map[int]func())}
}

func (r *ListenerRegistry) Subscribe(topic EventTopic, fn func()) func() {
	if r.listeners[topic] == nil {
		r.listeners[topic] = make(map[int]func())
	}
	id := r.nextID
	r.nextID++
	r.listeners[topic][id] = fn
	return func() {
		delete(r.listeners[topic], id)
	}
}

func (r *ListenerRegistry) Emit(topic EventTopic) {
	for _, fn := range r.listeners[topic] {
		fn()
	}
}

// Count returns the number of live subscriptions across all topics.
func (r *ListenerRegistry) Count() int {
	n := 0
	for _, m := range r.listeners {
		n += len(m)
	}
	return n
}

// NavigationCoordinator routes navigation between the grid and the
// modal viewer. It owns the viewer open/closed state and translates
// gestures and commands into selection, pagination and viewport calls.
type NavigationCoordinator struct {
	selection *SelectionModel
	pager     *Paginator
	viewport  *ViewportController
	registry  *ListenerRegistry

	viewerOpen bool
	viewerSubs []func()

	// onViewerImage fires when the viewer should rebind its display
	// slot to the current selection.
	onViewerImage func()
}

func NewNavigationCoordinator(selection *SelectionModel, pager *Paginator, viewport *ViewportController, registry *ListenerRegistry) *NavigationCoordinator {
	c := &NavigationCoordinator{
		selection: selection,
		pager:     pager,
		viewport:  viewport,
		registry:  registry,
	}
	pager.SetPageReadyFunc(func() { registry.Emit(EventPageReady) })
	selection.SetChangeFunc(func() { registry.Emit(EventSelectionChanged) })
	return c
}

func (c *NavigationCoordinator) SetViewerImageFunc(fn func()) {
	c.onViewerImage = fn
}

func (c *NavigationCoordinator) ViewerOpen() bool { return c.viewerOpen }

// OpenViewerAt opens the modal viewer on the given image.
func (c *NavigationCoordinator) OpenViewerAt(ref ImageRef) {
	if !c.viewerOpen {
		c.mountViewer()
	}
	c.selection.Set(ref)
	c.syncViewerImage()
	c.registry.Emit(EventViewerOpened)
}

// CloseViewer closes the viewer and clears the selection; the grid has
// no highlighted cell while the viewer is closed.
func (c *NavigationCoordinator) CloseViewer() {
	if !c.viewerOpen {
		return
	}
	c.unmountViewer()
	c.selection.Clear()
	c.registry.Emit(EventViewerClosed)
}

// Advance moves the viewer selection one image. Past the end of the
// loaded set this requests the next page; the move completes when the
// page commits.
func (c *NavigationCoordinator) Advance(dir NavigationDirection) {
	if !c.viewerOpen {
		// With the viewer closed, horizontal navigation opens it on
		// the first loaded image.
		loaded := c.pager.Loaded()
		if len(loaded) > 0 {
			c.OpenViewerAt(loaded[0].Ref)
		}
		return
	}
	c.selection.Advance(dir)
}

// HandleGesture maps a recognized touch intent onto navigation. Swipe
// down is recognized but deliberately unbound.
func (c *NavigationCoordinator) HandleGesture(intent GestureIntent) {
	if !c.viewerOpen {
		return
	}
	switch intent {
	case GestureSwipeLeft:
		c.Advance(NavigationForward)
	case GestureSwipeRight:
		c.Advance(NavigationBackward)
	case GestureSwipeUp:
		c.CloseViewer()
	case GestureDoubleTap:
		c.viewport.CycleZoom()
	}
}

// mountViewer installs the viewer's subscriptions. Each subscription is
// paired with its unsubscribe; unmountViewer runs them all, so repeated
// open/close cycles never accumulate listeners.
func (c *NavigationCoordinator) mountViewer() {
	c.viewerOpen = true
	c.viewerSubs = append(c.viewerSubs,
		c.registry.Subscribe(EventPageReady, func() {
			c.selection.Resync()
		}),
		c.registry.Subscribe(EventSelectionChanged, func() {
			c.syncViewerImage()
		}),
	)
}

func (c *NavigationCoordinator) unmountViewer() {
	c.viewerOpen = false
	for _, unsub := range c.viewerSubs {
		unsub()
	}
	c.viewerSubs = nil
}

// syncViewerImage points the viewport at the selected entry's intrinsic
// dimensions and asks the owner to rebind the display slot.
func (c *NavigationCoordinator) syncViewerImage() {
	if !c.viewerOpen {
		return
	}
	entry, ok := c.selection.SelectedEntry()
	if !ok {
		return
	}
	c.viewport.SetImage(Dimensions{
		Width:  float64(entry.Original.Width),
		Height: float64(entry.Original.Height),
	})
	if c.onViewerImage != nil {
		c.onViewerImage()
	}
}
