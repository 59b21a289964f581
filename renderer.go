package main

import (
	"bytes"
	"fmt"
	"image/color"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Common colors used in rendering
var (
	colorWhite     = color.RGBA{255, 255, 255, 255}
	colorGray      = color.RGBA{180, 180, 180, 255}
	colorYellow    = color.RGBA{255, 255, 100, 255}
	colorLightBlue = color.RGBA{200, 200, 255, 255}
	colorGreen     = color.RGBA{100, 255, 100, 255}
	colorOrange    = color.RGBA{255, 200, 100, 255}
	colorLightRed  = color.RGBA{255, 150, 150, 255}
	colorSelection = color.RGBA{255, 210, 80, 255}

	// Background colors for semi-transparent overlays
	bgColorLight  = color.RGBA{0, 0, 0, 128}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
	bgColorDark   = color.RGBA{0, 0, 0, 220}
)

// Grid layout constants
const gridGap = 8.0

// gridCellSize returns the square cell side for the given screen width
// and column count.
func gridCellSize(screenW float64, columns int) float64 {
	if columns < 1 {
		columns = 1
	}
	cell := (screenW - gridGap*float64(columns+1)) / float64(columns)
	if cell < 1 {
		cell = 1
	}
	return cell
}

// gridCellRect returns the top-left corner of cell i before scrolling.
func gridCellRect(i, columns int, cell float64) (x, y float64) {
	col := i % columns
	row := i / columns
	x = gridGap + float64(col)*(cell+gridGap)
	y = gridGap + float64(row)*(cell+gridGap)
	return x, y
}

// gridContentHeight returns the full height of the grid content.
func gridContentHeight(n, columns int, cell float64) float64 {
	if n == 0 || columns < 1 {
		return 0
	}
	rows := (n + columns - 1) / columns
	return gridGap + float64(rows)*(cell+gridGap)
}

// gridCellAt hit-tests a screen point against the scrolled grid and
// returns the cell index, or -1.
func gridCellAt(px, py float64, n, columns int, cell, scroll float64) int {
	if n == 0 || columns < 1 {
		return -1
	}
	py += scroll
	col := int((px - gridGap) / (cell + gridGap))
	row := int((py - gridGap) / (cell + gridGap))
	if col < 0 || col >= columns || row < 0 {
		return -1
	}
	// Reject hits landing in the gaps
	x0 := gridGap + float64(col)*(cell+gridGap)
	y0 := gridGap + float64(row)*(cell+gridGap)
	if px < x0 || px > x0+cell || py < y0 || py > y0+cell {
		return -1
	}
	i := row*columns + col
	if i >= n {
		return -1
	}
	return i
}

// Renderer handles all drawing operations
type Renderer struct {
	renderState    RenderState
	helpFontSource *text.GoTextFaceSource
	placeholder    *ebiten.Image

	// Error placeholder, regenerated when the failing entry changes
	errorImg *ebiten.Image
	errorFor string
}

// NewRenderer creates a new Renderer
func NewRenderer(renderState RenderState) *Renderer {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatal(err)
	}

	return &Renderer{
		renderState:    renderState,
		helpFontSource: s,
	}
}

// Draw renders the entire screen
func (r *Renderer) Draw(screen *ebiten.Image) {
	screen.Clear()

	switch r.renderState.Phase() {
	case PhaseLoading:
		r.drawCenteredMessage(screen, "Loading gallery...", "")
		return
	case PhaseError:
		r.drawCenteredMessage(screen, "Failed to load gallery", r.renderState.ErrorMessage()+"  (press R to retry)")
		return
	}

	r.drawGrid(screen)

	if r.renderState.IsViewerOpen() {
		r.drawViewer(screen)
	}

	if r.renderState.IsShowingInfo() {
		r.drawInfoDisplay(screen)
	}

	if r.renderState.IsShowingHelp() {
		r.drawHelpOverlay(screen)
	}

	if r.renderState.GetOverlayMessage() != "" && time.Since(r.renderState.GetOverlayMessageTime()) < overlayMessageDuration {
		r.drawOverlayMessage(screen)
	}
}

func (r *Renderer) drawCenteredMessage(screen *ebiten.Image, title, detail string) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	font := &text.GoTextFace{Source: r.helpFontSource, Size: r.renderState.GetFontSize()}

	tw, th := text.Measure(title, font, 0)
	DrawText(screen, title, font, w/2-tw/2, h/2-th, colorWhite)

	if detail != "" {
		detailFont := &text.GoTextFace{Source: r.helpFontSource, Size: r.renderState.GetFontSize() * 0.7}
		dw, _ := text.Measure(detail, detailFont, 0)
		DrawText(screen, detail, detailFont, w/2-dw/2, h/2+10, colorGray)
	}
}

func (r *Renderer) drawGrid(screen *ebiten.Image) {
	entries := r.renderState.Loaded()
	if len(entries) == 0 {
		return
	}

	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	columns := r.renderState.GridColumns()
	cell := gridCellSize(w, columns)
	scroll := r.renderState.ScrollOffset()
	selIdx := r.renderState.SelectionIndex()

	if r.placeholder == nil {
		r.placeholder = CreatePlaceholderImage(320, 320)
	}

	for i, entry := range entries {
		x, y := gridCellRect(i, columns, cell)
		y -= scroll

		// Skip cells outside the viewport
		if y+cell < 0 || y > h {
			continue
		}

		img := r.renderState.ThumbnailFor(entry.Ref)
		if img == nil {
			img = r.placeholder
		}
		r.drawImageInCell(screen, img, x, y, cell)

		if i == selIdx {
			DrawRectOutline(screen, x-2, y-2, cell+4, cell+4, 3, colorSelection)
		}
	}

	if r.renderState.IsPaging() {
		font := &text.GoTextFace{Source: r.helpFontSource, Size: r.renderState.GetFontSize() * 0.7}
		msg := "Loading more..."
		tw, th := text.Measure(msg, font, 0)
		DrawText(screen, msg, font, w/2-tw/2, h-th-10, colorGray)
	}
}

// drawImageInCell scales an image to fit a square cell, centered.
func (r *Renderer) drawImageInCell(screen *ebiten.Image, img *ebiten.Image, x, y, cell float64) {
	iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	scale := math.Min(cell/iw, cell/ih)

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x+cell/2-iw*scale/2, y+cell/2-ih*scale/2)
	screen.DrawImage(img, op)
}

// drawViewer draws the modal viewer. Geometry always derives from the
// manifest's intrinsic dimensions, so the thumbnail stand-in occupies
// exactly the box the full image will.
func (r *Renderer) drawViewer(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())
	DrawFilledRect(screen, 0, 0, w, h, bgColorDark)

	entry, ok := r.renderState.ViewerEntry()
	if !ok {
		return
	}

	state := r.renderState.ViewerState()
	img := r.renderState.ViewerImage()

	preset, panX, panY := r.renderState.ViewportInfo()
	intrinsic := Dimensions{Width: float64(entry.Original.Width), Height: float64(entry.Original.Height)}
	display := DisplayGeometry(preset, intrinsic, Dimensions{Width: w, Height: h})

	if img == nil && state.HasError {
		if r.errorFor != entry.Filename {
			r.errorImg = CreateErrorImage(400, 300, entry.Filename, "image failed to load")
			r.errorFor = entry.Filename
		}
		img = r.errorImg
	}

	if img != nil && display.Width > 0 {
		iw, ih := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())

		op := &ebiten.DrawImageOptions{}
		op.Filter = ebiten.FilterLinear
		op.GeoM.Scale(display.Width/iw, display.Height/ih)
		op.GeoM.Translate(w/2-display.Width/2+panX, h/2-display.Height/2+panY)
		screen.DrawImage(img, op)
	}

	if !state.IsLoaded || state.HasError {
		msg := "Loading full image..."
		if state.HasError {
			msg = "Full image unavailable"
		}
		font := &text.GoTextFace{Source: r.helpFontSource, Size: r.renderState.GetFontSize() * 0.7}
		tw, th := text.Measure(msg, font, 0)
		bx := w/2 - tw/2
		by := h - th - 20
		DrawFilledRect(screen, bx-8, by-4, tw+16, th+8, bgColorMedium)
		c := colorGray
		if state.HasError {
			c = colorLightRed
		}
		DrawText(screen, msg, font, bx, by, c)
	}
}

func (r *Renderer) drawInfoDisplay(screen *ebiten.Image) {
	infoFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.renderState.GetFontSize(),
	}

	infoText := r.buildInfoString()

	textWidth, textHeight := text.Measure(infoText, infoFont, 0)

	// Position at bottom right corner
	padding := 10.0
	textX := float64(screen.Bounds().Dx()) - textWidth - padding
	textY := float64(screen.Bounds().Dy()) - textHeight - padding

	bgPadding := 5.0
	DrawFilledRect(screen, textX-bgPadding, textY-bgPadding, textWidth+bgPadding*2, textHeight+bgPadding*2, bgColorLight)

	DrawText(screen, infoText, infoFont, textX, textY, colorWhite)
}

func (r *Renderer) buildInfoString() string {
	parts := []string{
		fmt.Sprintf("page %d/%d", r.renderState.CurrentPage(), r.renderState.TotalPages()),
		fmt.Sprintf("%d images", r.renderState.TotalImages()),
		r.renderState.OrderName(),
	}
	if r.renderState.IsViewerOpen() {
		preset, _, _ := r.renderState.ViewportInfo()
		parts = append(parts, preset.Name())
		if entry, ok := r.renderState.ViewerEntry(); ok {
			parts = append(parts, entry.Filename)
		}
	}
	return strings.Join(parts, " | ")
}

func (r *Renderer) drawOverlayMessage(screen *ebiten.Image) {
	messageFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   r.renderState.GetFontSize(),
	}

	textWidth, textHeight := text.Measure(r.renderState.GetOverlayMessage(), messageFont, 0)

	padding := 20.0
	boxWidth := textWidth + padding*2
	boxHeight := textHeight + padding*2
	boxX := (float64(screen.Bounds().Dx()) - boxWidth) / 2
	boxY := (float64(screen.Bounds().Dy()) - boxHeight) / 2

	DrawFilledRect(screen, boxX, boxY, boxWidth, boxHeight, bgColorDark)

	DrawText(screen, r.renderState.GetOverlayMessage(), messageFont, boxX+padding, boxY+padding, colorWhite)
}

// getActionsList returns a sorted list of all actions that have bindings
func (r *Renderer) getActionsList() []string {
	keybindings := r.renderState.GetKeybindings()
	actions := make([]string, 0, len(keybindings))
	for action, keys := range keybindings {
		if len(keys) > 0 {
			actions = append(actions, action)
		}
	}
	sort.Strings(actions)
	return actions
}

func (r *Renderer) drawHelpOverlay(screen *ebiten.Image) {
	w, h := float64(screen.Bounds().Dx()), float64(screen.Bounds().Dy())

	padding := 40.0
	fontSize := r.fitHelpFontSize(h - padding*2)

	helpFont := &text.GoTextFace{
		Source: r.helpFontSource,
		Size:   fontSize,
	}

	actions := r.getActionsList()
	keybindings := r.renderState.GetKeybindings()
	descriptions := GetActionDescriptions()
	configStatus := r.renderState.GetConfigStatus()

	DrawFilledRect(screen, 0, 0, w, h, bgColorLight)
	DrawFilledRect(screen, padding, padding, w-padding*2, h-padding*2, bgColorMedium)

	titleY := padding + 30
	DrawText(screen, "HELP:", helpFont, padding+20, titleY, colorWhite)

	currentY := titleY + fontSize*2
	lineHeight := fontSize * 1.5

	// Measure the widest action and binding for column alignment
	maxActionWidth := 0.0
	maxKeysWidth := 0.0
	for _, action := range actions {
		aw, _ := text.Measure(action, helpFont, 0)
		if aw > maxActionWidth {
			maxActionWidth = aw
		}
		kw, _ := text.Measure(strings.Join(keybindings[action], ", "), helpFont, 0)
		if kw > maxKeysWidth {
			maxKeysWidth = kw
		}
	}

	actionColumnX := padding + 40
	keysColumnX := actionColumnX + maxActionWidth + 30
	descColumnX := keysColumnX + maxKeysWidth + 30

	for _, action := range actions {
		description := descriptions[action]

		DrawText(screen, action, helpFont, actionColumnX, currentY, colorLightBlue)
		DrawText(screen, strings.Join(keybindings[action], ", "), helpFont, keysColumnX, currentY, colorYellow)
		DrawText(screen, description, helpFont, descColumnX, currentY, colorGray)

		currentY += lineHeight
	}

	currentY += lineHeight
	DrawText(screen, "System:", helpFont, padding+20, currentY, colorWhite)
	currentY += lineHeight

	statusText := fmt.Sprintf("Config Status: %s", configStatus.Status)
	statusColor := colorGreen
	if configStatus.Status == "Warning" || configStatus.Status == "Error" {
		statusColor = colorOrange
	}
	DrawText(screen, statusText, helpFont, padding+40, currentY, statusColor)
	currentY += lineHeight

	for i, warning := range configStatus.Warnings {
		if i >= 2 { // Limit to first 2 warnings to avoid clutter
			break
		}
		shortWarning := warning
		if len(shortWarning) > 50 {
			shortWarning = shortWarning[:47] + "..."
		}
		DrawText(screen, "- "+shortWarning, helpFont, padding+40, currentY, colorLightRed)
		currentY += lineHeight
	}
}

// fitHelpFontSize shrinks the configured font size until the help rows
// fit the available height, down to a floor of 12px.
func (r *Renderer) fitHelpFontSize(availableHeight float64) float64 {
	size := r.renderState.GetFontSize()
	rows := float64(len(r.getActionsList()) + 6)
	for size > 12.0 && rows*size*1.5 > availableHeight {
		size -= 1.0
	}
	return size
}
