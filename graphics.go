package main

import (
	"bytes"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// Global font source for text rendering
var globalFontSource *text.GoTextFaceSource

// InitGraphics initializes the global font source for text rendering
func InitGraphics() error {
	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	globalFontSource = s
	return nil
}

// DrawText draws text with specified position and color
func DrawText(screen *ebiten.Image, textString string, font *text.GoTextFace, x, y float64, textColor color.RGBA) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(textColor)
	text.Draw(screen, textString, font, op)
}

// DrawFilledRect draws filled rectangles with float64 coordinates
func DrawFilledRect(screen *ebiten.Image, x, y, w, h float64, bgColor color.RGBA) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), bgColor, false)
}

// DrawRectOutline draws a rectangle outline with the given stroke width
func DrawRectOutline(screen *ebiten.Image, x, y, w, h, stroke float64, c color.RGBA) {
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), float32(stroke), c, false)
}

// CreatePlaceholderImage creates a flat gray stand-in for a cell whose
// thumbnail has not arrived yet.
func CreatePlaceholderImage(width, height int) *ebiten.Image {
	if width <= 0 || height <= 0 {
		width, height = 320, 320
	}
	img := ebiten.NewImage(width, height)
	img.Fill(color.RGBA{60, 60, 60, 255})
	return img
}

// CreateErrorImage creates an error placeholder image with filename and error message
func CreateErrorImage(width, height int, filename, errorMsg string) *ebiten.Image {
	// Default size if not specified
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	errorImg := ebiten.NewImage(width, height)
	errorImg.Fill(color.RGBA{120, 30, 30, 255}) // Dark red background

	// Draw white border
	white := color.RGBA{255, 255, 255, 255}
	DrawFilledRect(errorImg, 0, 0, float64(width), 3, white)
	DrawFilledRect(errorImg, 0, float64(height-3), float64(width), 3, white)
	DrawFilledRect(errorImg, 0, 0, 3, float64(height), white)
	DrawFilledRect(errorImg, float64(width-3), 0, 3, float64(height), white)

	if globalFontSource == nil {
		// No font source, the bordered rectangle has to do
		return errorImg
	}

	errorFont := &text.GoTextFace{
		Source: globalFontSource,
		Size:   20.0,
	}

	errorTitle := "ERROR"
	fileText := "File: " + filepath.Base(filename)
	reasonText := "Reason: " + errorMsg

	// Truncate long text to fit within image bounds
	maxChars := (width - 20) / 10 // Rough estimate: 10px per character
	if len(fileText) > maxChars && maxChars > 3 {
		fileText = fileText[:maxChars-3] + "..."
	}
	if len(reasonText) > maxChars && maxChars > 3 {
		reasonText = reasonText[:maxChars-3] + "..."
	}

	DrawText(errorImg, errorTitle, errorFont, 10, 30, white)
	DrawText(errorImg, fileText, errorFont, 10, 60, white)
	DrawText(errorImg, reasonText, errorFont, 10, 90, white)

	return errorImg
}
