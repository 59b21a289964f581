package main

import (
	"math"
	"time"
)

// GestureIntent is the recognized intent of a completed touch sequence.
type GestureIntent int

const (
	GestureNone GestureIntent = iota
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureDoubleTap
)

func (g GestureIntent) String() string {
	switch g {
	case GestureSwipeLeft:
		return "swipe-left"
	case GestureSwipeRight:
		return "swipe-right"
	case GestureSwipeUp:
		return "swipe-up"
	case GestureSwipeDown:
		return "swipe-down"
	case GestureDoubleTap:
		return "double-tap"
	default:
		return "none"
	}
}

// GestureSettings holds the recognizer thresholds. Defaults match
// common touch UI conventions; all values are configurable.
type GestureSettings struct {
	// Travel in pixels that qualifies a swipe on its own.
	SwipeDistance float64 `json:"swipe_distance"`
	// Velocity in pixels per millisecond that qualifies a swipe on
	// its own.
	SwipeVelocity float64 `json:"swipe_velocity"`
	// Threshold multiplier applied while the zoom preset allows
	// panning, so deliberate swipes still register during pan.
	PanDistanceScale float64 `json:"pan_distance_scale"`
	// Maximum gap between taps for a double tap, in milliseconds.
	DoubleTapTime int `json:"double_tap_time"`
}

func DefaultGestureSettings() GestureSettings {
	return GestureSettings{
		SwipeDistance:    50,
		SwipeVelocity:    0.5,
		PanDistanceScale: 2.0,
		DoubleTapTime:    300,
	}
}

// GestureRecognizer turns raw touch begin/end points into gesture
// intents. It tracks one active touch; a second finger cancels the
// sequence.
type GestureRecognizer struct {
	settings GestureSettings

	tracking bool
	startX   float64
	startY   float64
	startAt  time.Time

	lastTapAt time.Time
	// Set while the active sequence already emitted a double tap, so
	// its release does not seed a third tap.
	suppressTap bool
}

func NewGestureRecognizer(settings GestureSettings) *GestureRecognizer {
	if settings.SwipeDistance <= 0 {
		settings = DefaultGestureSettings()
	}
	return &GestureRecognizer{settings: settings}
}

// TouchStart begins a touch sequence. Emits GestureDoubleTap when the
// previous tap landed within the double-tap window.
func (g *GestureRecognizer) TouchStart(x, y float64, now time.Time) GestureIntent {
	g.tracking = true
	g.startX = x
	g.startY = y
	g.startAt = now

	window := time.Duration(g.settings.DoubleTapTime) * time.Millisecond
	if !g.lastTapAt.IsZero() && now.Sub(g.lastTapAt) < window {
		g.lastTapAt = time.Time{}
		g.suppressTap = true
		return GestureDoubleTap
	}
	g.suppressTap = false
	return GestureNone
}

// TouchEnd completes the sequence and classifies it. With panEnabled
// the distance and velocity thresholds are scaled up, so ordinary pan
// drags do not read as swipes.
func (g *GestureRecognizer) TouchEnd(x, y float64, now time.Time, panEnabled bool) GestureIntent {
	if !g.tracking {
		return GestureNone
	}
	g.tracking = false

	dx := x - g.startX
	dy := y - g.startY
	dt := now.Sub(g.startAt)

	minDist := g.settings.SwipeDistance
	minVel := g.settings.SwipeVelocity
	if panEnabled {
		minDist *= g.settings.PanDistanceScale
		minVel *= g.settings.PanDistanceScale
	}

	adx, ady := math.Abs(dx), math.Abs(dy)
	dist := math.Max(adx, ady)
	ms := float64(dt) / float64(time.Millisecond)
	var vel float64
	if ms > 0 {
		vel = dist / ms
	}

	// Clearing either threshold alone qualifies a swipe: a long slow
	// drag and a short fast flick both count.
	if dist < minDist && vel < minVel {
		// Short touch: remember it as a tap candidate unless the
		// sequence already produced a double tap.
		if !g.suppressTap {
			g.lastTapAt = now
		}
		g.suppressTap = false
		return GestureNone
	}

	// Dominant axis wins.
	if adx >= ady {
		if dx < 0 {
			return GestureSwipeLeft
		}
		return GestureSwipeRight
	}
	if dy < 0 {
		return GestureSwipeUp
	}
	return GestureSwipeDown
}

// Cancel aborts the active sequence, e.g. when a second finger lands.
func (g *GestureRecognizer) Cancel() {
	g.tracking = false
}
