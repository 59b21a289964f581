package main

import (
	"testing"
	"time"
)

var gestureBase = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestSwipeRecognition(t *testing.T) {
	tests := []struct {
		name       string
		dx, dy     float64
		dt         time.Duration
		panEnabled bool
		want       GestureIntent
	}{
		{"fast left swipe", -60, 5, 80 * time.Millisecond, false, GestureSwipeLeft},
		{"fast right swipe", 60, -5, 80 * time.Millisecond, false, GestureSwipeRight},
		{"fast up swipe", -5, -60, 80 * time.Millisecond, false, GestureSwipeUp},
		{"fast down swipe", 5, 60, 80 * time.Millisecond, false, GestureSwipeDown},
		{"short and slow", -30, 0, 100 * time.Millisecond, false, GestureNone},
		// Either threshold alone qualifies: a slow drag past the
		// distance threshold, or a short flick past the velocity one
		{"slow drag past distance threshold", -60, 0, 500 * time.Millisecond, false, GestureSwipeLeft},
		{"short flick past velocity threshold", -40, 0, 50 * time.Millisecond, false, GestureSwipeLeft},
		{"dominant axis wins", -80, 40, 80 * time.Millisecond, false, GestureSwipeLeft},
		// With panning enabled both thresholds double: a 60px drag at
		// 0.75 px/ms clears neither doubled threshold
		{"pan drag not a swipe", -60, 0, 80 * time.Millisecond, true, GestureNone},
		{"long swipe while panning", -150, 0, 100 * time.Millisecond, true, GestureSwipeLeft},
		{"fast flick while panning", -90, 0, 60 * time.Millisecond, true, GestureSwipeLeft},
		{"slow drag while panning", -90, 0, 500 * time.Millisecond, true, GestureNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGestureRecognizer(DefaultGestureSettings())

			g.TouchStart(200, 200, gestureBase)
			got := g.TouchEnd(200+tt.dx, 200+tt.dy, gestureBase.Add(tt.dt), tt.panEnabled)

			if got != tt.want {
				t.Errorf("TouchEnd = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDoubleTap(t *testing.T) {
	g := NewGestureRecognizer(DefaultGestureSettings())

	// First tap
	g.TouchStart(100, 100, gestureBase)
	g.TouchEnd(102, 101, gestureBase.Add(50*time.Millisecond), false)

	// Second tap within the window
	got := g.TouchStart(101, 99, gestureBase.Add(200*time.Millisecond))
	if got != GestureDoubleTap {
		t.Errorf("second tap = %v, want GestureDoubleTap", got)
	}
}

func TestDoubleTapWindowExpires(t *testing.T) {
	g := NewGestureRecognizer(DefaultGestureSettings())

	g.TouchStart(100, 100, gestureBase)
	g.TouchEnd(100, 100, gestureBase.Add(50*time.Millisecond), false)

	got := g.TouchStart(100, 100, gestureBase.Add(500*time.Millisecond))
	if got != GestureNone {
		t.Errorf("late second tap = %v, want GestureNone", got)
	}
}

func TestTripleTapEmitsOnce(t *testing.T) {
	g := NewGestureRecognizer(DefaultGestureSettings())

	g.TouchStart(100, 100, gestureBase)
	g.TouchEnd(100, 100, gestureBase.Add(40*time.Millisecond), false)

	if got := g.TouchStart(100, 100, gestureBase.Add(150*time.Millisecond)); got != GestureDoubleTap {
		t.Fatalf("second tap = %v, want GestureDoubleTap", got)
	}
	g.TouchEnd(100, 100, gestureBase.Add(190*time.Millisecond), false)

	// The double tap consumed the tap history; a third tap starts over
	if got := g.TouchStart(100, 100, gestureBase.Add(300*time.Millisecond)); got != GestureNone {
		t.Errorf("third tap = %v, want GestureNone", got)
	}
}

func TestSwipeIsNotATapCandidate(t *testing.T) {
	g := NewGestureRecognizer(DefaultGestureSettings())

	g.TouchStart(100, 100, gestureBase)
	g.TouchEnd(200, 100, gestureBase.Add(80*time.Millisecond), false)

	// A touch right after a swipe must not read as a double tap
	if got := g.TouchStart(200, 100, gestureBase.Add(200*time.Millisecond)); got != GestureNone {
		t.Errorf("tap after swipe = %v, want GestureNone", got)
	}
}

func TestGestureCancel(t *testing.T) {
	g := NewGestureRecognizer(DefaultGestureSettings())

	g.TouchStart(100, 100, gestureBase)
	g.Cancel()

	if got := g.TouchEnd(300, 100, gestureBase.Add(80*time.Millisecond), false); got != GestureNone {
		t.Errorf("TouchEnd after Cancel = %v, want GestureNone", got)
	}
}

func TestGestureSettingsFallback(t *testing.T) {
	g := NewGestureRecognizer(GestureSettings{})
	if g.settings.SwipeDistance != 50 {
		t.Errorf("SwipeDistance = %v, want default 50", g.settings.SwipeDistance)
	}
}
