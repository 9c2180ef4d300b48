package ui

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
)

func touchAt(x, y float32) *mobile.TouchEvent {
	return &mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestGestureHandler_Tap(t *testing.T) {
	var got []GestureType
	gh := NewGestureHandler(func(g GestureType) { got = append(got, g) })

	gh.TouchDown(touchAt(100, 100))
	gh.TouchUp(touchAt(101, 100))

	if len(got) != 1 || got[0] != GestureTap {
		t.Errorf("Expected [GestureTap], got %v", got)
	}
}

func TestGestureHandler_SwipeDirections(t *testing.T) {
	tests := []struct {
		name     string
		from, to fyne.Position
		want     GestureType
	}{
		{"left", fyne.NewPos(200, 100), fyne.NewPos(80, 105), GestureSwipeLeft},
		{"right", fyne.NewPos(80, 100), fyne.NewPos(200, 95), GestureSwipeRight},
		{"up", fyne.NewPos(100, 300), fyne.NewPos(105, 120), GestureSwipeUp},
		{"down", fyne.NewPos(100, 120), fyne.NewPos(95, 300), GestureSwipeDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []GestureType
			gh := NewGestureHandler(func(g GestureType) { got = append(got, g) })

			gh.TouchDown(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: tt.from}})
			gh.TouchUp(&mobile.TouchEvent{PointEvent: fyne.PointEvent{Position: tt.to}})

			if len(got) != 1 || got[0] != tt.want {
				t.Errorf("Expected [%v], got %v", tt.want, got)
			}
		})
	}
}

func TestGestureHandler_LongPress(t *testing.T) {
	var got []GestureType
	gh := NewGestureHandler(func(g GestureType) { got = append(got, g) })
	gh.longPressDuration = 10 * time.Millisecond

	gh.TouchDown(touchAt(100, 100))
	time.Sleep(30 * time.Millisecond)
	gh.TouchUp(touchAt(100, 101))

	if len(got) != 1 || got[0] != GestureLongPress {
		t.Errorf("Expected [GestureLongPress], got %v", got)
	}
}

func TestGestureHandler_NilCallback(t *testing.T) {
	gh := NewGestureHandler(nil)

	gh.TouchDown(touchAt(10, 10))
	gh.TouchUp(touchAt(200, 10)) // must not panic
	gh.TouchCancel(touchAt(200, 10))
}
