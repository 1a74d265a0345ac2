package gesture

import (
	"math"
	"testing"

	"github.com/montagehq/montage/backend-go/internal/geometry"
)

type recorder struct {
	selections []string
	patches    []geometry.Patch
	patchIDs   []string
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		SelectLayer: func(id string) { r.selections = append(r.selections, id) },
		UpdateLayer: func(id string, p geometry.Patch) {
			r.patchIDs = append(r.patchIDs, id)
			r.patches = append(r.patches, p)
		},
	}
}

func fixedScale(s float64) func() float64 {
	return func() float64 { return s }
}

func zeroOrigin() (float64, float64) { return 0, 0 }

func testSnapshot() geometry.Snapshot {
	return geometry.Snapshot{
		Position: geometry.Point{X: 100, Y: 100},
		Size:     geometry.Size{Width: 200, Height: 100},
	}
}

func TestControllerLifecycle(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	if c.Mode() != ModeIdle {
		t.Fatalf("initial mode = %v, want idle", c.Mode())
	}

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{X: 10, Y: 10})
	if c.Mode() != ModeTranslate {
		t.Fatalf("mode = %v, want translating", c.Mode())
	}
	if c.Selected() != "layer_a" {
		t.Fatalf("selected = %q, want layer_a", c.Selected())
	}

	feed.Move(PointerEvent{X: 40, Y: 25})
	feed.Up(PointerEvent{X: 40, Y: 25})

	if c.Mode() != ModeIdle {
		t.Errorf("mode after up = %v, want idle", c.Mode())
	}
	if c.Selected() != "layer_a" {
		t.Errorf("selection after up = %q, want layer_a (selection survives)", c.Selected())
	}

	if len(rec.patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(rec.patches))
	}
	p := rec.patches[0]
	if *p.X != 130 || *p.Y != 115 {
		t.Errorf("translate patch = (%v, %v), want (130, 115)", *p.X, *p.Y)
	}
}

func TestControllerDividesByScale(t *testing.T) {
	// At half scale a 30px screen delta is a 60-unit canvas delta.
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(0.5), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{X: 0, Y: 0})
	feed.Move(PointerEvent{X: 30, Y: 0})

	if len(rec.patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(rec.patches))
	}
	if got := *rec.patches[0].X; got != 160 {
		t.Errorf("x = %v, want 160 (100 + 30/0.5)", got)
	}
}

func TestControllerFrozenSnapshot(t *testing.T) {
	// Successive moves measure against the gesture-start snapshot, so two
	// moves to the same point produce the same patch instead of compounding.
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{X: 0, Y: 0})
	feed.Move(PointerEvent{X: 20, Y: 0})
	feed.Move(PointerEvent{X: 20, Y: 0})

	if len(rec.patches) != 2 {
		t.Fatalf("got %d patches, want 2", len(rec.patches))
	}
	if *rec.patches[0].X != *rec.patches[1].X {
		t.Errorf("patches diverged: %v vs %v", *rec.patches[0].X, *rec.patches[1].X)
	}
}

func TestControllerOneGestureAtATime(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{})
	c.Begin(ModeRotate, "layer_b", testSnapshot(), PointerEvent{})

	if c.Mode() != ModeTranslate {
		t.Errorf("mode = %v, want translating (second begin ignored)", c.Mode())
	}
	if c.Selected() != "layer_a" {
		t.Errorf("selected = %q, want layer_a", c.Selected())
	}
}

func TestControllerIgnoresBeginIdle(t *testing.T) {
	feed := NewFeed()
	c := NewController(feed, fixedScale(1), zeroOrigin, Callbacks{})
	c.Begin(ModeIdle, "layer_a", testSnapshot(), PointerEvent{})
	if c.Mode() != ModeIdle || c.Selected() != "" {
		t.Error("begin with idle mode must be a no-op")
	}
}

func TestControllerUpUnsubscribes(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{})
	feed.Up(PointerEvent{})

	// Stray moves after up must not produce patches.
	feed.Move(PointerEvent{X: 50, Y: 50})
	if len(rec.patches) != 0 {
		t.Errorf("got %d patches after up, want 0", len(rec.patches))
	}
}

func TestControllerBackgroundDeselects(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{})
	feed.Up(PointerEvent{})

	c.PressBackground()
	if c.Selected() != "" {
		t.Errorf("selected = %q, want \"\"", c.Selected())
	}

	wantSel := []string{"layer_a", ""}
	if len(rec.selections) != len(wantSel) {
		t.Fatalf("selections = %v, want %v", rec.selections, wantSel)
	}
	for i := range wantSel {
		if rec.selections[i] != wantSel[i] {
			t.Fatalf("selections = %v, want %v", rec.selections, wantSel)
		}
	}
}

func TestControllerBackgroundIgnoredMidGesture(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeTranslate, "layer_a", testSnapshot(), PointerEvent{})
	c.PressBackground()
	if c.Selected() != "layer_a" {
		t.Errorf("selected = %q, want layer_a (background press ignored mid-gesture)", c.Selected())
	}
}

func TestControllerSelectNotifiesOnChangeOnly(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Select("layer_a")
	c.Select("layer_a")
	c.Select("layer_b")

	if len(rec.selections) != 2 {
		t.Errorf("selections = %v, want 2 entries", rec.selections)
	}
}

func TestControllerTeardownMidGesture(t *testing.T) {
	feed := NewFeed()
	rec := &recorder{}
	c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

	c.Begin(ModeCropLeft, "layer_a", testSnapshot(), PointerEvent{})
	c.Teardown()

	if c.Mode() != ModeIdle {
		t.Errorf("mode after teardown = %v, want idle", c.Mode())
	}
	feed.Move(PointerEvent{X: 50, Y: 0})
	if len(rec.patches) != 0 {
		t.Errorf("got %d patches after teardown, want 0", len(rec.patches))
	}
}

func TestControllerRotateUsesScreenSpace(t *testing.T) {
	// Rotation works on raw pointer coordinates projected against the
	// canvas origin, not on scaled deltas.
	feed := NewFeed()
	rec := &recorder{}
	origin := func() (float64, float64) { return 100, 100 }
	c := NewController(feed, fixedScale(0.5), origin, rec.callbacks())

	// Snapshot center (200, 150) projects to (100 + 200*0.5, 100 + 150*0.5)
	// = (200, 175). Pointer straight right of that.
	snap := geometry.Snapshot{
		Position: geometry.Point{X: 100, Y: 100},
		Size:     geometry.Size{Width: 200, Height: 100},
	}
	c.Begin(ModeRotate, "layer_a", snap, PointerEvent{X: 200, Y: 175})
	feed.Move(PointerEvent{X: 400, Y: 175})

	if len(rec.patches) != 1 {
		t.Fatalf("got %d patches, want 1", len(rec.patches))
	}
	if got := *rec.patches[0].Rotation; math.Abs(got-90) > 1e-9 {
		t.Errorf("rotation = %v, want 90", got)
	}
}

func TestControllerCropAndResizeDispatch(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		move PointerEvent
		check func(t *testing.T, p geometry.Patch)
	}{
		{
			name: "resize bottom-right",
			mode: ModeResizeBottomRight,
			move: PointerEvent{X: 50, Y: 0},
			check: func(t *testing.T, p geometry.Patch) {
				if p.Width == nil || *p.Width != 250 {
					t.Errorf("width patch = %+v, want 250", p.Width)
				}
			},
		},
		{
			name: "crop left",
			mode: ModeCropLeft,
			move: PointerEvent{X: 50, Y: 0},
			check: func(t *testing.T, p geometry.Patch) {
				if p.Crop == nil || p.Crop.Left != 25 {
					t.Errorf("crop patch = %+v, want left 25", p.Crop)
				}
			},
		},
		{
			name: "crop top ignores horizontal movement",
			mode: ModeCropTop,
			move: PointerEvent{X: 50, Y: 20},
			check: func(t *testing.T, p geometry.Patch) {
				if p.Crop == nil || p.Crop.Top != 20 || p.Crop.Left != 0 {
					t.Errorf("crop patch = %+v, want top 20 only", p.Crop)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := NewFeed()
			rec := &recorder{}
			c := NewController(feed, fixedScale(1), zeroOrigin, rec.callbacks())

			c.Begin(tt.mode, "layer_a", testSnapshot(), PointerEvent{X: 0, Y: 0})
			feed.Move(tt.move)

			if len(rec.patches) != 1 {
				t.Fatalf("got %d patches, want 1", len(rec.patches))
			}
			tt.check(t, rec.patches[0])
		})
	}
}

func TestModeStrings(t *testing.T) {
	if ModeIdle.String() != "idle" {
		t.Errorf("idle = %q", ModeIdle.String())
	}
	if ModeResizeTopLeft.String() != "resizing-top-left" {
		t.Errorf("resize tl = %q", ModeResizeTopLeft.String())
	}
	if ModeCropBottom.String() != "cropping-bottom" {
		t.Errorf("crop bottom = %q", ModeCropBottom.String())
	}
}
