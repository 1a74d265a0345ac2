package gesture

import "github.com/montagehq/montage/backend-go/internal/geometry"

// Mode is the active gesture of the drag state machine. Idle means no
// gesture; every other value maps to exactly one geometry update function.
type Mode int

const (
	ModeIdle Mode = iota
	ModeTranslate
	ModeRotate
	ModeResizeTopLeft
	ModeResizeTopRight
	ModeResizeBottomLeft
	ModeResizeBottomRight
	ModeCropTop
	ModeCropBottom
	ModeCropLeft
	ModeCropRight
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeTranslate:
		return "translating"
	case ModeRotate:
		return "rotating"
	case ModeResizeTopLeft:
		return "resizing-top-left"
	case ModeResizeTopRight:
		return "resizing-top-right"
	case ModeResizeBottomLeft:
		return "resizing-bottom-left"
	case ModeResizeBottomRight:
		return "resizing-bottom-right"
	case ModeCropTop:
		return "cropping-top"
	case ModeCropBottom:
		return "cropping-bottom"
	case ModeCropLeft:
		return "cropping-left"
	case ModeCropRight:
		return "cropping-right"
	}
	return "unknown"
}

// corner maps a resize mode to its geometry corner.
func (m Mode) corner() (geometry.Corner, bool) {
	switch m {
	case ModeResizeTopLeft:
		return geometry.TopLeft, true
	case ModeResizeTopRight:
		return geometry.TopRight, true
	case ModeResizeBottomLeft:
		return geometry.BottomLeft, true
	case ModeResizeBottomRight:
		return geometry.BottomRight, true
	}
	return 0, false
}

// edge maps a crop mode to its geometry edge.
func (m Mode) edge() (geometry.Edge, bool) {
	switch m {
	case ModeCropTop:
		return geometry.EdgeTop, true
	case ModeCropBottom:
		return geometry.EdgeBottom, true
	case ModeCropLeft:
		return geometry.EdgeLeft, true
	case ModeCropRight:
		return geometry.EdgeRight, true
	}
	return 0, false
}
