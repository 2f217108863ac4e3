// Package render draws the cityscape. Surface is the contract the frame engine
// writes to; TerminalSurface implements it on a tcell screen
package render

import (
	"errors"
	"time"

	"github.com/lixenwraith/skyline/celestial"
	"github.com/lixenwraith/skyline/clockface"
	"github.com/lixenwraith/skyline/lighting"
	"github.com/lixenwraith/skyline/phase"
)

// ErrMissingElement is returned when the addressed element does not exist
// Callers log and carry on; a missing element never stops the frame loop
var ErrMissingElement = errors.New("missing render element")

// Surface receives per-frame presentation state
type Surface interface {
	// Viewport returns the current sky area, queried on every call
	Viewport() celestial.Viewport

	// SetSkyLayer tags a phase layer active or not and sets its stacking order
	SetSkyLayer(layer phase.Phase, active bool, z int) error

	// SetBody applies position, opacity and visibility to the sun or moon
	SetBody(body celestial.Body, s celestial.Sample) error

	// WindowIDs lists every window element
	WindowIDs() []string

	// SetWindow applies the lighting state to one window
	SetWindow(id string, state lighting.State) error

	// SetClock updates digital text, raw minute and hand angles
	SetClock(face clockface.Face) error

	// Present flushes the frame
	Present(now time.Time) error
}
