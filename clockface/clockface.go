package clockface

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lixenwraith/skyline/cycle"
)

// Mode selects which clock display is shown
type Mode uint8

const (
	ModeDigital Mode = iota
	ModeAnalog
	ModeHidden
)

// Next cycles digital, analog, hidden
func (m Mode) Next() Mode {
	return (m + 1) % 3
}

func (m Mode) String() string {
	switch m {
	case ModeDigital:
		return "digital"
	case ModeAnalog:
		return "analog"
	default:
		return "hidden"
	}
}

// Face is everything a surface needs to draw the clock for one frame
type Face struct {
	Digital   string  // H:MM AM/PM
	Raw       string  // simulated minute as text
	HourDeg   float64 // hour hand rotation, 0 at twelve, clockwise
	MinuteDeg float64
}

// FaceAt builds the clock face for a simulated minute
func FaceAt(minute float64) Face {
	h, m := cycle.Split(minute)
	hd, md := Hands(h, m)
	return Face{
		Digital:   Digital(h, m),
		Raw:       rawMinute(minute),
		HourDeg:   hd,
		MinuteDeg: md,
	}
}

// rawMinute truncates to one decimal so the text never reaches the next minute
// The epsilon absorbs binary error in minute*10, e.g. 2.3*10 = 22.999...
func rawMinute(minute float64) string {
	return strconv.FormatFloat(math.Floor(minute*10+1e-9)/10, 'f', 1, 64)
}

// Digital formats a 24h hour and minute as H:MM AM/PM
func Digital(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minute, suffix)
}

// Hands returns hour and minute hand angles in degrees
func Hands(hour, minute int) (hourDeg, minuteDeg float64) {
	hourDeg = float64(hour%12)*30 + float64(minute)/2
	minuteDeg = float64(minute) * 6
	return hourDeg, minuteDeg
}
