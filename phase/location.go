package phase

import (
	"errors"
	"fmt"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// ErrNoSunrise is returned for polar day or night where the sun does not cross the horizon
var ErrNoSunrise = errors.New("no sunrise or sunset on date")

// DefaultTwilight is the half-width of the dawn and dusk windows around sunrise and sunset
const DefaultTwilight = time.Hour

// FromLocation derives boundaries from real sunrise and sunset at a place and date
// Dawn spans sunrise±twilight and dusk spans sunset±twilight, in minutes of loc's wall clock
func FromLocation(lat, lon float64, date time.Time, loc *time.Location, twilight time.Duration) (Boundaries, error) {
	if loc == nil {
		loc = time.UTC
	}
	if twilight <= 0 {
		twilight = DefaultTwilight
	}

	rise, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	if rise.IsZero() || set.IsZero() {
		return Boundaries{}, fmt.Errorf("%w: lat=%.3f lon=%.3f %s", ErrNoSunrise, lat, lon, date.Format(time.DateOnly))
	}

	tw := twilight.Minutes()
	riseMin := minuteOfDay(rise.In(loc))
	setMin := minuteOfDay(set.In(loc))

	b := Boundaries{
		DawnStart: riseMin - tw,
		DawnEnd:   riseMin + tw,
		DuskStart: setMin - tw,
		DuskEnd:   setMin + tw,
	}
	if err := b.Validate(); err != nil {
		return Boundaries{}, fmt.Errorf("location %.3f,%.3f: %w", lat, lon, err)
	}
	return b, nil
}

func minuteOfDay(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
}
