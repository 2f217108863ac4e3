package scene

// Generation parameters in terminal cells
const (
	minBuildingWidth = 5
	maxBuildingWidth = 11
	minBuildingGap   = 0
	maxBuildingGap   = 3
	minHouseWidth    = 6
	maxHouseWidth    = 9
	houseHeight      = 3
	lampHeight       = 3
	statusRows       = 1 // bottom rows reserved for the status line
	cloudCount       = 4
	starDensity      = 60 // one star per this many sky cells
)

// Generate builds a scene for a width by height viewport
func Generate(rng Rand, width, height int) Scene {
	s := Scene{Width: width, Height: height}
	if width <= 0 || height <= 0 {
		return s
	}
	s.Ground = height - statusRows - 1
	if s.Ground < 1 {
		return s
	}

	s.Buildings = genBuildings(rng, width, s.Ground)
	s.Houses, s.Lamps = genStreet(rng, width, s.Ground)
	s.Clouds = genClouds(rng, width, s.Ground)
	s.Stars = genStars(rng, width, s.Ground)
	return s
}

func genBuildings(rng Rand, width, ground int) []Building {
	maxH := ground * 55 / 100
	minH := ground * 20 / 100
	if minH < 3 {
		minH = 3
	}
	if maxH <= minH {
		maxH = minH + 1
	}

	var out []Building
	x := rng.Intn(maxBuildingGap + 1)
	for x < width {
		w := minBuildingWidth + rng.Intn(maxBuildingWidth-minBuildingWidth+1)
		if x+w > width {
			w = width - x
		}
		if w < 3 {
			break
		}
		h := minH + rng.Intn(maxH-minH+1)
		if h > ground {
			h = ground
		}
		b := Building{
			X:      x,
			Y:      ground - h,
			Width:  w,
			Height: h,
			Tone:   rng.Float64(),
		}
		idx := len(out)
		// Window grid every other row and column, inset by one cell
		for row, y := 0, b.Y+1; y < ground-1; row, y = row+1, y+2 {
			for col, wx := 0, x+1; wx < x+w-1; col, wx = col+1, wx+2 {
				b.Windows = append(b.Windows, Window{ID: buildingWindowID(idx, row, col), X: wx, Y: y})
			}
		}
		out = append(out, b)
		x += w + minBuildingGap + rng.Intn(maxBuildingGap-minBuildingGap+1)
	}
	return out
}

func genStreet(rng Rand, width, ground int) ([]House, []Lamp) {
	if ground < houseHeight+2 {
		return nil, nil
	}
	var houses []House
	var lamps []Lamp

	x := 1 + rng.Intn(4)
	for x < width {
		// Lamp before each house with even odds
		if rng.Intn(2) == 0 && x+1 < width {
			lamps = append(lamps, Lamp{X: x, Y: ground - lampHeight, Height: lampHeight})
			x += 3
		}
		w := minHouseWidth + rng.Intn(maxHouseWidth-minHouseWidth+1)
		if x+w > width {
			break
		}
		h := House{
			X:      x,
			Y:      ground - houseHeight,
			Width:  w,
			Height: houseHeight,
		}
		idx := len(houses)
		n := 0
		for wx := x + 2; wx < x+w-2; wx += 3 {
			h.Windows = append(h.Windows, Window{ID: houseWindowID(idx, n), X: wx, Y: h.Y + 1})
			n++
		}
		houses = append(houses, h)
		x += w + 4 + rng.Intn(10)
	}
	return houses, lamps
}

func genClouds(rng Rand, width, ground int) []Cloud {
	band := ground / 3
	if band < 1 {
		band = 1
	}
	clouds := make([]Cloud, 0, cloudCount)
	for i := 0; i < cloudCount; i++ {
		rows := 1 + rng.Intn(3)
		puffs := make([]int, rows)
		base := 6 + rng.Intn(10)
		for r := range puffs {
			// Widest row in the middle
			shrink := 0
			if r != rows/2 {
				shrink = 2 + rng.Intn(3)
			}
			puffs[r] = base - shrink
			if puffs[r] < 2 {
				puffs[r] = 2
			}
		}
		clouds = append(clouds, Cloud{
			X:     float64(rng.Intn(width + 1)),
			Y:     rng.Intn(band),
			Puffs: puffs,
			Speed: 0.5 + rng.Float64()*1.5,
		})
	}
	return clouds
}

func genStars(rng Rand, width, ground int) []Star {
	skyRows := ground * 2 / 3
	n := width * skyRows / starDensity
	stars := make([]Star, 0, n)
	for i := 0; i < n; i++ {
		stars = append(stars, Star{
			X:      rng.Intn(width),
			Y:      rng.Intn(skyRows),
			Bright: rng.Intn(4) == 0,
		})
	}
	return stars
}
