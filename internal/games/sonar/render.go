package sonar

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-sonar/internal/core"
	"github.com/vovakirdan/tui-sonar/internal/sim"
)

const hudRows = 1

// Visual characters for rendering
const (
	BodyChar     = '■'
	NoseChar     = '▶'
	RingChar     = '·'
	FireRingChar = '*'
	WallSolid    = '█'
	WallMid      = '▓'
	WallFaint    = '░'
	energyFull   = '█'
	energyEmpty  = '░'
	energyCells  = 10
)

var powerupGlyphs = map[sim.PowerupKind]struct {
	r rune
	c core.Color
}{
	sim.PowerupImmunity: {'◆', core.ColorBrightGreen},
	sim.PowerupFireball: {'◉', core.ColorOrange},
	sim.PowerupPlasma:   {'◈', core.ColorBrightMagenta},
}

// viewport maps simulated viewport coordinates onto screen cells below the HUD.
type viewport struct {
	sx, sy float64
	w, h   int
}

func newViewport(dst *core.Screen, snap sim.Snapshot) viewport {
	h := dst.Height() - hudRows
	return viewport{
		sx: float64(dst.Width()) / snap.ViewW,
		sy: float64(h) / snap.ViewH,
		w:  dst.Width(),
		h:  h,
	}
}

func (v viewport) cell(x, y float64) (int, int) {
	return int(math.Floor(x * v.sx)), int(math.Floor(y*v.sy)) + hudRows
}

// center returns the viewport point at the middle of a cell.
func (v viewport) center(cx, cy int) mgl64.Vec2 {
	return mgl64.Vec2{(float64(cx) + 0.5) / v.sx, (float64(cy-hudRows) + 0.5) / v.sy}
}

// Render draws the current frame.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.sim == nil || dst.Height() <= hudRows {
		return
	}
	snap := g.sim.Snapshot()
	v := newViewport(dst, snap)

	if snap.Mode != sim.ModeStart {
		for _, o := range snap.Obstacles {
			drawObstacle(dst, v, o)
		}
		for _, p := range snap.Powerups {
			drawPowerup(dst, v, p)
		}
		for _, r := range snap.Rings {
			drawRing(dst, v, r)
		}
		drawBody(dst, v, snap)
	}
	drawHUD(dst, snap)

	switch snap.Mode {
	case sim.ModeStart:
		drawTitle(dst, snap)
	case sim.ModePaused:
		drawMenu(dst, v, snap, "PAUSED")
	case sim.ModeCrash:
		if len(snap.Menu) == 0 {
			drawCenteredMessage(dst, "CRASHED", fmt.Sprintf("Score: %d", snap.Score))
		} else {
			drawMenu(dst, v, snap, fmt.Sprintf("CRASHED  -  Score %d", snap.Score))
		}
	}
}

func drawObstacle(dst *core.Screen, v viewport, o sim.ObstacleView) {
	if o.Opacity <= 0.05 || len(o.Points) < 3 {
		return
	}
	poly := make([]mgl64.Vec2, len(o.Points))
	minY, maxY := math.Inf(1), math.Inf(-1)
	for i, p := range o.Points {
		poly[i] = mgl64.Vec2{p.X, p.Y}
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	glyph, color := WallFaint, core.ColorDeepBlue
	switch {
	case o.Opacity > 0.66:
		glyph, color = WallSolid, core.ColorViolet
	case o.Opacity > 0.33:
		glyph, color = WallMid, core.ColorDimViolet
	}

	x0, y0 := v.cell(o.X, minY)
	x1, y1 := v.cell(o.X+o.W, maxY)
	for cy := max(y0, hudRows); cy <= min(y1, dst.Height()-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, v.w-1); cx++ {
			if sim.PointInPolygon(v.center(cx, cy), poly) {
				dst.SetColor(cx, cy, glyph, color)
			}
		}
	}
}

func drawPowerup(dst *core.Screen, v viewport, p sim.PowerupView) {
	g, ok := powerupGlyphs[p.Kind]
	if !ok {
		return
	}
	r := g.r
	if math.Sin(p.Phase) < -0.6 {
		r = '◇'
	}
	x, y := v.cell(p.X, p.Y)
	dst.SetColor(x, y, r, g.c)
}

func drawRing(dst *core.Screen, v viewport, r sim.RingView) {
	glyph, color := RingChar, core.ColorCyan
	switch {
	case r.Destructive:
		glyph, color = FireRingChar, core.ColorOrange
	case r.Alpha > 0.5:
		color = core.ColorBrightCyan
	case r.Alpha < 0.2:
		color = core.ColorBlue
	}

	steps := max(24, int(r.Radius*(v.sx+v.sy)*2))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := v.cell(r.X+r.Radius*math.Cos(a), r.Y+r.Radius*math.Sin(a))
		if y < hudRows {
			continue
		}
		if dst.Get(x, y) == ' ' {
			dst.SetColor(x, y, glyph, color)
		}
	}
}

func drawBody(dst *core.Screen, v viewport, snap sim.Snapshot) {
	b := snap.Body
	color := core.ColorBrightWhite
	switch {
	case snap.Mode == sim.ModeCrash:
		color = core.ColorBrightRed
	case snap.Effects.Invulnerable:
		color = core.ColorBrightYellow
		if int(snap.Effects.InvulnerableFor/8)%2 == 1 {
			color = core.ColorYellow
		}
	case snap.Effects.Fireball:
		color = core.ColorOrange
	}

	x0, y0 := v.cell(b.X, b.Y)
	x1, y1 := v.cell(b.X+b.W, b.Y+b.H)
	x1 = max(x1-1, x0)
	y1 = max(y1-1, y0)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dst.SetColor(x, y, BodyChar, color)
		}
	}
	dst.SetColor(x1+1, (y0+y1)/2, NoseChar, color)
}

func drawHUD(dst *core.Screen, snap sim.Snapshot) {
	filled := 0
	if snap.MaxEnergy > 0 {
		filled = int(math.Round(snap.Energy / snap.MaxEnergy * energyCells))
	}
	bar := strings.Repeat(string(energyFull), filled) + strings.Repeat(string(energyEmpty), energyCells-filled)

	energyColor := core.ColorBrightCyan
	if snap.MaxEnergy > 0 && snap.Energy < snap.MaxEnergy*0.22 {
		energyColor = core.ColorRed
	}

	x := 1
	x = hudText(dst, x, fmt.Sprintf("SCORE %d", snap.Score), core.ColorBrightWhite)
	x = hudText(dst, x, fmt.Sprintf("BEST %d", snap.HighScore), core.ColorGray)
	x = hudText(dst, x, "ENERGY "+bar, energyColor)
	x = hudText(dst, x, fmt.Sprintf("x%.1f", snap.SpeedFactor), core.ColorGray)
	if snap.Effects.Invulnerable {
		x = hudText(dst, x, fmt.Sprintf("IMMUNE %.0f", snap.Effects.InvulnerableFor), core.ColorBrightGreen)
	}
	if snap.Effects.Fireball {
		x = hudText(dst, x, "FIREBALL", core.ColorOrange)
	}

	sound := "SOUND OFF"
	if snap.Settings.PulseAudioEnabled {
		sound = fmt.Sprintf("SOUND %d%%", snap.Settings.PulseVolume)
	}
	dst.DrawTextColor(dst.Width()-len(sound)-1, 0, sound, core.ColorGray)
}

// hudText draws text at x and returns the next free column.
func hudText(dst *core.Screen, x int, text string, c core.Color) int {
	dst.DrawTextColor(x, 0, text, c)
	return x + len([]rune(text)) + 3
}

func drawTitle(dst *core.Screen, snap sim.Snapshot) {
	lines := []struct {
		text string
		c    core.Color
	}{
		{"S O N A R   F L I G H T", core.ColorBrightCyan},
		{"", core.ColorDefault},
		{"The walls are invisible. Your pulse is not.", core.ColorGray},
		{"", core.ColorDefault},
		{"W/S or arrows  climb / dive", core.ColorWhite},
		{"A/D            brake / push forward", core.ColorWhite},
		{"SPACE          sonar pulse", core.ColorWhite},
		{"ESC            pause", core.ColorWhite},
		{"", core.ColorDefault},
		{"◆ immunity   ◉ fireball   ◈ plasma", core.ColorGray},
		{"", core.ColorDefault},
		{"Press SPACE to start", core.ColorBrightYellow},
	}
	if snap.HighScore > 0 {
		lines = append(lines, struct {
			text string
			c    core.Color
		}{fmt.Sprintf("Best: %d", snap.HighScore), core.ColorGray})
	}

	top := max(hudRows, (dst.Height()-len(lines))/2)
	for i, l := range lines {
		if l.text != "" {
			dst.DrawTextCentered(top+i, l.text, l.c)
		}
	}
}

// drawMenu draws the options at the hit-boxes the simulation uses for pointer input.
func drawMenu(dst *core.Screen, v viewport, snap sim.Snapshot, title string) {
	if len(snap.MenuBoxes) == 0 {
		return
	}
	_, titleY := v.cell(0, snap.MenuBoxes[0].Y)
	dst.DrawTextCentered(max(hudRows, titleY-2), title, core.ColorBrightWhite)

	for i, opt := range snap.Menu {
		b := snap.MenuBoxes[i]
		x0, y0 := v.cell(b.X, b.Y)
		x1, y1 := v.cell(b.X+b.W, b.Y+b.H)
		r := core.NewRect(x0, y0, max(x1-x0, 3), max(y1-y0, 1))

		label := opt.String()
		color := core.ColorGray
		if i == snap.MenuIndex {
			label = "▶ " + label + " ◀"
			color = core.ColorBrightCyan
		}

		dst.DrawRect(r, ' ')
		if r.H >= 3 {
			dst.DrawBox(r, color)
		}
		dst.DrawTextColor(r.X+(r.W-len([]rune(label)))/2, r.Y+r.H/2, label, color)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	r := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(r, ' ')
	dst.DrawBox(r, core.ColorBrightRed)
	dst.DrawTextColor(r.X+(boxW-len(title))/2, r.Y+1, title, core.ColorBrightRed)
	dst.DrawTextColor(r.X+(boxW-len(subtitle))/2, r.Y+3, subtitle, core.ColorWhite)
}
