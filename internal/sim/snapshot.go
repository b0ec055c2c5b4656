package sim

// Snapshot is a read-only copy of everything a renderer needs for one frame.
// Positions are viewport coordinates (scroll already subtracted).
type Snapshot struct {
	Mode        Mode    `json:"mode"`
	Score       int     `json:"score"`
	HighScore   int     `json:"highScore"`
	GameMode    string  `json:"gameMode"`
	ViewW       float64 `json:"viewW"`
	ViewH       float64 `json:"viewH"`
	Scroll      float64 `json:"scroll"`
	SpeedFactor float64 `json:"speedFactor"`

	Body      BodyView       `json:"body"`
	Energy    float64        `json:"energy"`
	MaxEnergy float64        `json:"maxEnergy"`
	Obstacles []ObstacleView `json:"obstacles"`
	Powerups  []PowerupView  `json:"powerups"`
	Rings     []RingView     `json:"rings"`
	Effects   Effects        `json:"effects"`

	CrashTimer float64      `json:"crashTimer"`
	Menu       []MenuOption `json:"menu,omitempty"`
	MenuIndex  int          `json:"menuIndex"`
	MenuBoxes  []Box        `json:"menuBoxes,omitempty"`
	Settings   Settings     `json:"settings"`
}

// BodyView is the body's box.
type BodyView struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Point is a 2D position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ObstacleView is a live pillar outline with its visibility.
type ObstacleView struct {
	X       float64 `json:"x"`
	W       float64 `json:"w"`
	Top     bool    `json:"top"`
	Opacity float64 `json:"opacity"`
	Points  []Point `json:"points"`
}

// PowerupView is a pickup with its animation phase.
type PowerupView struct {
	X     float64     `json:"x"`
	Y     float64     `json:"y"`
	Kind  PowerupKind `json:"kind"`
	Phase float64     `json:"phase"`
}

// RingView is a pulse ring with its draw intensity.
type RingView struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Radius      float64 `json:"radius"`
	Alpha       float64 `json:"alpha"`
	Destructive bool    `json:"destructive"`
}

// Snapshot copies the current frame's renderable state.
// Destroyed pillars are omitted.
func (g *Game) Snapshot() Snapshot {
	w := g.world
	scroll := w.Scroll
	s := Snapshot{
		Mode:        g.mode,
		Score:       w.Score,
		HighScore:   g.highScore,
		GameMode:    g.gameMode,
		ViewW:       g.cfg.World.Width,
		ViewH:       g.cfg.World.Height,
		Scroll:      scroll,
		SpeedFactor: w.SpeedFactor,
		Body:        BodyView{X: w.Body.X, Y: w.Body.Y, W: w.Body.W, H: w.Body.H},
		Energy:      w.Pulse.Energy(),
		MaxEnergy:   w.Pulse.MaxEnergy(),
		Effects:     w.Effects,
		CrashTimer:  g.crashTimer,
		MenuIndex:   g.menuIndex,
		Settings:    g.settings,
	}

	for _, o := range w.Obstacles.Obstacles() {
		if o.Destroyed {
			continue
		}
		pts := make([]Point, len(o.Points))
		for i, p := range o.Points {
			pts[i] = Point{X: p.X() - scroll, Y: p.Y()}
		}
		s.Obstacles = append(s.Obstacles, ObstacleView{
			X:       o.X - scroll,
			W:       o.W,
			Top:     o.Top,
			Opacity: o.Opacity,
			Points:  pts,
		})
	}
	for _, p := range w.Powerups.Powerups() {
		s.Powerups = append(s.Powerups, PowerupView{X: p.X - scroll, Y: p.Y, Kind: p.Kind, Phase: p.Phase})
	}
	for _, r := range w.Pulse.Rings() {
		s.Rings = append(s.Rings, RingView{
			X:           r.Origin.X() - scroll,
			Y:           r.Origin.Y(),
			Radius:      r.Radius,
			Alpha:       r.Alpha(),
			Destructive: r.Destructive,
		})
	}

	if opts := g.MenuOptions(); opts != nil {
		s.Menu = append([]MenuOption(nil), opts...)
		s.MenuBoxes = MenuLayout(len(opts), s.ViewW, s.ViewH)
	}
	return s
}
