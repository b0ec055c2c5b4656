package sim

// Effects holds the timed and one-shot powerup effects of a run.
type Effects struct {
	Invulnerable    bool    `json:"invulnerable"`
	InvulnerableFor float64 `json:"invulnerableFor"` // Frames of immunity left
	Fireball        bool    `json:"fireball"`        // Armed for the next pulse
}

// GrantImmunity starts or refreshes invulnerability.
func (e *Effects) GrantImmunity(frames float64) {
	e.Invulnerable = true
	e.InvulnerableFor = frames
}

// Tick counts down timed effects.
func (e *Effects) Tick(dt float64) {
	if !e.Invulnerable {
		return
	}
	e.InvulnerableFor -= dt
	if e.InvulnerableFor <= 0 {
		e.Invulnerable = false
		e.InvulnerableFor = 0
	}
}
