package sim

// MenuOption is an entry of the pause or crash menu.
type MenuOption int

const (
	MenuResume MenuOption = iota
	MenuRestart
	MenuMainMenu
)

// String returns the option's label.
func (o MenuOption) String() string {
	switch o {
	case MenuResume:
		return "Resume"
	case MenuRestart:
		return "Restart"
	case MenuMainMenu:
		return "Main Menu"
	default:
		return "?"
	}
}

// MarshalText encodes the option by label.
func (o MenuOption) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

var (
	pauseMenu = []MenuOption{MenuResume, MenuRestart, MenuMainMenu}
	crashMenu = []MenuOption{MenuRestart, MenuMainMenu}
)

// Menu option box geometry in viewport units.
const (
	menuBoxW   = 260.0
	menuBoxH   = 48.0
	menuBoxGap = 16.0
	menuOffset = 40.0 // Room for the title above the stack
)

// MenuLayout returns the hit-boxes of n stacked options centered in the viewport.
// Renderers draw options at exactly these boxes so pointer hits line up.
func MenuLayout(n int, viewW, viewH float64) []Box {
	if n <= 0 {
		return nil
	}
	total := float64(n)*menuBoxH + float64(n-1)*menuBoxGap
	top := (viewH-total)/2 + menuOffset
	boxes := make([]Box, n)
	for i := range boxes {
		boxes[i] = Box{
			X: (viewW - menuBoxW) / 2,
			Y: top + float64(i)*(menuBoxH+menuBoxGap),
			W: menuBoxW,
			H: menuBoxH,
		}
	}
	return boxes
}

// wrapIndex moves i by delta within [0, n).
func wrapIndex(i, delta, n int) int {
	return ((i+delta)%n + n) % n
}
