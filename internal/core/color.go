package core

// Color is a logical foreground color for a screen cell. The sonar
// renderer picks colors by role; the platform renderer decides the
// concrete ANSI 256 shade for each one.
type Color uint8

// Sonar palette.
const (
	ColorDefault Color = iota // Empty water

	// Bat, rings and HUD.
	ColorRed           // Energy nearly spent
	ColorYellow        // Immunity blink
	ColorBlue          // Fading ring
	ColorCyan          // Ring
	ColorWhite         // Help and crash text
	ColorBrightRed     // Crashed bat, crash box
	ColorBrightGreen   // Immunity pickup and timer
	ColorBrightYellow  // Immune bat, start prompt
	ColorBrightMagenta // Plasma pickup
	ColorBrightCyan    // Fresh ring, titles, selected entry
	ColorBrightWhite   // Bat, score
	ColorOrange        // Fireball pickup, bat and rings
	ColorGray          // Hints, inactive entries

	// Wall reveal, brightest to faintest as a ping fades.
	ColorViolet
	ColorDimViolet
	ColorDeepBlue
)
