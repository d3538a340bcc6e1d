package core

// Color represents a foreground color for a screen cell.
// Platforms map these onto terminal palettes.
type Color uint8

// Palette used by the runner projection.
const (
	ColorDefault Color = iota
	ColorCyan          // player
	ColorRed           // blocks, run over
	ColorPink          // overhead beams, invulnerability flash
	ColorPurple        // rollers, slide
	ColorYellow        // shards
	ColorGreen         // power-ups
	ColorOrange        // drones and gates
	ColorGray          // track, HUD chrome
	ColorWhite
)
