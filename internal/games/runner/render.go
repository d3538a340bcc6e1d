package runner

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/skyline-sprint/internal/config"
	"github.com/vovakirdan/skyline-sprint/internal/core"
	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

// Track projection: lanes are columns, distance ahead of the player runs up
// the screen. Rows 0 and 1 hold the HUD.
const (
	hudRows     = 2
	playerRowUp = 3 // rows between the bottom edge and the player
)

type glyph struct {
	r rune
	c core.Color
}

var obstacleGlyphs = map[engine.ObstacleType]glyph{
	engine.Block:        {'█', core.ColorRed},
	engine.Gap:          {'░', core.ColorPurple},
	engine.SlowRoller:   {'●', core.ColorPurple},
	engine.OverheadBeam: {'═', core.ColorPink},
	engine.MovingDrone:  {'◆', core.ColorOrange},
	engine.ZigzagGate:   {'╳', core.ColorOrange},
}

var pickupGlyphs = map[engine.PickupKind]glyph{
	engine.PickupShard:     {'✦', core.ColorYellow},
	engine.PickupShield:    {'S', core.ColorGreen},
	engine.PickupMagnet:    {'M', core.ColorGreen},
	engine.PickupSlowTime:  {'T', core.ColorGreen},
	engine.PickupScoreRush: {'R', core.ColorGreen},
}

// projection maps world coordinates to screen cells. The visible window and
// lane layout come from the world config of the running engine.
type projection struct {
	centerX   int
	laneWidth int
	top       int
	playerRow int

	near, far float64 // visible track window
	mid       float64 // lateral offset drawn at centerX
	spacing   float64 // distance between lane centers
	lanes     []float64
}

func newProjection(w, h int, world config.WorldConfig) projection {
	p := projection{
		centerX:   w / 2,
		laneWidth: core.Clamp(w/5, 3, 15),
		top:       hudRows,
		playerRow: h - playerRowUp,
		near:      world.VisibleNear,
		far:       world.VisibleFar,
		spacing:   1,
		lanes:     world.Lanes,
	}
	if n := len(world.Lanes); n >= 2 {
		first, last := world.Lanes[0], world.Lanes[n-1]
		p.mid = (first + last) / 2
		if sp := (last - first) / float64(n-1); sp > 0 {
			p.spacing = sp
		}
	} else if n == 1 {
		p.mid = world.Lanes[0]
	}
	return p
}

// projection builds the screen mapping for the current run.
func (g *Game) projection(w, h int) projection {
	world := config.DefaultRunnerConfig().World
	if g.eng != nil {
		world = g.eng.Config().World
	}
	return newProjection(w, h, world)
}

// column returns the screen column of a lateral world offset.
func (p projection) column(x float64) int {
	return p.centerX + int(math.Round((x-p.mid)/p.spacing*float64(p.laneWidth)))
}

// row returns the screen row of a track position; the player sits at 0.
// Positions outside the visible window stick to its edges.
func (p projection) row(pos float64) int {
	pos = core.ClampF(pos, math.Min(p.near, 0), math.Max(p.far, 0))
	if pos <= 0 {
		if p.near >= 0 {
			return p.playerRow
		}
		return p.playerRow + int(math.Round(pos/p.near*float64(playerRowUp-1)))
	}
	span := float64(p.playerRow - p.top)
	return p.playerRow - int(math.Round(pos/p.far*span))
}

// edges returns the lateral offsets of the lane borders, outermost included.
func (p projection) edges() []float64 {
	if len(p.lanes) == 0 {
		return nil
	}
	out := make([]float64, 0, len(p.lanes)+1)
	for i := 0; i <= len(p.lanes); i++ {
		out = append(out, p.lanes[0]-p.spacing/2+float64(i)*p.spacing)
	}
	return out
}

// Render draws the track, entities and HUD.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if dst.Width() < 20 || dst.Height() < 10 {
		dst.DrawText(0, 0, "terminal too small")
		return
	}

	snap := g.last.Snapshot
	p := g.projection(dst.Width(), dst.Height())

	g.drawTrack(dst, p)
	for _, pk := range snap.Pickups {
		gl := pickupGlyphs[pk.Kind]
		dst.SetColored(p.column(pk.Box.CenterX()), p.row(pk.Position), gl.r, gl.c)
	}
	for _, o := range snap.Obstacles {
		g.drawObstacle(dst, p, o)
	}
	g.drawPlayer(dst, p, snap.Player)
	g.drawHUD(dst, snap)

	switch snap.Scene {
	case engine.ScenePause:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	case engine.SceneGameOver:
		drawCenteredMessage(dst, "RUN OVER", fmt.Sprintf("Score: %d  |  R to restart  |  Q to quit", snap.Score))
	}
}

func (g *Game) drawTrack(dst *core.Screen, p projection) {
	height := dst.Height() - p.top
	edges := p.edges()
	for _, offset := range edges {
		dst.DrawVLine(p.column(offset), p.top, height, '│', core.ColorGray)
	}
	if len(edges) < 3 {
		return
	}
	// inner dividers scroll with distance
	phase := int(g.last.Snapshot.Distance) % 4
	for y := p.top; y < dst.Height(); y++ {
		if (y+phase)%4 != 0 {
			continue
		}
		for _, offset := range edges[1 : len(edges)-1] {
			dst.SetColored(p.column(offset), y, '┊', core.ColorGray)
		}
	}
}

func (g *Game) drawObstacle(dst *core.Screen, p projection, o engine.Obstacle) {
	gl := obstacleGlyphs[o.Type]
	left := p.column(o.Box.Left)
	right := p.column(o.Box.Right)
	if right <= left {
		right = left + 1
	}
	rows := 1
	if o.Type == engine.Gap {
		rows = 2
	}
	for dy := 0; dy < rows; dy++ {
		for x := left; x < right; x++ {
			dst.SetColored(x, p.row(o.Position)-dy, gl.r, gl.c)
		}
	}
}

func (g *Game) drawPlayer(dst *core.Screen, p projection, pv engine.PlayerView) {
	color := core.ColorCyan
	if pv.Invulnerable && g.anim%10 < 5 {
		color = core.ColorPink
	}

	x := p.column(pv.X)
	row := p.playerRow
	if pv.State == engine.StateSliding {
		dst.DrawTextColored(x-1, row, "▂▂▂", color)
		return
	}
	if pv.Y > 0 {
		// airborne: shadow on the track, runner lifted by height
		dst.SetColored(x, row, '·', core.ColorGray)
		dst.SetColored(x, row-1-int(math.Round(pv.Y/2)), '▲', color)
		return
	}
	dst.SetColored(x, row, '▲', color)
}

func (g *Game) drawHUD(dst *core.Screen, snap engine.Snapshot) {
	left := fmt.Sprintf(" Score %d  x%d  ✦%d  ♥%d ", snap.Score, snap.Multiplier, snap.Shards, snap.Lives)
	dst.DrawTextColored(0, 0, left, core.ColorWhite)

	right := fmt.Sprintf(" %.1f u/s ", snap.Speed)
	if snap.Mode == engine.ModeDaily {
		right = fmt.Sprintf(" DAILY %d %s", snap.Seed, right)
	}
	dst.DrawTextColored(dst.Width()-len([]rune(right)), 0, right, core.ColorGray)

	var active []string
	for k, pu := range snap.PowerUps {
		if pu.Active {
			active = append(active, fmt.Sprintf("%s %.1fs", strings.ToUpper(engine.PowerUpKind(k).String()), pu.TimeLeft))
		}
	}
	if len(active) > 0 {
		dst.DrawTextColored(1, 1, strings.Join(active, "  "), core.ColorGreen)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2

	dst.FillRect(boxX, boxY, boxW, boxH)
	dst.DrawBox(boxX, boxY, boxW, boxH)
	dst.DrawTextCentered(boxY+1, title)
	dst.DrawTextCentered(boxY+3, subtitle)
}
