package main

import (
	"flag"
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/font/basicfont"

	"mazerun/internal/agent"
	"mazerun/internal/config"
	"mazerun/internal/game"
	"mazerun/internal/maze"
)

const (
	cellPixels = 40
	margin     = 20
	hudHeight  = 150
)

var (
	colorWall   = color.RGBA{200, 200, 210, 255}
	colorPlayer = color.RGBA{80, 160, 255, 255}
	colorGoal   = color.RGBA{240, 200, 60, 255}
	colorPatrol = color.RGBA{90, 180, 90, 255}
	colorChase  = color.RGBA{220, 70, 70, 255}
	colorFlee   = color.RGBA{150, 110, 230, 255}
	colorHorde  = color.RGBA{255, 130, 40, 255}
)

// demoGame is a minimal top-down harness around the simulation core:
// arrow keys move the player, the HUD shows the session counters, and
// the event stream scrolls in the corner.
type demoGame struct {
	cfg  *config.Config
	defs agent.Definitions
	log  *logrus.Logger
	rng  *rand.Rand

	session *game.Session
	level   int

	shieldOn bool
	boostOn  bool
	freezeOn bool
	hordeOn  bool

	eventLog []string
}

func newDemoGame(cfg *config.Config, defs agent.Definitions, log *logrus.Logger) *demoGame {
	g := &demoGame{
		cfg:  cfg,
		defs: defs,
		log:  log,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	g.startLevel(1)
	return g
}

func (g *demoGame) startLevel(level int) {
	size := g.cfg.Simulation.MazeSize
	grid := maze.Generate(size, g.rng)
	grid.Braid(g.rng, 0.15)

	g.level = level
	g.shieldOn = false
	g.boostOn = false
	g.freezeOn = false
	g.hordeOn = false
	g.session = game.NewSession(g.cfg, g.defs, grid, g.log, g.onEvent)
	g.session.StartLevel(level, size-1, size-1)
	g.pushLog(fmt.Sprintf("level %d", level))
}

func (g *demoGame) onEvent(e game.Event) {
	switch e.Kind {
	case game.EventWallHit:
		g.pushLog("bumped a wall, combo lost")
	case game.EventAgentHit:
		switch e.Outcome {
		case game.HitShieldAbsorbed:
			g.pushLog("shield absorbed a hit")
		case game.HitLifeLost:
			g.pushLog(fmt.Sprintf("hit by %s, %d lives left", e.Variant, e.Lives))
		case game.HitDefeat:
			g.pushLog("defeated")
		}
	case game.EventComboMilestone:
		g.pushLog(fmt.Sprintf("combo milestone %d", e.Milestone))
	case game.EventRespawn:
		g.pushLog("respawned")
	case game.EventHordeStarted:
		g.pushLog(fmt.Sprintf("%s horde incoming", e.Variant))
	case game.EventHordeEnded:
		g.pushLog("horde over")
	}
}

func (g *demoGame) pushLog(msg string) {
	g.eventLog = append(g.eventLog, msg)
	if len(g.eventLog) > 6 {
		g.eventLog = g.eventLog[len(g.eventLog)-6:]
	}
}

func (g *demoGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.startLevel(1)
		return nil
	}
	if g.session.Defeated() {
		return nil
	}

	g.handleMove()
	g.handleToggles()

	g.session.Advance()

	px, pz := g.session.PlayerPosition()
	if px == 0 && pz == 0 {
		g.startLevel(g.level + 1)
	}
	return nil
}

func (g *demoGame) handleMove() {
	var dir maze.Direction
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		dir = maze.DirNorth
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		dir = maze.DirSouth
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		dir = maze.DirWest
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		dir = maze.DirEast
	default:
		return
	}

	px, pz := g.session.PlayerPosition()
	if !g.session.Grid().CanStep(px, pz, dir) {
		g.session.WallBump()
		return
	}
	dx, dz := dir.Delta()
	g.session.MovePlayer(px+dx, pz+dz, time.Now())
}

func (g *demoGame) handleToggles() {
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.shieldOn = !g.shieldOn
		g.session.SetShield(g.shieldOn)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		g.boostOn = !g.boostOn
		g.session.SetLightBoost(g.boostOn)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.freezeOn = !g.freezeOn
		g.session.SetTimeFreeze(g.freezeOn)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if g.hordeOn {
			g.session.EndHorde(0)
		} else {
			g.session.StartHorde(agent.VariantDog, 6)
		}
		g.hordeOn = !g.hordeOn
	}
}

func (g *demoGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{24, 24, 32, 255})

	grid := g.session.Grid()
	size := grid.Size()

	g.fillCell(screen, 0, 0, colorGoal)

	px, pz := g.session.PlayerPosition()
	pc := colorPlayer
	if g.session.Invincible() {
		pc = color.RGBA{80, 160, 255, 128}
	}
	g.fillCell(screen, px, pz, pc)

	for _, a := range g.session.Population().Live() {
		c := colorPatrol
		switch {
		case a.HordeSpawn:
			c = colorHorde
		case a.State() == agent.StateChase:
			c = colorChase
		case a.State() == agent.StateFlee:
			c = colorFlee
		}
		g.fillCell(screen, a.GridX, a.GridZ, c)
	}

	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			g.drawCellWalls(screen, grid, x, z)
		}
	}

	g.drawHUD(screen, size)
}

func (g *demoGame) fillCell(screen *ebiten.Image, x, z int, c color.Color) {
	fx := float32(margin + x*cellPixels + 3)
	fy := float32(margin + z*cellPixels + 3)
	vector.DrawFilledRect(screen, fx, fy, cellPixels-6, cellPixels-6, c, false)
}

func (g *demoGame) drawCellWalls(screen *ebiten.Image, grid *maze.Grid, x, z int) {
	cell := grid.CellAt(x, z)
	x0 := float32(margin + x*cellPixels)
	y0 := float32(margin + z*cellPixels)
	x1 := x0 + cellPixels
	y1 := y0 + cellPixels

	if cell.Top {
		vector.StrokeLine(screen, x0, y0, x1, y0, 2, colorWall, false)
	}
	if cell.Bottom {
		vector.StrokeLine(screen, x0, y1, x1, y1, 2, colorWall, false)
	}
	if cell.Left {
		vector.StrokeLine(screen, x0, y0, x0, y1, 2, colorWall, false)
	}
	if cell.Right {
		vector.StrokeLine(screen, x1, y0, x1, y1, 2, colorWall, false)
	}
}

func (g *demoGame) drawHUD(screen *ebiten.Image, size int) {
	stats := g.session.Stats()
	face := basicfont.Face7x13
	baseY := margin + size*cellPixels + 24

	line := fmt.Sprintf("Level %d   Lives %d   Combo %d (max %d)   Score %d   Agents %d",
		stats.Level, stats.Lives, stats.Combo, stats.MaxCombo, stats.Score, stats.Agents)
	ebitext.Draw(screen, line, face, margin, baseY, color.White)

	flags := fmt.Sprintf("[S]hield:%v  [L]ight:%v  [F]reeze:%v  [H]orde:%v  [R]estart",
		g.shieldOn, g.boostOn, g.freezeOn, g.hordeOn)
	ebitext.Draw(screen, flags, face, margin, baseY+18, color.RGBA{170, 170, 180, 255})

	if g.session.Defeated() {
		ebitext.Draw(screen, "DEFEATED - press R", face, margin, baseY+36, colorChase)
	}

	for i, msg := range g.eventLog {
		ebitenutil.DebugPrintAt(screen, msg, margin, baseY+48+i*14)
	}
}

func (g *demoGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	size := g.session.Grid().Size()
	side := margin*2 + size*cellPixels
	return side, side + hudHeight
}

func main() {
	configPath := flag.String("config", "assets/config.yaml", "rules table YAML")
	agentsPath := flag.String("agents", "assets/agents.yaml", "agent variant YAML")
	flag.Parse()

	log := logrus.New()
	log.SetLevel(logrus.InfoLevel)

	cfg := config.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		cfg = config.MustLoadConfig(*configPath)
	} else {
		log.WithField("path", *configPath).Warn("config file not found, using defaults")
	}

	defs := agent.DefaultDefinitions()
	if _, err := os.Stat(*agentsPath); err == nil {
		defs = agent.MustLoadDefinitions(*agentsPath)
	} else {
		log.WithField("path", *agentsPath).Warn("agent file not found, using defaults")
	}

	ebiten.SetTPS(cfg.Simulation.TPS)
	ebiten.SetWindowTitle("mazerun")
	size := margin*2 + cfg.Simulation.MazeSize*cellPixels
	ebiten.SetWindowSize(size, size+hudHeight)

	if err := ebiten.RunGame(newDemoGame(cfg, defs, log)); err != nil {
		log.Fatal(err)
	}
}
