// Package viewer is the desktop front-end: a top-down ebiten view of a live
// arena session that doubles as its render surface, HUD and input source.
package viewer

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Snipe-Slash/internal/game"
)

// borderWidth is the pixel gap between the window edge and the playfield.
const borderWidth = 24

const (
	fieldWidth    = 960
	fieldHeight   = 720
	pixelsPerM    = 24.0
	aimSnapDist   = 1.5 // m
	gridSpacing   = 1.0 // m
	statusLife    = 2 * time.Second
	reportEvery   = 60 // ticks between reporter samples
	reporterTicks = 600
)

// Factory builds and starts a session with the viewer's surface, HUD and
// event sink already supplied in opts.
type Factory func(ctx context.Context, opts ...game.Option) (*game.Session, error)

// Viewer implements ebiten.Game.
type Viewer struct {
	width, height int
	cam           camera
	face          text.Face

	factory  Factory
	log      *slog.Logger
	session  *game.Session
	controls *Controls
	scene    *Scene
	feed     *Feed
	reporter *game.SimReporter
	paused   bool

	status      string
	statusUntil time.Time
}

// New builds the viewer and starts the first session.
func New(factory Factory, log *slog.Logger) (*Viewer, error) {
	if log == nil {
		log = slog.Default()
	}
	v := &Viewer{
		width:   borderWidth + fieldWidth + borderWidth + feedPanelWidth,
		height:  borderWidth + fieldHeight + borderWidth,
		face:    text.NewGoXFace(basicfont.Face7x13),
		factory: factory,
		log:     log.With("component", "viewer"),
		scene:   NewScene(),
		feed:    NewFeed(),
		cam: camera{
			ppm:  pixelsPerM,
			offX: borderWidth,
			offY: borderWidth,
			w:    fieldWidth,
			h:    fieldHeight,
		},
	}
	if err := v.restart(); err != nil {
		return nil, err
	}
	return v, nil
}

// Size is the window size the viewer lays out for.
func (v *Viewer) Size() (int, int) { return v.width, v.height }

func (v *Viewer) restart() error {
	v.scene.Reset()
	v.feed.Clear()
	s, err := v.factory(context.Background(),
		game.WithSurface(v.scene),
		game.WithHUD(v.scene),
		game.WithSinks(v.feed),
	)
	if err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	v.session = s
	v.controls = NewControls(s.Head().Position)
	v.reporter = game.NewSimReporter(reporterTicks)
	v.log.Info("session started", "session", s.ID, "enemies", s.Registry().LiveEnemyCount())
	return nil
}

// Update advances the session by one fixed tick.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := v.restart(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		v.copyReport()
	}
	if v.paused {
		return nil
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	st := v.readControls()
	in := v.controls.Frame(st, v.session.Tuning(), dt)
	v.session.Step(dt, in)
	v.scene.Sync(v.session.Registry(), v.session.Now())
	v.cam.cx, v.cam.cz = v.controls.Head.X, v.controls.Head.Z

	if t := v.session.Tick(); t > 0 && t%reportEvery == 0 {
		v.reporter.Collect(v.session)
	}
	return nil
}

func (v *Viewer) readControls() ControlState {
	mx, my := ebiten.CursorPosition()
	x, z := v.cam.toWorld(mx, my)
	st := ControlState{
		Aim:     aimPoint(x, z, v.controls.Head, v.session.Registry().Enemies(), aimSnapDist),
		Trigger: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && v.cam.contains(mx, my),
		Grip:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		Swing:   ebiten.IsKeyPressed(ebiten.KeyQ),
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		st.Move.Z--
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		st.Move.Z++
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		st.Move.X--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		st.Move.X++
	}
	return st
}

func (v *Viewer) copyReport() {
	report := game.SessionReport(v.session) + "\n" + v.reporter.FormatLatest()
	if err := clipboard.WriteAll(report); err != nil {
		v.log.Warn("clipboard write failed", "err", err)
		v.setStatus("copy failed")
		return
	}
	v.setStatus("report copied")
}

func (v *Viewer) setStatus(s string) {
	v.status = s
	v.statusUntil = time.Now().Add(statusLife)
}

// Draw renders the playfield, HUD and event feed.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 13, B: 16, A: 255})

	ox, oy := float32(v.cam.offX), float32(v.cam.offY)
	vector.FillRect(screen, ox, oy, fieldWidth, fieldHeight, color.RGBA{R: 22, G: 26, B: 32, A: 255}, false)
	v.drawGrid(screen)
	v.drawBursts(screen)
	v.drawEnemies(screen)
	v.drawProjectiles(screen)
	v.drawPlayer(screen)

	borderCol := color.RGBA{R: 65, G: 80, B: 110, A: 255}
	vector.StrokeRect(screen, ox-1, oy-1, fieldWidth+2, fieldHeight+2, 2.0, borderCol, false)

	v.drawHUD(screen)
	v.feed.Draw(screen, v.face, v.cam.offX+fieldWidth+borderWidth, v.height)
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(_, _ int) (int, int) {
	return v.width, v.height
}

func (v *Viewer) drawGrid(screen *ebiten.Image) {
	c := color.RGBA{R: 40, G: 46, B: 56, A: 255}
	halfW := float64(fieldWidth) / 2 / v.cam.ppm
	halfH := float64(fieldHeight) / 2 / v.cam.ppm
	ox, oy := float32(v.cam.offX), float32(v.cam.offY)
	for x := math.Ceil((v.cam.cx - halfW) / gridSpacing); x*gridSpacing <= v.cam.cx+halfW; x++ {
		sx, _ := v.cam.toScreen(game.Vec3{X: x * gridSpacing})
		vector.StrokeLine(screen, sx, oy, sx, oy+fieldHeight, 1.0, c, false)
	}
	for z := math.Ceil((v.cam.cz - halfH) / gridSpacing); z*gridSpacing <= v.cam.cz+halfH; z++ {
		_, sy := v.cam.toScreen(game.Vec3{Z: z * gridSpacing})
		vector.StrokeLine(screen, ox, sy, ox+fieldWidth, sy, 1.0, c, false)
	}
}

func lerpColor(a, b color.RGBA, t float64) color.RGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 { return uint8(float64(x) + (float64(y)-float64(x))*t) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

func (v *Viewer) drawEnemies(screen *ebiten.Image) {
	tun := v.session.Tuning()
	r := float32(tun.EnemyRadius * v.cam.ppm)
	for _, e := range v.session.Registry().Enemies() {
		sx, sy := v.cam.toScreen(e.Position())
		cos := e.Cosmetic()
		switch e.Kind {
		case game.EnemyTurret:
			core := lerpColor(color.RGBA{R: 240, G: 240, B: 240, A: 255}, color.RGBA{R: 240, G: 40, B: 40, A: 255}, cos.Intensity)
			vector.FillRect(screen, sx-r, sy-r, 2*r, 2*r, core, false)
			if cos.ChargeProgress > 0 {
				vector.StrokeCircle(screen, sx, sy, r+4+float32(cos.ChargeProgress)*8, 2, color.RGBA{R: 255, G: 90, B: 60, A: 200}, true)
			}
		case game.EnemyMobile:
			vector.FillCircle(screen, sx, sy, r, color.RGBA{R: 225, G: 230, B: 235, A: 255}, true)
			dx, dy := float32(math.Cos(cos.Spin))*r*1.4, float32(math.Sin(cos.Spin))*r*1.4
			vector.StrokeLine(screen, sx-dx, sy-dy, sx+dx, sy+dy, 2, color.RGBA{R: 120, G: 200, B: 255, A: 255}, true)
		case game.EnemyRusher:
			pr := r * float32(cos.PulseScale)
			fill := color.RGBA{R: 40, G: 40, B: 44, A: 255}
			if e.State() == game.StateCharging {
				fill = lerpColor(fill, color.RGBA{R: 255, G: 120, B: 0, A: 255}, cos.ChargeProgress)
				blast := float32(tun.RusherBlastRadius * v.cam.ppm)
				vector.StrokeCircle(screen, sx, sy, blast, 1, color.RGBA{R: 255, G: 120, B: 0, A: 90}, true)
			}
			vector.FillCircle(screen, sx, sy, pr, fill, true)
			vector.StrokeCircle(screen, sx, sy, pr, 1.5, color.RGBA{R: 200, G: 60, B: 60, A: 255}, true)
		}
		if e.Visual.Placeholder {
			vector.StrokeRect(screen, sx-r-2, sy-r-2, 2*r+4, 2*r+4, 1, color.RGBA{R: 255, G: 0, B: 255, A: 120}, false)
		}
		drawText(screen, v.face, e.Label, int(sx+r+3), int(sy-r-6), color.RGBA{R: 180, G: 180, B: 190, A: 255})
	}
}

func (v *Viewer) drawProjectiles(screen *ebiten.Image) {
	for _, p := range v.session.Registry().Projectiles() {
		tail := p.Position.Sub(p.Direction.Scale(0.6))
		hx, hy := v.cam.toScreen(p.Position)
		tx, ty := v.cam.toScreen(tail)
		c := color.RGBA{R: 255, G: 230, B: 120, A: 255}
		if p.Owner == game.OwnerEnemy {
			c = color.RGBA{R: 255, G: 70, B: 70, A: 255}
		}
		vector.StrokeLine(screen, tx, ty, hx, hy, 2, c, true)
	}
}

func (v *Viewer) drawBursts(screen *ebiten.Image) {
	now := v.session.Now()
	for _, b := range v.scene.bursts {
		age := float64(now-b.born) / float64(burstLife)
		sx, sy := v.cam.toScreen(b.at)
		a := uint8(200 * (1 - age))
		c := color.RGBA{R: 255, G: 200, B: 80, A: a}
		size := float32(4 + age*10)
		if b.enemy {
			c = color.RGBA{R: 255, G: 110, B: 40, A: a}
			size = float32(8 + age*30)
		}
		vector.StrokeCircle(screen, sx, sy, size, 2, c, true)
	}
}

func (v *Viewer) drawPlayer(screen *ebiten.Image) {
	head := v.controls.Head
	tun := v.session.Tuning()
	hx, hy := v.cam.toScreen(head)
	hr := float32(tun.PlayerHitRadius * v.cam.ppm)
	vector.FillCircle(screen, hx, hy, hr, color.RGBA{R: 80, G: 160, B: 255, A: 200}, true)

	for _, w := range v.session.Weapons() {
		t := w.Transform()
		fwd := t.Forward()
		sc := t.Scale
		if sc <= 0 {
			sc = 1
		}
		gx, gy := v.cam.toScreen(t.Position)
		if w.Mode == game.ModeMelee {
			a := t.Position.Add(fwd.Scale(tun.BladeStart * sc))
			b := t.Position.Add(fwd.Scale(tun.BladeEnd * sc))
			ax, ay := v.cam.toScreen(a)
			bx, by := v.cam.toScreen(b)
			c := color.RGBA{R: 150, G: 150, B: 160, A: 255}
			if w.IsReady {
				c = color.RGBA{R: 230, G: 235, B: 255, A: 255}
			}
			vector.StrokeLine(screen, ax, ay, bx, by, 3, c, true)
		} else {
			side := fwd.Cross(game.Vec3{Y: 1}).Normalize().Scale(0.4)
			l, r := t.Position.Add(side), t.Position.Sub(side)
			lx, ly := v.cam.toScreen(l)
			rx, ry := v.cam.toScreen(r)
			nx, ny := v.cam.toScreen(w.NockPoint(tun))
			if w.IsDrawing {
				nx, ny = v.cam.toScreen(t.Position.Sub(fwd.Scale(v.controls.Pull())))
			}
			cord := color.RGBA{R: 200, G: 200, B: 200, A: 255}
			vector.StrokeLine(screen, lx, ly, nx, ny, 1, cord, true)
			vector.StrokeLine(screen, rx, ry, nx, ny, 1, cord, true)
			vector.StrokeLine(screen, lx, ly, gx, gy, 2, color.RGBA{R: 170, G: 120, B: 70, A: 255}, true)
			vector.StrokeLine(screen, gx, gy, rx, ry, 2, color.RGBA{R: 170, G: 120, B: 70, A: 255}, true)
		}
		vector.FillCircle(screen, gx, gy, 3, color.RGBA{R: 255, G: 255, B: 255, A: 255}, true)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	snap, ok := v.scene.HUD()
	if !ok {
		snap = v.session.Snapshot()
	}
	lines := []string{
		fmt.Sprintf("KILLS %d   HITS %d   ACC %d%%", snap.Kills, snap.Hits, snap.Accuracy),
		fmt.Sprintf("TIME %5.1fs   SCORE %d", snap.Elapsed.Seconds(), snap.Score),
		fmt.Sprintf("WEAPON %s", snap.Mode),
	}
	if snap.Cleared {
		lines = append(lines, "ARENA CLEAR  R=restart  C=copy report")
	}
	if v.paused {
		lines = append(lines, "PAUSED")
	}
	if v.status != "" && time.Now().Before(v.statusUntil) {
		lines = append(lines, v.status)
	}
	lines = append(lines,
		"LMB bow  RMB nock+pull  Q swing",
		"WASD move  P pause  R restart  C copy",
	)

	const lineH = 15
	const pad = 6
	maxLen := 0
	for _, l := range lines {
		if len(l) > maxLen {
			maxLen = len(l)
		}
	}
	bx := float32(v.cam.offX + 8)
	by := float32(v.cam.offY + 8)
	boxW := float32(maxLen*7 + pad*2)
	boxH := float32(len(lines)*lineH + pad*2)
	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 8, B: 12, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 80, B: 120, A: 180}, false)
	for i, l := range lines {
		drawText(screen, v.face, l, int(bx)+pad, int(by)+pad+i*lineH, color.White)
	}
}

func drawText(dst *ebiten.Image, face text.Face, s string, x, y int, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}
