// Command salvo-sandbox is an interactive top-down terminal view of a running scenario
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lixenwraith/salvo/config"
	"github.com/lixenwraith/salvo/core"
	"github.com/lixenwraith/salvo/engine"
	"github.com/lixenwraith/salvo/event"
	"github.com/lixenwraith/salvo/missile"
	"github.com/lixenwraith/salvo/parameter"
	"github.com/lixenwraith/salvo/session"
	"github.com/lixenwraith/salvo/system"
)

var (
	styleBg       = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleTarget   = styleBg.Foreground(tcell.ColorRed).Bold(true)
	styleEject    = styleBg.Foreground(tcell.ColorYellow)
	stylePursue   = styleBg.Foreground(tcell.ColorAqua).Bold(true)
	styleLauncher = styleBg.Foreground(tcell.ColorLime)
	styleHUD      = styleBg.Foreground(tcell.ColorSilver)
	stylePaused   = styleBg.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

var (
	scenarioFlag = flag.String("scenario", "", "Scenario TOML file (built-in demo when empty)")
	rangeFlag    = flag.Float64("range", 120, "World units shown along the vertical axis")
)

// view maps the X/Z plane onto screen cells, launcher at bottom centre
type view struct {
	width, height int
	span          float64
}

func (v view) project(p mgl64.Vec3) (int, int, bool) {
	rows := float64(v.height - 2)
	if rows <= 0 {
		return 0, 0, false
	}
	unit := v.span / rows
	// Cells are roughly twice as tall as wide
	x := v.width/2 + int(p.X()/unit*2)
	y := v.height - 2 - int(p.Z()/unit)
	if x < 0 || x >= v.width || y < 0 || y >= v.height-1 {
		return 0, 0, false
	}
	return x, y, true
}

func main() {
	flag.Parse()

	sc := config.Demo()
	if *scenarioFlag != "" {
		var err error
		if sc, err = config.Load(*scenarioFlag); err != nil {
			fmt.Fprintf(os.Stderr, "salvo-sandbox: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "salvo-sandbox: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "salvo-sandbox: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.SetStyle(styleBg)
	screen.HideCursor()
	core.SetCrashHook(screen.Fini)

	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	clock := engine.NewPausableClock(nil)
	s, err := session.New(sc, session.Options{Clock: clock})
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "salvo-sandbox: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	core.Go(func() { s.Scheduler.Run(ctx) })

	eventCh := make(chan tcell.Event, 100)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventCh <- ev
		}
	})

	ticker := time.NewTicker(parameter.FrameUpdateInterval)
	defer ticker.Stop()

	span := *rangeFlag
	for {
		select {
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				switch ev.Rune() {
				case 'q':
					return
				case ' ':
					launch(s)
				case 'c':
					s.World.PushEvent(event.EventSiteClear, nil)
				case 'p':
					clock.Toggle()
				case '+', '=':
					span = max(span/1.25, 10)
				case '-':
					span = min(span*1.25, 2000)
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-ticker.C:
			w, h := screen.Size()
			v := view{width: w, height: h, span: span}
			screen.Clear()
			s.World.RunSafe(func() { draw(screen, v, s, clock.IsPaused()) })
			screen.Show()
		}
	}
}

// launch fires a cluster from the origin at the first live target
func launch(s *session.Session) {
	var id uint64
	s.World.RunSafe(func() {
		for _, b := range s.Targets.Registry().Bodies() {
			if b.Alive() {
				id = b.ID()
				break
			}
		}
	})
	if id == 0 {
		return
	}
	s.World.PushEvent(event.EventClusterLaunchRequest, &event.LaunchRequestPayload{TargetID: id})
}

func draw(screen tcell.Screen, v view, s *session.Session, paused bool) {
	for _, p := range s.Effects.Particles() {
		x, y, ok := v.project(p.Position)
		if !ok || p.Alpha <= 0.05 {
			continue
		}
		rgb := p.Color.RGB()
		style := styleBg.Foreground(tcell.NewRGBColor(int32(rgb.R), int32(rgb.G), int32(rgb.B)))
		screen.SetContent(x, y, particleRune(p), nil, style)
	}

	for _, b := range s.Targets.Registry().Bodies() {
		if !b.Alive() {
			continue
		}
		if x, y, ok := v.project(b.Position()); ok {
			screen.SetContent(x, y, 'X', nil, styleTarget)
			drawString(screen, x+2, y, b.Name(), styleTarget)
		}
	}

	for _, c := range s.Missiles.Site().Active() {
		st := c.State()
		x, y, ok := v.project(st.Position)
		if !ok {
			continue
		}
		style := styleEject
		if c.Phase() == missile.PhasePursuing {
			style = stylePursue
		}
		screen.SetContent(x, y, '*', nil, style)
	}

	if x, y, ok := v.project(mgl64.Vec3{}); ok {
		screen.SetContent(x, y, '^', nil, styleLauncher)
	}

	sum := s.Summarize()
	hud := fmt.Sprintf(" t=%.2fs  active %d  hits %d  lost %d  particles %d | space launch  c clear  p pause  +/- zoom  q quit",
		sum.Time, sum.Active, sum.Hits, sum.Lost, s.Effects.Len())
	drawString(screen, 0, v.height-1, hud, styleHUD)
	if paused {
		drawString(screen, 1, 0, " PAUSED ", stylePaused)
	}
}

func particleRune(p system.Particle) rune {
	switch p.Kind {
	case system.ParticleFlame:
		return '+'
	case system.ParticleExplosion:
		return '@'
	case system.ParticleDebris:
		return '.'
	default:
		if p.Size > 1.5 {
			return '#'
		}
		return ':'
	}
}

func drawString(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
