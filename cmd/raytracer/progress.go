package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// progressUI draws a live tile-completion bar under a pass/tiles/elapsed
// time label (SPEC_FULL.md §2's replacement for the teacher's bare Printf
// progress lines), grounded on the screen-init/SetContent/Show loop of the
// terminal application in the retrieval pack. Falls back to plain stdout
// lines when the terminal can't be acquired (e.g. output redirected to a
// file), since a render must never fail just because it has no TTY.
type progressUI struct {
	screen tcell.Screen
	start  time.Time
}

func newProgressUI() *progressUI {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil
	}
	if err := screen.Init(); err != nil {
		return nil
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	return &progressUI{screen: screen, start: time.Now()}
}

func (p *progressUI) close() {
	if p == nil {
		return
	}
	p.screen.Fini()
}

// reportTile redraws the bar after one tile finishes, given how many of
// totalTiles tiles in the current pass (passNumber of totalPasses) are
// done.
func (p *progressUI) reportTile(passNumber, totalPasses, done, totalTiles int) {
	if p == nil {
		return
	}
	w, h := p.screen.Size()
	p.screen.Clear()

	label := fmt.Sprintf("pass %d/%d  tiles %d/%d  elapsed %s", passNumber, totalPasses, done, totalTiles, time.Since(p.start).Round(time.Second))
	drawString(p.screen, 0, 0, label, tcell.StyleDefault.Bold(true))

	barWidth := w - 2
	if barWidth < 1 {
		barWidth = 1
	}
	filled := 0
	if totalTiles > 0 {
		filled = barWidth * done / totalTiles
	}
	row := 1
	if row < h {
		for x := 0; x < barWidth; x++ {
			ch, style := ' ', tcell.StyleDefault
			if x < filled {
				ch, style = '█', tcell.StyleDefault.Foreground(tcell.ColorGreen)
			}
			p.screen.SetContent(x, row, ch, nil, style)
		}
	}
	p.screen.Show()
}

func (p *progressUI) reportPass(passNumber int, avgSamples float64) {
	if p == nil {
		fmt.Printf("pass %d done: %.1f samples/pixel average\n", passNumber, avgSamples)
	}
}

func drawString(screen tcell.Screen, x, y int, s string, style tcell.Style) {
	for _, r := range s {
		screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
}
