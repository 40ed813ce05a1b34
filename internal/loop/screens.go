package loop

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tomz197/stackup/internal/draw"
	"github.com/tomz197/stackup/internal/engine"
)

// Color palette (ANSI 256)
var (
	colorTitle = lipgloss.Color("219") // Pink
	colorScore = lipgloss.Color("255") // Bright white
	colorGood  = lipgloss.Color("86")  // Aqua - perfect, new best
	colorWarn  = lipgloss.Color("215") // Orange - revive, idle
	colorText  = lipgloss.Color("252")
	colorDim   = lipgloss.Color("245")
)

type styles struct {
	title  lipgloss.Style
	score  lipgloss.Style
	text   lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	dim    lipgloss.Style
	key    lipgloss.Style
	panel  lipgloss.Style
	banner lipgloss.Style
}

// newStyles binds the overlay styles to r. The canvas already speaks
// truecolor, so the profile is fixed instead of probed.
func newStyles(r *lipgloss.Renderer) styles {
	r.SetColorProfile(termenv.TrueColor)
	r.SetHasDarkBackground(true)
	return styles{
		title:  r.NewStyle().Bold(true).Foreground(colorTitle),
		score:  r.NewStyle().Bold(true).Foreground(colorScore),
		text:   r.NewStyle().Foreground(colorText),
		good:   r.NewStyle().Bold(true).Foreground(colorGood),
		warn:   r.NewStyle().Foreground(colorWarn),
		dim:    r.NewStyle().Foreground(colorDim),
		key:    r.NewStyle().Bold(true).Foreground(colorScore).Width(7),
		panel:  r.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(1, 4).Align(lipgloss.Center),
		banner: r.NewStyle().Bold(true).Foreground(colorGood).Padding(0, 1),
	}
}

// drawUI writes the overlay for the current state on top of the canvas.
func (g *Game) drawUI(cw *draw.ChunkWriter, st styles, s engine.Snapshot, termWidth, termHeight int) {
	if g.shutdown >= 0 {
		g.drawShutdownScreen(cw, st, termWidth, termHeight)
		return
	}
	if g.isInactive {
		g.drawInactivityScreen(cw, st, termWidth, termHeight)
		return
	}
	switch s.State {
	case engine.StateMenu:
		g.drawStartScreen(cw, st, termWidth, termHeight)
	case engine.StatePlaying:
		g.drawPlayingHUD(cw, st, s, termWidth, termHeight)
	case engine.StateGameOver:
		g.drawPlayingHUD(cw, st, s, termWidth, termHeight)
		g.drawGameOverScreen(cw, st, s, termWidth, termHeight)
	}
}

// writeCentered writes a rendered block centered horizontally at row, or
// centered on both axes when row is 0.
func writeCentered(cw *draw.ChunkWriter, block string, row, termWidth, termHeight int) {
	col := max((termWidth-lipgloss.Width(block))/2+1, 1)
	if row == 0 {
		row = max((termHeight-lipgloss.Height(block))/2+1, 1)
	}
	cw.WriteLines(col, row, block)
}

func (g *Game) blink() bool {
	return g.ticks/36%2 == 0
}

func controls(st styles, lines ...[2]string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, lipgloss.JoinHorizontal(lipgloss.Top, st.key.Render(l[0]), st.text.Render(l[1])))
	}
	return lipgloss.JoinVertical(lipgloss.Left, out...)
}

func (g *Game) drawStartScreen(cw *draw.ChunkWriter, st styles, termWidth, termHeight int) {
	prompt := " "
	if g.blink() {
		prompt = st.good.Render(">>  press SPACE to start  <<")
	}
	body := lipgloss.JoinVertical(lipgloss.Center,
		st.title.Render("S T A C K U P"),
		st.dim.Render("stack the blocks as high as you can"),
		"",
		st.text.Render("best ")+st.score.Render(strconv.Itoa(g.best)),
		"",
		controls(st,
			[2]string{"SPACE", "drop the block"},
			[2]string{"R", "revive once after a miss"},
			[2]string{"M", "mute"},
			[2]string{"Q", "quit"},
		),
		"",
		prompt,
	)
	writeCentered(cw, st.panel.Render(body), 0, termWidth, termHeight)
}

func (g *Game) drawPlayingHUD(cw *draw.ChunkWriter, st styles, s engine.Snapshot, termWidth, termHeight int) {
	writeCentered(cw, st.score.Render(fmt.Sprintf(" %d ", s.Score)), 2, termWidth, termHeight)

	if s.Combo > 1 {
		combo := st.text.Render(fmt.Sprintf("combo %d", s.Combo))
		if s.Multiplier > 1 {
			combo += st.good.Render(fmt.Sprintf("  x%d", s.Multiplier))
		}
		writeCentered(cw, combo, 3, termWidth, termHeight)
	}
	if g.flash > 0 && s.State == engine.StatePlaying {
		writeCentered(cw, st.banner.Render("PERFECT"), 5, termWidth, termHeight)
	}

	if g.mute != nil && g.mute.Muted() {
		muted := st.dim.Render("muted")
		cw.WriteAt(termWidth-lipgloss.Width(muted)-1, 1, muted)
	}
	cw.WriteAt(2, termHeight, st.dim.Render(fmt.Sprintf("best %d", g.best)))
}

func (g *Game) drawGameOverScreen(cw *draw.ChunkWriter, st styles, s engine.Snapshot, termWidth, termHeight int) {
	best := st.text.Render("best ") + st.score.Render(strconv.Itoa(g.best))
	if g.newBest {
		best = st.good.Render(fmt.Sprintf("NEW BEST %d", g.best))
	}

	lines := []string{
		st.title.Render("G A M E   O V E R"),
		"",
		st.text.Render("score ") + st.score.Render(strconv.Itoa(s.Score)),
		best,
		"",
	}
	if s.CanRevive {
		lines = append(lines, st.warn.Render("R  revive and keep your score"))
	}
	prompt := " "
	if g.guard == 0 && g.blink() {
		prompt = st.good.Render(">>  press SPACE to play again  <<")
	}
	lines = append(lines, st.dim.Render("Q  quit"), "", prompt)

	writeCentered(cw, st.panel.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)), 0, termWidth, termHeight)
}

func (g *Game) drawInactivityScreen(cw *draw.ChunkWriter, st styles, termWidth, termHeight int) {
	left := int((InactivityDisconnectUser - g.idle).Seconds())
	body := lipgloss.JoinVertical(lipgloss.Center,
		st.warn.Render("INACTIVITY WARNING"),
		"",
		st.text.Render(fmt.Sprintf("You will be disconnected in %d seconds.", max(left, 0))),
		st.dim.Render("Press any key to continue"),
	)
	writeCentered(cw, st.panel.Render(body), 0, termWidth, termHeight)
}

func (g *Game) drawShutdownScreen(cw *draw.ChunkWriter, st styles, termWidth, termHeight int) {
	remaining := g.shutdown/g.tickRate + 1
	body := lipgloss.JoinVertical(lipgloss.Center,
		st.warn.Render("SERVER SHUTTING DOWN"),
		"",
		st.text.Render("The server is restarting for maintenance."),
		st.text.Render("Please reconnect in a moment."),
		"",
		st.dim.Render(fmt.Sprintf("Disconnecting in %d seconds...", remaining)),
		st.dim.Render("Press Q to disconnect now"),
	)
	writeCentered(cw, st.panel.Render(body), 0, termWidth, termHeight)
}
