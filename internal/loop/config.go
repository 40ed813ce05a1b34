package loop

import "time"

// View resolution in logical units. Rendering scales to the terminal.
const (
	ViewWidth  = 120 // Logical width
	ViewHeight = 80  // Logical height (in sub-pixels, so 40 terminal rows)
)

// Render area ceiling. Larger terminals get a centered area of this size.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Camera framing
const (
	WorldScale = 7.0  // Logical units per world unit
	FocusY     = 0.55 // Where the top of the tower sits, as a fraction of ViewHeight
)

// Overlay timing, in ticks at the default tick rate
const (
	PerfectFlashTicks = 30
	RestartGuardTicks = 30 // Taps right after a loss are ignored
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10 // Shutdown notice shown before disconnecting
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)
