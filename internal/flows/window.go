package flows

import "time"

// Window is a trailing interval ending at the run's reference time.
type Window struct {
	Name     string
	Duration time.Duration
}

// Standard windows of the summary document.
var (
	Window7d  = Window{Name: "7d", Duration: 7 * 24 * time.Hour}
	Window30d = Window{Name: "30d", Duration: 30 * 24 * time.Hour}
)

// Cutoff returns the inclusive lower bound, in unix seconds, of the window ending at now.
func (w Window) Cutoff(now time.Time) int64 {
	return now.Add(-w.Duration).Unix()
}

// widest returns the window reaching furthest into the past.
func widest(windows []Window) Window {
	var w Window
	for _, candidate := range windows {
		if candidate.Duration > w.Duration {
			w = candidate
		}
	}
	return w
}
