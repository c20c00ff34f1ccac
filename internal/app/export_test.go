package app

import "time"

// SetNow overrides the clock used for relative times in reports.
func (a *App) SetNow(now func() time.Time) {
	a.now = now
}
