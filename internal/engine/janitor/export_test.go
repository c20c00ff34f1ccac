package janitor

import "time"

// SetNow overrides the clock used to evaluate record age.
func (j *Janitor) SetNow(now func() time.Time) {
	j.now = now
}
