package kernel

import (
	"math"
	"time"
)

// Minutes is a whole number of minutes.
type Minutes int

// Duration converts m to a time.Duration.
func (m Minutes) Duration() time.Duration {
	return time.Duration(m) * time.Minute
}

// CeilMinutes rounds d up to whole minutes. Negative durations round toward zero.
func CeilMinutes(d time.Duration) Minutes {
	return Minutes(math.Ceil(d.Minutes()))
}

// FloorMinutes truncates d to whole minutes.
func FloorMinutes(d time.Duration) Minutes {
	return Minutes(math.Floor(d.Minutes()))
}
