package engine

import (
	"math/rand/v2"
	"time"
)

// Mode names a kind of run. It is also the storage key for scores.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeDaily  Mode = "daily"
)

// DailySeed derives the seed shared by every daily run on t's UTC date.
func DailySeed(t time.Time) uint32 {
	u := t.UTC()
	return uint32(u.Year()*10000 + int(u.Month())*100 + u.Day())
}

// ResolveSeed picks the seed for a run: an explicit override wins, daily mode
// derives it from the date, otherwise a fresh one is generated.
func ResolveSeed(daily bool, override *uint32, now time.Time) (uint32, string) {
	switch {
	case override != nil:
		return *override, "override"
	case daily:
		return DailySeed(now), "daily"
	default:
		return rand.Uint32(), "generated"
	}
}

// SeedPtr is a helper for Options.Seed.
func SeedPtr(seed uint32) *uint32 {
	return &seed
}
