// Package timeline produces synthetic, plausible-looking timestamps for
// backdated seed data.
package timeline

import (
	"math/rand/v2"
	"slices"
	"time"
)

const day = 24 * time.Hour

var (
	quarterHours = []int{0, 15, 30, 45}
	halfHours    = []int{0, 30}
)

type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) pick(values []int) int {
	return values[g.rng.IntN(len(values))]
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func at(d time.Time, hour, minute int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}

// pastDates spreads n timestamps over the daysBack days before today, each at
// hour in [minHour, maxHour] and a minute from minutes. The result is sorted.
func (g *Generator) pastDates(n, daysBack, minHour, maxHour int, minutes []int) []time.Time {
	if n <= 0 {
		return nil
	}
	if daysBack < 1 {
		daysBack = 1
	}

	today := midnight(g.now())
	dates := make([]time.Time, 0, n)
	for range n {
		d := today.AddDate(0, 0, -g.between(1, daysBack))
		dates = append(dates, at(d, g.between(minHour, maxHour), g.pick(minutes)))
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// UserCreationDates returns n sorted account creation times within the last
// daysBack days, during the working day.
func (g *Generator) UserCreationDates(n, daysBack int) []time.Time {
	return g.pastDates(n, daysBack, 7, 16, quarterHours)
}

// ActivationDates returns, for each creation time, an activation 1 to 6 hours
// later on the same day.
func (g *Generator) ActivationDates(created []time.Time) []time.Time {
	out := make([]time.Time, 0, len(created))
	for _, c := range created {
		a := c.Add(time.Duration(g.between(60, 360)) * time.Minute)
		if end := at(c, 23, 59); a.After(end) {
			a = end
		}
		if !a.After(c) {
			a = c.Add(time.Minute)
		}
		out = append(out, a)
	}
	return out
}

// EventCreationDates returns n sorted event creation times within the last
// daysBack days, during business hours.
func (g *Generator) EventCreationDates(n, daysBack int) []time.Time {
	return g.pastDates(n, daysBack, 9, 16, halfHours)
}

// beforeEvent returns n sorted timestamps between minDays and a random upper
// bound of up to maxDays before eventStart. Anything that would not be
// strictly before eventStart is replaced by eventStart-fallback.
func (g *Generator) beforeEvent(n int, eventStart time.Time, minDays, maxDays, minHour, maxHour int, minutes []int, fallback time.Duration) []time.Time {
	if n <= 0 {
		return nil
	}

	upper := g.between(minDays, maxDays)
	start := midnight(eventStart)
	dates := make([]time.Time, 0, n)
	for range n {
		d := start.AddDate(0, 0, -g.between(minDays, upper))
		t := at(d, g.between(minHour, maxHour), g.pick(minutes))
		if !t.Before(eventStart) {
			t = eventStart.Add(-fallback)
		}
		dates = append(dates, t)
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}

// BookingDates returns n sorted booking times 1 to 30 days before eventStart.
func (g *Generator) BookingDates(n int, eventStart time.Time) []time.Time {
	return g.beforeEvent(n, eventStart, 1, 30, 8, 19, quarterHours, time.Hour)
}

// InvitationDates returns n sorted invitation times 5 to 45 days before
// eventStart.
func (g *Generator) InvitationDates(n int, eventStart time.Time) []time.Time {
	return g.beforeEvent(n, eventStart, 5, 45, 9, 16, halfHours, day)
}

// MaterialDates returns n sorted upload times 1 to 20 days before eventStart.
func (g *Generator) MaterialDates(n int, eventStart time.Time) []time.Time {
	return g.beforeEvent(n, eventStart, 1, 20, 9, 17, quarterHours, 2*time.Hour)
}

// Pad extends dates to length n, one day apart after the last element, or
// after now when dates is empty. The input is not modified.
func (g *Generator) Pad(dates []time.Time, n int) []time.Time {
	out := slices.Clone(dates)
	if len(out) >= n {
		return out
	}

	base := g.now()
	if len(out) > 0 {
		base = out[len(out)-1]
	}
	for i := 1; len(out) < n; i++ {
		out = append(out, base.Add(time.Duration(i)*day))
	}
	return out
}
