package seed

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"ems-seeder/internal/models"
)

const (
	minEventLength   = 2 * time.Hour
	minSessionLength = time.Hour
	sessionMargin    = 30 * time.Minute
	slot             = 30 * time.Minute
	maxSessionSlots  = 8
)

type window struct {
	Start time.Time
	End   time.Time
}

func (w window) length() time.Duration { return w.End.Sub(w.Start) }

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func atClock(d time.Time, minutes int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), minutes/60, minutes%60, 0, 0, d.Location())
}

func clockOf(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// parseClock reads "HH:mm" as minutes after midnight. "24:00" becomes 23:59.
func parseClock(hhmm string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(hhmm), ":")
	if !ok {
		return 0, fmt.Errorf("invalid clock time %q", hhmm)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("invalid hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", hhmm)
	}
	if hour == 24 {
		return 23*60 + 59, nil
	}
	return hour*60 + minute, nil
}

// candidateWindow picks an event window 7 to 30 days out, starting between
// 09:00 and 18:00 on the half hour. Same-day events run 2 to 8 hours and never
// past 23:59; multi-day events end between 17:00 and 22:30.
func candidateWindow(rng *rand.Rand, now time.Time) window {
	day := midnight(now).AddDate(0, 0, between(rng, 7, 30))
	start := atClock(day, 9*60+between(rng, 0, 18)*30)

	days := between(rng, 0, 3)
	if days == 0 {
		end := start.Add(time.Duration(between(rng, 2, 8)) * time.Hour)
		if last := atClock(start, 23*60+59); end.After(last) {
			end = last
		}
		return window{Start: start, End: end}
	}

	endDay := day.AddDate(0, 0, days)
	end := atClock(endDay, between(rng, 17, 22)*60+pick(rng, []int{0, 30}))
	return window{Start: start, End: end}
}

// fitToVenue clips w to the venue's opening hours. A start after closing is
// pulled back two hours before closing. When clipping leaves no time the
// event gets the two hour minimum, shifted back to end at closing if the
// venue is open long enough.
func fitToVenue(w window, v models.Venue) window {
	open, err := parseClock(v.OpeningTime)
	if err != nil {
		return w
	}
	closing, err := parseClock(v.ClosingTime)
	if err != nil {
		return w
	}

	longEnough := closing-open >= int(minEventLength/time.Minute)

	if clockOf(w.Start) < open {
		w.Start = atClock(w.Start, open)
	}
	if clockOf(w.Start) > closing && longEnough {
		w.Start = atClock(w.Start, closing).Add(-minEventLength)
	}
	if clockOf(w.End) > closing {
		w.End = atClock(w.End, closing)
	}

	if !w.End.After(w.Start) {
		w.End = w.Start.Add(minEventLength)
		closeAt := atClock(w.Start, closing)
		if w.End.After(closeAt) && longEnough {
			w.Start = closeAt.Add(-minEventLength)
			w.End = closeAt
		}
	}

	return w
}

// sessionWindows places up to count sessions inside the event, 30 minutes in
// from either edge, each at least an hour long and not overlapping. Events too
// short for the margins get one session over the middle half of the event.
func sessionWindows(rng *rand.Rand, ev window, count int) []window {
	if count <= 0 || !ev.End.After(ev.Start) {
		return nil
	}

	lo := ev.Start.Add(sessionMargin)
	hi := ev.End.Add(-sessionMargin)
	if hi.Sub(lo) < minSessionLength {
		quarter := ev.length() / 4
		return []window{{Start: ev.Start.Add(quarter), End: ev.End.Add(-quarter)}}
	}

	var out []window
	for range count {
		free := hi.Sub(lo)
		if free < minSessionLength {
			break
		}

		slots := min(int((free-minSessionLength)/slot), maxSessionSlots)
		start := lo.Add(time.Duration(rng.IntN(slots+1)) * slot)
		end := start.Add(time.Duration(between(rng, 2, 4)) * slot)
		if end.After(hi) {
			end = hi
		}

		out = append(out, window{Start: start, End: end})
		lo = end
	}
	return out
}
