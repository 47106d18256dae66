package seed

import (
	"fmt"

	"github.com/gosuri/uiprogress"
)

type tracker interface {
	Incr()
	Done()
}

type noopTracker struct{}

func (noopTracker) Incr() {}
func (noopTracker) Done() {}

type barTracker struct {
	progress *uiprogress.Progress
	bar      *uiprogress.Bar
}

func (t *barTracker) Incr() { t.bar.Incr() }
func (t *barTracker) Done() { t.progress.Stop() }

// track returns a progress bar for a per-item stage when progress output is
// enabled.
func (s *Seeder) track(name string, total int) tracker {
	if !s.cfg.Seed.Progress || total <= 0 {
		return noopTracker{}
	}

	p := uiprogress.New()
	p.Start()
	bar := p.AddBar(total).AppendCompleted().PrependElapsed()
	bar.PrependFunc(func(b *uiprogress.Bar) string {
		return fmt.Sprintf("%-22s %d/%d", name, b.Current(), total)
	})

	return &barTracker{progress: p, bar: bar}
}
