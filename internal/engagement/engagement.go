// Package engagement tracks the favorite, bookmark and rated toggles of a
// movie page. Activating a flag starts a short cosmetic pulse that expires on
// its own and never changes whether the flag is active.
package engagement

import (
	"sync"
	"time"
)

type Kind string

const (
	Favorite Kind = "favorite"
	Bookmark Kind = "bookmark"
	Rated    Kind = "rated"
)

var Kinds = []Kind{Favorite, Bookmark, Rated}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

const DefaultPulseDuration = 600 * time.Millisecond

// Flag is a single engagement toggle. PulseUntil is zero when no pulse is pending.
type Flag struct {
	Kind       Kind
	Active     bool
	PulseUntil time.Time
}

// Toggle flips Active. Turning a flag on starts a pulse ending at now+pulse;
// turning it off clears any pulse.
func (f Flag) Toggle(now time.Time, pulse time.Duration) Flag {
	f.Active = !f.Active
	f.PulseUntil = time.Time{}
	if f.Active {
		f.PulseUntil = now.Add(pulse)
	}
	return f
}

func (f Flag) Pulsing(now time.Time) bool {
	return !f.PulseUntil.IsZero() && now.Before(f.PulseUntil)
}

// State is what the rendering layer reads for one flag.
type State struct {
	Active  bool `json:"active"`
	Pulsing bool `json:"pulsing"`
}

type Timer interface {
	Stop() bool
}

// Scheduler runs fn once after d. time.AfterFunc satisfies it.
type Scheduler func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

type slot struct {
	flag  Flag
	timer Timer
	gen   uint64
}

// Flags owns the engagement toggles of one movie page in one session.
type Flags struct {
	mu       sync.Mutex
	slots    map[Kind]*slot
	pulse    time.Duration
	now      func() time.Time
	schedule Scheduler
	closed   bool
}

type Option func(*Flags)

func WithPulseDuration(d time.Duration) Option {
	return func(f *Flags) {
		if d > 0 {
			f.pulse = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(f *Flags) {
		f.now = now
	}
}

func WithScheduler(s Scheduler) Option {
	return func(f *Flags) {
		f.schedule = s
	}
}

func New(opts ...Option) *Flags {
	f := &Flags{
		slots:    make(map[Kind]*slot, len(Kinds)),
		pulse:    DefaultPulseDuration,
		now:      time.Now,
		schedule: afterFunc,
	}
	for _, opt := range opts {
		opt(f)
	}
	for _, k := range Kinds {
		f.slots[k] = &slot{flag: Flag{Kind: k}}
	}
	return f
}

func (f *Flags) slot(k Kind) *slot {
	s, ok := f.slots[k]
	if !ok {
		s = &slot{flag: Flag{Kind: k}}
		f.slots[k] = s
	}
	return s
}

// Toggle flips the flag and replaces any pending pulse timer for it.
func (f *Flags) Toggle(k Kind) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(k)
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.flag = s.flag.Toggle(f.now(), f.pulse)
	if s.flag.Active {
		if f.closed {
			s.flag.PulseUntil = time.Time{}
		} else {
			gen := s.gen
			s.timer = f.schedule(f.pulse, func() { f.expire(k, gen) })
		}
	}
	return f.stateLocked(s)
}

// expire clears the pulse only if no toggle or teardown happened since the
// timer was armed.
func (f *Flags) expire(k Kind, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s, ok := f.slots[k]
	if !ok || f.closed || s.gen != gen {
		return
	}
	s.flag.PulseUntil = time.Time{}
	s.timer = nil
}

func (f *Flags) State(k Kind) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked(f.slot(k))
}

func (f *Flags) stateLocked(s *slot) State {
	return State{Active: s.flag.Active, Pulsing: s.flag.Pulsing(f.now())}
}

// Close cancels every pending pulse. Flags keep their active state but no
// timer armed before Close will touch them afterwards.
func (f *Flags) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for _, s := range f.slots {
		s.gen++
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.flag.PulseUntil = time.Time{}
	}
}
