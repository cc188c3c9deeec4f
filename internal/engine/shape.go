package engine

import "time"

// channel animates one attribute from a start value to a target.
type channel struct {
	from, to Value
	start    time.Time
	dur      time.Duration
}

func (c *channel) value(now time.Time) Value {
	if c.dur <= 0 {
		return c.to
	}
	elapsed := now.Sub(c.start)
	if elapsed >= c.dur {
		return c.to
	}
	if elapsed <= 0 {
		return c.from
	}
	return c.from.lerp(c.to, easeCubicInOut(float64(elapsed)/float64(c.dur)))
}

func (c *channel) animating(now time.Time) bool {
	return c.dur > 0 && now.Sub(c.start) < c.dur
}

// retarget points the channel at a new value. An in-flight transition is
// replaced, starting from wherever it currently is.
func (c *channel) retarget(to Value, now time.Time, dur time.Duration) bool {
	if to.equal(c.to) {
		return false
	}
	if dur <= 0 {
		*c = channel{from: to, to: to}
		return true
	}
	*c = channel{from: c.value(now), to: to, start: now, dur: dur}
	return true
}

// Shape is an on-screen mark bound to one record by key.
type Shape[R any] struct {
	id    uint64
	key   string
	datum R
	ch    map[string]*channel
}

// ID is assigned on enter and kept for the life of the shape.
func (s *Shape[R]) ID() uint64 { return s.id }

func (s *Shape[R]) Key() string { return s.key }

// Datum is the record the shape was last bound to.
func (s *Shape[R]) Datum() R { return s.datum }

// Value returns attribute name as of now; ok is false for unknown names.
func (s *Shape[R]) Value(name string, now time.Time) (Value, bool) {
	c, ok := s.ch[name]
	if !ok {
		return Value{}, false
	}
	return c.value(now), true
}

// Target returns the value attribute name is heading to.
func (s *Shape[R]) Target(name string) (Value, bool) {
	c, ok := s.ch[name]
	if !ok {
		return Value{}, false
	}
	return c.to, true
}

func (s *Shape[R]) animating(now time.Time) bool {
	for _, c := range s.ch {
		if c.animating(now) {
			return true
		}
	}
	return false
}
