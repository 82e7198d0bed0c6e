package resilience

import "golang.org/x/sync/singleflight"

// SingleFlight is a typed singleflight.Group: concurrent Do calls for the
// same key share one execution of fn.
type SingleFlight[T any] struct {
	group singleflight.Group
}

// Do reports shared=true when the result came from another caller's run.
func (g *SingleFlight[T]) Do(key string, fn func() (T, error)) (T, error, bool) {
	v, err, shared := g.group.Do(key, func() (any, error) {
		return fn()
	})
	out, _ := v.(T)
	return out, err, shared
}
