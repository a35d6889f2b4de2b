// Package ui renders the terminal client. All terminal output happens on
// the goroutine that pumps the Loop, the way a desktop toolkit owns its
// main thread.
package ui

// Loop is a minimal run-later hand-off: background goroutines Post
// callbacks, the owning goroutine executes them in order.
type Loop struct {
	ch chan func()
}

func NewLoop() *Loop {
	return &Loop{ch: make(chan func(), 64)}
}

// Post queues fn for the pumping goroutine.
func (l *Loop) Post(fn func()) {
	l.ch <- fn
}

// RunUntil executes posted callbacks until done is closed, then drains
// whatever is already queued and returns.
func (l *Loop) RunUntil(done <-chan struct{}) {
	for {
		select {
		case fn := <-l.ch:
			fn()
		case <-done:
			for {
				select {
				case fn := <-l.ch:
					fn()
				default:
					return
				}
			}
		}
	}
}
