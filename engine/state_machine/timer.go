package state_machine

// Stopwatch measures playback time in seconds from explicit tick deltas.
// The zero value is stopped at zero elapsed time.
type Stopwatch struct {
	elapsed float64
	running bool
}

// Start resumes accumulating time.
func (s *Stopwatch) Start() {
	s.running = true
}

// Stop pauses the stopwatch without clearing its elapsed time.
func (s *Stopwatch) Stop() {
	s.running = false
}

// Restart zeroes the elapsed time and leaves the running state unchanged.
func (s *Stopwatch) Restart() {
	s.elapsed = 0
}

// Advance adds dt seconds if the stopwatch is running.
func (s *Stopwatch) Advance(dt float64) {
	if s.running {
		s.elapsed += dt
	}
}

// Elapsed returns the accumulated time in seconds.
func (s *Stopwatch) Elapsed() float64 {
	return s.elapsed
}

// Running reports whether Advance accumulates time.
func (s *Stopwatch) Running() bool {
	return s.running
}
