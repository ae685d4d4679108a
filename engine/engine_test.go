package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-motion/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingScene embeds scene.Scene so only the methods the engine calls need bodies.
type recordingScene struct {
	scene.Scene
	name   string
	active bool
	err    error
	log    *[]string
	mu     *sync.Mutex
}

func (s *recordingScene) Active() bool { return s.active }

func (s *recordingScene) Update(deltaMs float64) error {
	s.mu.Lock()
	*s.log = append(*s.log, s.name)
	s.mu.Unlock()
	return s.err
}

func TestStepUpdatesActiveScenesInKeyOrder(t *testing.T) {
	var log []string
	mu := &sync.Mutex{}
	boom := errors.New("boom")

	e := NewEngine(
		WithScene(5, &recordingScene{name: "hud", active: true, log: &log, mu: mu}),
		WithScene(-1, &recordingScene{name: "world", active: true, err: boom, log: &log, mu: mu}),
		WithScene(2, &recordingScene{name: "paused", log: &log, mu: mu}),
	)

	var callbackDelta float64
	e.SetTickCallback(func(deltaMs float64) { callbackDelta = deltaMs })

	err := e.Step(16)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"world", "hud"}, log)
	assert.Equal(t, 16.0, callbackDelta)
	assert.Len(t, e.Scenes(), 3)

	e.RemoveScene(-1)
	assert.Nil(t, e.Scene(-1))
	assert.NoError(t, e.Step(16))
}

func TestRunStopsOnQuit(t *testing.T) {
	e := NewEngine(WithTickRate(500))
	ticks := 0
	e.SetTickCallback(func(float64) {
		ticks++
		if ticks == 3 {
			e.Quit()
		}
	})

	require.NoError(t, e.Run(context.Background()))
	assert.GreaterOrEqual(t, ticks, 3)
	assert.NotPanics(t, e.Quit)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e := NewEngine(WithTickRate(500))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, e.Run(ctx), context.DeadlineExceeded)
}

func TestRunHaltsOnError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	e := NewEngine(
		WithTickRate(500),
		WithHaltOnError(true),
		WithScene(0, &recordingScene{name: "world", active: true, err: boom, log: &log, mu: &sync.Mutex{}}),
	)

	assert.ErrorIs(t, e.Run(context.Background()), boom)
}

func TestSetTickRate(t *testing.T) {
	e := NewEngine(WithTickRate(0))
	assert.Equal(t, time.Second/60, e.TickRate())

	e.SetTickRate(25)
	assert.Equal(t, 40*time.Millisecond, e.TickRate())
}
