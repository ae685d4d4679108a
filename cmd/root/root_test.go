package root

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/state_machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const (
	skeletonYAML = `
name: rig
joints:
  - {name: root, bone: 0}
  - {name: hip, parent: root, bone: 1, translation: [0, 1, 0]}
`
	walkYAML = `
name: walk
ticksPerSecond: 10
tracks:
  hip:
    translations:
      - {time: 0, value: [0, 0, 0]}
      - {time: 10, value: [10, 0, 0]}
`
	graphYAML = `
name: walker
animationStates:
  - stateType: animation
    name: idle
    clips:
      step:
        name: step
        animation: walk
        playbackMode: singleShot
  - stateType: animation
    name: walk
    clips:
      walk:
        name: walk
        animation: walk
  - stateType: transition
    name: idle_to_walk
    start: idle
    end: walk
    settings:
      fadeInTime: 0.2
      fadeOutTime: 0.2
connections:
  - {start: idle, end: idle_to_walk}
  - {start: idle_to_walk, end: walk}
`
	projectYAML = `
name: oxy_anim_cli_test
tickRate: 4
computeWorkers: 2
skeleton: skeleton.yaml
graph: graph.yaml
assets:
  - {ref: walk, path: walk.yaml}
entities:
  - name: hero
    motions:
      - {name: body, initialState: idle, autoPlay: true}
  - name: shot
    motions:
      - {name: once, initialState: idle, destroyOnDone: true}
`
)

func writeProject(t *testing.T, graph string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"skeleton.yaml": skeletonYAML,
		"walk.yaml":     walkYAML,
		"graph.yaml":    graph,
		"oxy-anim.yaml": projectYAML,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), &out, &errOut, args...)
	return out.String(), err
}

func TestValidateProject(t *testing.T) {
	dir := writeProject(t, graphYAML)

	out, err := run(t, "validate", "-c", filepath.Join(dir, "oxy-anim.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "project \"oxy_anim_cli_test\": 1 assets, 3 nodes, 2 entities\n", out)
}

func TestValidateReportsMissingAnimation(t *testing.T) {
	graph := graphYAML + `  - {start: walk, end: run}
`
	dir := writeProject(t, graph)
	_, err := run(t, "validate", "-c", filepath.Join(dir, "oxy-anim.yaml"))
	assert.ErrorIs(t, err, state_machine.ErrMalformed)

	running := `
name: runner
animationStates:
  - stateType: animation
    name: idle
    clips:
      run: {name: run, animation: run}
`
	dir = writeProject(t, running)
	_, err = run(t, "validate", "-c", filepath.Join(dir, "oxy-anim.yaml"))
	assert.ErrorContains(t, err, `animation "run" is not loaded`)
}

func TestValidateGraphFile(t *testing.T) {
	dir := writeProject(t, graphYAML)

	out, err := run(t, "validate", filepath.Join(dir, "graph.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "graph \"walker\": 3 nodes, 2 connections\n", out)
}

func TestSimulate(t *testing.T) {
	dir := writeProject(t, graphYAML)

	out, err := run(t, "simulate", "-c", filepath.Join(dir, "oxy-anim.yaml"), "--ticks", "10", "--log-level", "debug")
	require.NoError(t, err)

	var report simulationReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, 10, report.Ticks)
	assert.InDelta(t, 2500, report.ElapsedMs, 1e-9)
	assert.Equal(t, []string{"shot"}, report.Finished)

	require.Len(t, report.Entities, 1)
	hero := report.Entities[0]
	assert.Equal(t, "hero", hero.Name)
	require.Len(t, hero.Motions, 1)
	assert.Equal(t, "walk", hero.Motions[0].StateName)
	assert.InDelta(t, 1.5, hero.Motions[0].Elapsed, 1e-9)

	require.Len(t, hero.Bones, 2)
	assert.Equal(t, [3]float32{0, 0, 0}, hero.Bones[0])
	assert.InDelta(t, 5, hero.Bones[1][0], 1e-5)
}

func TestPrintWritesCanonicalGraph(t *testing.T) {
	dir := writeProject(t, graphYAML)
	src := filepath.Join(dir, "graph.yaml")

	printed, err := run(t, "print", src)
	require.NoError(t, err)

	dst := filepath.Join(dir, "out", "canonical.yaml")
	_, err = run(t, "print", src, "--out", dst)
	require.NoError(t, err)

	written, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, printed, string(written))

	g, err := state_machine.UnmarshalGraph(written)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := run(t, "validate", "--log-level", "loud")
	assert.ErrorContains(t, err, `unknown log level "loud"`)
}
