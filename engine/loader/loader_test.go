package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const walkYAML = `
name: walk
ticksPerSecond: 30
tracks:
  hip:
    translations:
      - {time: 0, value: [0, 0, 0]}
      - {time: 30, value: [3, 0, 0]}
  spine:
    rotations:
      - {time: 0, value: [0, 0, 0, 1]}
    scales:
      - {time: 0, value: [1, 1, 1]}
      - {time: 15, value: [2, 2, 2]}
`

const skeletonYAML = `
name: biped
joints:
  - {name: root, bone: 0}
  - {name: hip, parent: root, translation: [0, 1, 0]}
  - {name: spine, parent: hip, bone: 1, translation: [0, 0.5, 0], scale: [2, 2, 2]}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAnimation(t *testing.T) {
	path := writeFile(t, t.TempDir(), "walk.yaml", walkYAML)
	l := NewLoader(BackendTypeYAML)

	_, ok := l.Lookup("walk")
	assert.False(t, ok)

	asset, err := l.LoadAnimation("walk", path)
	require.NoError(t, err)
	assert.Equal(t, "walk", asset.Name())
	assert.Equal(t, 30.0, asset.TicksPerSecond())
	assert.Equal(t, 30.0, asset.DurationInTicks(), "duration defaults to the last keyframe")
	assert.Equal(t, []string{"hip", "spine"}, asset.Joints())
	assert.Equal(t, []float64{0, 15, 30}, asset.Times())

	cached, ok := l.Lookup("walk")
	require.True(t, ok)
	assert.Same(t, asset, cached)

	again, err := l.LoadAnimation("walk", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Same(t, asset, again, "cached references skip the backend")
}

func TestConcurrentLoadsShareCachedAsset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "walk.yaml", walkYAML)
	l := NewLoader(BackendTypeYAML).(*loader)

	first, err := l.backend.LoadAnimation(path)
	require.NoError(t, err)
	second, err := l.backend.LoadAnimation(path)
	require.NoError(t, err)
	require.NotSame(t, first, second)

	assert.Same(t, first, l.store("walk", first))
	assert.Same(t, first, l.store("walk", second), "a later decode yields the cached asset")

	l = NewLoader(BackendTypeYAML).(*loader)
	results := make([]any, 8)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			asset, err := l.LoadAnimation("walk", path)
			assert.NoError(t, err)
			results[i] = asset
		}()
	}
	wg.Wait()

	cached, ok := l.Lookup("walk")
	require.True(t, ok)
	for _, got := range results {
		assert.Same(t, cached, got)
	}
}

func TestLoadAnimationErrors(t *testing.T) {
	dir := t.TempDir()
	l := NewLoader(BackendTypeYAML)

	_, err := l.LoadAnimation("fbx", filepath.Join(dir, "walk.fbx"))
	assert.ErrorContains(t, err, "unsupported asset format")

	_, err = l.LoadAnimation("missing", filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	unsorted := writeFile(t, dir, "bad.yaml", "name: bad\ntracks:\n  hip:\n    translations:\n      - {time: 2, value: [0, 0, 0]}\n      - {time: 1, value: [0, 0, 0]}\n")
	_, err = l.LoadAnimation("bad", unsorted)
	assert.ErrorIs(t, err, ErrInvalidFile)

	_, ok := l.Lookup("bad")
	assert.False(t, ok)
}

func TestLoadSkeleton(t *testing.T) {
	l := NewLoader(BackendTypeYAML)
	skel, err := l.LoadSkeletonReader("biped", strings.NewReader(skeletonYAML))
	require.NoError(t, err)

	require.Len(t, skel.Joints, 3)
	assert.Equal(t, 2, skel.BoneCount)
	assert.Equal(t, []int{0}, skel.Roots)
	assert.Equal(t, 1, skel.Joints[2].Parent)
	assert.False(t, skel.Joints[1].HasBone)
	assert.Equal(t, [3]float32{2, 2, 2}, skel.Joints[2].BindLocal.Scale)
	assert.Equal(t, [3]float32{1, 1, 1}, skel.Joints[1].BindLocal.Scale, "omitted scale is unit")

	// the derived inverse bind undoes the spine's bind-pose world translation of (0, 1.5, 0)
	inv := skel.Joints[2].InverseBind
	assert.InDelta(t, -0.75, inv[13], 1e-6)
	assert.InDelta(t, 0.5, inv[0], 1e-6)

	_, err = l.LoadSkeletonReader("orphan", strings.NewReader("joints:\n  - {name: arm, parent: body}\n"))
	assert.ErrorIs(t, err, ErrInvalidFile)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	var entries []AssetEntry
	for _, ref := range []string{"walk", "run", "jump", "idle", "wave"} {
		entries = append(entries, AssetEntry{Ref: ref, Path: writeFile(t, dir, ref+".yaml", walkYAML)})
	}

	l := NewLoader(BackendTypeYAML, WithLoadLimit(2))
	require.NoError(t, l.LoadAll(context.Background(), entries))
	assert.Len(t, l.Assets(), 5)

	broken := append(entries, AssetEntry{Ref: "ghost", Path: filepath.Join(dir, "ghost.yaml")})
	err := NewLoader(BackendTypeYAML).LoadAll(context.Background(), broken)
	assert.ErrorContains(t, err, "ghost")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewLoader(BackendTypeYAML).LoadAll(ctx, entries), context.Canceled)
}

func TestLoadAnimationAsync(t *testing.T) {
	pool := worker.NewDynamicWorkerPool(2, 16, time.Second)
	defer pool.Stop()

	path := writeFile(t, t.TempDir(), "walk.yaml", walkYAML)
	l := NewLoader(BackendTypeYAML, WithPool(pool))

	require.True(t, l.LoadAnimationAsync("walk", path))
	assert.Eventually(t, func() bool {
		_, ok := l.Lookup("walk")
		return ok && !l.Pending("walk")
	}, 2*time.Second, 5*time.Millisecond)

	assert.False(t, l.LoadAnimationAsync("walk", path), "already cached")

	inline := NewLoader(BackendTypeYAML)
	require.True(t, inline.LoadAnimationAsync("missing", "missing.yaml"))
	_, ok := inline.Lookup("missing")
	assert.False(t, ok, "failed loads stay unresolved")
	assert.False(t, inline.Pending("missing"))
}

func TestLoadModel(t *testing.T) {
	dir := t.TempDir()
	skelPath := writeFile(t, dir, "biped.yaml", skeletonYAML)
	walkPath := writeFile(t, dir, "walk.yaml", walkYAML)

	l := NewLoader(BackendTypeYAML)
	m, err := l.LoadModel(context.Background(), "hero", skelPath, AssetEntry{Ref: "walk", Path: walkPath})
	require.NoError(t, err)

	assert.Equal(t, "hero", m.Name())
	assert.True(t, m.Skinned())
	assert.Equal(t, []string{"walk"}, m.Animations())
	assert.Same(t, m.Skeleton(), l.Models()["hero"].Skeleton())
	assert.NotNil(t, l.Asset("walk"))

	again, err := l.LoadModel(context.Background(), "hero", "elsewhere.yaml")
	require.NoError(t, err)
	assert.Same(t, m.Skeleton(), again.Skeleton())
}
