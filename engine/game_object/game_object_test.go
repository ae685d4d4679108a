package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-motion/engine/model"
	"github.com/stretchr/testify/assert"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject()
	assert.True(t, obj.Enabled())
	assert.False(t, obj.Ephemeral())
	assert.Zero(t, obj.ID())
	assert.Nil(t, obj.Animator())
	assert.Nil(t, obj.Model())
}

func TestGameObjectOptions(t *testing.T) {
	mdl := model.NewModel(model.WithName("rig"))
	obj := NewGameObject(
		WithID(7),
		WithName("hero"),
		WithEnabled(false),
		WithEphemeral(true),
		WithModel(mdl),
	)

	assert.Equal(t, uint64(7), obj.ID())
	assert.Equal(t, "hero", obj.Name())
	assert.False(t, obj.Enabled())
	assert.True(t, obj.Ephemeral())
	assert.Equal(t, "rig", obj.Model().Name())

	obj.SetEnabled(true)
	obj.SetID(9)
	assert.True(t, obj.Enabled())
	assert.Equal(t, uint64(9), obj.ID())
}
