package prefabs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlayerSpec(t *testing.T) {
	spec, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, "player", spec.Name)
	assert.Positive(t, spec.MoveSpeed)
	assert.Positive(t, spec.Gravity)
	for _, name := range []string{"idle", "run", "jump", "celebrate", "die"} {
		assert.Contains(t, spec.Animation, name)
	}
}

func TestLoadMonsterSpec(t *testing.T) {
	spec, err := LoadMonsterSpec()
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, spec.WaitTime)
	assert.Equal(t, 4, spec.Animation["run"].FrameCount)
}

func TestLoadSpecMissing(t *testing.T) {
	_, err := LoadSpec[PlayerSpec]("nope.yaml")
	assert.ErrorContains(t, err, "prefabs: load nope.yaml")
}

func TestCleanPrefabPath(t *testing.T) {
	assert.Equal(t, "player.yaml", cleanPrefabPath("prefabs/player.yaml"))
	assert.Equal(t, "player.yaml", cleanPrefabPath("player.yaml"))
	assert.Equal(t, "", cleanPrefabPath(""))
}
