package prefabs

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type PlayerSpec struct {
	Name           string                      `yaml:"name"`
	MoveSpeed      float64                     `yaml:"move_speed"`
	GroundAccel    float64                     `yaml:"ground_accel"`
	AirAccel       float64                     `yaml:"air_accel"`
	JumpSpeed      float64                     `yaml:"jump_speed"`
	JumpHoldFrames int                         `yaml:"jump_hold_frames"`
	JumpHoldBoost  float64                     `yaml:"jump_hold_boost"`
	CoyoteFrames   int                         `yaml:"coyote_frames"`
	Gravity        float64                     `yaml:"gravity"`
	MaxFallSpeed   float64                     `yaml:"max_fall_speed"`
	Collider       ColliderSpec                `yaml:"collider"`
	Animation      map[string]AnimationDefSpec `yaml:"animation"`
}

func LoadPlayerSpec() (PlayerSpec, error) {
	return LoadSpec[PlayerSpec]("player.yaml")
}

type MonsterSpec struct {
	Name      string                      `yaml:"name"`
	MoveSpeed float64                     `yaml:"move_speed"`
	WaitTime  time.Duration               `yaml:"wait_time"`
	Collider  ColliderSpec                `yaml:"collider"`
	Animation map[string]AnimationDefSpec `yaml:"animation"`
}

func LoadMonsterSpec() (MonsterSpec, error) {
	return LoadSpec[MonsterSpec]("monster.yaml")
}

type ColliderSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// AnimationDefSpec describes a horizontal strip of square frames.
type AnimationDefSpec struct {
	FrameCount int     `yaml:"frame_count"`
	FPS        float64 `yaml:"fps"`
	Loop       bool    `yaml:"loop"`
}
