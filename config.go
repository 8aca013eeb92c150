package particles

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Config is the on-disk form of a particle effect preset.
type Config struct {
	Name            string     `json:"name,omitempty"`
	MaxParticles    int        `json:"max_particles"`
	NumToRelease    int        `json:"num_to_release"`
	ReleaseInterval float32    `json:"release_interval"`
	LifeCycle       float32    `json:"life_cycle"`
	Position        mgl32.Vec3 `json:"position"`
	Velocity        mgl32.Vec3 `json:"velocity"`
	VelocityScale   float32    `json:"velocity_scale"`
	Gravity         mgl32.Vec3 `json:"gravity"`
	Wind            mgl32.Vec3 `json:"wind"`

	Plane       *PlaneConfig `json:"collision_plane,omitempty"`
	Response    string       `json:"collision_response,omitempty"`
	Restitution *float32     `json:"restitution,omitempty"`

	PositionJitter float32 `json:"position_jitter,omitempty"`
	VelocityJitter float32 `json:"velocity_jitter,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`

	Fade *FadeConfig `json:"fade,omitempty"`
}

type PlaneConfig struct {
	Normal mgl32.Vec3 `json:"normal"`
	Point  mgl32.Vec3 `json:"point"`
}

type FadeConfig struct {
	From  mgl32.Vec4 `json:"from"`
	To    mgl32.Vec4 `json:"to"`
	Curve string     `json:"curve,omitempty"`
}

// Fountain is the ground-bounce fountain: 200 particles, 10 released every
// 50ms, five second life, standard gravity and a ground plane at the origin.
// Particles launch straight up at 20 units/s with a velocity spread.
func Fountain() Config {
	return Config{
		Name:            "fountain",
		MaxParticles:    200,
		NumToRelease:    10,
		ReleaseInterval: 0.05,
		LifeCycle:       5,
		Position:        mgl32.Vec3{0, 0, 0},
		Velocity:        mgl32.Vec3{0, 1, 0},
		VelocityScale:   20,
		Gravity:         mgl32.Vec3{0, -9.8, 0},
		Wind:            mgl32.Vec3{0, 0, 0},
		Plane:           &PlaneConfig{Normal: mgl32.Vec3{0, 1, 0}, Point: mgl32.Vec3{0, 0, 0}},
		Response:        CollisionBounce.String(),
		VelocityJitter:  4,
		Seed:            1,
	}
}

// Spray is a fountain with an upward launch velocity, sideways wind and
// spawn jitter so the particles fan out instead of stacking.
func Spray() Config {
	e := float32(0.35)
	c := Fountain()
	c.Name = "spray"
	c.MaxParticles = 600
	c.NumToRelease = 6
	c.ReleaseInterval = 0.02
	c.LifeCycle = 3
	c.Velocity = mgl32.Vec3{0, 1, 0}
	c.VelocityScale = 9
	c.Wind = mgl32.Vec3{1.5, 0, 0}
	c.Restitution = &e
	c.PositionJitter = 0.1
	c.VelocityJitter = 2.5
	c.Seed = 7
	c.Fade = &FadeConfig{From: mgl32.Vec4{0.6, 0.8, 1, 1}, To: mgl32.Vec4{0.1, 0.2, 1, 0}, Curve: "quad-in"}
	return c
}

// Presets lists the built-in configs by name.
func Presets() map[string]Config {
	return map[string]Config{
		"fountain": Fountain(),
		"spray":    Spray(),
	}
}

func ParseCollisionResponse(name string) (CollisionResponse, error) {
	switch name {
	case "", "bounce":
		return CollisionBounce, nil
	case "kill":
		return CollisionKill, nil
	case "none":
		return CollisionNone, nil
	}
	return CollisionBounce, fmt.Errorf("unknown collision response %q", name)
}

// Apply validates c and stages every value on s through its setters.
// Nothing is applied when validation fails. A zero Seed stages the default seed.
func (c Config) Apply(s *System) error {
	resp, err := ParseCollisionResponse(c.Response)
	if err != nil {
		return err
	}
	fade := DefaultFade()
	if c.Fade != nil {
		curve, err := FadeCurve(c.Fade.Curve)
		if err != nil {
			return err
		}
		fade = FadePolicy{From: c.Fade.From, To: c.Fade.To, Ease: curve}
	}

	s.SetMaxParticles(c.MaxParticles)
	s.SetNumToRelease(c.NumToRelease)
	s.SetReleaseInterval(c.ReleaseInterval)
	s.SetLifeCycle(c.LifeCycle)
	s.SetPosition(c.Position)
	s.SetVelocity(c.Velocity)
	s.SetVelocityScale(c.VelocityScale)
	s.SetGravity(c.Gravity)
	s.SetWind(c.Wind)
	if c.Plane != nil {
		s.SetCollisionPlane(c.Plane.Normal, c.Plane.Point)
	} else {
		s.SetCollisionPlane(mgl32.Vec3{}, mgl32.Vec3{})
	}
	s.SetCollisionResponse(resp)
	if c.Restitution != nil {
		s.SetRestitution(*c.Restitution)
	} else {
		s.SetRestitution(DefaultRestitution)
	}
	s.SetJitter(c.PositionJitter, c.VelocityJitter)
	seed := c.Seed
	if seed == 0 {
		seed = DefaultSettings().Seed
	}
	s.SetSeed(seed)
	s.SetFade(fade)
	return nil
}

func ParseConfig(data []byte) (Config, error) {
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse particle config: %w", err)
	}
	return c, nil
}

func LoadConfig(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	c, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

func SaveConfig(filename string, c Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ResolveConfig returns the built-in preset called name, or loads name as a
// file path when no preset matches.
func ResolveConfig(name string) (Config, error) {
	if c, ok := Presets()[name]; ok {
		return c, nil
	}
	return LoadConfig(name)
}
