// Package inspect streams particle system frames to websocket clients and
// accepts simple control commands from them.
package inspect

import (
	"github.com/gekko3d/particles"
)

// Frame is one published snapshot.
type Frame struct {
	System    string          `json:"system"`
	Frame     uint64          `json:"frame"`
	Elapsed   float64         `json:"elapsed"`
	Capacity  int             `json:"capacity"`
	Stats     particles.Stats `json:"stats"`
	Particles []FrameParticle `json:"particles,omitempty"`
	Settings  *FrameSettings  `json:"settings,omitempty"`
}

type FrameParticle struct {
	Position [3]float32 `json:"p"`
	Color    [4]float32 `json:"c"`
	Age      float32    `json:"age"`
}

type FrameSettings struct {
	NumToRelease    int     `json:"num_to_release"`
	ReleaseInterval float32 `json:"release_interval"`
	LifeCycle       float32 `json:"life_cycle"`
	Response        string  `json:"collision_response"`
}

// FrameFromSystem captures s. At most limit live particles are included;
// limit <= 0 omits them.
func FrameFromSystem(s *particles.System, limit int) Frame {
	st := s.Stats()
	cfg := s.Settings()
	f := Frame{
		System:   s.ID().String(),
		Frame:    st.Frame,
		Elapsed:  s.Elapsed(),
		Capacity: s.Capacity(),
		Stats:    st,
		Settings: &FrameSettings{
			NumToRelease:    cfg.NumToRelease,
			ReleaseInterval: cfg.ReleaseInterval,
			LifeCycle:       cfg.LifeCycle,
			Response:        cfg.Response.String(),
		},
	}
	if limit <= 0 {
		return f
	}
	for _, p := range s.Particles() {
		if !p.Active {
			continue
		}
		if len(f.Particles) == limit {
			break
		}
		f.Particles = append(f.Particles, FrameParticle{Position: p.Position, Color: p.Color, Age: p.Age})
	}
	return f
}
