package inspect

import "github.com/gekko3d/particles"

// Observer connects a Server to a host loop. Call Observe once per frame on
// the thread that owns the System.
type Observer struct {
	Server *Server
	Every  int // publish every Nth frame; 0 or 1 means every frame
	Limit  int // particles per frame
	Pause  func()
}

func (o *Observer) Observe(s *particles.System) {
	o.Server.Drain(func(cmd string) {
		switch cmd {
		case CommandReset:
			s.Reset()
		case CommandPause:
			if o.Pause != nil {
				o.Pause()
			}
		}
	})
	if o.Every > 1 && s.Stats().Frame%uint64(o.Every) != 0 {
		return
	}
	if err := o.Server.Publish(FrameFromSystem(s, o.Limit)); err != nil {
		o.Server.log.Errorf("publish frame: %v", err)
	}
}
