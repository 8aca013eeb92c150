package particles

import "fmt"

// Stats describes the most recent Update.
type Stats struct {
	Frame   uint64 `json:"frame"`
	Active  int    `json:"active"`
	Emitted int    `json:"emitted"` // particles activated this frame
	Dropped int    `json:"dropped"` // releases that found no free slot
	Retired int    `json:"retired"` // particles that reached their life cycle or were killed
	Bounces int    `json:"bounces"`
}

func (s Stats) String() string {
	return fmt.Sprintf("frame=%d active=%d emitted=%d dropped=%d retired=%d bounces=%d",
		s.Frame, s.Active, s.Emitted, s.Dropped, s.Retired, s.Bounces)
}
