package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles"
)

// DefaultFramesInFlight double-buffers the particle snapshot.
const DefaultFramesInFlight = 2

// VertexRing is a particles.VertexSink backed by one vertex buffer per frame
// in flight. The simulation writes into the host staging slice of the current
// slot; Flush uploads it to that slot's GPU buffer. The render loop calls
// Advance after submitting a frame so the next snapshot never overwrites a
// buffer the GPU may still be reading.
type VertexRing struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue

	Buffers  []*wgpu.Buffer
	Capacity int
	Log      particles.Logger

	staging [][]byte
	flushed []int
	current int
}

func NewVertexRing(device *wgpu.Device, capacity, frames int) (*VertexRing, error) {
	if frames < 1 {
		frames = DefaultFramesInFlight
	}
	if capacity < 0 {
		capacity = 0
	}
	size := uint64(capacity * particles.VertexStride)
	if size < 4 {
		size = 4
	}

	r := &VertexRing{
		Device:   device,
		Queue:    device.GetQueue(),
		Capacity: capacity,
		Log:      particles.NewNopLogger(),
		Buffers:  make([]*wgpu.Buffer, frames),
		staging:  make([][]byte, frames),
		flushed:  make([]int, frames),
	}
	for i := range r.Buffers {
		buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("ParticleVB[%d]", i),
			Size:  size,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			r.Release()
			return nil, fmt.Errorf("create particle vertex buffer %d: %w", i, err)
		}
		r.Buffers[i] = buf
		r.staging[i] = make([]byte, capacity*particles.VertexStride)
	}
	return r, nil
}

func (r *VertexRing) Vertices() []byte { return r.staging[r.current] }

func (r *VertexRing) Flush(n int) {
	r.flushed[r.current] = n
	if n == 0 {
		return
	}
	if err := r.Queue.WriteBuffer(r.Buffers[r.current], 0, r.staging[r.current][:n]); err != nil {
		r.Log.Errorf("upload particle vertices: %v", err)
		r.flushed[r.current] = 0
	}
}

// Current returns the buffer holding this frame's snapshot and its valid size.
func (r *VertexRing) Current() (*wgpu.Buffer, uint64) {
	return r.Buffers[r.current], uint64(r.flushed[r.current])
}

// Advance moves to the next slot. The caller must have fenced the frame that
// last used that slot.
func (r *VertexRing) Advance() {
	r.current = (r.current + 1) % len(r.Buffers)
}

func (r *VertexRing) Frames() int { return len(r.Buffers) }

func (r *VertexRing) Release() {
	for i, b := range r.Buffers {
		if b != nil {
			b.Release()
			r.Buffers[i] = nil
		}
	}
}
