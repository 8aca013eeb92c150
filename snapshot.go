package particles

import (
	"encoding/binary"
	"math"
)

// VertexSink is the host-writable region the renderer hands to Initialize.
// Vertices returns the region for the frame about to be written; renderers
// with several frames in flight rotate it between frames. Flush publishes the
// first n bytes written this frame.
type VertexSink interface {
	Vertices() []byte
	Flush(n int)
}

// DrawContext issues the draw of the current snapshot.
type DrawContext interface {
	DrawPoints(count uint32)
}

// ByteSink is a heap-backed VertexSink for CPU consumers and tests.
type ByteSink struct {
	buf     []byte
	flushed int
}

func NewByteSink(capacity int) *ByteSink {
	return &ByteSink{buf: make([]byte, capacity*VertexStride)}
}

func (b *ByteSink) Vertices() []byte { return b.buf }
func (b *ByteSink) Flush(n int)      { b.flushed = n }

// Count is the number of vertices published by the last Flush.
func (b *ByteSink) Count() int { return b.flushed / VertexStride }

// Decode appends the published vertices to dst.
func (b *ByteSink) Decode(dst []Vertex) []Vertex {
	return DecodeVertices(b.buf, b.Count(), dst)
}

// SinkCapacity is the number of whole vertex records that fit in sink.
func SinkCapacity(sink VertexSink) int {
	if sink == nil {
		return 0
	}
	return len(sink.Vertices()) / VertexStride
}

func putVertex(b []byte, v Vertex) {
	le := binary.LittleEndian
	le.PutUint32(b[0:], math.Float32bits(v.Position[0]))
	le.PutUint32(b[4:], math.Float32bits(v.Position[1]))
	le.PutUint32(b[8:], math.Float32bits(v.Position[2]))
	le.PutUint32(b[12:], math.Float32bits(v.Color[0]))
	le.PutUint32(b[16:], math.Float32bits(v.Color[1]))
	le.PutUint32(b[20:], math.Float32bits(v.Color[2]))
	le.PutUint32(b[24:], math.Float32bits(v.Color[3]))
}

func readVertex(b []byte) Vertex {
	le := binary.LittleEndian
	f := func(off int) float32 { return math.Float32frombits(le.Uint32(b[off:])) }
	return Vertex{
		Position: [3]float32{f(0), f(4), f(8)},
		Color:    [4]float32{f(12), f(16), f(20), f(24)},
	}
}

// DecodeVertices reads n packed records from b and appends them to dst.
func DecodeVertices(b []byte, n int, dst []Vertex) []Vertex {
	if room := len(b) / VertexStride; n > room {
		n = room
	}
	for i := 0; i < n; i++ {
		dst = append(dst, readVertex(b[i*VertexStride:]))
	}
	return dst
}

// writeSnapshot packs every active particle densely into the sink and
// returns the number of records written.
func writeSnapshot(sink VertexSink, pool []Particle) int {
	buf := sink.Vertices()
	limit := len(buf) / VertexStride
	n := 0
	for i := range pool {
		if !pool[i].Active {
			continue
		}
		if n == limit {
			break
		}
		putVertex(buf[n*VertexStride:], pool[i].vertex())
		n++
	}
	sink.Flush(n * VertexStride)
	return n
}
