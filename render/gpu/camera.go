package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraUniformSize matches struct Camera in particles.wgsl.
const CameraUniformSize = 96

// encodeCamera packs view_proj, right (w = point size) and up.
func encodeCamera(view, proj mgl32.Mat4, pointSize float32) []byte {
	buf := make([]byte, CameraUniformSize)
	viewProj := proj.Mul4(view)
	for i, v := range viewProj {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	right := view.Row(0).Vec3()
	up := view.Row(1).Vec3()
	put3 := func(off int, v mgl32.Vec3, w float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(v[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(v[2]))
		binary.LittleEndian.PutUint32(buf[off+12:], math.Float32bits(w))
	}
	put3(64, right, pointSize)
	put3(80, up, 0)
	return buf
}
