// Package preview rasterizes particle snapshots on the CPU for the headless
// frame dumper.
package preview

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const DefaultLabelSize = 13

// Canvas is an RGBA frame that particles are splatted onto as small discs.
type Canvas struct {
	Img        *image.RGBA
	Background color.RGBA
	Radius     int

	face font.Face
}

func NewCanvas(width, height int) (*Canvas, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    DefaultLabelSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face: %w", err)
	}
	c := &Canvas{
		Img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		Background: color.RGBA{5, 5, 10, 255},
		Radius:     2,
		face:       face,
	}
	c.Clear()
	return c, nil
}

func (c *Canvas) Width() int  { return c.Img.Rect.Dx() }
func (c *Canvas) Height() int { return c.Img.Rect.Dy() }

func (c *Canvas) Clear() {
	draw.Draw(c.Img, c.Img.Rect, image.NewUniform(c.Background), image.Point{}, draw.Src)
}

// Splat projects every vertex through viewProj and blends it over the frame.
// It returns how many vertices landed on the canvas.
func (c *Canvas) Splat(viewProj mgl32.Mat4, verts []particles.Vertex) int {
	drawn := 0
	for _, v := range verts {
		a := mgl32.Clamp(v.Color[3], 0, 1)
		if a == 0 {
			continue
		}
		x, y, _, ok := render.Project(viewProj, v.Position, c.Width(), c.Height())
		if !ok {
			continue
		}
		c.disc(int(x), int(y), v.Color, a)
		drawn++
	}
	return drawn
}

func (c *Canvas) disc(cx, cy int, col [4]float32, a float32) {
	r := c.Radius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			c.blend(cx+dx, cy+dy, col, a)
		}
	}
}

// blend is straight-alpha source-over.
func (c *Canvas) blend(x, y int, col [4]float32, a float32) {
	if !(image.Point{x, y}.In(c.Img.Rect)) {
		return
	}
	i := c.Img.PixOffset(x, y)
	px := c.Img.Pix[i : i+4 : i+4]
	for k := 0; k < 3; k++ {
		src := mgl32.Clamp(col[k], 0, 1) * 255
		px[k] = uint8(src*a + float32(px[k])*(1-a) + 0.5)
	}
	px[3] = 255
}

// Label draws text with its baseline at (x, y).
func (c *Canvas) Label(x, y int, text string, col color.Color) {
	d := font.Drawer{
		Dst:  c.Img,
		Src:  image.NewUniform(col),
		Face: c.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Scaled returns the frame resized by factor with nearest-neighbour sampling.
func (c *Canvas) Scaled(factor float64) *image.RGBA {
	w := int(float64(c.Width()) * factor)
	h := int(float64(c.Height()) * factor)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Rect, c.Img, c.Img.Rect, draw.Src, nil)
	return dst
}
