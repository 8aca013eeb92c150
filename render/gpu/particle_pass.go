package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/particles"
	"github.com/gekko3d/particles/render/shaders"
	"github.com/go-gl/mathgl/mgl32"
)

// VerticesPerParticle is the billboard quad expanded in the vertex shader.
const VerticesPerParticle = 6

// DefaultPointSize is the billboard half extent in world units.
const DefaultPointSize = 0.08

// instanceLayout describes one snapshot vertex as a per-instance input.
func instanceLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: particles.VertexStride,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{
				Format:         wgpu.VertexFormatFloat32x3,
				Offset:         particles.VertexPositionOffset,
				ShaderLocation: 0,
			},
			{
				Format:         wgpu.VertexFormatFloat32x4,
				Offset:         particles.VertexColorOffset,
				ShaderLocation: 1,
			},
		},
	}
}

// cameraLayoutDescriptor is the single uniform binding read by the vertex stage.
func cameraLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "ParticleCameraBGL",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: CameraUniformSize,
				},
			},
		},
	}
}

// ParticlePass draws the current VertexRing slot as alpha-blended billboards.
type ParticlePass struct {
	Device    *wgpu.Device
	Pipeline  *wgpu.RenderPipeline
	CameraBuf *wgpu.Buffer
	BindGroup *wgpu.BindGroup
	Ring      *VertexRing
	PointSize float32
}

func NewParticlePass(device *wgpu.Device, format wgpu.TextureFormat, ring *VertexRing) (*ParticlePass, error) {
	shaderModule, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "ParticleShader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.ParticlesWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer shaderModule.Release()

	cameraLayout := cameraLayoutDescriptor()
	bgl, err := device.CreateBindGroupLayout(&cameraLayout)
	if err != nil {
		return nil, err
	}
	// The pipeline and bind group keep their own references.
	defer bgl.Release()

	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, err
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "ParticlePipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shaderModule,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{instanceLayout()},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	camBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "ParticleCameraUB",
		Size:  CameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "ParticleCameraBG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: camBuf, Size: CameraUniformSize},
		},
	})
	if err != nil {
		camBuf.Release()
		pipeline.Release()
		return nil, err
	}

	return &ParticlePass{
		Device:    device,
		Pipeline:  pipeline,
		CameraBuf: camBuf,
		BindGroup: bg,
		Ring:      ring,
		PointSize: DefaultPointSize,
	}, nil
}

func (p *ParticlePass) UpdateCamera(view, proj mgl32.Mat4) error {
	return p.Device.GetQueue().WriteBuffer(p.CameraBuf, 0, encodeCamera(view, proj, p.PointSize))
}

// Drawer binds the pass to an open render pass encoder for System.Draw.
func (p *ParticlePass) Drawer(pass *wgpu.RenderPassEncoder) *Drawer {
	return &Drawer{p: p, pass: pass}
}

func (p *ParticlePass) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.CameraBuf != nil {
		p.CameraBuf.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}

// Drawer implements particles.DrawContext over a wgpu render pass.
type Drawer struct {
	p     *ParticlePass
	pass  *wgpu.RenderPassEncoder
	drawn uint32
}

func (d *Drawer) DrawPoints(count uint32) {
	buf, size := d.p.Ring.Current()
	if count == 0 || size == 0 {
		return
	}
	if room := uint32(size / particles.VertexStride); count > room {
		count = room
	}
	d.pass.SetPipeline(d.p.Pipeline)
	d.pass.SetBindGroup(0, d.p.BindGroup, nil)
	d.pass.SetVertexBuffer(0, buf, 0, size)
	d.pass.Draw(VerticesPerParticle, count, 0, 0)
	d.drawn = count
}

// Drawn is the instance count of the last DrawPoints call.
func (d *Drawer) Drawn() uint32 { return d.drawn }
