package gekko

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/firstshape/shaders"
)

type pipelineEntry struct {
	name           string
	pipeline       *wgpu.RenderPipeline
	materialBuffer *wgpu.Buffer
	bindGroup0     *wgpu.BindGroup
}

type drawCommand struct {
	pipeline      *pipelineEntry
	textureGroup  *wgpu.BindGroup
	vertexBuffers []*wgpu.Buffer
	indexBuffer   *wgpu.Buffer
	indexCount    uint32
	instanceCount uint32
	// cullBounds holds the bound of every CullNode above the geometry.
	cullBounds []Sphere
}

// Renderer turns a compiled scene graph into draw calls.
type Renderer struct {
	gpu        *GpuState
	logger     Logger
	ClearColor wgpu.Color

	cameraBuffer *wgpu.Buffer
	sampler      *wgpu.Sampler
	pipelines    map[string]*pipelineEntry
	textures     map[*Image]*wgpu.TextureView
	buffers      []*wgpu.Buffer
	bindGroups   []*wgpu.BindGroup
	draws        []*drawCommand

	pendingPresent bool

	// Counters of the last recorded frame.
	Drawn  int
	Culled int
}

func newRenderer(gs *GpuState, logger Logger) *Renderer {
	return &Renderer{
		gpu:        gs,
		logger:     logger,
		ClearColor: wgpu.Color{R: 0.2, G: 0.2, B: 0.4, A: 1.0},
		pipelines:  make(map[string]*pipelineEntry),
		textures:   make(map[*Image]*wgpu.TextureView),
	}
}

// compile creates every GPU object the scene needs.
func (r *Renderer) compile(scene Node) error {
	if r.cameraBuffer == nil {
		buffer, err := r.gpu.createBuffer("Camera Buffer", toBufferBytes(cameraUniform{}), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		r.cameraBuffer = buffer
	}
	if err := r.compileNode(scene, nil, nil); err != nil {
		return err
	}
	r.logger.Debugf("compiled %d draw(s) using %d pipeline(s)", len(r.draws), len(r.pipelines))
	return nil
}

func (r *Renderer) compileNode(n Node, state *PipelineState, culls []Sphere) error {
	switch node := n.(type) {
	case nil:
		return nil
	case *StateGroup:
		if node.State != nil {
			state = node.State
		}
	case *CullNode:
		culls = append(culls[:len(culls):len(culls)], node.Bound)
	case *Geometry:
		return r.compileGeometry(node, state, culls)
	}
	for _, child := range n.children() {
		if err := r.compileNode(child, state, culls); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) compileGeometry(g *Geometry, state *PipelineState, culls []Sphere) error {
	if len(g.Vertices) == 0 || len(g.Indices) == 0 {
		return nil
	}
	if state == nil {
		state = &PipelineState{StateInfo: NewStateInfo(), ShaderSet: CreateFlatShadedShaderSet(nil), Material: DefaultPhongMaterial()}
	}

	drawCount := g.DrawCount()
	colors := g.InstanceColors
	if dataLen(colors) < int(drawCount) {
		if colors != nil {
			r.logger.Warnf("geometry has %d colour(s) for %d instance(s), using its uniform colour", dataLen(colors), drawCount)
		}
		uniform := make(Vec4Array, drawCount)
		for i := range uniform {
			uniform[i] = g.Color
		}
		colors = uniform
	}
	positions := g.InstancePositions
	if dataLen(positions) < int(drawCount) {
		positions = nil
	}

	entry, err := r.pipeline(state, g.Topology, positions, colors)
	if err != nil {
		return err
	}

	attributes := []Data{g.Vertices, fillVec3(g.Normals, len(g.Vertices)), fillVec2(g.TexCoords, len(g.Vertices))}
	if positions != nil {
		attributes = append(attributes, positions)
	}
	attributes = append(attributes, colors)

	draw := &drawCommand{
		pipeline:      entry,
		indexCount:    uint32(len(g.Indices)),
		instanceCount: drawCount,
		cullBounds:    culls,
	}
	for i, data := range attributes {
		buffer, err := r.newBuffer(fmt.Sprintf("%s attribute %d", entry.name, i), data.Bytes(), wgpu.BufferUsageVertex)
		if err != nil {
			return err
		}
		draw.vertexBuffers = append(draw.vertexBuffers, buffer)
	}
	draw.indexBuffer, err = r.newBuffer(entry.name+" indices", wgpu.ToBytes(g.Indices), wgpu.BufferUsageIndex)
	if err != nil {
		return err
	}

	if state.Image != nil || state.DisplacementMap != nil {
		draw.textureGroup, err = r.textureBindGroup(entry, state)
		if err != nil {
			return err
		}
	}

	r.draws = append(r.draws, draw)
	return nil
}

func fillVec3(a Vec3Array, n int) Vec3Array {
	if len(a) >= n {
		return a
	}
	return append(a[:len(a):len(a)], make(Vec3Array, n-len(a))...)
}

func fillVec2(a Vec2Array, n int) Vec2Array {
	if len(a) >= n {
		return a
	}
	return append(a[:len(a):len(a)], make(Vec2Array, n-len(a))...)
}

func (r *Renderer) newBuffer(name string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	buffer, err := r.gpu.createBuffer(name, contents, usage)
	if err != nil {
		return nil, err
	}
	r.buffers = append(r.buffers, buffer)
	return buffer, nil
}

func vertexLayout(location uint32, format DataFormat, step wgpu.VertexStepMode) wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: format.Stride(),
		StepMode:    step,
		Attributes: []wgpu.VertexAttribute{{
			ShaderLocation: location,
			Offset:         0,
			Format:         format.vertexFormat(),
		}},
	}
}

func (r *Renderer) pipeline(state *PipelineState, topology Topology, positions, colors Data) (*pipelineEntry, error) {
	positionFormat := "none"
	if positions != nil {
		positionFormat = positions.Format().String()
	}
	key := fmt.Sprintf("%s|%v|%s|%s", state.Key(), topology, positionFormat, colors.Format())
	if entry, ok := r.pipelines[key]; ok {
		return entry, nil
	}

	features := state.Features()
	features.Billboard = features.Billboard && positions != nil && positions.Format() == FormatFloat32x4
	features.InstancePositionsVec3 = positions != nil && positions.Format() == FormatFloat32x3
	code, err := shaders.Generate(features)
	if err != nil {
		return nil, err
	}
	name := features.Name()

	shader, err := r.gpu.createShaderModule(name, code)
	if err != nil {
		return nil, err
	}
	defer shader.Release()

	layouts := []wgpu.VertexBufferLayout{
		vertexLayout(0, FormatFloat32x3, wgpu.VertexStepModeVertex),
		vertexLayout(1, FormatFloat32x3, wgpu.VertexStepModeVertex),
		vertexLayout(2, FormatFloat32x2, wgpu.VertexStepModeVertex),
	}
	if positions != nil {
		layouts = append(layouts, vertexLayout(3, positions.Format(), wgpu.VertexStepModeInstance))
	}
	layouts = append(layouts, vertexLayout(4, colors.Format(), wgpu.VertexStepModeInstance))

	primitive := wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeBack,
	}
	if state.TwoSided {
		primitive.CullMode = wgpu.CullModeNone
	}
	if topology == TopologyLineList {
		primitive.Topology = wgpu.PrimitiveTopologyLineList
		primitive.CullMode = wgpu.CullModeNone
	}

	var blend *wgpu.BlendState
	if state.Blending {
		blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	keep := wgpu.StencilFaceState{
		Compare:     wgpu.CompareFunctionAlways,
		FailOp:      wgpu.StencilOperationKeep,
		DepthFailOp: wgpu.StencilOperationKeep,
		PassOp:      wgpu.StencilOperationKeep,
	}

	r.gpu.trace("CreateRenderPipeline %s", name)
	pipeline, err := r.gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: name,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    layouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    r.gpu.surfaceConfig.Format,
					Blend:     blend,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: primitive,
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      keep,
			StencilBack:       keep,
		},
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create pipeline %s: %w", name, err)
	}

	materialBuffer, err := r.newBuffer(name+" material", toBufferBytes(state.Material.uniform()), wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	layout := pipeline.GetBindGroupLayout(0)
	defer layout.Release()
	bindGroup, err := r.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: materialBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		pipeline.Release()
		return nil, fmt.Errorf("create bind group %s: %w", name, err)
	}
	r.bindGroups = append(r.bindGroups, bindGroup)

	entry := &pipelineEntry{
		name:           name,
		pipeline:       pipeline,
		materialBuffer: materialBuffer,
		bindGroup0:     bindGroup,
	}
	r.pipelines[key] = entry
	r.logger.Debugf("created pipeline %s (%s)", name, state.ShaderSet.Kind)
	return entry, nil
}

func (r *Renderer) textureView(img *Image) (*wgpu.TextureView, error) {
	if view, ok := r.textures[img]; ok {
		return view, nil
	}
	view, err := r.gpu.createTextureFromImage(img)
	if err != nil {
		return nil, err
	}
	r.textures[img] = view
	return view, nil
}

func (r *Renderer) textureBindGroup(entry *pipelineEntry, state *PipelineState) (*wgpu.BindGroup, error) {
	if r.sampler == nil {
		sampler, err := r.gpu.createSampler()
		if err != nil {
			return nil, err
		}
		r.sampler = sampler
	}

	var entries []wgpu.BindGroupEntry
	if state.Image != nil {
		view, err := r.textureView(state.Image)
		if err != nil {
			return nil, err
		}
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: 0, TextureView: view, Size: wgpu.WholeSize},
			wgpu.BindGroupEntry{Binding: 1, Sampler: r.sampler, Size: wgpu.WholeSize},
		)
	}
	if state.DisplacementMap != nil {
		view, err := r.textureView(state.DisplacementMap)
		if err != nil {
			return nil, err
		}
		entries = append(entries,
			wgpu.BindGroupEntry{Binding: 2, TextureView: view, Size: wgpu.WholeSize},
			wgpu.BindGroupEntry{Binding: 3, Sampler: r.sampler, Size: wgpu.WholeSize},
		)
	}

	layout := entry.pipeline.GetBindGroupLayout(1)
	defer layout.Release()
	group, err := r.gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture bind group %s: %w", entry.name, err)
	}
	r.bindGroups = append(r.bindGroups, group)
	return group, nil
}

func (d *drawCommand) visible(planes [6]mgl64.Vec4) bool {
	for _, bound := range d.cullBounds {
		if !SphereInFrustum(bound, planes) {
			return false
		}
	}
	return true
}

// recordAndSubmit records one frame for camera and submits it. The frame
// is shown by present.
func (r *Renderer) recordAndSubmit(camera *Camera) error {
	if err := r.gpu.queue.WriteBuffer(r.cameraBuffer, 0, toBufferBytes(camera.uniform())); err != nil {
		return fmt.Errorf("write camera: %w", err)
	}

	nextTexture, err := r.gpu.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("acquire surface texture: %w", err)
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	renderPass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.ClearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.gpu.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		},
	})
	defer renderPass.Release()

	vp := camera.Viewport
	if vp.Width > 0 && vp.Height > 0 && vp.Width <= r.gpu.surfaceConfig.Width && vp.Height <= r.gpu.surfaceConfig.Height {
		renderPass.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
	}

	planes := camera.Frustum()
	r.Drawn, r.Culled = 0, 0
	for _, draw := range r.draws {
		if !draw.visible(planes) {
			r.Culled++
			continue
		}
		renderPass.SetPipeline(draw.pipeline.pipeline)
		renderPass.SetBindGroup(0, draw.pipeline.bindGroup0, nil)
		if draw.textureGroup != nil {
			renderPass.SetBindGroup(1, draw.textureGroup, nil)
		}
		for slot, buffer := range draw.vertexBuffers {
			renderPass.SetVertexBuffer(uint32(slot), buffer, 0, wgpu.WholeSize)
		}
		renderPass.SetIndexBuffer(draw.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		renderPass.DrawIndexed(draw.indexCount, draw.instanceCount, 0, 0, 0)
		r.Drawn++
	}
	r.gpu.trace("recorded %d draw(s), culled %d", r.Drawn, r.Culled)

	if err := renderPass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish command encoder: %w", err)
	}
	defer cmdBuffer.Release()

	r.gpu.queue.Submit(cmdBuffer)
	r.pendingPresent = true
	return nil
}

func (r *Renderer) present() {
	if !r.pendingPresent {
		return
	}
	r.gpu.surface.Present()
	r.pendingPresent = false
}

func (r *Renderer) release() {
	for _, group := range r.bindGroups {
		group.Release()
	}
	for _, entry := range r.pipelines {
		entry.pipeline.Release()
	}
	for _, view := range r.textures {
		view.Release()
	}
	for _, buffer := range r.buffers {
		buffer.Release()
	}
	if r.sampler != nil {
		r.sampler.Release()
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
	}
	r.draws = nil
	r.pipelines = make(map[string]*pipelineEntry)
	r.textures = make(map[*Image]*wgpu.TextureView)
}
