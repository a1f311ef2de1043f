package gekko

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
)

const depthFormat = wgpu.TextureFormatDepth32Float

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	logger  Logger
	apiDump bool
}

func createGpuState(s *WindowState, logger Logger) (*GpuState, error) {
	traits := s.Traits
	if traits == nil {
		traits = NewWindowTraits()
	}

	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		surface.Release()
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("request device: %w", err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	if len(caps.Formats) == 0 || len(caps.AlphaModes) == 0 {
		device.Release()
		adapter.Release()
		surface.Release()
		return nil, fmt.Errorf("surface reports no formats")
	}
	presentMode := traits.choosePresentMode(caps.PresentModes)

	width, height := s.Extent()
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       max(width, 1),
		Height:      max(height, 1),
		PresentMode: presentMode,
		AlphaMode:   caps.AlphaModes[0],
	}
	surface.Configure(adapter, device, &surfaceConfig)

	gs := &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
		logger:        logger,
		apiDump:       traits.APIDumpLayer,
	}
	if traits.DebugLayer {
		logger.SetDebug(true)
	}
	logger.Debugf("surface configured: %dx%d format=%v present=%v", surfaceConfig.Width, surfaceConfig.Height, surfaceConfig.Format, presentMode)

	if err := gs.createDepthTarget(); err != nil {
		gs.release()
		return nil, err
	}
	return gs, nil
}

// trace logs individual GPU calls when the API dump layer is requested.
func (gs *GpuState) trace(format string, args ...any) {
	if gs.apiDump {
		gs.logger.Infof("wgpu: "+format, args...)
	}
}

func (gs *GpuState) createDepthTarget() error {
	if gs.depthView != nil {
		gs.depthView.Release()
		gs.depthView = nil
	}
	if gs.depthTexture != nil {
		gs.depthTexture.Release()
		gs.depthTexture = nil
	}

	texture, err := gs.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              gs.surfaceConfig.Width,
			Height:             gs.surfaceConfig.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create depth texture: %w", err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return fmt.Errorf("create depth view: %w", err)
	}
	gs.depthTexture = texture
	gs.depthView = view
	gs.trace("depth target %dx%d", gs.surfaceConfig.Width, gs.surfaceConfig.Height)
	return nil
}

// resize reconfigures the surface and depth target. Zero sizes, as seen
// while minimised, are ignored.
func (gs *GpuState) resize(width, height uint32) error {
	if width == 0 || height == 0 {
		return nil
	}
	if width == gs.surfaceConfig.Width && height == gs.surfaceConfig.Height {
		return nil
	}
	gs.surfaceConfig.Width = width
	gs.surfaceConfig.Height = height
	gs.surface.Configure(gs.adapter, gs.device, gs.surfaceConfig)
	gs.logger.Debugf("surface resized to %dx%d", width, height)
	return gs.createDepthTarget()
}

func (gs *GpuState) release() {
	if gs.depthView != nil {
		gs.depthView.Release()
	}
	if gs.depthTexture != nil {
		gs.depthTexture.Release()
	}
	if gs.queue != nil {
		gs.queue.Release()
	}
	if gs.device != nil {
		gs.device.Release()
	}
	if gs.adapter != nil {
		gs.adapter.Release()
	}
	if gs.surface != nil {
		gs.surface.Release()
	}
}

func (gs *GpuState) createShaderModule(name string, code string) (*wgpu.ShaderModule, error) {
	gs.trace("CreateShaderModule %s", name)
	shader, err := gs.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          name,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %s: %w", name, err)
	}
	return shader, nil
}

func (gs *GpuState) createBuffer(name string, contents []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	gs.trace("CreateBufferInit %s (%d bytes)", name, len(contents))
	buffer, err := gs.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: contents,
		Usage:    usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create buffer %s: %w", name, err)
	}
	return buffer, nil
}

func toBufferBytes[T any](value T) []byte {
	return wgpu.ToBytes([]T{value})
}

func (gs *GpuState) createTextureFromImage(img *Image) (*wgpu.TextureView, error) {
	textureExtent := wgpu.Extent3D{
		Width:              img.Width,
		Height:             img.Height,
		DepthOrArrayLayers: 1,
	}
	gs.trace("CreateTexture %s %dx%d", img.Path, img.Width, img.Height)
	texture, err := gs.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         img.Path,
		Size:          textureExtent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8Unorm,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture %s: %w", img.Path, err)
	}
	defer texture.Release()

	textureView, err := texture.CreateView(nil)
	if err != nil {
		return nil, fmt.Errorf("create texture view %s: %w", img.Path, err)
	}

	err = gs.queue.WriteTexture(
		texture.AsImageCopy(),
		img.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  img.Width * 4,
			RowsPerImage: img.Height,
		},
		&textureExtent,
	)
	if err != nil {
		textureView.Release()
		return nil, fmt.Errorf("upload texture %s: %w", img.Path, err)
	}
	return textureView, nil
}

func (gs *GpuState) createSampler() (*wgpu.Sampler, error) {
	gs.trace("CreateSampler")
	sampler, err := gs.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MinFilter:     wgpu.FilterModeLinear,
		MagFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	return sampler, nil
}
