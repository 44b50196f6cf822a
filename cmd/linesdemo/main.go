// Command linesdemo renders a rotating grid of line segments on a headless
// device, after loading the models listed by the configuration.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/lines"
	"github.com/gogpu/lines/assets"
	"github.com/gogpu/lines/assets/gltf"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file")
		width      = flag.Int("width", 800, "target width")
		height     = flag.Int("height", 600, "target height")
		frames     = flag.Int("frames", 60, "frames to render")
		segments   = flag.Int("segments", 8, "grid lines per axis")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		lines.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	cfg := lines.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = lines.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	device, queue, cleanup, err := openDevice()
	if err != nil {
		log.Fatalf("Failed to open device: %v", err)
	}
	defer cleanup()

	ctx := lines.NewHeadlessContext(device, queue, *width, *height)

	loader, err := gltf.NewLoader(ctx)
	if err != nil {
		log.Fatalf("Failed to create model loader: %v", err)
	}
	cache, err := assets.GetOrInit(ctx, loader, assets.WithConfig(cfg.Assets))
	if err != nil {
		log.Fatalf("Failed to load models: %v", err)
	}
	log.Printf("Loaded %s", cache)

	grid := gridSegments(*segments, cfg.Renderer.MaxBufferSize)
	r, err := lines.NewRenderer(ctx, cfg.Renderer.LineWidth,
		lines.WithConfig(cfg),
		lines.WithLines(grid))
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer r.Destroy()

	target, view, err := createTarget(device, *width, *height)
	if err != nil {
		log.Fatalf("Failed to create target: %v", err)
	}
	defer func() {
		device.DestroyTextureView(view)
		device.DestroyTexture(target)
	}()

	aspect := float32(*width) / float32(*height)
	proj := mgl32.Perspective(mgl32.DegToRad(45), aspect, 0.1, 100)
	eye := mgl32.LookAtV(mgl32.Vec3{0, 3, 6}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})

	for i := 0; i < *frames; i++ {
		angle := mgl32.DegToRad(float32(i) * 360 / float32(*frames))
		r.SetRotation(mgl32.QuatRotate(angle, mgl32.Vec3{0, 1, 0}))
		if err := r.DrawFrame(view, proj, eye); err != nil {
			log.Fatalf("Frame %d failed: %v", i, err)
		}
	}

	log.Printf("Rendered %d frames of %d segments (%dx%d)\n", *frames, r.IndexCount()/2, *width, *height)
}

// gridSegments returns n lines along each of x and z on the unit square
// centered at the origin, clipped to what fits a buffer of capacity bytes.
func gridSegments(n int, capacity uint64) []lines.Segment {
	maxSegments := int(capacity / lines.SegmentVertexBytes) //nolint:gosec // small
	if n < 2 {
		n = 2
	}
	out := make([]lines.Segment, 0, 2*n)
	for i := 0; i < n && len(out)+2 <= maxSegments; i++ {
		t := float32(i)/float32(n-1)*2 - 1
		out = append(out,
			lines.SegmentBetween(mgl32.Vec3{t, 0, -1}, mgl32.Vec3{t, 0, 1}),
			lines.SegmentBetween(mgl32.Vec3{-1, 0, t}, mgl32.Vec3{1, 0, t}))
	}
	return out
}

func openDevice() (hal.Device, hal.Queue, func(), error) {
	instance, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, err
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, err
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

func createTarget(device hal.Device, w, h int) (hal.Texture, hal.TextureView, error) {
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "linesdemo_target",
		Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // flag values
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:     "linesdemo_target_view",
		Format:    gputypes.TextureFormatBGRA8Unorm,
		Dimension: gputypes.TextureViewDimension2D,
		Aspect:    gputypes.TextureAspectAll,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return nil, nil, err
	}
	return tex, view, nil
}
