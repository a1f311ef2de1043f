package demo

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	gekko "github.com/gekko3d/firstshape"
)

// Runner executes the demo. Its fields are seams for tests; NewRunner fills
// them for a real process.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	// Logger overrides the stderr logger built from the flags.
	Logger gekko.Logger
	// CreateWindow opens the viewer window.
	CreateWindow func(*gekko.WindowTraits) (*gekko.WindowState, error)
	// Rand overrides the source seeded from --seed or the clock.
	Rand *rand.Rand
}

func NewRunner() *Runner {
	return &Runner{
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		CreateWindow: gekko.CreateWindow,
	}
}

func (r *Runner) random(s *Settings) *rand.Rand {
	if r.Rand != nil {
		return r.Rand
	}
	seed := uint64(time.Now().UnixNano())
	if s.HasSeed {
		seed = s.Seed
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Run parses args (without the program name) and returns the exit status.
func (r *Runner) Run(ctx context.Context, args []string) int {
	settings, arguments := ParseSettings(args)
	if len(arguments.Errors()) > 0 {
		return arguments.WriteErrorMessages(r.Stderr)
	}

	logger := r.Logger
	if logger == nil {
		logger = gekko.NewDefaultLoggerTo(r.Stderr, "firstshape", settings.Verbose || settings.Traits.DebugLayer)
	}

	options := gekko.NewOptions()
	options.Logger = logger
	options.SharedObjects = gekko.NewSharedObjects()
	if settings.Shared {
		logger.Debugf("using a fresh shared object cache")
	}

	builder := gekko.NewBuilder(options)
	if settings.CustomMaterial() {
		builder.ShaderSet = customShaderSet(settings, options, logger)
	}

	stateInfo := settings.StateInfo()
	stateInfo.Image = readImage(settings.ImageFile, options, logger)
	stateInfo.DisplacementMap = readImage(settings.DisplacementFile, options, logger)

	instances := GenerateInstances(r.random(settings), InstanceRequest{
		Count:        settings.Count,
		Billboard:    settings.Billboard,
		SpacingScale: settings.Dx.Len(),
		FloatColors:  settings.FloatColors,
	})
	result := AssembleScene(builder, settings.GeometryInfo(), stateInfo, instances)
	logger.Debugf("scene radius %.4g with %d instance(s)", result.Radius, instances.Count())

	if settings.OutputFilename != "" {
		if err := gekko.WriteScene(result.Scene, settings.OutputFilename, options); err != nil {
			logger.Errorf("%v", err)
			return 1
		}
		return 0
	}

	window, err := r.CreateWindow(settings.Traits)
	if err != nil {
		fmt.Fprintln(r.Stdout, "Could not create window.")
		logger.Debugf("%v", err)
		return 1
	}

	width, height := window.Extent()
	camera := PlaceCamera(result.Bound, result.Radius).Camera(width, height)

	app := gekko.NewAppBuilder().
		UseStates(gekko.StateRunning, gekko.StateClosing).
		UseModule(
			gekko.LoggingModule{Logger: logger},
			gekko.TimeModule{},
			gekko.PlatformWindowModule{Window: window},
			gekko.InputModule{},
			gekko.ViewerModule{Scene: result.Scene, Camera: camera, Stdout: r.Stdout},
			contextModule{ctx: ctx},
		).
		Build()
	app.Run()

	if viewer, ok := gekko.Resource[*gekko.Viewer](app); ok && viewer.Err != nil {
		return 1
	}
	return 0
}

func customShaderSet(settings *Settings, options *gekko.Options, logger gekko.Logger) *gekko.ShaderSet {
	shaderSet := gekko.CreatePhongShaderSet(options)
	binding := shaderSet.DescriptorBinding("material")
	if binding == nil {
		return shaderSet
	}
	mat := gekko.DefaultPhongMaterial()
	if settings.Specular != nil {
		logger.Infof("specular = %v", *settings.Specular)
		mat.Specular = *settings.Specular
	}
	if settings.Diffuse != nil {
		logger.Infof("diffuse = %v", *settings.Diffuse)
		mat.Diffuse = *settings.Diffuse
	}
	binding.Data = mat
	logger.Infof("using custom material %v", mat)
	return shaderSet
}

// readImage returns nil for an empty name or a file that cannot be read;
// the shape is then drawn untextured.
func readImage(name string, options *gekko.Options, logger gekko.Logger) *gekko.Image {
	if name == "" {
		return nil
	}
	img, err := gekko.ReadImage(name, options)
	if err != nil {
		logger.Warnf("%v", err)
		return nil
	}
	return img
}

// contextModule closes the viewer when ctx is cancelled.
type contextModule struct {
	ctx context.Context
}

func (m contextModule) Install(app *gekko.App, cmd *gekko.Commands) {
	ctx := m.ctx
	if ctx == nil {
		return
	}
	app.UseSystem(
		gekko.System(func(cmd *gekko.Commands) {
			if ctx.Err() != nil {
				cmd.Logger().Infof("interrupted")
				cmd.ChangeState(gekko.StateClosing)
			}
		}).
			InStage(gekko.PreUpdate).
			InState(gekko.OnExecute(gekko.StateRunning)),
	)
}
