// Command raytracer is the CLI host for the spectral path tracer
// (spec.md §6's "reference host"): it parses flags, loads or builds a
// scene, drives a Progressive render, and persists the result. Grounded on
// the teacher's main.go (flag-based Config, createScene/renderProgressive
// split, CPU profiling via runtime/pprof), generalized from the teacher's
// built-in-scene switch and PNG-only output to a JSON scene loader, BMP +
// raw-accumulator persistence, and the optional tcell progress UI / MQTT
// telemetry sink SPEC_FULL.md's ambient stack adds.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/df07/spectral-path-tracer/pkg/config"
	"github.com/df07/spectral-path-tracer/pkg/core"
	"github.com/df07/spectral-path-tracer/pkg/integrator"
	"github.com/df07/spectral-path-tracer/pkg/renderer"
	"github.com/df07/spectral-path-tracer/pkg/scene"
)

// Exit codes per spec.md §6: "0 on success, 1 on argument error, 2 on
// init failure, 3 on render loop failure."
const (
	exitOK        = 0
	exitArgError  = 1
	exitInitError = 2
	exitRunError  = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		width         = flag.Int("w", 0, "window/image width (0 = scene/config default)")
		height        = flag.Int("h", 0, "window/image height (0 = derive from width and aspect ratio)")
		scenePath     = flag.String("s", "", "scene file path (JSON); built-in if omitted")
		dataDir       = flag.String("data", "", "asset root directory for texture/mesh lookups")
		debugRenderer = flag.Bool("debug-renderer", false, "default to the AOV debug integrator")
		packetTrace   = flag.Bool("p", false, "ray-packet traversal (stored in the config only; traversal is always per-ray)")
		configPath    = flag.String("config", "", "YAML config file (CLI flags override it)")
		set           = flag.String("set", "", "comma-separated key=value config overrides")
		integratorFlag = flag.String("integrator", "", "integrator: path-tracing, naive, bdpt, vcm, light-tracer, debug")
		outDir        = flag.String("out", "output", "output directory for rendered frames")
		cpuProfile    = flag.String("cpuprofile", "", "write CPU profile to file")
		noUI          = flag.Bool("no-ui", false, "disable the interactive progress display")
		builtinScene  = flag.String("builtin", "cornell", "built-in scene when -s is omitted: cornell, furnace, point-floor, dispersion, slit-bdpt, caustic-vcm")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitArgError
	}
	if err := cfg.ApplyOverrides(*set); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitArgError
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *scenePath != "" {
		cfg.Scene = *scenePath
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *debugRenderer {
		cfg.Integrator = "debug"
	}
	if *integratorFlag != "" {
		cfg.Integrator = *integratorFlag
	}
	cfg.Packet = cfg.Packet || *packetTrace

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "raytracer: creating cpu profile: %v\n", err)
			return exitInitError
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "raytracer: starting cpu profile: %v\n", err)
			return exitInitError
		}
		defer pprof.StopCPUProfile()
	}

	sampling := samplingFromConfig(cfg)
	sceneObj, err := loadScene(cfg, sampling, *builtinScene)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raytracer: %v\n", err)
		return exitInitError
	}

	integ, err := buildIntegrator(cfg, sampling)
	if err != nil {
		fmt.Fprintf(os.Stderr, "raytracer: %v\n", err)
		return exitInitError
	}

	var telemetry *renderer.Telemetry
	if cfg.MQTTBroker != "" {
		telemetry, err = renderer.NewTelemetry(cfg.MQTTBroker, cfg.MQTTTopic, "raytracer-host")
		if err != nil {
			fmt.Fprintf(os.Stderr, "raytracer: telemetry disabled: %v\n", err)
			telemetry = nil
		} else {
			defer telemetry.Close()
		}
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "raytracer: creating output dir: %v\n", err)
		return exitInitError
	}

	progConfig := renderer.DefaultProgressiveConfig()
	progConfig.MaxPasses = cfg.MaxPasses
	progConfig.MaxSamplesPerPixel = cfg.SamplesPerPixel
	progConfig.InitialSamples = cfg.InitialSamples
	progConfig.TileSize = cfg.TileSize
	progConfig.NumWorkers = cfg.NumWorkers

	progressive := renderer.NewProgressive(sceneObj, integ, sceneObj.Config.Width, sceneObj.Config.Height, sampling, progConfig, nil)

	ui := (*progressUI)(nil)
	if !*noUI {
		ui = newProgressUI()
		defer ui.close()
	}

	if err := renderLoop(progressive, *outDir, telemetry, ui); err != nil {
		fmt.Fprintf(os.Stderr, "raytracer: %v\n", err)
		return exitRunError
	}

	return exitOK
}

func samplingFromConfig(cfg config.RendererConfig) core.SamplingConfig {
	sampling := core.DefaultSamplingConfig()
	sampling.Width = cfg.Width
	sampling.Height = cfg.Height
	sampling.SamplesPerPixel = cfg.SamplesPerPixel
	sampling.MaxDepth = cfg.MaxDepth
	if cfg.AdaptiveMinSamples > 0 {
		sampling.AdaptiveMinSamples = cfg.AdaptiveMinSamples
	}
	if cfg.AdaptiveThreshold > 0 {
		sampling.AdaptiveThreshold = cfg.AdaptiveThreshold
	}
	if cfg.Spectral > 0 {
		sampling.SpectralBundleWidth = cfg.Spectral
	}
	return sampling
}

func loadScene(cfg config.RendererConfig, sampling core.SamplingConfig, builtin string) (*scene.Scene, error) {
	if cfg.Scene != "" {
		return scene.Load(cfg.Scene, sampling)
	}

	var s *scene.Scene
	switch builtin {
	case "furnace":
		s = scene.NewFurnaceScene(sampling)
	case "point-floor":
		s = scene.NewPointLightFloorScene(sampling)
	case "dispersion":
		s = scene.NewDispersionScene(sampling)
	case "slit-bdpt":
		s = scene.NewSlitSceneForBDPT(sampling)
	case "caustic-vcm":
		s = scene.NewCausticSceneForVCM(sampling)
	default:
		s = scene.NewCornellScene(sampling)
	}
	return s, nil
}


func buildIntegrator(cfg config.RendererConfig, sampling core.SamplingConfig) (integrator.Integrator, error) {
	switch cfg.Integrator {
	case "", "path-tracing":
		return integrator.NewPathTracing(sampling), nil
	case "naive":
		return integrator.NewNaive(sampling), nil
	case "bdpt":
		return integrator.NewBDPT(sampling), nil
	case "vcm":
		return integrator.NewVCM(sampling), nil
	case "light-tracer":
		return integrator.NewLightTracer(sampling), nil
	case "debug":
		return integrator.NewDebug(integrator.AOVShadingNormal), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", cfg.Integrator)
	}
}

// renderLoop drives the progressive render to completion, saving each pass
// (spec.md §5's progressive refinement: every pass is a complete,
// viewable frame) and the final HDR accumulator dump.
func renderLoop(p *renderer.Progressive, outDir string, telemetry *renderer.Telemetry, ui *progressUI) error {
	ctx := context.Background()
	passChan, tileChan, errChan := p.Render(ctx, renderer.RenderOptions{TileUpdates: ui != nil})

	timestamp := time.Now().Format("20060102_150405")
	for passChan != nil || tileChan != nil || errChan != nil {
		select {
		case result, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			ui.reportTile(result.PassNumber, result.TotalPasses, result.TileNumber, result.TotalTiles)

		case pass, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			ui.reportPass(pass.PassNumber, pass.Stats.AverageSamples)
			if telemetry != nil {
				if err := telemetry.PublishPass("raytracer-host", pass.PassNumber, pass.Stats); err != nil {
					fmt.Fprintf(os.Stderr, "raytracer: telemetry publish: %v\n", err)
				}
			}

			name := fmt.Sprintf("render_%s_pass_%02d.bmp", timestamp, pass.PassNumber)
			if pass.IsLast {
				name = fmt.Sprintf("render_%s.bmp", timestamp)
			}
			if err := saveBMP(filepath.Join(outDir, name), p.Film().ToneMappedImage(2.2)); err != nil {
				return fmt.Errorf("saving %s: %w", name, err)
			}
			if pass.IsLast {
				if err := saveHDR32(filepath.Join(outDir, fmt.Sprintf("render_%s.hdr32", timestamp)), p.Film()); err != nil {
					return fmt.Errorf("saving hdr accumulator: %w", err)
				}
			}

		case err, ok := <-errChan:
			if !ok {
				errChan = nil
				continue
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
