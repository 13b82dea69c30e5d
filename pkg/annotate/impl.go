package annotate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/opd-ai/go-annotate/internal/canvas"
	"github.com/opd-ai/go-annotate/internal/config"
	"github.com/opd-ai/go-annotate/internal/export"
	"github.com/opd-ai/go-annotate/internal/ink"
	"github.com/opd-ai/go-annotate/internal/profiling"
	"github.com/opd-ai/go-annotate/internal/tool"
)

// renderer is the part of the window host the overlay reconfigures on reload.
type renderer interface {
	SetBrushSizes(sizes []float64)
}

// overlayImpl is the private implementation of the Overlay interface.
type overlayImpl struct {
	// Configuration
	opts         Options
	configSource string
	configPath   string // empty unless loaded from a file on disk
	configLoader func() (*config.Config, error)
	session      string

	// Components
	logger   Logger
	metrics  *Metrics
	canvas   *canvas.Canvas
	memwatch *profiling.MemoryWatch
	capture  *CircuitBreaker

	// State
	running   atomic.Bool
	lastError atomic.Value // stores error

	// Handlers
	errorHandler ErrorHandler
	eventHandler EventHandler

	// Guarded by mu. Canvas methods are never called with mu held for
	// writing, since the canvas observer reads handlers under mu.
	mu         sync.RWMutex
	cfg        *config.Config
	startTime  time.Time
	lastExport string
	game       renderer
	watcher    *configWatcher
	cancel     context.CancelFunc
	done       chan struct{}
	runErr     error
}

// Verify interface implementation at compile time.
var _ Overlay = (*overlayImpl)(nil)

func newOverlay(cfg *config.Config, opts *Options, source, path string, loader func() (*config.Config, error)) (Overlay, error) {
	if opts == nil {
		defaultOpts := DefaultOptions()
		opts = &defaultOpts
	}

	o := &overlayImpl{
		cfg:          cfg,
		opts:         *opts,
		configSource: source,
		configPath:   path,
		configLoader: loader,
		session:      uuid.NewString(),
	}

	logger := opts.Logger
	if logger == nil {
		logger = NopLogger()
	}
	o.logger = withFields(logger, "session", o.session)

	if err := o.validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o.metrics = opts.Metrics
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}

	seed := cfg.Particles.Seed
	if opts.Seed != 0 {
		seed = opts.Seed
	}
	bg := cfg.Ink.Background
	o.canvas = canvas.New(canvas.Options{
		Width:        float64(cfg.Window.Width),
		Height:       float64(cfg.Window.Height),
		Seed:         seed,
		EraserRadius: cfg.Ink.EraserRadius,
		Tool: tool.Options{
			Mode:            cfg.Ink.StartMode,
			PenColor:        cfg.Ink.PenColor,
			PenSize:         cfg.Ink.PenSize,
			HighlighterSize: cfg.Ink.HighlighterSize,
			Background:      &bg,
			ParticleKind:    cfg.Particles.Kind,
			Observer:        coreObserver{o},
		},
	})
	o.metrics.setSource(o.canvas.Stats)

	o.memwatch = profiling.NewMemoryWatch(profiling.WatchConfig{})
	o.memwatch.OnGrowth(func(g profiling.Growth) {
		o.logger.Warn("memory growth", "growth", g.String())
	})

	o.capture = NewCircuitBreaker(CircuitBreakerConfig{
		OnStateChange: func(from, to CircuitState) {
			o.logger.Warn("screen capture circuit changed", "from", from, "to", to)
		},
	})

	o.logger.Debug("overlay created", "source", source)
	return o, nil
}

// validate logs warnings and returns the validation errors of cfg.
func (o *overlayImpl) validate(cfg *config.Config) error {
	result := config.NewValidator().Validate(cfg)
	for _, w := range result.Warnings {
		o.logger.Warn("config warning", "field", w.Field, "message", w.Message)
	}
	return result.Error()
}

// Start opens the overlay and returns once the loop goroutine is running.
func (o *overlayImpl) Start() error {
	run, err := o.begin()
	if err != nil {
		return err
	}
	go run()
	return nil
}

// Run starts the overlay and runs its loop on the calling goroutine until
// the overlay stops. Use it from main when the windowing system needs the
// main thread.
func (o *overlayImpl) Run() error {
	run, err := o.begin()
	if err != nil {
		return err
	}
	run()
	return o.Wait()
}

// begin marks the overlay running and returns the loop body.
func (o *overlayImpl) begin() (func(), error) {
	o.mu.Lock()
	if o.running.Load() {
		o.mu.Unlock()
		return nil, ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	o.cancel = cancel
	o.done = done
	o.runErr = nil
	o.startTime = time.Now()
	o.running.Store(true)
	path := o.configPath
	o.mu.Unlock()

	o.metrics.IncrementStarts()
	o.metrics.SetRunning(true)
	o.memwatch.Start()
	if o.opts.WatchConfig && path != "" {
		o.startWatcher(ctx, path)
	}

	o.logger.Info("overlay started", "headless", o.opts.Headless, "source", o.configSource)
	o.emitEvent(EventStarted, "Instance started")

	return func() {
		defer close(done)

		var err error
		if o.opts.Headless {
			<-ctx.Done()
		} else {
			err = o.runRenderLoop(ctx)
			// The window may close on its own, for example on the quit key.
			cancel()
		}

		o.stopWatcher()
		o.memwatch.Stop()

		o.mu.Lock()
		o.runErr = err
		o.game = nil
		o.mu.Unlock()

		o.running.Store(false)
		o.metrics.SetRunning(false)
		o.logger.Info("overlay stopped")
		o.emitEvent(EventStopped, "Instance stopped")
	}, nil
}

// Stop cancels the loop and waits for it to exit.
func (o *overlayImpl) Stop() error {
	if !o.running.Load() {
		return nil
	}

	o.mu.RLock()
	cancel, done := o.cancel, o.done
	o.mu.RUnlock()
	if cancel != nil {
		cancel()
	}

	timeout := o.opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}

	select {
	case <-done:
		o.metrics.IncrementStops()
		return nil
	case <-time.After(timeout):
		err := fmt.Errorf("shutdown timeout after %v: render loop did not stop", timeout)
		o.notifyError(err)
		return err
	}
}

// Wait blocks until the current or last run has ended.
func (o *overlayImpl) Wait() error {
	o.mu.RLock()
	done := o.done
	o.mu.RUnlock()
	if done == nil {
		return ErrNotRunning
	}
	<-done

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.runErr
}

// ReloadConfig parses the configuration source again and applies the
// reloadable settings. It works on stopped overlays too.
func (o *overlayImpl) ReloadConfig() error {
	if o.configLoader == nil {
		return ErrNoConfigSource
	}

	newCfg, err := o.configLoader()
	if err == nil {
		err = o.validate(newCfg)
	}
	if err != nil {
		wrappedErr := fmt.Errorf("config reload failed: %w", err)
		o.notifyError(wrappedErr)
		return wrappedErr
	}

	o.mu.Lock()
	oldCfg := o.cfg
	o.cfg = newCfg
	game := o.game
	o.mu.Unlock()

	if config.ReloadableChanged(oldCfg, newCfg) {
		o.applyConfig(newCfg, game)
	}

	o.metrics.IncrementConfigReloads()
	o.logger.Info("configuration reloaded", "source", o.configSource)
	o.emitEvent(EventConfigReloaded, "Configuration reloaded")
	return nil
}

// applyConfig pushes the drawing settings of cfg into the running core.
// The current tool mode and window geometry are left alone.
func (o *overlayImpl) applyConfig(cfg *config.Config, game renderer) {
	o.canvas.SetColor(cfg.Ink.PenColor)
	o.canvas.SetPenSize(cfg.Ink.PenSize)
	o.canvas.SetHighlighterSize(cfg.Ink.HighlighterSize)
	o.canvas.SetEraserRadius(cfg.Ink.EraserRadius)
	o.canvas.SetBackground(cfg.Ink.Background)
	o.canvas.SetParticleKind(cfg.Particles.Kind)
	if game != nil {
		game.SetBrushSizes(cfg.Ink.BrushSizes)
	}
}

func (o *overlayImpl) startWatcher(ctx context.Context, path string) {
	w, err := watchConfigFile(path, o.opts.ConfigDebounce)
	if err != nil {
		o.notifyError(fmt.Errorf("failed to watch config: %w", err))
		return
	}
	o.mu.Lock()
	o.watcher = w
	o.mu.Unlock()

	// ReloadConfig reports its own errors.
	reload := func() {
		if err := o.ReloadConfig(); err != nil {
			o.logger.Warn("config reload on change failed", "error", err)
		}
	}
	go w.Run(ctx, reload, func(err error) {
		o.notifyError(fmt.Errorf("config watcher: %w", err))
	})
	o.logger.Debug("watching configuration", "path", path)
}

// stopWatcher waits for the watcher to exit. The run context must already
// be cancelled.
func (o *overlayImpl) stopWatcher() {
	o.mu.Lock()
	w := o.watcher
	o.watcher = nil
	o.mu.Unlock()
	if w != nil {
		<-w.Done()
	}
}

// IsRunning returns true if the overlay loop is active.
func (o *overlayImpl) IsRunning() bool {
	return o.running.Load()
}

// Status returns detailed status information about the instance.
func (o *overlayImpl) Status() Status {
	stats := o.canvas.Stats()
	mode := o.canvas.Mode()

	o.mu.RLock()
	startTime := o.startTime
	lastExport := o.lastExport
	o.mu.RUnlock()

	return Status{
		Running:      o.running.Load(),
		Headless:     o.opts.Headless,
		StartTime:    startTime,
		Mode:         mode,
		Strokes:      stats.Strokes,
		Particles:    stats.Particles,
		Frames:       stats.Frames,
		LastError:    o.getError(),
		LastExport:   lastExport,
		ConfigSource: o.configSource,
	}
}

// SetErrorHandler registers a callback for runtime errors.
func (o *overlayImpl) SetErrorHandler(handler ErrorHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.errorHandler = handler
}

// SetEventHandler registers a callback for lifecycle events.
func (o *overlayImpl) SetEventHandler(handler EventHandler) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.eventHandler = handler
}

func (o *overlayImpl) SetMode(m Mode)                 { o.canvas.SetMode(m) }
func (o *overlayImpl) Mode() Mode                     { return o.canvas.Mode() }
func (o *overlayImpl) SetColor(c color.RGBA)          { o.canvas.SetColor(c) }
func (o *overlayImpl) SetBrushSize(size float64)      { o.canvas.SetBrushSize(size) }
func (o *overlayImpl) SetBackground(c color.RGBA)     { o.canvas.SetBackground(c) }
func (o *overlayImpl) SetParticleKind(k ParticleKind) { o.canvas.SetParticleKind(k) }
func (o *overlayImpl) Clear()                         { o.canvas.Clear() }
func (o *overlayImpl) StrokeCount() int               { return o.canvas.StrokeCount() }
func (o *overlayImpl) ParticleCount() int             { return o.canvas.ParticleCount() }
func (o *overlayImpl) Tick() bool                     { return o.canvas.Tick() }

func (o *overlayImpl) PointerDown(id PointerID, x, y float64) {
	o.canvas.PointerDown(id, ink.Point{X: x, Y: y})
}

func (o *overlayImpl) PointerMove(id PointerID, x, y float64) {
	o.canvas.PointerMove(id, ink.Point{X: x, Y: y})
}

func (o *overlayImpl) PointerUp(id PointerID, x, y float64) {
	o.canvas.PointerUp(id, ink.Point{X: x, Y: y})
}

func (o *overlayImpl) PointerCancel(id PointerID) {
	o.canvas.PointerCancel(id)
}

// Export writes the persisted strokes at the current surface size.
func (o *overlayImpl) Export(format Format) (string, error) {
	start := time.Now()

	o.mu.RLock()
	exp := o.cfg.Export
	win := o.cfg.Window
	o.mu.RUnlock()

	w, h := o.canvas.Size()
	opts := export.Options{
		Width:      int(w),
		Height:     int(h),
		Background: o.canvas.Background(),
	}
	if exp.Backdrop && opts.Width > 0 && opts.Height > 0 {
		img, err := o.captureBackdrop(win.X, win.Y, opts.Width, opts.Height)
		if err != nil {
			o.logger.Warn("backdrop capture failed, exporting ink only", "error", err)
		} else {
			opts.Backdrop = img
		}
	}

	exporter := export.Exporter{Dir: exp.Dir}
	path, err := exporter.Export(format, o.canvas.Strokes(), opts)
	if err != nil {
		wrappedErr := fmt.Errorf("export %s: %w", format, err)
		o.notifyError(wrappedErr)
		return "", wrappedErr
	}

	o.metrics.RecordExport(time.Since(start))
	o.mu.Lock()
	o.lastExport = path
	o.mu.Unlock()

	o.logger.Info("exported", "format", format, "path", path, "strokes", o.canvas.StrokeCount())
	o.emitEvent(EventExported, path)
	return path, nil
}

// captureBackdrop grabs the screen region under the overlay through the
// capture circuit breaker.
func (o *overlayImpl) captureBackdrop(x, y, width, height int) (image.Image, error) {
	var img image.Image
	err := o.capture.Execute(func() error {
		shot, err := captureScreen(x, y, width, height)
		if err != nil {
			return err
		}
		img = shot
		return nil
	})
	return img, err
}

// getError retrieves the last error.
func (o *overlayImpl) getError() error {
	if v := o.lastError.Load(); v != nil {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// notifyError stores an error and invokes the error handler if registered.
func (o *overlayImpl) notifyError(err error) {
	o.lastError.Store(err)
	o.metrics.IncrementErrors()
	o.logger.Error("runtime error", "error", err)

	o.mu.RLock()
	handler := o.errorHandler
	o.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					o.logger.Error("error handler panicked", "panic", r, "original_error", err)
				}
			}()
			handler(err)
		}()
	}

	o.emitEvent(EventError, err.Error())
}

// emitEvent sends an event to the event handler if configured.
func (o *overlayImpl) emitEvent(eventType EventType, message string) {
	o.metrics.IncrementEventsEmitted()

	o.mu.RLock()
	handler := o.eventHandler
	o.mu.RUnlock()

	if handler != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					o.mu.RLock()
					errHandler := o.errorHandler
					o.mu.RUnlock()
					err := fmt.Errorf("panic in event handler: %v", r)
					if e, ok := r.(error); ok {
						err = fmt.Errorf("panic in event handler: %w", e)
					}
					o.logger.Error("event handler panicked", "error", err)
					if errHandler != nil {
						func() {
							defer func() {
								if r := recover(); r != nil {
									o.logger.Error("error handler panicked", "panic", r, "original_error", err)
								}
							}()
							errHandler(err)
						}()
					}
				}
			}()

			handler(Event{
				Type:      eventType,
				Timestamp: time.Now(),
				Message:   message,
			})
		}()
	}
}

// Health returns a health check result for the overlay.
func (o *overlayImpl) Health() HealthCheck {
	now := time.Now()
	running := o.running.Load()

	var uptime time.Duration
	o.mu.RLock()
	if running && !o.startTime.IsZero() {
		uptime = now.Sub(o.startTime)
	}
	backdrop := o.cfg.Export.Backdrop
	o.mu.RUnlock()

	lastErr := o.getError()
	growth, sampled := o.memwatch.Growth()
	components := map[string]ComponentHealth{
		"instance": instanceHealth(running),
		"canvas":   canvasHealth(o.canvas.Stats()),
		"memory":   memoryHealth(growth, sampled),
		"errors":   errorsHealth(lastErr),
	}
	if backdrop {
		components["capture"] = captureHealth(o.capture.State(), o.capture.LastError())
	}
	status, message := summarize(running, lastErr, components, now)

	return HealthCheck{
		Status:     status,
		Timestamp:  now,
		Uptime:     uptime,
		Components: components,
		Message:    message,
	}
}

// Metrics returns the metrics collector for this instance.
func (o *overlayImpl) Metrics() *Metrics {
	return o.metrics
}
