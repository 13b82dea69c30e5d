// Package annotate provides the public API for embedding the go-annotate
// screen annotation overlay. It wires the annotation core, the overlay
// window, configuration loading and export behind one Overlay value with
// full lifecycle management.
//
// # Basic Usage
//
//	o, err := annotate.New("/path/to/config.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := o.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// Run keeps the window on the calling goroutine. Start runs it in the
// background instead and returns immediately.
//
// # Configuration Sources
//
//   - Disk file: use [New]; it can be watched with Options.WatchConfig
//   - Embedded FS: use [NewFromFS]
//   - io.Reader: use [NewFromReader]
//   - In memory: use [NewFromConfig]
//
// # Headless Mode
//
// With Options.Headless no window is opened. Input is fed through the
// pointer methods and frames are advanced with Tick:
//
//	cfg := annotate.DefaultConfig()
//	cfg.Window.Width, cfg.Window.Height = 1280, 720
//	o, _ := annotate.NewFromConfig(&cfg, &annotate.Options{Headless: true})
//	o.SetMode(annotate.ModePen)
//	o.PointerDown(annotate.MousePointer, 10, 10)
//	o.PointerMove(annotate.MousePointer, 50, 40)
//	o.PointerUp(annotate.MousePointer, 50, 40)
//	path, err := o.Export(annotate.FormatPNG)
//
// # Error Handling
//
// Runtime errors are reported through [ErrorHandler]. Handlers are called
// asynchronously; do not block in them.
package annotate
