// Package overlay embeds a transparent, always-on-top overlay window whose
// input transparency follows the pointer: the window captures clicks while
// the pointer is over an interactive widget or a collider on a clickable
// layer, and lets them fall through to the desktop everywhere else.
//
// # Basic Usage
//
// Create an overlay from a Lua configuration file and run it on the main
// goroutine:
//
//	o, err := overlay.New("overlay.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := o.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Configuration Sources
//
//   - Disk file: Use [New]; an empty path uses the defaults
//   - Embedded FS: Use [NewFromFS] to load from an [io/fs.FS]
//   - io.Reader: Use [NewFromReader] for generated configurations
//
// # Headless Runs
//
// With [Options.Headless] the frame driver runs on a ticker without an
// ebiten window, against the headless window backend unless
// [Options.Backend] supplies another one. The pointer is read from the
// backend cursor.
//
// # Scene Reloading
//
// [Overlay.ReloadScene] swaps the overlay.scene section between frames.
// With [Options.WatchScene] a file watcher triggers it whenever the
// configuration file changes on disk.
//
// # Monitoring
//
// [Overlay.Status], [Overlay.Health], [Overlay.Metrics] and
// [Overlay.ErrorTracker] expose the running state. Use
// Metrics().RegisterExpvar() to publish counters on /debug/vars.
package overlay
