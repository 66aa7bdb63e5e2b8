package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/quarrylabs/quarry-cli/internal/core/ports/driving"
	"github.com/quarrylabs/quarry-cli/internal/logger"
)

// watchSettleDelay is how long a path must stay quiet before it is
// uploaded. Copying a file emits CREATE followed by one or more WRITE
// events; the delay collapses the burst into a single upload.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and upload new text files",
	Long: `Watches a directory and uploads text and markdown files as they
are created or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("checking directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deb := newDebouncer(watchSettleDelay)
	defer deb.Close()

	cmd.Printf("Watching %s (press Ctrl+C to stop)\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopping.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !watchable(event.Name) {
				continue
			}
			deb.Touch(event.Name)

		case path := <-deb.Ready():
			if err := uploadWatched(ctx, cmd, path); err != nil {
				logger.Warn("Upload of %s failed: %v", path, err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// debouncer coalesces event bursts for the same path into a single
// notification once the path has been quiet for the delay.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
	ready  chan string
	closed bool
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
		ready:  make(chan string, 16),
	}
}

// Touch records activity on a path, resetting its quiet period.
func (d *debouncer) Touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if t, ok := d.timers[path]; ok {
		t.Reset(d.delay)
		return
	}
	d.timers[path] = time.AfterFunc(d.delay, func() { d.fire(path) })
}

func (d *debouncer) fire(path string) {
	d.mu.Lock()
	delete(d.timers, path)
	closed := d.closed
	d.mu.Unlock()
	if !closed {
		d.ready <- path
	}
}

// Ready delivers paths whose quiet period has elapsed.
func (d *debouncer) Ready() <-chan string {
	return d.ready
}

// Close stops all pending timers. Paths not yet delivered are dropped.
func (d *debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}

// watchable reports whether the file should be picked up.
func watchable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text", ".md", ".markdown":
		return true
	default:
		return false
	}
}

func uploadWatched(ctx context.Context, cmd *cobra.Command, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := ingestService.Upload(ctx, driving.UploadParams{
		OwnerID:     currentOwner(),
		Filename:    filepath.Base(path),
		ContentType: inferContentType(path),
		Content:     content,
	})
	if err != nil {
		return err
	}

	cmd.Printf("Uploaded %s as document %s\n", doc.Filename, doc.ID)
	return nil
}
