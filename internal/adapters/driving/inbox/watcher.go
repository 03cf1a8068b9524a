// Package inbox ingests page files dropped into a directory.
//
// Each *.json file holds one page in the same shape the HTTP API accepts:
//
//	{"url": "...", "title": "...", "content": "...", "mime_type": "text/html"}
//
// Binary content such as a PDF goes in content_base64 instead of content.
// After ingestion a file is moved to processed/, or to failed/ if it could
// not be read or indexed.
package inbox

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/webrecall/internal/core/domain"
	"github.com/custodia-labs/webrecall/internal/core/ports/driving"
	"github.com/custodia-labs/webrecall/internal/logger"
)

// Subdirectories files are moved into.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// DefaultSettle is how long a file must be quiet before it is read.
const DefaultSettle = 250 * time.Millisecond

const pageExt = ".json"

// pageFile is the on-disk page format.
type pageFile struct {
	URL           string `json:"url"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	ContentBase64 string `json:"content_base64"`
	MIMEType      string `json:"mime_type"`
}

// Outcome reports what happened to one file.
type Outcome struct {
	Path   string
	Result *domain.IngestResult
	Err    error
}

// Watcher ingests page files from a directory.
type Watcher struct {
	dir    string
	ingest driving.IngestService
	settle time.Duration

	// OnOutcome, if set, is called after each file is handled.
	OnOutcome func(Outcome)

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher for dir, creating it and its subdirectories.
func New(dir string, ingest driving.IngestService) (*Watcher, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("inbox directory: %w", domain.ErrInvalidInput)
	}
	if ingest == nil {
		return nil, errors.New("inbox: ingest service is required")
	}
	for _, sub := range []string{"", ProcessedDir, FailedDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0700); err != nil {
			return nil, fmt.Errorf("create inbox directory: %w", err)
		}
	}
	return &Watcher{
		dir:     dir,
		ingest:  ingest,
		settle:  DefaultSettle,
		pending: make(map[string]*time.Timer),
	}, nil
}

// SetSettle changes the quiet period before a file is read.
func (w *Watcher) SetSettle(d time.Duration) {
	w.settle = d
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Scan ingests every page file already in the directory, in name order.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return 0, fmt.Errorf("read inbox: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isPageFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		w.process(ctx, filepath.Join(w.dir, name))
	}
	return len(names), nil
}

// Run scans existing files, then ingests new ones until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	if n, err := w.Scan(ctx); err != nil {
		return err
	} else if n > 0 {
		logger.Info("inbox: processed %d waiting files", n)
	}
	logger.Info("inbox: watching %s", w.dir)

	ready := make(chan string, 16)
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.relevant(ev); ok {
				w.schedule(path, ready, ctx.Done())
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("inbox: watcher error: %v", err)
		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

// relevant reports whether ev should trigger ingestion of its file.
func (w *Watcher) relevant(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if filepath.Dir(ev.Name) != filepath.Clean(w.dir) || !isPageFile(filepath.Base(ev.Name)) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || info.IsDir() {
		return "", false
	}
	return ev.Name, true
}

// schedule queues path once it has been quiet for the settle period.
func (w *Watcher) schedule(path string, ready chan<- string, done <-chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-done:
		}
	})
}

func (w *Watcher) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// process ingests one file and moves it out of the inbox.
func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		// Already moved by an earlier event.
		return
	}

	result, err := w.ingestFile(ctx, path)
	dest := ProcessedDir
	if err != nil {
		dest = FailedDir
		logger.Warn("inbox: %s: %v", filepath.Base(path), err)
	} else {
		logger.Info("inbox: %s: %s", filepath.Base(path), result.Message)
	}

	if moveErr := w.move(path, dest); moveErr != nil {
		logger.Error("inbox: move %s: %v", filepath.Base(path), moveErr)
		if err == nil {
			err = moveErr
		}
	}

	if w.OnOutcome != nil {
		w.OnOutcome(Outcome{Path: path, Result: result, Err: err})
	}
}

func (w *Watcher) ingestFile(ctx context.Context, path string) (*domain.IngestResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page file: %w", err)
	}
	page, err := decodePage(data)
	if err != nil {
		return nil, err
	}
	return w.ingest.Ingest(ctx, page)
}

// decodePage parses a page file.
func decodePage(data []byte) (domain.Page, error) {
	var f pageFile
	if err := json.Unmarshal(data, &f); err != nil {
		return domain.Page{}, fmt.Errorf("decode page file: %w: %w", domain.ErrInvalidInput, err)
	}

	content := []byte(f.Content)
	if f.ContentBase64 != "" {
		raw, err := base64.StdEncoding.DecodeString(f.ContentBase64)
		if err != nil {
			return domain.Page{}, fmt.Errorf("decode content_base64: %w: %w", domain.ErrInvalidInput, err)
		}
		content = raw
	}

	return domain.Page{
		URL:      f.URL,
		Title:    f.Title,
		Content:  content,
		MIMEType: f.MIMEType,
	}, nil
}

// move renames path into the sub directory, keeping existing files.
func (w *Watcher) move(path, sub string) error {
	name := filepath.Base(path)
	target := filepath.Join(w.dir, sub, name)
	if _, err := os.Stat(target); err == nil {
		ext := filepath.Ext(name)
		target = filepath.Join(w.dir, sub,
			fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), time.Now().UnixNano(), ext))
	}
	return os.Rename(path, target)
}

func isPageFile(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), pageExt)
}
