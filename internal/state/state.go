package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/beingshakil/keyword-planner-tool/internal/analysis"
)

// ErrNothingLoaded is returned when an operation needs an imported file
var ErrNothingLoaded = errors.New("no keyword file loaded")

// Workspace holds the currently imported keyword file. Readers get the
// import result by pointer and must not modify it.
type Workspace struct {
	mu sync.RWMutex

	importer *analysis.Importer
	current  *analysis.ImportResult
	// raw upload, kept so another workbook sheet can be decoded later
	raw []byte
}

// NewWorkspace creates an empty workspace
func NewWorkspace(importer *analysis.Importer) *Workspace {
	return &Workspace{importer: importer}
}

// Load imports data and makes it current. On failure the previous file stays loaded.
func (w *Workspace) Load(ctx context.Context, fileName string, data []byte, sheet string) (*analysis.ImportResult, error) {
	res, err := w.importer.Import(ctx, fileName, data, sheet)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = res
	w.raw = data
	return res, nil
}

// Current returns the loaded file or nil
func (w *Workspace) Current() *analysis.ImportResult {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// SwitchSheet re-imports the loaded workbook using another sheet
func (w *Workspace) SwitchSheet(ctx context.Context, sheet string) (*analysis.ImportResult, error) {
	w.mu.RLock()
	cur, raw := w.current, w.raw
	w.mu.RUnlock()

	if cur == nil {
		return nil, ErrNothingLoaded
	}
	if sheet == cur.CurrentSheet {
		return cur, nil
	}
	if cur.Format != analysis.FormatWorkbook {
		return nil, fmt.Errorf("%w: %q", analysis.ErrSheetNotFound, sheet)
	}

	return w.Load(ctx, cur.FileName, raw, sheet)
}

// Clear unloads the current file
func (w *Workspace) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.current = nil
	w.raw = nil
}
