package render

import (
	"io"
	"sync"

	"StockApp/internal/catalog"
	"StockApp/internal/model"

	"go.uber.org/zap"
)

const clearScreen = "\033[H\033[2J"

// Options controls the chart size and terminal handling.
type Options struct {
	Width       int
	Height      int
	ClearScreen bool
}

// Renderer redraws the chart, price label and company list on every feed change.
type Renderer struct {
	mu      sync.Mutex
	out     io.Writer
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger
	frames  int
}

func NewRenderer(out io.Writer, cat *catalog.Catalog, opts Options, logger *zap.Logger) *Renderer {
	return &Renderer{out: out, catalog: cat, opts: opts, logger: logger}
}

// Observe draws one frame for the snapshot. It satisfies feed.Observer.
func (r *Renderer) Observe(snapshot []model.Sample) {
	frame := FormatFrame(snapshot, r.catalog.Companies(), r.opts.Width, r.opts.Height)
	if r.opts.ClearScreen {
		frame = clearScreen + frame
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := io.WriteString(r.out, frame); err != nil {
		r.logger.Warn("render frame", zap.Error(err))
		return
	}
	r.frames++
}

// Frames returns the number of frames written.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}
