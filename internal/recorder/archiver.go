package recorder

import (
	"sync"

	"StockApp/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Archiver is a feed observer that forwards samples it has not yet recorded.
type Archiver struct {
	rec    Recorder
	logger *zap.Logger

	mu       sync.Mutex
	lastID   uuid.UUID
	recorded int
}

func NewArchiver(rec Recorder, logger *zap.Logger) *Archiver {
	return &Archiver{rec: rec, logger: logger}
}

// Observe records every sample after the last one already written. If that
// sample has left the window the whole snapshot is offered again; the
// recorder drops duplicates.
func (a *Archiver) Observe(snapshot []model.Sample) {
	if len(snapshot) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	fresh := snapshot
	for i := len(snapshot) - 1; i >= 0; i-- {
		if snapshot[i].ID == a.lastID {
			fresh = snapshot[i+1:]
			break
		}
	}
	if len(fresh) == 0 {
		return
	}

	if err := a.rec.RecordSamples(fresh); err != nil {
		a.logger.Error("record samples", zap.Error(err), zap.Int("count", len(fresh)))
		return
	}
	a.lastID = fresh[len(fresh)-1].ID
	a.recorded += len(fresh)
}

// Recorded returns how many samples have been forwarded successfully.
func (a *Archiver) Recorded() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recorded
}
