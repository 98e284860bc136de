package recorder

import "StockApp/internal/model"

// Recorder archives samples for later analysis. The archive is write-only
// from the app's point of view: nothing is reloaded at startup.
type Recorder interface {
	RecordSamples(samples []model.Sample) error
	Close() error
}
