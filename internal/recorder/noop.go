package recorder

import "StockApp/internal/model"

// NoopRecorder is used when no archive is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSamples(_ []model.Sample) error { return nil }
func (n *NoopRecorder) Close() error                         { return nil }
