package ghost

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithRecordingsPerProfile sets the exact number of recordings a build
// consumes. Non-positive values are ignored.
func WithRecordingsPerProfile(count int) Option {
	return func(b *Builder) {
		if count > 0 {
			b.recordingsPerProfile = count
		}
	}
}

// WithToleranceFloor sets the minimum tolerance channel value. Non-positive
// values are ignored.
func WithToleranceFloor(floor float64) Option {
	return func(b *Builder) {
		if floor > 0 {
			b.toleranceFloor = floor
		}
	}
}

// WithWorkers bounds the goroutines used for aggregation. Zero selects
// GOMAXPROCS; negative values are ignored.
func WithWorkers(count int) Option {
	return func(b *Builder) {
		if count >= 0 {
			b.workers = count
		}
	}
}
