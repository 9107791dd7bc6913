package demoruns

import "time"

// Config holds configuration for the demo run.
type Config struct {
	BaseURL      string        // Base URL of the service
	FramesMin    int           // Shortest generated recording, in frames
	FramesMax    int           // Longest generated recording, in frames
	TargetFrames int           // Requested profile length; 0 lets the engine pick
	Probes       int           // Number of probe runs to score against the profile
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	OutputFile   string        // Output file for the session artifacts
	LogFile      string        // Log file for demo output
	Verbose      bool          // Enable verbose logging
}

// Point is one tracked landmark in a single frame.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"confidence"`
}

// Snapshot is all landmarks captured in one frame.
type Snapshot struct {
	Points []Point `json:"points"`
}

// Recording is a time-ordered sequence of snapshots.
type Recording struct {
	Snapshots []Snapshot `json:"snapshots"`
}

// Profile mirrors the engine's profile payload.
type Profile struct {
	Template               []Point    `json:"template"`
	Tolerance              []Point    `json:"tolerance"`
	RepresentativeIndex    int        `json:"representative_index"`
	RepresentativeDistance float64    `json:"representative_distance"`
	NormalizedFrameCount   int        `json:"normalized_frame_count"`
	OriginalFrameCounts    []int      `json:"original_frame_counts"`
	TemplateFrames         []Snapshot `json:"template_frames,omitempty"`
	ToleranceFrames        []Snapshot `json:"tolerance_frames,omitempty"`
	Source                 string     `json:"source,omitempty"`
	Version                string     `json:"version,omitempty"`
}

// ScoreResult mirrors the engine's scoring payload.
type ScoreResult struct {
	TotalError           float64   `json:"total_error"`
	MeanError            float64   `json:"mean_error"`
	MaxError             float64   `json:"max_error"`
	FrameErrors          []float64 `json:"frame_errors"`
	NormalizedFrameCount int       `json:"normalized_frame_count"`
}

// Descriptor mirrors the engine's root response.
type Descriptor struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
	Engine    struct {
		LandmarkCount        int `json:"landmark_count"`
		RecordingsPerProfile int `json:"recordings_per_profile"`
	} `json:"engine"`
}

// Stats holds demo statistics.
type Stats struct {
	RecordingsGenerated int
	FramesGenerated     int
	ProbesScored        int
	ProbesFailed        int
	BestProbeError      float64
	WorstProbeError     float64
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
