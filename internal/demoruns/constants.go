package demoruns

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	// distanceSlack bounds the relative drift tolerated when the demo
	// recomputes a distance the engine already reported.
	distanceSlack = 1e-9
)
