package model

// Outcome records how a track left the pipeline. Failed tracks get no
// outcome at all so they stay eligible for retry on a later run.
type Outcome string

const (
	// OutcomeDownloaded means the track was fetched and tagged.
	OutcomeDownloaded Outcome = "downloaded"

	// OutcomeDiscarded means the filter stage rejected the track on
	// purpose; it is recorded so it is never tried again.
	OutcomeDiscarded Outcome = "discarded"
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	return string(o)
}

// Downloaded reports whether the outcome is a successful download.
func (o Outcome) Downloaded() bool {
	return o == OutcomeDownloaded
}
