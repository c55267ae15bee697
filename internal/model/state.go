package model

// Phase represents where a run is in the fetch/download/convert lifecycle.
type Phase string

const (
	// PhaseIdle means no run is active.
	PhaseIdle Phase = "Idle"

	// PhaseFetching means a metadata probe is in flight.
	PhaseFetching Phase = "Fetching"

	// PhaseReady means a probe completed and a download can start.
	PhaseReady Phase = "ReadyToDownload"

	// PhaseAcquiring means the extraction engine is downloading media bytes.
	PhaseAcquiring Phase = "Acquiring"

	// PhaseConverting means the transcoder is re-encoding the download.
	PhaseConverting Phase = "Converting"

	// PhaseSucceeded means the run finished and the result file is on disk.
	PhaseSucceeded Phase = "Succeeded"

	// PhaseFailed means the run ended with a classified error.
	PhaseFailed Phase = "Failed"
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsActive returns true while external work is in flight.
func (p Phase) IsActive() bool {
	return p == PhaseFetching || p == PhaseAcquiring || p == PhaseConverting
}

// IsTerminal returns true for phases that end a run. A terminal phase is
// final until a new run begins.
func (p Phase) IsTerminal() bool {
	return p == PhaseSucceeded || p == PhaseFailed
}

// FractionIndeterminate marks progress whose total is unknown; the
// presentation layer shows an indeterminate indicator instead of a bar.
const FractionIndeterminate = -1.0

// ETAUnknown marks an unavailable ETA (speed zero or negligible).
const ETAUnknown = -1

// TransferState is a snapshot of one run's progress. The orchestrator is its
// sole writer; consumers only ever see copies handed to them, so no locking
// is involved on the read side.
type TransferState struct {
	RunID string
	Phase Phase

	// Fraction is completion in [0,1], or FractionIndeterminate.
	Fraction float64

	BytesTransferred int64
	BytesTotal       int64 // 0 when the source does not report a total

	SpeedBytesPerSec float64
	ETASeconds       int // ETAUnknown when not computable

	// ErrorDetail carries the human-readable cause for PhaseFailed.
	ErrorDetail string

	// OutputPath is the result file once the run succeeds.
	OutputPath string
}
