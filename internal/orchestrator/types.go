package orchestrator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/assessd/internal/alignment"
	"github.com/fyrsmithlabs/assessd/internal/scoring"
)

// State is a lifecycle stage of one assessment run.
type State string

const (
	StateNew                    State = "NEW"
	StateRegistered             State = "REGISTERED"
	StatePreprocessing          State = "PREPROCESSING"
	StateActiveAnalysis         State = "ACTIVE_ANALYSIS"
	StateCrossCategoryAlignment State = "CROSS_CATEGORY_ALIGNMENT"
	StateCompleted              State = "COMPLETED"
	StateFailed                 State = "FAILED"
)

// AllStates returns the success-path states in lifecycle order. StateFailed
// is reachable from any non-terminal state and is not part of the sequence.
func AllStates() []State {
	return []State{
		StateNew,
		StateRegistered,
		StatePreprocessing,
		StateActiveAnalysis,
		StateCrossCategoryAlignment,
		StateCompleted,
	}
}

// CanTransition reports whether a run may move from one state to another.
// Transitions are strictly forward; StateFailed is reachable from any
// non-terminal state; StateCompleted and StateFailed accept no exits.
func CanTransition(from, to State) error {
	if from == StateCompleted || from == StateFailed {
		return fmt.Errorf("state %s is terminal", from)
	}
	if to == StateFailed {
		return nil
	}
	states := AllStates()
	fromIdx, toIdx := -1, -1
	for i, s := range states {
		if s == from {
			fromIdx = i
		}
		if s == to {
			toIdx = i
		}
	}
	if fromIdx == -1 {
		return fmt.Errorf("invalid current state: %s", from)
	}
	if toIdx == -1 {
		return fmt.Errorf("invalid target state: %s", to)
	}
	if toIdx <= fromIdx {
		return fmt.Errorf("cannot transition from %s back to %s", from, to)
	}
	return nil
}

// Phase is one fixed slice of the progress scale. Phases are disjoint and
// cover [0,100] in order.
type Phase struct {
	Name        string
	Description string
	Start       int
	End         int
}

var (
	PhaseInitialization     = Phase{Name: "initialization", Description: "Initializing assessment run", Start: 0, End: 5}
	PhaseDocumentProcessing = Phase{Name: "document_processing", Description: "Validating submitted documents", Start: 5, End: 15}
	PhaseCorpusAssembly     = Phase{Name: "corpus_assembly", Description: "Assembling unified evidence corpus", Start: 15, End: 20}
	PhaseCategoryEvaluation = Phase{Name: "category_evaluation", Description: "Evaluating categories", Start: 20, End: 80}
	PhaseAlignment          = Phase{Name: "cross_category_alignment", Description: "Detecting cross-category conflicts", Start: 80, End: 90}
	PhaseSynthesis          = Phase{Name: "synthesis", Description: "Deduplicating recommendations", Start: 90, End: 95}
	PhaseFinalization       = Phase{Name: "finalization", Description: "Finalizing results", Start: 95, End: 100}
)

// AllPhases returns the phases in execution order.
func AllPhases() []Phase {
	return []Phase{
		PhaseInitialization,
		PhaseDocumentProcessing,
		PhaseCorpusAssembly,
		PhaseCategoryEvaluation,
		PhaseAlignment,
		PhaseSynthesis,
		PhaseFinalization,
	}
}

// CategoryFailure records a category whose evaluation failed. The run
// proceeds with the categories that succeeded.
type CategoryFailure struct {
	Category string `json:"category"`
	Err      error  `json:"-"`
	Reason   string `json:"reason"`
}

// Run is the complete state of one assessment execution. A Run is created
// by Execute and never shared across concurrent executions.
type Run struct {
	ID           string    `json:"id"`
	State        State     `json:"state"`
	CurrentPhase string    `json:"current_phase"`
	Progress     int       `json:"progress"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`

	CategoryResults []scoring.CategoryResult `json:"category_results,omitempty"`
	Conflicts       []alignment.Conflict     `json:"conflicts,omitempty"`
	Recommendations []scoring.Recommendation `json:"recommendations,omitempty"`
	Failures        []CategoryFailure        `json:"failures,omitempty"`
	Error           string                   `json:"error,omitempty"`
}

// NewRun creates a run in StateNew with a fresh identifier.
func NewRun() *Run {
	return &Run{
		ID:        uuid.NewString(),
		State:     StateNew,
		Progress:  0,
		StartedAt: time.Now(),
	}
}

// ProgressFunc receives phase-boundary progress updates. It must tolerate
// being nil or a no-op.
type ProgressFunc func(percent int, description string)
