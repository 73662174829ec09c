package queryflow

// FlowState is the repair loop's internal state for one request, tracked
// for observability independent of the coarser entity.RequestStatus the
// rest of the system observes (§4.6).
type FlowState string

const (
	StateStart          FlowState = "START"
	StateAssembling     FlowState = "ASSEMBLING"
	StateCallingLLM     FlowState = "CALLING_LLM"
	StateValidatingMeta FlowState = "VALIDATING_METADATA"
	StateValidatingSQL  FlowState = "VALIDATING_SQL"
	StateRetry          FlowState = "RETRY"
	StateExhausted      FlowState = "EXHAUSTED"
	StateError          FlowState = "ERROR"
	StatePersisting     FlowState = "PERSISTING"
	StateDone           FlowState = "DONE"
	StateCancelled      FlowState = "CANCELLED"
)

// Transition is one state-machine step, emitted for tracing/logging.
type Transition struct {
	From    FlowState
	To      FlowState
	Attempt int
	Detail  string
}
