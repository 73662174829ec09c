// Package events implements the persistent event channel (spec §6.3):
// an in-process multi-subscriber fan-out from request-state changes to
// every current SSE subscriber of a session's stream.
package events

// Kind distinguishes the two event shapes the stream endpoint emits
// (spec §6.1).
type Kind string

const (
	// KindRequestUpdate is persistent: every subscriber must eventually
	// see it, and a disconnected client can recover the latest one via a
	// point-in-time fetch of the request's current state (spec §6.3).
	KindRequestUpdate Kind = "request_update"

	// KindAgentStatus is transient, fine-grained progress within one
	// attempt of the repair loop; missing one is not recoverable and is
	// not expected to be.
	KindAgentStatus Kind = "agent_status"
)

// AgentStep names one fine-grained progress step of KindAgentStatus
// events (spec §6.1: "intent_analyzing, llm_thinking, sql_validating,
// artifact_saving, etc.").
type AgentStep string

const (
	StepIntentAnalyzing AgentStep = "intent_analyzing"
	StepLLMThinking     AgentStep = "llm_thinking"
	StepSQLValidating   AgentStep = "sql_validating"
	StepArtifactSaving  AgentStep = "artifact_saving"
)

// Event is one message delivered on a session's stream.
type Event struct {
	Kind Kind `json:"kind"`

	// RequestUpdate fields, set when Kind == KindRequestUpdate.
	RequestID      string `json:"request_id,omitempty"`
	SessionID      string `json:"session_id,omitempty"`
	Status         string `json:"status,omitempty"`
	HasResponse    bool   `json:"has_response,omitempty"`
	HasError       bool   `json:"has_error,omitempty"`
	SequenceNumber int64  `json:"sequence_number,omitempty"`

	// AgentStatus fields, set when Kind == KindAgentStatus.
	Step       AgentStep `json:"step,omitempty"`
	StepNum    int       `json:"step_num,omitempty"`
	TotalSteps int       `json:"total_steps,omitempty"`
}

// NewRequestUpdate builds a persistent request_update event from a
// request's current state.
func NewRequestUpdate(requestID, sessionID, status string, hasResponse, hasError bool, sequenceNumber int64) Event {
	return Event{
		Kind:           KindRequestUpdate,
		RequestID:      requestID,
		SessionID:      sessionID,
		Status:         status,
		HasResponse:    hasResponse,
		HasError:       hasError,
		SequenceNumber: sequenceNumber,
	}
}

// NewAgentStatus builds a transient agent_status event.
func NewAgentStatus(step AgentStep, stepNum, totalSteps int) Event {
	return Event{Kind: KindAgentStatus, Step: step, StepNum: stepNum, TotalSteps: totalSteps}
}
