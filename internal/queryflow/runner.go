package queryflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/kiosk404/echosql/internal/domain/entity"
	"github.com/kiosk404/echosql/internal/domain/errno"
	"github.com/kiosk404/echosql/internal/domain/repo"
	"github.com/kiosk404/echosql/internal/events"
	"github.com/kiosk404/echosql/internal/llm"
	llmentity "github.com/kiosk404/echosql/internal/llm/domain/entity"
	llmservice "github.com/kiosk404/echosql/internal/llm/domain/service"
	"github.com/kiosk404/echosql/internal/sqlmeta"
	"github.com/kiosk404/echosql/internal/toolcontract"
	"github.com/kiosk404/echosql/internal/warehouse"
	"github.com/kiosk404/echosql/pkg/logger"
)

// RunnerConfig bounds the repair loop (§4.6).
type RunnerConfig struct {
	MaxAttempts    int // default 3
	AttemptTimeout time.Duration
	Model          llmentity.FallbackConfig
}

func DefaultRunnerConfig(model llmentity.FallbackConfig) RunnerConfig {
	return RunnerConfig{MaxAttempts: 3, AttemptTimeout: 30 * time.Second, Model: model}
}

// Runner executes the repair loop for a single request: assemble context,
// call the LLM for structured QueryMetadata, validate it, validate the SQL
// against the live warehouse, and retry with diagnostic feedback on
// failure, up to Config.MaxAttempts.
type Runner struct {
	cfg RunnerConfig

	requests repo.RequestRepo
	queries  repo.QueryRepo

	ctxBuilder *ContextBuilder
	fallback   *llmservice.FallbackExecutor
	validator  *warehouse.Validator

	// hub is nil-safe: a Runner built without one (e.g. in tests) simply
	// never publishes, it never panics.
	hub *events.Hub

	// tools is nil-safe: without one, a successful query simply isn't
	// logged back to the learning hook (spec §6.2's log_successful_query,
	// "optional; no-op if unsupported").
	tools toolcontract.Provider
}

func NewRunner(cfg RunnerConfig, requests repo.RequestRepo, queries repo.QueryRepo, ctxBuilder *ContextBuilder, fallback *llmservice.FallbackExecutor, validator *warehouse.Validator, hub *events.Hub) *Runner {
	return &Runner{cfg: cfg, requests: requests, queries: queries, ctxBuilder: ctxBuilder, fallback: fallback, validator: validator, hub: hub}
}

// WithTools attaches the tool-interface learning hook. Returns r for
// chaining at construction time.
func (r *Runner) WithTools(tools toolcontract.Provider) *Runner {
	r.tools = tools
	return r
}

// publishStatus emits a transient agent_status event for the repair
// loop's current state (spec §6.1's intent_analyzing/llm_thinking/
// sql_validating/artifact_saving progression).
func (r *Runner) publishStatus(sessionID string, s FlowState, attempt int) {
	if r.hub == nil {
		return
	}
	step, ok := stepForState[s]
	if !ok {
		return
	}
	r.hub.Publish(sessionID, events.NewAgentStatus(step, attempt, r.cfg.MaxAttempts))
}

// publishUpdate emits a persistent request_update event reflecting req's
// current state, recoverable after reconnect via a point-in-time fetch
// (spec §6.3).
func (r *Runner) publishUpdate(sessionID string, req *entity.Request, seq int64) {
	if r.hub == nil {
		return
	}
	r.hub.Publish(sessionID, events.NewRequestUpdate(req.ID, sessionID, string(req.Status), req.Status == entity.RequestStatusDone, req.Status == entity.RequestStatusError, seq))
}

var stepForState = map[FlowState]events.AgentStep{
	StateAssembling:     events.StepIntentAnalyzing,
	StateCallingLLM:     events.StepLLMThinking,
	StateValidatingMeta: events.StepSQLValidating,
	StateValidatingSQL:  events.StepSQLValidating,
	StatePersisting:     events.StepArtifactSaving,
}

// Run drives req from pending through the repair loop to a terminal
// status (done, error, or cancelled), per the state machine in §4.6.
// sessionID/profile/client/env describe the request's owning session and
// target warehouse; abort is checked at every suspension point.
func (r *Runner) Run(ctx context.Context, req *entity.Request, sessionID, profile, client, env string, abort *AbortController) error {
	if err := req.MarkInProgress(); err != nil {
		return err
	}
	if err := r.requests.Update(ctx, req); err != nil {
		return fmt.Errorf("persist in_progress: %w", err)
	}
	r.publishUpdate(sessionID, req, req.SequenceNumber)

	state := StateAssembling
	var feedback []string
	var lastErr *entity.RequestError

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		req.Attempts = attempt

		if err := abort.CheckAborted(); err != nil {
			return r.cancel(ctx, req, sessionID)
		}

		state = StateAssembling
		r.publishStatus(sessionID, state, attempt)
		runCtx := ctx
		var cancel context.CancelFunc
		if r.cfg.AttemptTimeout > 0 {
			runCtx, cancel = context.WithTimeout(abort.Context(), r.cfg.AttemptTimeout)
		} else {
			runCtx = abort.Context()
		}

		built, err := r.ctxBuilder.Build(runCtx, sessionID, profile, req.UserText, client, env, feedback)
		if err != nil {
			if cancel != nil {
				cancel()
			}
			if errors.Is(err, errno.ErrRequestCancelled) || errors.Is(runCtx.Err(), context.Canceled) {
				return r.cancel(ctx, req, sessionID)
			}
			lastErr = &entity.RequestError{Class: string(errno.ClassOther), Message: err.Error(), Attempt: attempt}
			logger.WarnX("queryflow", "request %s attempt %d: context build failed: %v", req.ID, attempt, err)
			continue
		}

		state = StateCallingLLM
		r.publishStatus(sessionID, state, attempt)
		meta := &entity.QueryMetadata{}
		_, err = r.callLLM(runCtx, built.Prompt, meta)
		if err != nil {
			if cancel != nil {
				cancel()
			}
			if errors.Is(err, errno.ErrRequestCancelled) || errors.Is(runCtx.Err(), context.Canceled) {
				return r.cancel(ctx, req, sessionID)
			}
			lastErr = &entity.RequestError{Class: string(errno.ClassOther), Message: err.Error(), Attempt: attempt}
			feedback = append(feedback, fmt.Sprintf("the model call failed: %v", err))
			logger.WarnX("queryflow", "request %s attempt %d: llm call failed: %v", req.ID, attempt, err)
			state = StateRetry
			continue
		}

		meta.ID = uuid.New().String()
		meta.SessionID = sessionID
		meta.RequestID = req.ID
		meta.Dialect = string(built.Dialect)
		meta.Profile = profile
		meta.CreatedAt = time.Now()

		state = StateValidatingMeta
		r.publishStatus(sessionID, state, attempt)
		report, err := sqlmeta.Validate(meta)
		if err != nil {
			if cancel != nil {
				cancel()
			}
			lastErr = &entity.RequestError{Class: string(errno.ClassSyntax), Message: err.Error(), Attempt: attempt}
			feedback = append(feedback, fmt.Sprintf("could not parse the proposed SQL's output columns: %v", err))
			state = StateRetry
			continue
		}
		if !report.OK() {
			if cancel != nil {
				cancel()
			}
			lastErr = &entity.RequestError{Class: string(errno.ClassOther), Message: joinIssues(report.Errors), Attempt: attempt}
			feedback = append(feedback, fmt.Sprintf("declared columns do not match the SQL output: %s", joinIssues(report.Errors)))
			state = StateRetry
			continue
		}

		state = StateValidatingSQL
		r.publishStatus(sessionID, state, attempt)
		explain, err := r.validator.Explain(runCtx, profile, meta.SQL)
		if cancel != nil {
			cancel()
		}
		if err != nil {
			if errors.Is(err, errno.ErrRequestCancelled) || errors.Is(runCtx.Err(), context.Canceled) {
				return r.cancel(ctx, req, sessionID)
			}
			lastErr = &entity.RequestError{Class: string(errno.ClassOther), Message: err.Error(), Attempt: attempt}
			state = StateRetry
			continue
		}
		if explain.Error != nil {
			lastErr = &entity.RequestError{Class: string(explain.Error.Class), Message: explain.Error.Message, Attempt: attempt}
			diag := explain.Error.Message
			if explain.Error.RepairGuidance != "" {
				diag += " (" + explain.Error.RepairGuidance + ")"
			}
			feedback = append(feedback, fmt.Sprintf("the warehouse rejected the query: %s", diag))
			state = StateRetry
			continue
		}

		state = StatePersisting
		r.publishStatus(sessionID, state, attempt)
		meta.ParentID = r.latestQueryID(ctx, sessionID)
		if err := r.queries.Create(ctx, meta); err != nil {
			return fmt.Errorf("persist query metadata: %w", err)
		}
		if err := r.requests.AppendTurn(ctx, sessionID, entity.NewUserTurn(req.ID, req.UserText)); err != nil {
			logger.WarnX("queryflow", "append user turn: %v", err)
		}
		if err := r.requests.AppendTurn(ctx, sessionID, entity.NewAssistantTurn(req.ID, meta.SQL)); err != nil {
			logger.WarnX("queryflow", "append assistant turn: %v", err)
		}

		if err := req.MarkDone(meta.ID); err != nil {
			return err
		}
		if err := r.requests.Update(ctx, req); err != nil {
			return err
		}
		r.publishUpdate(sessionID, req, req.SequenceNumber)
		r.logSuccess(ctx, meta, lastErr)
		return nil
	}

	state = StateExhausted
	logger.WarnX("queryflow", "request %s exhausted after %d attempts: %s", req.ID, req.Attempts, state)
	if lastErr == nil {
		lastErr = &entity.RequestError{Class: string(errno.ClassOther), Message: "repair loop exhausted with no recorded diagnostic"}
	}
	lastErr.Attempt = req.Attempts
	if err := req.MarkError(lastErr); err != nil {
		return err
	}
	if err := r.requests.Update(ctx, req); err != nil {
		return err
	}
	r.publishUpdate(sessionID, req, req.SequenceNumber)
	return nil
}

// callLLM asks the configured model candidates (in fallback order) for a
// single structured QueryMetadata response at temperature 0.
func (r *Runner) callLLM(ctx context.Context, prompt string, target *entity.QueryMetadata) (*schema.Message, error) {
	temp := float32(0)
	params := &llmentity.LLMParams{Temperature: &temp, ResponseFormat: llm.ResponseFormatForStructured()}
	messages := []*schema.Message{{Role: schema.User, Content: prompt}}

	result := llmservice.RunWithFallback(ctx, r.fallback, r.cfg.Model, params,
		func(ctx context.Context, cm einoModel.BaseChatModel) (*schema.Message, error) {
			return llm.StructuredCall(ctx, cm, messages, target)
		}, nil)
	if !result.OK {
		return nil, result.AllFailedError()
	}
	return result.Value, nil
}

// logSuccess feeds the just-validated query back to the tool interface's
// learning hook. lastErr, when set, is the diagnostic from the repair
// attempt this query corrected.
func (r *Runner) logSuccess(ctx context.Context, meta *entity.QueryMetadata, lastErr *entity.RequestError) {
	if r.tools == nil {
		return
	}
	var previousError, previousSQL string
	if lastErr != nil {
		previousError = lastErr.Message
	}
	if err := r.tools.LogSuccessfulQuery(ctx, meta.ID, meta.SQL, meta.Description, previousError, previousSQL); err != nil {
		logger.WarnX("queryflow", "log successful query %s: %v", meta.ID, err)
	}
}

func (r *Runner) latestQueryID(ctx context.Context, sessionID string) string {
	queries, err := r.queries.ListBySession(ctx, sessionID)
	if err != nil || len(queries) == 0 {
		return ""
	}
	latest := queries[0]
	for _, q := range queries[1:] {
		if q.CreatedAt.After(latest.CreatedAt) {
			latest = q
		}
	}
	return latest.ID
}

func (r *Runner) cancel(ctx context.Context, req *entity.Request, sessionID string) error {
	if err := req.MarkCancelled(); err != nil {
		return err
	}
	if err := r.requests.Update(ctx, req); err != nil {
		return err
	}
	r.publishUpdate(sessionID, req, req.SequenceNumber)
	return nil
}

func joinIssues(issues []string) string {
	return strings.Join(issues, "; ")
}
