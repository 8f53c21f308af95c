package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/stepper/internal/app"
	"github.com/felixgeelhaar/stepper/internal/domain/schema"
)

// SessionInput selects a session. An empty session selects the default one.
type SessionInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
}

// StepInput targets one step of a session.
type StepInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
	Step    string `json:"step" jsonschema:"required,description=Step id"`
}

// CompleteInput marks a step as done.
type CompleteInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
	Step    string `json:"step,omitempty" jsonschema:"description=Step id (default: current step)"`
}

// SetMetadataInput stores data for a step and validates it.
type SetMetadataInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
	Step    string `json:"step" jsonschema:"required,description=Step id"`
	Value   any    `json:"value" jsonschema:"description=Metadata value for the step; validated against the step schema"`
}

// SetStatusInput overrides the status of a step.
type SetStatusInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
	Step    string `json:"step" jsonschema:"required,description=Step id"`
	Status  string `json:"status" jsonschema:"required,description=New status: idle pending success or error"`
}

// ClearInput removes a stored session.
type ClearInput struct {
	Session string `json:"session,omitempty" jsonschema:"description=Session id (default: default)"`
	Confirm bool   `json:"confirm" jsonschema:"description=Must be true to delete the stored snapshot"`
}

// SessionsInput has no fields.
type SessionsInput struct{}

// StatusOutput is the status of a session with server metadata.
type StatusOutput struct {
	Version  string     `json:"version"`
	Restored bool       `json:"restored"`
	Key      string     `json:"key"`
	Status   app.Status `json:"status"`
}

// ActionOutput reports whether an action changed the session.
type ActionOutput struct {
	Changed bool       `json:"changed"`
	Message string     `json:"message,omitempty"`
	Status  app.Status `json:"status"`
}

// SetMetadataOutput carries the validation outcome of a metadata update.
type SetMetadataOutput struct {
	Validation schema.ValidationResult `json:"validation"`
	Status     app.Status              `json:"status"`
}

// SessionsOutput lists stored sessions.
type SessionsOutput struct {
	Definition string   `json:"definition"`
	Sessions   []string `json:"sessions"`
}

// ClearOutput reports a session removal.
type ClearOutput struct {
	Cleared bool   `json:"cleared"`
	Message string `json:"message"`
}

// VersionInfo contains version metadata for the MCP server.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// sessionCache keeps sessions open between tool calls so undo history
// survives across requests.
type sessionCache struct {
	svc  *app.Service
	mu   sync.Mutex
	open map[string]*app.Session
}

func newSessionCache(svc *app.Service) *sessionCache {
	return &sessionCache{svc: svc, open: make(map[string]*app.Session)}
}

func (c *sessionCache) get(ctx context.Context, id string) (*app.Session, error) {
	if id == "" {
		id = app.DefaultSession
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.open[id]; ok {
		return s, nil
	}
	s, err := c.svc.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	c.open[id] = s
	return s, nil
}

func (c *sessionCache) drop(id string) {
	if id == "" {
		id = app.DefaultSession
	}
	c.mu.Lock()
	delete(c.open, id)
	c.mu.Unlock()
}

// RegisterAll registers the stepper tools for svc on srv.
func RegisterAll(srv *mcp.Server, svc *app.Service, versionInfo VersionInfo) {
	cache := newSessionCache(svc)

	// Inspection
	registerStatusTool(srv, cache, versionInfo)
	registerSessionsTool(srv, svc)

	// Navigation
	registerNextTool(srv, cache)
	registerPrevTool(srv, cache)
	registerGoToTool(srv, cache)

	// Step data
	registerSetMetadataTool(srv, cache)
	registerSetStatusTool(srv, cache)
	registerCompleteTool(srv, cache)

	// History and lifecycle
	registerUndoTool(srv, cache)
	registerRedoTool(srv, cache)
	registerResetTool(srv, cache)
	registerClearTool(srv, cache)
}

func registerStatusTool(srv *mcp.Server, cache *sessionCache, versionInfo VersionInfo) {
	srv.Tool("stepper_status").
		Description("Show the current step, every step's status and which moves are possible.").
		ReadOnly().
		Handler(func(ctx context.Context, in SessionInput) (*StatusOutput, error) {
			if err := ValidateSessionInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			return &StatusOutput{
				Version:  versionInfo.Version,
				Restored: s.Restored,
				Key:      s.Key(),
				Status:   s.Status(),
			}, nil
		})
}

func registerSessionsTool(srv *mcp.Server, svc *app.Service) {
	srv.Tool("stepper_sessions").
		Description("List the sessions stored for this definition.").
		ReadOnly().
		Handler(func(ctx context.Context, _ SessionsInput) (*SessionsOutput, error) {
			sessions, err := svc.Sessions(ctx)
			if err != nil {
				return nil, err
			}
			if sessions == nil {
				sessions = []string{}
			}
			return &SessionsOutput{
				Definition: svc.Flow().Name(),
				Sessions:   sessions,
			}, nil
		})
}

func registerNextTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_next").
		Description("Move to the next step. In linear mode the current step must be complete.").
		Handler(func(ctx context.Context, in SessionInput) (*ActionOutput, error) {
			if err := ValidateSessionInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			moved, err := s.Next(ctx)
			if err != nil {
				return nil, err
			}
			return moveOutput(s, moved, "next step"), nil
		})
}

func registerPrevTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_prev").
		Description("Move to the previous step.").
		Handler(func(ctx context.Context, in SessionInput) (*ActionOutput, error) {
			if err := ValidateSessionInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			moved, err := s.Prev(ctx)
			if err != nil {
				return nil, err
			}
			return moveOutput(s, moved, "previous step"), nil
		})
}

func registerGoToTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_goto").
		Description("Jump to a step. Free mode allows any step whose dependencies are met; linear mode only adjacent steps.").
		Handler(func(ctx context.Context, in StepInput) (*ActionOutput, error) {
			if err := ValidateStepInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			moved, err := s.GoTo(ctx, in.Step)
			if err != nil {
				return nil, err
			}
			return moveOutput(s, moved, in.Step), nil
		})
}

func registerSetMetadataTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_set_metadata").
		Description("Store data for a step and validate it against the step schema. The step status becomes success or error.").
		Handler(func(ctx context.Context, in SetMetadataInput) (*SetMetadataOutput, error) {
			if err := ValidateSetMetadataInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			result, err := s.SetMetadata(ctx, in.Step, in.Value)
			if err != nil {
				return nil, err
			}
			return &SetMetadataOutput{Validation: result, Status: s.Status()}, nil
		})
}

func registerSetStatusTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_set_status").
		Description("Override the status of a step.").
		Handler(func(ctx context.Context, in SetStatusInput) (*ActionOutput, error) {
			if err := ValidateSetStatusInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			if err := s.SetStatus(ctx, in.Step, in.Status); err != nil {
				return nil, err
			}
			return &ActionOutput{
				Changed: true,
				Message: fmt.Sprintf("%s is now %s", in.Step, s.Stepper.Status(in.Step)),
				Status:  s.Status(),
			}, nil
		})
}

func registerCompleteTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_complete").
		Description("Mark a step as successfully completed. Defaults to the current step.").
		Handler(func(ctx context.Context, in CompleteInput) (*ActionOutput, error) {
			if err := ValidateCompleteInput(&in); err != nil {
				return nil, err
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			id := in.Step
			if id == "" {
				id = s.Stepper.Current().ID
			}
			changed, err := s.Complete(ctx, id)
			if err != nil {
				return nil, err
			}
			msg := fmt.Sprintf("%s completed", id)
			if !changed {
				msg = fmt.Sprintf("%s was already complete", id)
			}
			return &ActionOutput{Changed: changed, Message: msg, Status: s.Status()}, nil
		})
}

func registerUndoTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_undo").
		Description("Undo the last change made in this server process.").
		Handler(func(ctx context.Context, in SessionInput) (*ActionOutput, error) {
			return historyAction(ctx, cache, in, (*app.Session).Undo, "nothing to undo")
		})
}

func registerRedoTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_redo").
		Description("Redo the last undone change.").
		Handler(func(ctx context.Context, in SessionInput) (*ActionOutput, error) {
			return historyAction(ctx, cache, in, (*app.Session).Redo, "nothing to redo")
		})
}

func registerResetTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_reset").
		Description("Reset the session to its initial step and clear all statuses and metadata.").
		Destructive().
		Handler(func(ctx context.Context, in SessionInput) (*ActionOutput, error) {
			return historyAction(ctx, cache, in, (*app.Session).Reset, "already at the initial state")
		})
}

func registerClearTool(srv *mcp.Server, cache *sessionCache) {
	srv.Tool("stepper_clear").
		Description("Delete the stored snapshot of a session. Requires confirm=true.").
		Destructive().
		Handler(func(ctx context.Context, in ClearInput) (*ClearOutput, error) {
			if err := ValidateClearInput(&in); err != nil {
				return nil, err
			}
			if !in.Confirm {
				return &ClearOutput{Message: "Set confirm=true to delete the stored session."}, nil
			}
			s, err := cache.get(ctx, in.Session)
			if err != nil {
				return nil, err
			}
			s.Clear(ctx)
			cache.drop(in.Session)
			return &ClearOutput{Cleared: true, Message: fmt.Sprintf("Cleared %s", s.Key())}, nil
		})
}

func historyAction(ctx context.Context, cache *sessionCache, in SessionInput, action func(*app.Session, context.Context) bool, noop string) (*ActionOutput, error) {
	if err := ValidateSessionInput(&in); err != nil {
		return nil, err
	}
	s, err := cache.get(ctx, in.Session)
	if err != nil {
		return nil, err
	}
	out := &ActionOutput{Changed: action(s, ctx)}
	if !out.Changed {
		out.Message = noop
	}
	out.Status = s.Status()
	return out, nil
}

func moveOutput(s *app.Session, moved bool, target string) *ActionOutput {
	out := &ActionOutput{Changed: moved, Status: s.Status()}
	if moved {
		out.Message = fmt.Sprintf("now at %s", s.Stepper.Current().ID)
	} else {
		out.Message = fmt.Sprintf("cannot move to %s", target)
	}
	return out
}
