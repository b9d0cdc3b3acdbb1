package tool

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/policy"
	"github.com/sameehj/junior/pkg/sandbox"
)

// DefaultMaxReadBytes caps read_file payloads.
const DefaultMaxReadBytes int64 = 1 << 20

// Executor runs plan actions strictly in order. A failing action is
// reported and the next one still runs; nothing is rolled back.
type Executor struct {
	sandbox      *sandbox.Sandbox
	policy       ConfirmPolicy
	confirmer    Confirmer
	actions      *policy.Policy
	logger       *zap.Logger
	maxReadBytes int64
	dryRun       bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithConfirmer attaches the interactive confirmer used by AlwaysConfirm.
func WithConfirmer(c Confirmer) Option {
	return func(e *Executor) { e.confirmer = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithActionPolicy restricts which action types may run.
func WithActionPolicy(p *policy.Policy) Option {
	return func(e *Executor) { e.actions = p }
}

// WithMaxReadBytes overrides DefaultMaxReadBytes. Non-positive values are ignored.
func WithMaxReadBytes(n int64) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxReadBytes = n
		}
	}
}

// WithDryRun validates paths but performs no filesystem mutation.
func WithDryRun(dry bool) Option {
	return func(e *Executor) { e.dryRun = dry }
}

// NewExecutor returns an executor bound to sb.
func NewExecutor(sb *sandbox.Sandbox, confirm ConfirmPolicy, opts ...Option) *Executor {
	e := &Executor{
		sandbox:      sb,
		policy:       confirm,
		logger:       zap.NewNop(),
		maxReadBytes: DefaultMaxReadBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute is the one-shot form of Executor.Execute for a root directory.
func Execute(p *plan.Plan, root string, confirm ConfirmPolicy, opts ...Option) ([]Result, error) {
	sb, err := sandbox.New(root)
	if err != nil {
		return nil, err
	}
	return NewExecutor(sb, confirm, opts...).Execute(p), nil
}

// Execute runs every action of p and returns one Result per action, in order.
func (e *Executor) Execute(p *plan.Plan) []Result {
	results := make([]Result, 0, len(p.Actions))
	for i, a := range p.Actions {
		r := e.run(i, a)
		e.log(r)
		results = append(results, r)
	}
	return results
}

func (e *Executor) run(index int, a plan.Action) Result {
	r := Result{Index: index, Action: a}

	if !e.actions.IsAllowed(a.Type()) {
		r.Status = StatusFailure
		r.Err = &ExecError{Kind: ErrPermissionDenied, Op: string(a.Type()), Path: a.Paths()[0], Err: errors.New("action type not allowed")}
		r.Detail = r.Err.Error()
		return r
	}

	raw := a.Paths()
	paths := make([]sandbox.Path, 0, len(raw))
	for _, candidate := range raw {
		p, err := e.sandbox.Validate(candidate)
		if err != nil {
			r.Status = StatusFailure
			r.Err = err
			r.Detail = err.Error()
			return r
		}
		paths = append(paths, p)
	}

	if e.dryRun {
		r.Status = StatusSkipped
		r.Detail = "dry run"
		return r
	}

	e.logger.Debug("dispatch action",
		zap.Int("index", index),
		zap.String("action", string(a.Type())),
		zap.Strings("paths", raw))

	out, err := e.dispatch(a, paths)
	if err != nil {
		r.Status = StatusFailure
		r.Err = err
		r.Detail = err.Error()
		return r
	}
	r.Status = StatusSuccess
	r.Detail = out.detail
	r.Content = out.content
	r.Entries = out.entries
	return r
}

func (e *Executor) dispatch(a plan.Action, paths []sandbox.Path) (outcome, error) {
	switch v := a.(type) {
	case plan.CreateFile:
		return e.createFile(v, paths[0])
	case plan.WriteFile:
		return e.writeFile(v, paths[0])
	case plan.AppendFile:
		return e.appendFile(v, paths[0])
	case plan.ReadFile:
		return e.readFile(v, paths[0])
	case plan.DeleteFile:
		return e.deleteFile(v, paths[0])
	case plan.CreateDir:
		return e.createDir(v, paths[0])
	case plan.MoveFile:
		return e.moveFile(v, paths[0], paths[1])
	case plan.CopyFile:
		return e.copyFile(v, paths[0], paths[1])
	case plan.ListDir:
		return e.listDir(v, paths[0])
	default:
		return outcome{}, &ExecError{Kind: ErrIO, Op: "dispatch", Err: fmt.Errorf("unsupported action %T", a)}
	}
}

func (e *Executor) log(r Result) {
	fields := []zap.Field{
		zap.Int("index", r.Index),
		zap.String("action", string(r.Action.Type())),
		zap.Strings("paths", r.Action.Paths()),
		zap.String("status", string(r.Status)),
	}
	if r.Status == StatusFailure {
		e.logger.Warn("action failed", append(fields, zap.Error(r.Err))...)
		return
	}
	e.logger.Info("action finished", fields...)
}
