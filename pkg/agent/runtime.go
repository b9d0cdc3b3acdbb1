// Package agent runs one invocation end to end: compose the prompt, ask the
// model for a plan, execute it inside the sandbox and record the transcript.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sameehj/junior/pkg/plan"
	"github.com/sameehj/junior/pkg/policy"
	"github.com/sameehj/junior/pkg/sandbox"
	"github.com/sameehj/junior/pkg/session"
	"github.com/sameehj/junior/pkg/tool"
	"github.com/sameehj/junior/pkg/workspace"
)

const defaultLLMTimeout = 90 * time.Second

var ErrNoLLM = errors.New("LLM not configured")

type Config struct {
	Workspace    string
	HistoryDir   string
	Model        string
	LLM          LLMClient
	Policy       tool.ConfirmPolicy
	Actions      *policy.Policy
	Confirmer    tool.Confirmer
	Logger       *zap.Logger
	MaxReadBytes int64
	MaxTokens    int
	Timeout      time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

type Runtime struct {
	llm       LLMClient
	sandbox   *sandbox.Sandbox
	sessions  *session.Store
	model     string
	confirm   tool.ConfirmPolicy
	actions   *policy.Policy
	confirmer tool.Confirmer
	logger    *zap.Logger
	maxRead   int64
	maxTokens int
	timeout   time.Duration
	now       func() time.Time
}

// Request is one user invocation.
type Request struct {
	Prompt string
	// ContextFile is read as given, outside the sandbox.
	ContextFile string
	DryRun      bool
}

// Outcome is everything the front end reports back to the user.
type Outcome struct {
	ID             string
	Plan           *plan.Plan
	Results        []tool.Result
	RawResponse    string
	TranscriptPath string
	// RecordErr is set when the transcript could not be written. The
	// filesystem changes in Results still stand.
	RecordErr error
}

// Failed reports whether any action did not succeed.
func (o *Outcome) Failed() bool {
	for _, res := range o.Results {
		if res.Status == tool.StatusFailure {
			return true
		}
	}
	return false
}

func NewRuntime(cfg *Config) (*Runtime, error) {
	ws := cfg.Workspace
	if ws == "" {
		ws = workspace.Resolve()
	}
	sb, err := sandbox.New(ws)
	if err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}
	historyDir := cfg.HistoryDir
	if historyDir == "" {
		historyDir = workspace.HistoryDir()
	}
	confirm := cfg.Policy
	if confirm == "" {
		confirm = tool.TrustModelHint
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Runtime{
		llm:       cfg.LLM,
		sandbox:   sb,
		sessions:  session.NewStore(historyDir),
		model:     cfg.Model,
		confirm:   confirm,
		actions:   cfg.Actions,
		confirmer: cfg.Confirmer,
		logger:    logger,
		maxRead:   cfg.MaxReadBytes,
		maxTokens: cfg.MaxTokens,
		timeout:   timeout,
		now:       now,
	}, nil
}

// Workspace returns the resolved sandbox root.
func (r *Runtime) Workspace() string { return r.sandbox.Root() }

// Sessions exposes the transcript store.
func (r *Runtime) Sessions() *session.Store { return r.sessions }

// Run performs one prompt -> plan -> execute -> record pass. A non-nil
// error with a non-nil Outcome means the response did not parse; the
// transcript was still written.
func (r *Runtime) Run(ctx context.Context, req Request) (*Outcome, error) {
	if r.llm == nil {
		return nil, ErrNoLLM
	}
	system, err := r.assemblePrompt()
	if err != nil {
		return nil, err
	}

	var messages []CompletionMessage
	var contextText string
	if req.ContextFile != "" {
		contextText, err = workspace.ReadContextFile(req.ContextFile)
		if err != nil {
			return nil, err
		}
		messages = append(messages, CompletionMessage{Role: "user", Content: workspace.ContextMessage(contextText)})
	}
	messages = append(messages, CompletionMessage{Role: "user", Content: req.Prompt})

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	resp, err := r.llm.Complete(callCtx, CompletionRequest{
		Prompt:    system,
		Messages:  messages,
		MaxTokens: r.maxTokens,
	})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	r.logger.Debug("completion received",
		zap.String("model", resp.Model),
		zap.String("stop_reason", resp.StopReason),
		zap.Int("bytes", len(resp.Content)))
	if resp.StopReason == "length" {
		r.logger.Warn("completion was cut off at the token limit", zap.Int("max_tokens", r.maxTokens))
	}

	rec := &session.Record{
		ID:           uuid.NewString(),
		Timestamp:    r.now(),
		Model:        r.model,
		SystemPrompt: system,
		UserPrompt:   req.Prompt,
		ContextFile:  req.ContextFile,
		RawResponse:  resp.Content,
		DryRun:       req.DryRun,
	}
	if resp.Model != "" {
		rec.Model = resp.Model
	}
	out := &Outcome{ID: rec.ID, RawResponse: resp.Content}

	p, parseErr := plan.Parse(resp.Content)
	if parseErr != nil {
		r.logger.Warn("response did not parse", zap.Error(parseErr))
		rec.ParseError = parseErr
		r.record(rec, out)
		return out, parseErr
	}
	r.logger.Debug("plan parsed", zap.Int("actions", len(p.Actions)))

	exec := tool.NewExecutor(r.sandbox, r.confirm,
		tool.WithConfirmer(r.confirmer),
		tool.WithActionPolicy(r.actions),
		tool.WithLogger(r.logger),
		tool.WithMaxReadBytes(r.maxRead),
		tool.WithDryRun(req.DryRun),
	)
	results := exec.Execute(p)

	rec.Plan = p
	rec.Results = results
	out.Plan = p
	out.Results = results
	r.record(rec, out)
	return out, nil
}

func (r *Runtime) record(rec *session.Record, out *Outcome) {
	path, err := r.sessions.Record(rec)
	if err != nil {
		r.logger.Error("transcript not written", zap.Error(err))
		out.RecordErr = err
		return
	}
	r.logger.Debug("transcript written", zap.String("path", path))
	out.TranscriptPath = path
}

func (r *Runtime) assemblePrompt() (string, error) {
	pc, err := workspace.LoadPromptComponents(r.sandbox.Root())
	if err != nil {
		return "", err
	}
	pc.Defs = tool.Schema()
	return pc.Compose(), nil
}
