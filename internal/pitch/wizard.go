package pitch

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"pitchclerk/internal/gateway"
	"pitchclerk/internal/logging"
	pitchsvc "pitchclerk/internal/services/pitch"
)

// Step is the active wizard screen.
type Step int

const (
	StepReleaseInfo Step = iota
	StepUpload
	StepLinks
	StepTerritory
	StepPackage
	StepReview
)

// LastStep is the review step, where advancing submits.
const LastStep = StepReview

var stepTitles = [...]string{
	"Release information",
	"Upload",
	"Links",
	"Territory",
	"Package",
	"Submission",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepTitles) {
		return "unknown"
	}
	return stepTitles[s]
}

// Steps lists every step in order.
func Steps() []Step {
	return []Step{StepReleaseInfo, StepUpload, StepLinks, StepTerritory, StepPackage, StepReview}
}

// ErrSubmitInFlight is returned when Submit is called while another submit
// is outstanding.
var ErrSubmitInFlight = errors.New("pitch submission already in progress")

// Outcome is the result of a navigation action.
type Outcome interface {
	outcome()
}

// Advanced reports a move to Step.
type Advanced struct {
	Step Step
}

// Retreated reports a move back to Step.
type Retreated struct {
	Step Step
}

// Exited reports that the user backed out of the first step. The draft is
// discarded.
type Exited struct{}

// Submitted reports a created pitch.
type Submitted struct {
	PaymentLink string
	PitchID     string
}

func (Advanced) outcome()  {}
func (Retreated) outcome() {}
func (Exited) outcome()    {}
func (Submitted) outcome() {}

// Submitter creates a pitch from a multipart form. *pitchsvc.Service
// satisfies it.
type Submitter interface {
	Create(ctx context.Context, form *gateway.Form) (*pitchsvc.CreateResult, error)
}

// Wizard owns one Draft and the current Step.
type Wizard struct {
	slug      string
	submitter Submitter
	logger    *slog.Logger

	mu         sync.Mutex
	step       Step
	draft      *Draft
	submitting bool
}

// NewWizard starts a wizard for the pitch type slug with a fresh draft.
func NewWizard(slug string, submitter Submitter, logger *slog.Logger) *Wizard {
	return NewWizardWithDraft(slug, NewDraft(), submitter, logger)
}

// NewWizardWithDraft starts a wizard over an existing draft.
func NewWizardWithDraft(slug string, draft *Draft, submitter Submitter, logger *slog.Logger) *Wizard {
	if draft == nil {
		draft = NewDraft()
	}
	return &Wizard{
		slug:      slug,
		submitter: submitter,
		logger:    logging.NewComponentLogger(logger, "wizard"),
		draft:     draft,
	}
}

// PitchType is the API value for this wizard's slug.
func (w *Wizard) PitchType() string {
	return ResolvePitchType(w.slug)
}

// Step returns the active step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a snapshot of the draft.
func (w *Wizard) Draft() *Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Patch merges p into the draft. No validation happens here.
func (w *Wizard) Patch(p Patch) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Apply(p)
}

// Update runs fn against the live draft, for edits a Patch cannot express
// such as adding one territory.
func (w *Wizard) Update(fn func(*Draft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.draft)
}

// Submitting reports whether a submit is outstanding.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Advance moves forward one step. On the review step it submits instead and
// the step does not change.
func (w *Wizard) Advance(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if w.step < LastStep {
		w.step++
		step := w.step
		w.mu.Unlock()
		w.logger.Debug("wizard advanced", logging.String("step", step.String()))
		return Advanced{Step: step}, nil
	}
	w.mu.Unlock()
	return w.Submit(ctx)
}

// Retreat moves back one step, or exits from the first step.
func (w *Wizard) Retreat() Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == StepReleaseInfo {
		return Exited{}
	}
	w.step--
	return Retreated{Step: w.step}
}

// Submit validates the draft and issues exactly one create call. On failure
// the draft and step are left unchanged so the user can retry.
func (w *Wizard) Submit(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	draft := w.draft.Clone()
	w.submitting = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.submitting = false
		w.mu.Unlock()
	}()

	logger := logging.WithContext(ctx, w.logger)
	if err := Validate(draft); err != nil {
		logger.Info("draft incomplete", logging.Error(err))
		return nil, err
	}

	result, err := w.submitter.Create(ctx, BuildForm(w.slug, draft))
	if err != nil {
		logger.Warn("pitch submission failed", logging.Error(err))
		return nil, err
	}
	logger.Info("pitch submitted",
		logging.String("pitch_type", w.PitchType()),
		logging.String("package", string(draft.Package)),
	)
	return Submitted{PaymentLink: result.PaymentLink, PitchID: result.PitchID}, nil
}
