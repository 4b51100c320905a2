package pitch

import (
	"context"
	"errors"
	"testing"

	"pitchclerk/internal/gateway"
	"pitchclerk/internal/services"
	pitchsvc "pitchclerk/internal/services/pitch"
)

type recordingSubmitter struct {
	forms   []*gateway.Form
	err     error
	release chan struct{}
	started chan struct{}
}

func (r *recordingSubmitter) Create(ctx context.Context, form *gateway.Form) (*pitchsvc.CreateResult, error) {
	r.forms = append(r.forms, form)
	if r.started != nil {
		close(r.started)
	}
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return nil, r.err
	}
	return &pitchsvc.CreateResult{PaymentLink: "https://pay.example/xyz", PitchID: "p1"}, nil
}

func TestAdvanceWalksStepsThenSubmitsOnce(t *testing.T) {
	sub := &recordingSubmitter{}
	w := NewWizardWithDraft("distribution", completeDraft(t), sub, nil)
	ctx := context.Background()

	for want := StepUpload; want <= LastStep; want++ {
		out, err := w.Advance(ctx)
		if err != nil {
			t.Fatalf("Advance: %v", err)
		}
		adv, ok := out.(Advanced)
		if !ok || adv.Step != want {
			t.Fatalf("outcome = %#v, want Advanced{%d}", out, want)
		}
	}
	if len(sub.forms) != 0 {
		t.Fatal("submitted before the review step")
	}

	out, err := w.Advance(ctx)
	if err != nil {
		t.Fatalf("Advance on review: %v", err)
	}
	done, ok := out.(Submitted)
	if !ok || done.PaymentLink != "https://pay.example/xyz" {
		t.Fatalf("outcome = %#v", out)
	}
	if w.Step() != LastStep {
		t.Fatalf("step moved past review: %d", w.Step())
	}
	if len(sub.forms) != 1 {
		t.Fatalf("submitted %d times, want 1", len(sub.forms))
	}
}

func TestAdvanceIsPermissive(t *testing.T) {
	w := NewWizard("distribution", &recordingSubmitter{}, nil)
	out, err := w.Advance(context.Background())
	if err != nil {
		t.Fatalf("Advance with empty draft: %v", err)
	}
	if out.(Advanced).Step != StepUpload {
		t.Fatalf("outcome = %#v", out)
	}
}

func TestRetreat(t *testing.T) {
	w := NewWizard("distribution", &recordingSubmitter{}, nil)
	if _, ok := w.Retreat().(Exited); !ok {
		t.Fatal("retreat from first step should exit")
	}
	if w.Step() != StepReleaseInfo {
		t.Fatalf("step = %d after exit", w.Step())
	}

	ctx := context.Background()
	_, _ = w.Advance(ctx)
	_, _ = w.Advance(ctx)
	out := w.Retreat()
	if r, ok := out.(Retreated); !ok || r.Step != StepUpload {
		t.Fatalf("outcome = %#v", out)
	}
}

func TestSubmitRoundTripTerritoryAndPackage(t *testing.T) {
	sub := &recordingSubmitter{}
	w := NewWizardWithDraft("advance", completeDraft(t), sub, nil)

	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	form := sub.forms[0]
	if v, _ := form.Value("territory"); v != "Nigeria" {
		t.Fatalf("territory = %q, want Nigeria", v)
	}
	if v, _ := form.Value("packagePlan"); v != "Pro" {
		t.Fatalf("packagePlan = %q, want Pro", v)
	}
	if v, _ := form.Value("pitchType"); v != "Pitch for advance" {
		t.Fatalf("pitchType = %q", v)
	}
}

func TestSubmitRequiresFilesWithoutNetworkCall(t *testing.T) {
	sub := &recordingSubmitter{}
	d := completeDraft(t)
	d.CoverPhoto = nil
	w := NewWizardWithDraft("distribution", d, sub, nil)

	_, err := w.Submit(context.Background())
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if len(sub.forms) != 0 {
		t.Fatal("network call made for an incomplete draft")
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	sub := &recordingSubmitter{err: &services.APIError{Kind: services.ErrValidation, Message: "Title already pitched"}}
	w := NewWizardWithDraft("distribution", completeDraft(t), sub, nil)

	_, err := w.Submit(context.Background())
	if services.UserMessage(err, "") != "Title already pitched" {
		t.Fatalf("error = %v", err)
	}
	if w.Draft().Title != "Midnight" {
		t.Fatal("draft cleared after failed submission")
	}
	if w.Submitting() {
		t.Fatal("in-flight flag not cleared")
	}

	sub.err = nil
	if _, err := w.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestSubmitInFlightGuard(t *testing.T) {
	sub := &recordingSubmitter{release: make(chan struct{}), started: make(chan struct{})}
	w := NewWizardWithDraft("distribution", completeDraft(t), sub, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		errc <- err
	}()
	<-sub.started

	if _, err := w.Submit(context.Background()); !errors.Is(err, ErrSubmitInFlight) {
		t.Fatalf("second submit error = %v, want ErrSubmitInFlight", err)
	}
	close(sub.release)
	if err := <-errc; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(sub.forms) != 1 {
		t.Fatalf("submitted %d times, want 1", len(sub.forms))
	}
}

func TestPatchThenRead(t *testing.T) {
	w := NewWizard("publishing", &recordingSubmitter{}, nil)
	w.Patch(Patch{Genre: String("Highlife")})
	w.Update(func(d *Draft) { d.Territories.Add("Ghana") })

	d := w.Draft()
	if d.Genre != "Highlife" || d.PrimaryTerritory() != "Ghana" || d.Version != "Original" {
		t.Fatalf("unexpected draft %+v", d)
	}
}
