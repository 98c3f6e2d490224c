package models_test

import (
	"testing"
	"time"

	"github.com/mbayedione/giehub/internal/domain/models"
)

func TestApplyType_DerivesFeeAndBenefits(t *testing.T) {
	var m models.Membership

	m.Type = models.MembershipStandard
	m.ApplyType()
	if m.FeeAmount != models.StandardFee {
		t.Errorf("standard fee: got %d, want %d", m.FeeAmount, models.StandardFee)
	}
	if !m.Benefits.Training || !m.Benefits.Microcredit {
		t.Error("standard membership missing base benefits")
	}
	if m.Benefits.PrioritySupport || m.Benefits.EquipmentSharing {
		t.Error("standard membership has premium benefits")
	}

	m.Type = models.MembershipPremium
	m.ApplyType()
	if m.FeeAmount != models.PremiumFee {
		t.Errorf("premium fee: got %d, want %d", m.FeeAmount, models.PremiumFee)
	}
	if !m.Benefits.PrioritySupport || !m.Benefits.EquipmentSharing {
		t.Error("premium membership missing premium benefits")
	}
}

func TestApplyType_UnknownFallsBackToStandard(t *testing.T) {
	m := models.Membership{Type: "platinum"}
	m.ApplyType()
	if m.Type != models.MembershipStandard {
		t.Errorf("type: got %q, want %q", m.Type, models.MembershipStandard)
	}
	if m.FeeAmount != models.StandardFee {
		t.Errorf("fee: got %d, want %d", m.FeeAmount, models.StandardFee)
	}
}

func TestNewSteps_SubmissionDone(t *testing.T) {
	now := time.Now()
	steps := models.NewSteps(now)

	if len(steps) != models.ProcessStepCount {
		t.Fatalf("steps: got %d, want %d", len(steps), models.ProcessStepCount)
	}
	if steps[0].Name != models.StepSubmission || !steps[0].Done {
		t.Errorf("submission step not pre-completed: %+v", steps[0])
	}
	for _, s := range steps[1:] {
		if s.Done {
			t.Errorf("step %q done at creation", s.Name)
		}
	}
}

func TestCompleteStep_IdempotentAndProgress(t *testing.T) {
	now := time.Now()
	m := models.Membership{Steps: models.NewSteps(now)}

	if got := m.Progress(); got != 20 {
		t.Errorf("fresh progress: got %v, want 20", got)
	}

	first := now.Add(time.Hour)
	m.CompleteStep(models.StepVerification, first)
	if got := m.Progress(); got != 40 {
		t.Errorf("progress after verification: got %v, want 40", got)
	}

	// Replaying keeps the original completion time.
	m.CompleteStep(models.StepVerification, now.Add(48*time.Hour))
	for _, s := range m.Steps {
		if s.Name == models.StepVerification {
			if !s.CompletedAt.Equal(first) {
				t.Errorf("replay moved completion time: got %v, want %v", s.CompletedAt, first)
			}
		}
	}
	if got := m.Progress(); got != 40 {
		t.Errorf("progress after replay: got %v, want 40", got)
	}

	m.CompleteStep("packaging", now)
	if got := m.Progress(); got != 40 {
		t.Errorf("unknown step changed progress: got %v", got)
	}
}
