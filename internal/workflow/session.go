// Package workflow implements the guided top-to-bottom triage session.
package workflow

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/credential-defense/creddef/internal/actions"
	"github.com/credential-defense/creddef/internal/breach"
	"github.com/credential-defense/creddef/internal/model"
	"github.com/credential-defense/creddef/internal/passgen"
	"github.com/credential-defense/creddef/internal/prompt"
)

// RiskAssessor scores a record and mutates its risk fields.
type RiskAssessor interface {
	Assess(ctx context.Context, rec *model.CredentialRecord, opts breach.Options) breach.Result
}

// Session drives the ordered per-record review: assess, decide, mutate
// lifecycle, enqueue remediation tasks.
type Session struct {
	assessor   RiskAssessor
	queue      *actions.Queue
	prompt     prompt.Interaction
	priorities []model.Category
	logger     *zap.Logger

	generate func(int) (string, error)
	now      func() time.Time
}

// NewSession constructs a Session. An empty priority list falls back to the
// default category order.
func NewSession(assessor RiskAssessor, queue *actions.Queue, interaction prompt.Interaction, priorities []model.Category, logger *zap.Logger) *Session {
	if len(priorities) == 0 {
		priorities = model.DefaultCategoryOrder
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		assessor:   assessor,
		queue:      queue,
		prompt:     interaction,
		priorities: priorities,
		logger:     logger,
		generate:   passgen.Generate,
		now:        time.Now,
	}
}

func (s *Session) priorityIndex(category model.Category) int {
	for i, c := range s.priorities {
		if c == category {
			return i
		}
	}
	// unlisted categories sort after all listed ones
	return len(s.priorities)
}

// order sorts records by (priority index, service, username). Stable, so two
// records sharing all keys keep their relative order.
func (s *Session) order(records []model.CredentialRecord) []model.CredentialRecord {
	ordered := append([]model.CredentialRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := s.priorityIndex(ordered[i].Category), s.priorityIndex(ordered[j].Category)
		if pi != pj {
			return pi < pj
		}
		si, sj := strings.ToLower(ordered[i].Service), strings.ToLower(ordered[j].Service)
		if si != sj {
			return si < sj
		}
		return strings.ToLower(ordered[i].Username) < strings.ToLower(ordered[j].Username)
	})
	return ordered
}

// Run reviews every record in triage order and returns the mutated list.
// The queue is persisted whether or not any new tasks were enqueued this
// pass; the caller persists the records to the vault.
func (s *Session) Run(ctx context.Context, records []model.CredentialRecord, opts breach.Options) ([]model.CredentialRecord, error) {
	ordered := s.order(records)
	s.prompt.Printf("Loaded %d records. Starting top-to-bottom review.\n", len(ordered))

	for i := range ordered {
		rec := &ordered[i]
		s.prompt.Printf("\n%s\n", strings.Repeat("=", 80))
		s.prompt.Printf("[%d/%d] %s | %s | owner=%s | category=%s\n", i+1, len(ordered), rec.Service, rec.Username, rec.Owner, rec.Category)
		s.prompt.Printf("URL: %s\n", rec.URL)

		result := s.assessor.Assess(ctx, rec, opts)
		reasons := "none"
		if len(result.Reasons) > 0 {
			reasons = strings.Join(result.Reasons, ", ")
		}
		s.prompt.Printf("Risk: %s | reasons: %s\n", result.Level, reasons)

		stillUsing, err := s.prompt.Choose("Are you still using this account?", []string{"yes", "no", "not sure"}, 0)
		if err != nil {
			return nil, err
		}

		switch stillUsing {
		case "no":
			rec.LifecycleState = model.StateInactive
			queueDeletion, err := s.prompt.Confirm("Queue account deletion/removal from this site?", true)
			if err != nil {
				return nil, err
			}
			if queueDeletion {
				s.enqueue(model.NewTask(*rec, model.ActionDeleteAccount, "User marked account as no longer needed", s.now().UTC()))
				rec.LifecycleState = model.StateRetirePending
			}

		case "not sure":
			rec.LifecycleState = model.StateReviewLater

		default: // yes
			rec.LifecycleState = model.StateActive
			suggested := result.Level >= breach.RiskMedium
			rotate, err := s.prompt.Confirm("Rotate password now?", suggested)
			if err != nil {
				return nil, err
			}
			if rotate {
				generated, err := s.generate(passgen.DefaultLength)
				if err != nil {
					return nil, fmt.Errorf("generate rotation password: %w", err)
				}
				rotatedAt := s.now().UTC()
				rec.PendingPassword = generated
				rec.LastRotatedAt = &rotatedAt
				s.enqueue(model.NewTask(*rec, model.ActionRotatePassword, "User approved password rotation", rotatedAt))
				s.prompt.Printf("Generated new password and queued rotate task.\n")
			}
		}
		rec.UpdatedAt = s.now().UTC()
	}

	if err := s.queue.Save(); err != nil {
		return nil, fmt.Errorf("persist action queue: %w", err)
	}
	return ordered, nil
}

func (s *Session) enqueue(task model.ActionTask) {
	if !s.queue.Enqueue(task) {
		s.logger.Debug("task already queued", zap.String("task_id", task.TaskID))
	}
}
