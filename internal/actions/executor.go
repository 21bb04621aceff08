package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/credential-defense/creddef/internal/automation"
	"github.com/credential-defense/creddef/internal/config"
	"github.com/credential-defense/creddef/internal/model"
	"github.com/credential-defense/creddef/internal/passgen"
	"github.com/credential-defense/creddef/internal/prompt"
)

// Executor walks pending tasks one at a time: confirmation gate, automation
// attempt with manual fallback, outcome confirmation, journal entry, queue
// persist. Terminal tasks are never re-executed.
type Executor struct {
	queue    *Queue
	journal  *Journal
	prompt   prompt.Interaction
	driver   automation.Driver
	profiles config.SiteProfiles
	logger   *zap.Logger

	openURL func(string) error
	now     func() time.Time
}

// NewExecutor constructs an Executor over the queue and journal.
func NewExecutor(queue *Queue, journal *Journal, interaction prompt.Interaction, driver automation.Driver, profiles config.SiteProfiles, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if driver == nil {
		driver = automation.Noop{}
	}
	return &Executor{
		queue:    queue,
		journal:  journal,
		prompt:   interaction,
		driver:   driver,
		profiles: profiles,
		logger:   logger,
		openURL:  browser.OpenURL,
		now:      time.Now,
	}
}

// Run executes every pending task against the record set. Records are
// mutated in place (applied rotation passwords); the caller persists them to
// the vault afterwards. The queue file is rewritten after each task so a
// crash loses at most the in-flight task.
func (e *Executor) Run(ctx context.Context, records map[string]*model.CredentialRecord) error {
	for _, task := range e.queue.Pending() {
		rec, ok := records[task.RecordID]
		if !ok {
			task.Status = model.TaskFailed
			task.Detail = "Record missing in vault"
			if err := e.finish(task, nil); err != nil {
				return err
			}
			continue
		}

		e.prompt.Printf("\nTask: %s | %s | %s | owner=%s\n", task.ActionType, rec.Service, rec.Username, rec.Owner)
		profile := e.profiles.For(model.DomainFromURL(rec.URL))
		targetURL := targetURLFor(task, *rec, profile)
		e.prompt.Printf("Target URL: %s\n", targetURL)

		proceed, err := e.prompt.Confirm("Open this URL and execute now?", true)
		if err != nil {
			return err
		}
		if !proceed {
			task.Status = model.TaskSkipped
			task.Detail = "User deferred"
			if err := e.finish(task, rec); err != nil {
				return err
			}
			continue
		}

		attempted, succeeded, err := e.tryAutomation(ctx, task, rec, profile, targetURL)
		if err != nil {
			return err
		}

		if !succeeded {
			if err := e.openURL(targetURL); err != nil {
				e.logger.Warn("open browser failed", zap.String("url", targetURL), zap.Error(err))
				e.prompt.Printf("Could not open browser: %v\n", err)
			} else {
				e.prompt.Printf("Browser opened.\n")
			}
		}

		appliedPassword := rec.PendingPassword
		if appliedPassword == "" {
			appliedPassword = rec.Password
		}
		if task.ActionType == model.ActionRotatePassword && !succeeded {
			e.prompt.Printf("Raw password display is disabled by security policy. Confirm the password you applied using hidden input.\n")
			appliedPassword, err = e.readManualRotationPassword()
			if err != nil {
				return err
			}
		}

		completed, err := e.prompt.Confirm("Mark this task as completed?", true)
		if err != nil {
			return err
		}
		if completed {
			task.Status = model.TaskCompleted
			switch {
			case succeeded:
				task.Detail = "Completed with browser automation + user confirmation"
			case attempted:
				task.Detail = "Automation attempted; completed manually by user confirmation"
			default:
				task.Detail = "Completed manually by user confirmation"
			}
			if task.ActionType == model.ActionRotatePassword {
				rec.Password = appliedPassword
				rec.PendingPassword = ""
				rec.UpdatedAt = e.now().UTC()
			}
		} else {
			task.Status = model.TaskFailed
			task.Detail = "Not completed"
		}
		if err := e.finish(task, rec); err != nil {
			return err
		}
	}
	return e.queue.Save()
}

// tryAutomation runs the capability-checked strategy: engine available, site
// profile opted in, operator opted in. Automation failure is non-fatal and
// falls through to manual mode.
func (e *Executor) tryAutomation(ctx context.Context, task model.ActionTask, rec *model.CredentialRecord, profile config.SiteProfile, targetURL string) (attempted, succeeded bool, err error) {
	if !e.driver.Available() || !profile.Automation.Enabled {
		return false, false, nil
	}
	optIn, err := e.prompt.Confirm("Try browser automation for this task?", true)
	if err != nil || !optIn {
		return false, false, err
	}

	newPassword := rec.PendingPassword
	if newPassword == "" {
		newPassword = rec.Password
	}
	var autoErr error
	switch task.ActionType {
	case model.ActionRotatePassword:
		succeeded, autoErr = e.driver.TryRotate(ctx, automation.RotateRequest{
			TargetURL:       targetURL,
			CurrentPassword: rec.Password,
			NewPassword:     newPassword,
			Selectors:       profile.Automation.Selectors,
		}, e.prompt)
	case model.ActionDeleteAccount:
		succeeded, autoErr = e.driver.TryDelete(ctx, automation.DeleteRequest{
			TargetURL: targetURL,
			Selectors: profile.Automation.Selectors,
		}, e.prompt)
	}
	if autoErr != nil {
		e.logger.Warn("automation failed, falling back to manual",
			zap.String("task_id", task.TaskID), zap.Error(autoErr))
		e.prompt.Printf("Automation failed (%v); continuing manually.\n", autoErr)
		return true, false, nil
	}
	return true, succeeded, nil
}

// readManualRotationPassword captures the applied password: hidden input,
// confirmed twice, re-checked against the weak-password heuristic with an
// override.
func (e *Executor) readManualRotationPassword() (string, error) {
	for {
		first, err := e.prompt.ReadSecret("Enter the new password currently set on the account: ")
		if err != nil {
			return "", err
		}
		if first == "" {
			e.prompt.Printf("Password entry is required to safely complete rotation.\n")
			continue
		}
		second, err := e.prompt.ReadSecret("Confirm the new password: ")
		if err != nil {
			return "", err
		}
		if first != second {
			e.prompt.Printf("Password confirmation mismatch. Try again.\n")
			continue
		}
		if passgen.IsWeak(first) {
			keep, err := e.prompt.Confirm("Entered password appears weak. Continue anyway?", false)
			if err != nil {
				return "", err
			}
			if !keep {
				continue
			}
		}
		return first, nil
	}
}

// finish stamps the task, journals the outcome, and persists the queue.
func (e *Executor) finish(task model.ActionTask, rec *model.CredentialRecord) error {
	task.UpdatedAt = e.now().UTC()
	e.queue.update(task)

	entry := JournalEntry{
		Timestamp:  task.UpdatedAt,
		TaskID:     task.TaskID,
		RecordID:   task.RecordID,
		Service:    task.Service,
		ActionType: task.ActionType,
		Status:     task.Status,
	}
	if rec != nil {
		entry.Service = rec.Service
		entry.Username = rec.Username
	}
	if err := e.journal.Append(entry); err != nil {
		e.logger.Warn("journal append failed", zap.String("task_id", task.TaskID), zap.Error(err))
	}
	if err := e.queue.Save(); err != nil {
		return fmt.Errorf("persist action queue: %w", err)
	}
	return nil
}
