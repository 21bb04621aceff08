// Package automation is the capability-checked strategy for browser-driven
// remediation. A Driver either performs the site interaction or reports that
// it could not, in which case the executor falls back to the manual path.
package automation

import "context"

// Supervisor is the subset of operator interaction an automated run needs:
// the operator is the cancellation mechanism, so every risky step is gated.
type Supervisor interface {
	Confirm(question string, defaultYes bool) (bool, error)
	Pause(message string) error
}

// RotateRequest carries everything needed to fill a change-password form.
type RotateRequest struct {
	TargetURL       string
	CurrentPassword string
	NewPassword     string
	Selectors       map[string]string
}

// DeleteRequest carries everything needed to drive a deletion confirmation.
type DeleteRequest struct {
	TargetURL string
	Selectors map[string]string
}

// Driver attempts automated remediation. Try methods report success; false
// with a nil error means the driver could not act (missing selectors, no
// engine) and the caller should fall through to manual mode.
type Driver interface {
	Available() bool
	TryRotate(ctx context.Context, req RotateRequest, sup Supervisor) (bool, error)
	TryDelete(ctx context.Context, req DeleteRequest, sup Supervisor) (bool, error)
}

// Noop is the driver used when no automation engine is installed.
type Noop struct{}

var _ Driver = Noop{}

func (Noop) Available() bool { return false }

func (Noop) TryRotate(context.Context, RotateRequest, Supervisor) (bool, error) {
	return false, nil
}

func (Noop) TryDelete(context.Context, DeleteRequest, Supervisor) (bool, error) {
	return false, nil
}
