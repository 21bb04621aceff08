package breach

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/credential-defense/creddef/internal/model"
	"github.com/credential-defense/creddef/internal/passgen"
)

// RiskLevel is an ordered breach-risk classification.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (r RiskLevel) String() string {
	switch r {
	case RiskHigh:
		return "high"
	case RiskMedium:
		return "medium"
	default:
		return "low"
	}
}

// Escalate returns the higher of the two levels. Risk only moves up within a
// single assessment; a later check can never downgrade an earlier finding.
func (r RiskLevel) Escalate(to RiskLevel) RiskLevel {
	if to > r {
		return to
	}
	return r
}

// Result is the outcome of one assessment.
type Result struct {
	Level              RiskLevel
	Reasons            []string
	PwnedPasswordCount int
	EmailBreachNames   []string
}

// Options control which remote checks run.
type Options struct {
	OnlinePasswordCheck bool
	OnlineEmailCheck    bool
	APIKey              string
}

// LookupClient is the remote breach directory surface used by the Assessor.
type LookupClient interface {
	PwnedPasswordCount(ctx context.Context, password string) (int, error)
	BreachesForEmail(ctx context.Context, email, apiKey string) ([]BreachEvent, error)
}

// Assessor scores one record at a time: local weak-password heuristic first,
// then the optional remote checks, best effort. Remote failures become reason
// strings and never abort the assessment.
type Assessor struct {
	client LookupClient
	cache  *Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewAssessor constructs an Assessor.
func NewAssessor(client LookupClient, cache *Cache, logger *zap.Logger) *Assessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Assessor{client: client, cache: cache, logger: logger, now: time.Now}
}

// Assess scores the record, mutates its risk fields (Compromised,
// BreachCount, LastCheckedAt) and upserts the advisory cache entry.
func (a *Assessor) Assess(ctx context.Context, rec *model.CredentialRecord, opts Options) Result {
	result := Result{Level: RiskLow}

	if passgen.IsWeak(rec.Password) {
		result.Level = result.Level.Escalate(RiskMedium)
		result.Reasons = append(result.Reasons, "Password policy weakness detected")
	}

	if opts.OnlinePasswordCheck && rec.Password != "" {
		count, err := a.client.PwnedPasswordCount(ctx, rec.Password)
		if err != nil {
			result.Reasons = append(result.Reasons, fmt.Sprintf("Password breach API unavailable: %v", err))
			a.logger.Warn("password breach lookup failed", zap.String("record_id", rec.RecordID), zap.Error(err))
		} else if count > 0 {
			result.PwnedPasswordCount = count
			result.Level = result.Level.Escalate(RiskHigh)
			result.Reasons = append(result.Reasons, fmt.Sprintf("Password hash appears in %d breach records", count))
		}
	}

	if opts.OnlineEmailCheck && opts.APIKey != "" && strings.Contains(rec.Username, "@") {
		events, err := a.client.BreachesForEmail(ctx, rec.Username, opts.APIKey)
		if err != nil {
			result.Reasons = append(result.Reasons, fmt.Sprintf("Email breach API unavailable: %v", err))
			a.logger.Warn("email breach lookup failed", zap.String("record_id", rec.RecordID), zap.Error(err))
		} else if len(events) > 0 {
			for _, event := range events {
				name := event.Name
				if name == "" {
					name = "unknown"
				}
				result.EmailBreachNames = append(result.EmailBreachNames, name)
			}
			result.Level = result.Level.Escalate(RiskHigh)
			result.Reasons = append(result.Reasons, fmt.Sprintf("Email found in %d breach events", len(events)))
		}
	}

	checkedAt := a.now().UTC()
	rec.Compromised = result.PwnedPasswordCount > 0 || len(result.EmailBreachNames) > 0
	rec.BreachCount = result.PwnedPasswordCount + len(result.EmailBreachNames)
	rec.LastCheckedAt = &checkedAt

	if a.cache != nil {
		err := a.cache.Upsert(rec.RecordID, CacheEntry{
			Service:            rec.Service,
			Username:           rec.Username,
			Owner:              rec.Owner,
			CheckedAt:          checkedAt,
			PwnedPasswordCount: result.PwnedPasswordCount,
			EmailBreaches:      result.EmailBreachNames,
			RiskLevel:          result.Level.String(),
			Reasons:            result.Reasons,
		})
		if err != nil {
			a.logger.Warn("breach cache write failed", zap.String("record_id", rec.RecordID), zap.Error(err))
		}
	}
	return result
}
