package session

import (
	"fmt"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/srs"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

// Share of a mixed session reserved for never-reviewed vocabulary. The
// remainder is filled due-first, and either side tops up from the other
// when its own pool runs short.
const mixedNewShare = 0.3

// selectEntries picks the session's vocabulary from the candidate pool
// according to the review mode. The result has exactly cfg.ItemCount
// entries or the call fails with ErrInsufficientContent.
func selectEntries(cfg models.SessionConfig, pool []models.PoolEntry, now time.Time) ([]models.PoolEntry, error) {
	count := cfg.ItemCount
	if count < 0 {
		return nil, fmt.Errorf("%w: negative item count %d", ErrInsufficientContent, count)
	}
	if count == 0 {
		return nil, nil
	}

	switch cfg.Mode {
	case models.ReviewOnly:
		due := srs.NextDue(pool, count, now)
		if len(due) < count {
			return nil, fmt.Errorf("%w: %d due entries for %d requested", ErrInsufficientContent, len(due), count)
		}
		return due, nil

	case models.NewOnly:
		unseen := srs.Unseen(pool)
		if len(unseen) < count {
			return nil, fmt.Errorf("%w: %d unseen entries for %d requested", ErrInsufficientContent, len(unseen), count)
		}
		return unseen[:count], nil

	case models.Mixed:
		unseen := srs.Unseen(pool)
		due := srs.NextDue(pool, -1, now)

		newTarget := int(float64(count) * mixedNewShare)
		if newTarget > len(unseen) {
			newTarget = len(unseen)
		}
		reviewTarget := count - newTarget
		if reviewTarget > len(due) {
			// Top up the new share with whatever review can't cover.
			shortfall := reviewTarget - len(due)
			reviewTarget = len(due)
			newTarget += shortfall
			if newTarget > len(unseen) {
				return nil, fmt.Errorf("%w: %d available entries for %d requested", ErrInsufficientContent, len(unseen)+len(due), count)
			}
		}

		selected := make([]models.PoolEntry, 0, count)
		selected = append(selected, due[:reviewTarget]...)
		selected = append(selected, unseen[:newTarget]...)
		return selected, nil

	default:
		return nil, fmt.Errorf("%w: unknown review mode %q", ErrInsufficientContent, cfg.Mode)
	}
}
