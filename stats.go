package lorrybook

import (
	"context"
	"time"

	"github.com/lorrybook/lorrybook/internal/apierror"
	"github.com/lorrybook/lorrybook/model"
)

// GetSettlementStats aggregates the acting owner's settlements for a named
// period: "month", "quarter" and "year" are relative to now, anything else needs an
// explicit range.
func (l *Lorrybook) GetSettlementStats(ctx context.Context, actingOwnerID, period string, from, to *time.Time) (*model.SettlementStats, error) {
	now := time.Now()
	var start, end time.Time

	switch period {
	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = now
	case "quarter":
		quarterStart := time.Month(((int(now.Month())-1)/3)*3 + 1)
		start = time.Date(now.Year(), quarterStart, 1, 0, 0, 0, 0, now.Location())
		end = now
	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		end = now
	case "custom":
		if from == nil || to == nil {
			return nil, apierror.NewAPIError(apierror.ErrBadRequest, "from_date and to_date are required for a custom period", nil)
		}
		start, end = *from, *to
	default:
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "Invalid period, expected month, quarter, year or custom", nil)
	}
	if end.Before(start) {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "from_date must not be after to_date", nil)
	}

	stats, err := l.datasource.GetSettlementStats(ctx, actingOwnerID, start, end)
	if err != nil {
		return nil, err
	}
	stats.Period = period
	return stats, nil
}
