/*
Copyright 2024 Lorrybook Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package lorrybook

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/lorrybook/lorrybook/config"
	"github.com/lorrybook/lorrybook/model"
)

// SuggestSettlementRange proposes the next settlement period for the pair.
//
// With no prior settlement the suggestion covers the current calendar month
// up to today. Otherwise the main suggestion continues from the day after the
// last settled period, labelled unsettled_trips when that window holds trips
// and continuation when it is empty. Unsettled trips left in gaps between
// past settlements surface as alternatives only.
func (l *Lorrybook) SuggestSettlementRange(ctx context.Context, actingOwnerID, partnerID string) (*model.RangeSuggestion, error) {
	ctx, span := otel.Tracer("Settlement").Start(ctx, "Suggesting settlement range")
	defer span.End()

	if err := l.requireCollaboration(ctx, actingOwnerID, partnerID); err != nil {
		return nil, err
	}

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	today := model.TruncateToDay(time.Now())
	settlements, err := l.datasource.ListSettlementsBetween(ctx, actingOwnerID, partnerID)
	if err != nil {
		return nil, err
	}

	if len(settlements) == 0 {
		return l.suggestFirstSettlement(ctx, actingOwnerID, partnerID, today, cnf.Settlement.CriticalTripCount)
	}

	last := settlements[len(settlements)-1]
	lastTo := model.TruncateToDay(last.ToDate)
	from := lastTo.AddDate(0, 0, 1)
	if from.After(today) {
		from = today
	}
	count, err := l.datasource.CountTripsBetweenAfter(ctx, actingOwnerID, partnerID, lastTo)
	if err != nil {
		return nil, err
	}

	suggestionType := model.SuggestionContinuation
	if count > 0 {
		suggestionType = model.SuggestionUnsettledTrips
	}
	suggestion := &model.RangeSuggestion{
		SuggestionType: suggestionType,
		FromDate:       from,
		ToDate:         today,
		TripCount:      count,
		Priority:       priorityFor(count, cnf.Settlement.CriticalTripCount),
	}

	gaps, err := l.collectGaps(ctx, actingOwnerID, partnerID, settlements)
	if err != nil {
		return nil, err
	}
	suggestion.Alternatives = gaps

	return suggestion, nil
}

// suggestFirstSettlement covers the pair's first run: the current calendar
// month up to today, even when the window holds no trips yet.
func (l *Lorrybook) suggestFirstSettlement(ctx context.Context, actingOwnerID, partnerID string, today time.Time, criticalCount int) (*model.RangeSuggestion, error) {
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	count, err := l.datasource.CountTripsBetweenInRange(ctx, actingOwnerID, partnerID, monthStart, today)
	if err != nil {
		return nil, err
	}

	return &model.RangeSuggestion{
		SuggestionType: model.SuggestionFirstSettlement,
		FromDate:       monthStart,
		ToDate:         today,
		TripCount:      count,
		Priority:       priorityFor(count, criticalCount),
	}, nil
}

// collectGaps finds unsettled trips stranded before or between past
// settlement periods.
func (l *Lorrybook) collectGaps(ctx context.Context, ownerA, ownerB string, settlements []*model.Settlement) ([]model.SuggestedRange, error) {
	gaps := []model.SuggestedRange{}
	epoch := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

	prevEnd := epoch
	for _, settlement := range settlements {
		start := model.TruncateToDay(settlement.FromDate)
		gapEnd := start.AddDate(0, 0, -1)
		if !gapEnd.Before(prevEnd) {
			count, err := l.datasource.CountTripsBetweenInRange(ctx, ownerA, ownerB, prevEnd, gapEnd)
			if err != nil {
				return nil, err
			}
			if count > 0 {
				gaps = append(gaps, model.SuggestedRange{FromDate: prevEnd, ToDate: gapEnd, TripCount: count})
			}
		}
		end := model.TruncateToDay(settlement.ToDate).AddDate(0, 0, 1)
		if end.After(prevEnd) {
			prevEnd = end
		}
	}

	return gaps, nil
}

func priorityFor(tripCount, criticalCount int) string {
	if tripCount >= criticalCount {
		return model.PriorityCritical
	}
	return model.PriorityNormal
}
