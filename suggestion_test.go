package lorrybook

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrybook/lorrybook/model"
)

func emptySettlementRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "settlement_id", "owner_a_id", "owner_b_id", "from_date", "to_date", "trip_ids",
		"trip_breakdown", "amount_breakdown", "net_amount", "status", "notes", "version", "created_at",
	})
}

func addSettlementRow(rows *sqlmock.Rows, id string, from, to time.Time) *sqlmock.Rows {
	return rows.AddRow(1, id, "own_a", "own_b", from, to, "{}",
		[]byte("[]"), []byte(`{"a_to_b_total":"0","b_to_a_total":"0","net_payable_by":"none"}`),
		"0", model.SettlementCompleted, "", 0, time.Now())
}

func TestSuggestSettlementRange_FirstSettlement(t *testing.T) {
	l, mock := newTestLorrybook(t)
	today := model.TruncateToDay(time.Now())
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())

	expectCollaboration(mock, "own_a", "own_b")
	mock.ExpectQuery("SELECT .* FROM lorrybook.settlements").
		WillReturnRows(emptySettlementRows())
	// trips logged so far this month
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	suggestion, err := l.SuggestSettlementRange(context.Background(), "own_a", "own_b")
	require.NoError(t, err)

	assert.Equal(t, model.SuggestionFirstSettlement, suggestion.SuggestionType)
	assert.Equal(t, monthStart, suggestion.FromDate)
	assert.Equal(t, today, suggestion.ToDate)
	assert.Equal(t, 2, suggestion.TripCount)
	assert.Equal(t, model.PriorityNormal, suggestion.Priority)
}

func TestSuggestSettlementRange_NoTripsAtAll(t *testing.T) {
	l, mock := newTestLorrybook(t)

	expectCollaboration(mock, "own_a", "own_b")
	mock.ExpectQuery("SELECT .* FROM lorrybook.settlements").
		WillReturnRows(emptySettlementRows())
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	suggestion, err := l.SuggestSettlementRange(context.Background(), "own_a", "own_b")
	require.NoError(t, err)

	assert.Equal(t, model.SuggestionFirstSettlement, suggestion.SuggestionType)
	assert.Equal(t, 0, suggestion.TripCount)
	assert.Equal(t, model.PriorityNormal, suggestion.Priority)
}

func TestSuggestSettlementRange_UnsettledTripsAfterLast(t *testing.T) {
	l, mock := newTestLorrybook(t)
	lastTo := model.TruncateToDay(time.Now()).AddDate(0, 0, -30)

	expectCollaboration(mock, "own_a", "own_b")
	mock.ExpectQuery("SELECT .* FROM lorrybook.settlements").
		WillReturnRows(addSettlementRow(emptySettlementRows(), "stl_1", lastTo.AddDate(0, 0, -30), lastTo))
	// trips logged after the last settled period
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(14))
	// gap before the only settlement holds nothing
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	suggestion, err := l.SuggestSettlementRange(context.Background(), "own_a", "own_b")
	require.NoError(t, err)

	assert.Equal(t, model.SuggestionUnsettledTrips, suggestion.SuggestionType)
	assert.Equal(t, lastTo.AddDate(0, 0, 1), suggestion.FromDate)
	assert.Equal(t, 14, suggestion.TripCount)
	assert.Equal(t, model.PriorityCritical, suggestion.Priority)
	assert.Empty(t, suggestion.Alternatives)
}

func TestSuggestSettlementRange_Continuation(t *testing.T) {
	l, mock := newTestLorrybook(t)
	lastTo := model.TruncateToDay(time.Now()).AddDate(0, 0, -10)

	expectCollaboration(mock, "own_a", "own_b")
	mock.ExpectQuery("SELECT .* FROM lorrybook.settlements").
		WillReturnRows(addSettlementRow(emptySettlementRows(), "stl_1", lastTo.AddDate(0, 0, -20), lastTo))
	// nothing since the last settlement
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// gap before it is empty too
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	suggestion, err := l.SuggestSettlementRange(context.Background(), "own_a", "own_b")
	require.NoError(t, err)

	assert.Equal(t, model.SuggestionContinuation, suggestion.SuggestionType)
	assert.Equal(t, lastTo.AddDate(0, 0, 1), suggestion.FromDate)
	assert.Equal(t, 0, suggestion.TripCount)
	assert.Equal(t, model.PriorityNormal, suggestion.Priority)
	assert.Empty(t, suggestion.Alternatives)
}

func TestSuggestSettlementRange_StrandedGapAsAlternative(t *testing.T) {
	l, mock := newTestLorrybook(t)
	lastTo := model.TruncateToDay(time.Now()).AddDate(0, 0, -10)

	expectCollaboration(mock, "own_a", "own_b")
	mock.ExpectQuery("SELECT .* FROM lorrybook.settlements").
		WillReturnRows(addSettlementRow(emptySettlementRows(), "stl_1", lastTo.AddDate(0, 0, -20), lastTo))
	// nothing since the last settlement
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	// but three trips stranded before it
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	suggestion, err := l.SuggestSettlementRange(context.Background(), "own_a", "own_b")
	require.NoError(t, err)

	assert.Equal(t, model.SuggestionContinuation, suggestion.SuggestionType)
	assert.Equal(t, 0, suggestion.TripCount)
	require.Len(t, suggestion.Alternatives, 1)
	assert.Equal(t, 3, suggestion.Alternatives[0].TripCount)
}
