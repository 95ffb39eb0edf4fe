package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresenceService_FullDay(t *testing.T) {
	env := newTestEnv(t)

	res, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	assert.Equal(t, enum.PresenceLoggedIn, res.Summary.Status)
	assert.Equal(t, "2026-03-02", res.Entry.Date)

	env.clock.Advance(3 * time.Hour)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceBreakStart)
	require.NoError(t, err)

	env.clock.Advance(30 * time.Minute)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceBreakEnd)
	require.NoError(t, err)

	env.clock.Advance(4*time.Hour + 30*time.Minute)
	res, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogout)
	require.NoError(t, err)
	assert.Equal(t, enum.PresenceLoggedOut, res.Summary.Status)
	assert.Equal(t, 450, res.Summary.WorkMinutes)
	assert.Equal(t, 30, res.Summary.BreakMinutes)

	env.clock.Advance(2 * time.Hour)
	summary, err := env.presence.DaySummary(env.ctx, env.cashier.StaffID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 450, summary.WorkMinutes)
	assert.Equal(t, 4, summary.Entries)
}

func TestPresenceService_RejectsIllegalTransitions(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogout)
	assertAppError(t, err, http.StatusConflict)

	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	assertAppError(t, err, http.StatusConflict)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceBreakEnd)
	assertAppError(t, err, http.StatusConflict)

	_, err = env.presence.Record(env.ctx, env.cashier, "nap")
	assertAppError(t, err, http.StatusUnprocessableEntity)

	entries, err := env.presence.Entries(env.ctx, env.cashier, env.cashier.StaffID, "2026-03-02", "2026-03-02")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPresenceService_OpenSegmentsClose(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)

	env.clock.Advance(90 * time.Minute)
	summary, err := env.presence.DaySummary(env.ctx, env.cashier.StaffID, env.presence.Today(env.ctx))
	require.NoError(t, err)
	assert.Equal(t, enum.PresenceLoggedIn, summary.Status)
	assert.Equal(t, 90, summary.WorkMinutes)

	env.clock.Advance(48 * time.Hour)
	summary, err = env.presence.DaySummary(env.ctx, env.cashier.StaffID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 15*60, summary.WorkMinutes)

	_, err = env.presence.DaySummary(env.ctx, env.cashier.StaffID, "02/03/2026")
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func TestPresenceService_BoardAndRanges(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceBreakStart)
	require.NoError(t, err)

	board, err := env.presence.Board(env.ctx, "")
	require.NoError(t, err)
	require.Len(t, board, 2)
	statuses := map[string]enum.PresenceStatus{}
	for _, row := range board {
		statuses[row.Name] = row.Summary.Status
	}
	assert.Equal(t, enum.PresenceOnBreak, statuses[env.cashier.Name])
	assert.Equal(t, enum.PresenceLoggedOut, statuses[env.admin.Name])

	env.clock.Advance(30 * time.Minute)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceBreakEnd)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogout)
	require.NoError(t, err)

	env.clock.Advance(24 * time.Hour)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	_, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogout)
	require.NoError(t, err)

	rng, err := env.presence.Summaries(env.ctx, env.admin, env.cashier.StaffID, "2026-03-01", "2026-03-05")
	require.NoError(t, err)
	require.Len(t, rng.Days, 2)
	assert.Equal(t, "2026-03-02", rng.Days[0].Date)
	assert.Equal(t, 120, rng.Days[0].Summary.WorkMinutes)
	assert.Equal(t, 180, rng.WorkMinutes)
	assert.Equal(t, 30, rng.BreakMinutes)

	_, err = env.presence.Summaries(env.ctx, env.cashier, env.admin.StaffID, "2026-03-01", "2026-03-05")
	assertAppError(t, err, http.StatusForbidden)

	_, err = env.presence.Summaries(env.ctx, env.admin, env.cashier.StaffID, "2026-03-05", "2026-03-01")
	assertAppError(t, err, http.StatusUnprocessableEntity)
}

func boardRow(t *testing.T, board []BoardRow, name string) BoardRow {
	t.Helper()
	for _, row := range board {
		if row.Name == name {
			return row
		}
	}
	require.Failf(t, "missing board row", "no row for %s", name)
	return BoardRow{}
}

func TestPresenceService_ShiftAcrossMidnight(t *testing.T) {
	env := newTestEnv(t)

	env.clock.Set(time.Date(2026, 3, 2, 22, 0, 0, 0, time.UTC))
	_, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, 3, 3, 0, 30, 0, 0, time.UTC))
	board, err := env.presence.Board(env.ctx, "")
	require.NoError(t, err)
	row := boardRow(t, board, env.cashier.Name)
	assert.Equal(t, enum.PresenceLoggedIn, row.Summary.Status)
	assert.Equal(t, "2026-03-02", row.Date)
	assert.Equal(t, 150, row.Summary.WorkMinutes)
	assert.Equal(t, "2026-03-03", boardRow(t, board, env.admin.Name).Date)

	env.clock.Set(time.Date(2026, 3, 3, 1, 0, 0, 0, time.UTC))
	res, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogout)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", res.Entry.Date)
	assert.Equal(t, enum.PresenceLoggedOut, res.Summary.Status)
	assert.Equal(t, 180, res.Summary.WorkMinutes)

	summary, err := env.presence.DaySummary(env.ctx, env.cashier.StaffID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 180, summary.WorkMinutes)
	assert.Equal(t, 2, summary.Entries)

	board, err = env.presence.Board(env.ctx, "")
	require.NoError(t, err)
	row = boardRow(t, board, env.cashier.Name)
	assert.Equal(t, enum.PresenceLoggedOut, row.Summary.Status)
	assert.Equal(t, "2026-03-03", row.Date)

	env.clock.Set(time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))
	res, err = env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", res.Entry.Date)
}

func TestPresenceService_AbandonedShiftDoesNotCarryOver(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)

	env.clock.Set(time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC))
	res, err := env.presence.Record(env.ctx, env.cashier, enum.PresenceLogin)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-04", res.Entry.Date)

	summary, err := env.presence.DaySummary(env.ctx, env.cashier.StaffID, "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, 15*60, summary.WorkMinutes)
}
