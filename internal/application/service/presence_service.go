package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/clock"
	"github.com/sangkips/brewpos-api/internal/domain/entity"
	"github.com/sangkips/brewpos-api/internal/domain/enum"
	"github.com/sangkips/brewpos-api/internal/domain/pos"
	"github.com/sangkips/brewpos-api/internal/domain/repository"
	"github.com/sangkips/brewpos-api/pkg/apperror"
	"github.com/sangkips/brewpos-api/pkg/metrics"
	"go.uber.org/zap"
)

// maxPresenceRange caps the number of days a summary request may span
const maxPresenceRange = 62

// PresenceService records clock actions and reduces them into daily summaries.
// Days are keyed in the configured timezone.
type PresenceService struct {
	presenceRepo repository.PresenceRepository
	staffRepo    repository.StaffRepository
	locator      Locator
	metrics      *metrics.Metrics
	clock        clock.Clock
	log          *zap.Logger

	// mu serialises the guard-then-append of Record
	mu sync.Mutex
}

// NewPresenceService creates a new presence service
func NewPresenceService(
	presenceRepo repository.PresenceRepository,
	staffRepo repository.StaffRepository,
	locator Locator,
	m *metrics.Metrics,
	clk clock.Clock,
	log *zap.Logger,
) *PresenceService {
	return &PresenceService{
		presenceRepo: presenceRepo,
		staffRepo:    staffRepo,
		locator:      locator,
		metrics:      m,
		clock:        clk,
		log:          loggerOrNop(log),
	}
}

// RecordResult is the stored entry and the status it leads to
type RecordResult struct {
	Entry   *entity.PresenceEntry `json:"entry"`
	Summary pos.DaySummary        `json:"summary"`
}

// Record appends a clock action for the actor at the current time. The
// action must be legal from the status of the actor's day so far. A shift
// that started yesterday and is still open keeps yesterday's date key.
func (s *PresenceService) Record(ctx context.Context, actor Actor, action enum.PresenceAction) (*RecordResult, error) {
	if !action.IsValid() {
		return nil, apperror.NewFieldError("action", "must be login, logout, break-start or break-end")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	date, entries, err := s.shiftDay(ctx, actor.StaffID, now)
	if err != nil {
		return nil, err
	}
	current, err := pos.ReduceDay(entries, now)
	if err != nil {
		return nil, err
	}
	if _, err := pos.NextStatus(current.Status, action); err != nil {
		s.metrics.PresenceRecorded(string(action), false)
		s.log.Warn("presence transition rejected",
			zap.String("staff_id", actor.StaffID.String()),
			zap.String("action", string(action)),
			zap.String("status", string(current.Status)),
		)
		return nil, translatePOSError(err)
	}

	entry := &entity.PresenceEntry{
		StoreID:   actor.StoreID,
		StaffID:   actor.StaffID,
		StaffName: actor.Name,
		Action:    action,
		Timestamp: now,
		Date:      date,
	}
	if err := s.presenceRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	s.metrics.PresenceRecorded(string(action), true)

	summary, err := pos.ReduceDay(append(entries, *entry), now)
	if err != nil {
		return nil, err
	}
	return &RecordResult{Entry: entry, Summary: summary}, nil
}

// DaySummary reduces one staff member's day. Open segments are closed at
// the current time, or at midnight for past days.
func (s *PresenceService) DaySummary(ctx context.Context, staffID uuid.UUID, date string) (*pos.DaySummary, error) {
	asOf, err := s.asOf(ctx, date)
	if err != nil {
		return nil, err
	}
	entries, err := s.presenceRepo.ListByStaffDate(ctx, staffID, date)
	if err != nil {
		return nil, err
	}
	summary, err := pos.ReduceDay(entries, asOf)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// DayRow is the summary of one day in a range
type DayRow struct {
	Date    string         `json:"date"`
	Summary pos.DaySummary `json:"summary"`
}

// RangeSummary is the per-day reduction of a staff member's entries
type RangeSummary struct {
	StaffID      uuid.UUID `json:"staff_id"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	Days         []DayRow  `json:"days"`
	WorkMinutes  int       `json:"work_minutes"`
	BreakMinutes int       `json:"break_minutes"`
}

// Summaries reduces every day in [from, to] that has entries. Staff may read
// their own log; reading someone else's requires the view-reports permission.
func (s *PresenceService) Summaries(ctx context.Context, actor Actor, staffID uuid.UUID, from, to string) (*RangeSummary, error) {
	if err := s.authorizeRead(ctx, actor, staffID); err != nil {
		return nil, err
	}
	if _, _, err := parseDateRange(from, to); err != nil {
		return nil, err
	}

	entries, err := s.presenceRepo.ListByStaffRange(ctx, staffID, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]entity.PresenceEntry)
	var dates []string
	for _, e := range entries {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e)
	}

	result := &RangeSummary{StaffID: staffID, From: from, To: to, Days: make([]DayRow, 0, len(dates))}
	for _, date := range dates {
		asOf, err := s.asOf(ctx, date)
		if err != nil {
			return nil, err
		}
		summary, err := pos.ReduceDay(byDate[date], asOf)
		if err != nil {
			return nil, err
		}
		result.Days = append(result.Days, DayRow{Date: date, Summary: summary})
		result.WorkMinutes += summary.WorkMinutes
		result.BreakMinutes += summary.BreakMinutes
	}
	return result, nil
}

// Entries returns the raw log for a staff member and date range
func (s *PresenceService) Entries(ctx context.Context, actor Actor, staffID uuid.UUID, from, to string) ([]entity.PresenceEntry, error) {
	if err := s.authorizeRead(ctx, actor, staffID); err != nil {
		return nil, err
	}
	if _, _, err := parseDateRange(from, to); err != nil {
		return nil, err
	}
	return s.presenceRepo.ListByStaffRange(ctx, staffID, from, to)
}

// BoardRow is one staff member's line on the presence board
type BoardRow struct {
	StaffID uuid.UUID      `json:"staff_id"`
	Name    string         `json:"name"`
	Role    enum.StaffRole `json:"role"`
	Date    string         `json:"date"`
	Summary pos.DaySummary `json:"summary"`
}

// Board returns the status of every active staff member of the store for a date
func (s *PresenceService) Board(ctx context.Context, date string) ([]BoardRow, error) {
	if _, err := storeFromContext(ctx); err != nil {
		return nil, err
	}
	if date == "" {
		date = s.Today(ctx)
	}
	asOf, err := s.asOf(ctx, date)
	if err != nil {
		return nil, err
	}

	staff, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.presenceRepo.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	byStaff := groupByStaff(entries)

	// Shifts still open from yesterday show on today's board
	var carried map[uuid.UUID][]entity.PresenceEntry
	if date == s.Today(ctx) {
		previous, err := s.presenceRepo.ListByDate(ctx, previousDay(date))
		if err != nil {
			return nil, err
		}
		carried = groupByStaff(previous)
	}

	rows := make([]BoardRow, 0, len(staff))
	for _, member := range staff {
		rowDate := date
		summary, err := pos.ReduceDay(byStaff[member.ID], asOf)
		if err == nil && len(byStaff[member.ID]) == 0 && len(carried[member.ID]) > 0 {
			if open, openErr := pos.ReduceDay(carried[member.ID], asOf); openErr == nil && open.Status != enum.PresenceLoggedOut {
				rowDate, summary = previousDay(date), open
			}
		}
		if err != nil {
			s.log.Warn("inconsistent presence log",
				zap.String("staff_id", member.ID.String()),
				zap.String("date", date),
				zap.Error(err),
			)
		}
		rows = append(rows, BoardRow{
			StaffID: member.ID,
			Name:    member.Name,
			Role:    member.Role,
			Date:    rowDate,
			Summary: summary,
		})
	}
	return rows, nil
}

// shiftDay picks the date key an action at now belongs to, with that day's
// entries so far: yesterday while a shift started yesterday is still open,
// today otherwise. Older open days are left to close at their midnight.
func (s *PresenceService) shiftDay(ctx context.Context, staffID uuid.UUID, now time.Time) (string, []entity.PresenceEntry, error) {
	today := pos.DateKey(now, s.locator.Location(ctx))

	last, err := s.presenceRepo.LastByStaff(ctx, staffID)
	if err != nil {
		return "", nil, err
	}
	if last != nil && last.Date == previousDay(today) {
		entries, err := s.presenceRepo.ListByStaffDate(ctx, staffID, last.Date)
		if err != nil {
			return "", nil, err
		}
		open, err := pos.ReduceDay(entries, now)
		if err == nil && open.Status != enum.PresenceLoggedOut {
			return last.Date, entries, nil
		}
	}

	entries, err := s.presenceRepo.ListByStaffDate(ctx, staffID, today)
	if err != nil {
		return "", nil, err
	}
	return today, entries, nil
}

func groupByStaff(entries []entity.PresenceEntry) map[uuid.UUID][]entity.PresenceEntry {
	byStaff := make(map[uuid.UUID][]entity.PresenceEntry)
	for _, e := range entries {
		byStaff[e.StaffID] = append(byStaff[e.StaffID], e)
	}
	return byStaff
}

// previousDay returns the date key before date. date is a valid key.
func previousDay(date string) string {
	day, err := time.Parse(pos.DateLayout, date)
	if err != nil {
		return ""
	}
	return day.AddDate(0, 0, -1).Format(pos.DateLayout)
}

// Today returns the current date key
func (s *PresenceService) Today(ctx context.Context) string {
	return pos.DateKey(s.clock.Now(), s.locator.Location(ctx))
}

// asOf is the instant open segments of date are closed at: now for today,
// the following midnight for past days
func (s *PresenceService) asOf(ctx context.Context, date string) (time.Time, error) {
	loc := s.locator.Location(ctx)
	day, err := time.ParseInLocation(pos.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, apperror.NewFieldError("date", "must be YYYY-MM-DD")
	}
	end := day.AddDate(0, 0, 1)
	now := s.clock.Now()
	if now.Before(end) {
		return now, nil
	}
	return end, nil
}

func (s *PresenceService) authorizeRead(ctx context.Context, actor Actor, staffID uuid.UUID) error {
	if staffID != actor.StaffID && !actor.Can(enum.PermViewReports) {
		return apperror.ErrForbidden
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		return err
	}
	if staff == nil || staff.StoreID != actor.StoreID {
		return apperror.NewNotFoundError("Staff")
	}
	return nil
}

func parseDateRange(from, to string) (time.Time, time.Time, error) {
	start, err := time.Parse(pos.DateLayout, from)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewFieldError("from", "must be YYYY-MM-DD")
	}
	end, err := time.Parse(pos.DateLayout, to)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewFieldError("to", "must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.NewFieldError("to", "must not be before from")
	}
	if end.Sub(start) > maxPresenceRange*24*time.Hour {
		return time.Time{}, time.Time{}, apperror.NewFieldError("to", "range must not exceed 62 days")
	}
	return start, end, nil
}
