// Package services – LoginService
//
// This file implements daily login tracking: one row per user and UTC day,
// plus the derived weekly plan, streak statistics and week-over-week
// comparison. Weeks run Sunday to Saturday.
package services

import (
	"context"
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/repo"
)

// LoginRecord is the result of Record.
type LoginRecord struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	ID      string `json:"id"`
}

// WeekDay is one cell of a weekly plan.
type WeekDay struct {
	Date     string `json:"date"`
	Label    string `json:"label"`
	HasLogin bool   `json:"hasLogin"`
	IsToday  bool   `json:"isToday"`
}

// LoginStats summarizes a user's login history.
type LoginStats struct {
	TotalLogins         int     `json:"totalLogins"`
	CurrentStreak       int     `json:"currentStreak"`
	LongestStreak       int     `json:"longestStreak"`
	LastLoginDate       *string `json:"lastLoginDate"`
	AverageLoginsPerDay float64 `json:"averageLoginsPerDay"`
}

// WeeklyComparison compares the current week with the previous one.
type WeeklyComparison struct {
	CurrentWeek           []WeekDay `json:"currentWeek"`
	PreviousWeek          []WeekDay `json:"previousWeek"`
	CurrentWeekCount      int       `json:"currentWeekCount"`
	PreviousWeekCount     int       `json:"previousWeekCount"`
	CurrentWeekStart      *string   `json:"currentWeekStart"`
	CurrentWeekEnd        *string   `json:"currentWeekEnd"`
	PreviousWeekStart     *string   `json:"previousWeekStart"`
	PreviousWeekEnd       *string   `json:"previousWeekEnd"`
	CurrentWeekFormatted  *string   `json:"currentWeekFormatted"`
	PreviousWeekFormatted *string   `json:"previousWeekFormatted"`
}

// LoginService records and summarizes daily logins.
type LoginService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Record upserts today's login for userID.
func (s *LoginService) Record(ctx context.Context, userID string) (*LoginRecord, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	now := s.now()
	row, action, err := repo.RecordLogin(ctx, s.DB, userID, now.Format(dateLayout), now)
	if err != nil {
		return nil, err
	}
	return &LoginRecord{Success: true, Action: action, ID: row.ID}, nil
}

// List returns all logins, newest first.
func (s *LoginService) List(ctx context.Context, userID string) ([]domain.DailyLogin, error) {
	if userID == "" {
		return []domain.DailyLogin{}, nil
	}
	return repo.ListLogins(ctx, s.DB, userID)
}

// HasLoggedInToday reports whether userID has a login for today (UTC).
func (s *LoginService) HasLoggedInToday(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return repo.HasLogin(ctx, s.DB, userID, s.now().Format(dateLayout))
}

// Weekly returns the current Sunday..Saturday week with login marks.
func (s *LoginService) Weekly(ctx context.Context, userID string) ([]WeekDay, error) {
	if userID == "" {
		return []WeekDay{}, nil
	}
	dates, err := s.dateSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	return week(weekStart(today), dates, today.Format(dateLayout)), nil
}

// Stats computes totals and streaks over distinct login dates. The current
// streak only counts if the latest login was today or yesterday.
func (s *LoginService) Stats(ctx context.Context, userID string) (*LoginStats, error) {
	if userID == "" {
		return &LoginStats{}, nil
	}
	dates, err := repo.LoginDates(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return computeStats(dates, s.now()), nil
}

// Comparison returns the current and previous week side by side.
func (s *LoginService) Comparison(ctx context.Context, userID string) (*WeeklyComparison, error) {
	if userID == "" {
		return &WeeklyComparison{CurrentWeek: []WeekDay{}, PreviousWeek: []WeekDay{}}, nil
	}
	dates, err := s.dateSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.now()
	curStart := weekStart(today)
	prevStart := curStart.AddDate(0, 0, -7)

	cur := week(curStart, dates, today.Format(dateLayout))
	prev := week(prevStart, dates, "")

	return &WeeklyComparison{
		CurrentWeek:           cur,
		PreviousWeek:          prev,
		CurrentWeekCount:      countLogins(cur),
		PreviousWeekCount:     countLogins(prev),
		CurrentWeekStart:      ptr(curStart.Format(dateLayout)),
		CurrentWeekEnd:        ptr(curStart.AddDate(0, 0, 6).Format(dateLayout)),
		PreviousWeekStart:     ptr(prevStart.Format(dateLayout)),
		PreviousWeekEnd:       ptr(prevStart.AddDate(0, 0, 6).Format(dateLayout)),
		CurrentWeekFormatted:  ptr(formatInterval(curStart, curStart.AddDate(0, 0, 6))),
		PreviousWeekFormatted: ptr(formatInterval(prevStart, prevStart.AddDate(0, 0, 6))),
	}, nil
}

func (s *LoginService) dateSet(ctx context.Context, userID string) (map[string]bool, error) {
	dates, err := repo.LoginDates(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(dates))
	for _, d := range dates {
		set[d] = true
	}
	return set, nil
}

func computeStats(datesDesc []string, now time.Time) *LoginStats {
	st := &LoginStats{TotalLogins: len(datesDesc)}
	if len(datesDesc) == 0 {
		return st
	}
	days := make([]time.Time, 0, len(datesDesc))
	for _, d := range datesDesc {
		if t, err := time.Parse(dateLayout, d); err == nil {
			days = append(days, t)
		}
	}
	if len(days) == 0 {
		return st
	}
	last := datesDesc[0]
	st.LastLoginDate = &last

	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if f := days[0].Format(dateLayout); f == today || f == yesterday {
		st.CurrentStreak = 1
		for i := 1; i < len(days) && days[i-1].Sub(days[i]) == 24*time.Hour; i++ {
			st.CurrentStreak++
		}
	}

	streak := 1
	st.LongestStreak = 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i].Sub(days[i+1]) == 24*time.Hour {
			streak++
		} else {
			streak = 1
		}
		st.LongestStreak = max(st.LongestStreak, streak)
	}

	first := days[len(days)-1]
	since := math.Ceil(now.Sub(first).Hours() / 24)
	st.AverageLoginsPerDay = float64(len(days)) / math.Max(1, since)
	return st
}

func weekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func week(start time.Time, dates map[string]bool, today string) []WeekDay {
	upper := cases.Upper(language.English)
	out := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		ds := day.Format(dateLayout)
		out = append(out, WeekDay{
			Date:     ds,
			Label:    upper.String(day.Weekday().String()[:2]),
			HasLogin: dates[ds],
			IsToday:  ds == today,
		})
	}
	return out
}

func countLogins(days []WeekDay) int {
	n := 0
	for _, d := range days {
		if d.HasLogin {
			n++
		}
	}
	return n
}

// formatInterval renders "Jan 2 - 8" or "Jan 30 - Feb 5".
func formatInterval(start, end time.Time) string {
	if start.Month() == end.Month() {
		return start.Format("Jan 2") + " - " + end.Format("2")
	}
	return start.Format("Jan 2") + " - " + end.Format("Jan 2")
}

func ptr[T any](v T) *T { return &v }
