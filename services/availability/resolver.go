package availability

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	availabilityRepo "crewly/database/repository/availability"
	"crewly/models"
	"crewly/utils"
)

// Resolver computes the open working intervals of a staff member for a
// given date from recurring rules, one-time overrides and absences.
type Resolver interface {
	Resolve(ctx context.Context, staffID, date string) ([]models.OpenInterval, error)
}

// DefaultResolver is the production implementation.
type DefaultResolver struct {
	Repo availabilityRepo.AvailabilityRepository
}

const minutesPerDay = 24 * 60

// Resolve loads the staff member's active rules and absences and reduces
// them to a disjoint, time-ordered list of open intervals. An empty
// result means the staff member is fully unavailable that day; it is not
// an error.
func (r *DefaultResolver) Resolve(ctx context.Context, staffID, date string) ([]models.OpenInterval, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, &models.InvalidRangeError{StartDate: date, EndDate: date}
	}

	rules, err := r.Repo.ListActiveRules(ctx, staffID)
	if err != nil {
		return nil, err
	}

	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)
	absences, err := r.Repo.ListAbsencesOverlapping(ctx, staffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	open := ResolveDay(rules, absences, day)
	utils.GetLogger().Debug("resolved staff availability",
		zap.String("staffId", staffID),
		zap.String("date", date),
		zap.Int("intervals", len(open)))
	return open, nil
}

// taggedInterval is one rule's span on the day, carrying the rank used
// to decide which rule governs an overlapped sub-range.
type taggedInterval struct {
	start, end int
	rank       ruleRank
	breaks     []models.BreakWindow
}

type ruleRank struct {
	kind     int    // ONE_TIME=1, RECURRING=0; ONE_TIME always wins
	priority int    // HIGH=2, MEDIUM=1, LOW=0
	id       string // deterministic tie-break
}

func (a ruleRank) higherThan(b ruleRank) bool {
	if a.kind != b.kind {
		return a.kind > b.kind
	}
	if a.priority != b.priority {
		return a.priority > b.priority
	}
	return a.id < b.id
}

func priorityRank(p string) int {
	switch p {
	case models.PriorityHigh:
		return 2
	case models.PriorityMedium:
		return 1
	default:
		return 0
	}
}

// ResolveDay is the pure reduction: rank-sweep over rule spans, then the
// governing rule's breaks, then approved absences as absolute vetoes.
func ResolveDay(rules []models.AvailabilityRule, absences []models.StaffAbsence, day time.Time) []models.OpenInterval {
	tagged := collectTagged(rules, day)
	vetoes := collectVetoes(absences, day)

	cuts := cutPoints(tagged, vetoes)
	var open []models.OpenInterval
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		if a >= b {
			continue
		}
		if !segmentOpen(tagged, vetoes, a, b) {
			continue
		}
		if n := len(open); n > 0 && open[n-1].End == a {
			open[n-1].End = b
			continue
		}
		open = append(open, models.OpenInterval{Start: a, End: b})
	}
	return open
}

// collectTagged instantiates each applicable rule on the day as a tagged
// interval in minutes from midnight. ONE_TIME spans crossing midnight
// are clipped to the day.
func collectTagged(rules []models.AvailabilityRule, day time.Time) []taggedInterval {
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)
	weekday := int(day.Weekday())

	var tagged []taggedInterval
	for _, rule := range rules {
		if !rule.IsActive {
			continue
		}
		switch rule.Type {
		case models.RuleRecurring:
			if rule.DayOfWeek != weekday {
				continue
			}
			if rule.StartMinute >= rule.EndMinute {
				continue
			}
			tagged = append(tagged, taggedInterval{
				start:  rule.StartMinute,
				end:    rule.EndMinute,
				rank:   ruleRank{kind: 0, priority: priorityRank(rule.Priority), id: rule.ID},
				breaks: rule.Breaks,
			})
		case models.RuleOneTime:
			if !rule.StartAt.Before(dayEnd) || !rule.EndAt.After(dayStart) {
				continue
			}
			start := clampMinutes(rule.StartAt, day)
			end := clampMinutes(rule.EndAt, day)
			if start >= end {
				continue
			}
			tagged = append(tagged, taggedInterval{
				start:  start,
				end:    end,
				rank:   ruleRank{kind: 1, priority: priorityRank(rule.Priority), id: rule.ID},
				breaks: rule.Breaks,
			})
		}
	}
	return tagged
}

func collectVetoes(absences []models.StaffAbsence, day time.Time) []models.BreakWindow {
	dayStart := day
	dayEnd := day.AddDate(0, 0, 1)

	var vetoes []models.BreakWindow
	for _, ab := range absences {
		if !ab.Approved {
			continue
		}
		if !ab.StartAt.Before(dayEnd) || !ab.EndAt.After(dayStart) {
			continue
		}
		start := clampMinutes(ab.StartAt, day)
		end := clampMinutes(ab.EndAt, day)
		if start < end {
			vetoes = append(vetoes, models.BreakWindow{Start: start, End: end})
		}
	}
	return vetoes
}

// clampMinutes converts an instant to minutes from the day's midnight,
// clamped to [0, minutesPerDay].
func clampMinutes(t time.Time, day time.Time) int {
	minutes := int(t.Sub(day) / time.Minute)
	if minutes < 0 {
		return 0
	}
	if minutes > minutesPerDay {
		return minutesPerDay
	}
	return minutes
}

func cutPoints(tagged []taggedInterval, vetoes []models.BreakWindow) []int {
	seen := map[int]bool{}
	var cuts []int
	add := func(m int) {
		if !seen[m] {
			seen[m] = true
			cuts = append(cuts, m)
		}
	}
	for _, ti := range tagged {
		add(ti.start)
		add(ti.end)
		for _, br := range ti.breaks {
			add(br.Start)
			add(br.End)
		}
	}
	for _, v := range vetoes {
		add(v.Start)
		add(v.End)
	}
	sort.Ints(cuts)
	return cuts
}

// segmentOpen decides whether the elementary segment [a, b) is open: the
// highest-ranked covering rule governs it, the governing rule's breaks
// close it, and any approved absence closes it unconditionally.
func segmentOpen(tagged []taggedInterval, vetoes []models.BreakWindow, a, b int) bool {
	var governing *taggedInterval
	for i := range tagged {
		ti := &tagged[i]
		if ti.start <= a && b <= ti.end {
			if governing == nil || ti.rank.higherThan(governing.rank) {
				governing = ti
			}
		}
	}
	if governing == nil {
		return false
	}
	for _, br := range governing.breaks {
		if br.Start <= a && b <= br.End {
			return false
		}
	}
	for _, v := range vetoes {
		if v.Start < b && a < v.End {
			return false
		}
	}
	return true
}
