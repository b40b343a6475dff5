package availability

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
)

type JobStatus string

const (
	JobCompleted JobStatus = "completed"
	JobCancelled JobStatus = "cancelled"
)

// Booking is a scheduled appointment as read from storage.
type Booking struct {
	ScheduledStart  time.Time
	DurationMinutes int
}

// Job is work already in the workshop. StartedAt is nil for jobs that have not been started.
type Job struct {
	StartedAt *time.Time
}

// CommitmentSource is the read-only view of persisted work that the evaluator needs.
// Every lookup is scoped to one ledger; [dayStart, dayEnd) is the calendar day being evaluated.
type CommitmentSource interface {
	FindBookingsOverlappingDay(ctx context.Context, ledgerID string, dayStart, dayEnd time.Time, statusIn []BookingStatus) ([]Booking, error)
	FindJobsOverlappingDay(ctx context.Context, ledgerID string, dayStart, dayEnd time.Time, statusNotIn []JobStatus) ([]Job, error)
}

// ScheduleSource optionally supplies a ledger's own weekly hours. ok=false means use the default table.
type ScheduleSource interface {
	WeeklySchedule(ctx context.Context, ledgerID string) (hours schedule.Weekly, ok bool, err error)
}

func blockingBookingStatuses() []BookingStatus {
	return []BookingStatus{BookingPending, BookingConfirmed}
}

func finishedJobStatuses() []JobStatus {
	return []JobStatus{JobCompleted, JobCancelled}
}

// JobPolicy decides how jobs without a recorded start take up capacity.
type JobPolicy int

const (
	// JobPolicyPlaceholder books unstarted jobs at PlaceholderJobStart for AssumedJobDurationMinutes.
	JobPolicyPlaceholder JobPolicy = iota
	// JobPolicyExclude leaves unstarted jobs out of occupancy entirely.
	JobPolicyExclude
)

const (
	PlaceholderJobStart       schedule.Minutes = 8 * 60
	AssumedJobDurationMinutes                  = 120
)

func ParseJobPolicy(s string) (JobPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "placeholder":
		return JobPolicyPlaceholder, nil
	case "exclude":
		return JobPolicyExclude, nil
	default:
		return 0, fmt.Errorf("unknown job policy %q (want placeholder or exclude)", s)
	}
}

func (p JobPolicy) String() string {
	if p == JobPolicyExclude {
		return "exclude"
	}
	return "placeholder"
}

// Commitment is a booking or job reduced to where it starts on the evaluated day and how long it runs.
type Commitment struct {
	Start           schedule.Minutes
	DurationMinutes int
}

func toCommitments(dayStart time.Time, bookings []Booking, jobs []Job, policy JobPolicy) []Commitment {
	out := make([]Commitment, 0, len(bookings)+len(jobs))
	for _, b := range bookings {
		out = append(out, Commitment{
			Start:           schedule.Of(b.ScheduledStart, dayStart),
			DurationMinutes: b.DurationMinutes,
		})
	}
	for _, j := range jobs {
		switch {
		case j.StartedAt != nil:
			out = append(out, Commitment{
				Start:           schedule.Of(*j.StartedAt, dayStart),
				DurationMinutes: AssumedJobDurationMinutes,
			})
		case policy == JobPolicyPlaceholder:
			out = append(out, Commitment{
				Start:           PlaceholderJobStart,
				DurationMinutes: AssumedJobDurationMinutes,
			})
		}
	}
	return out
}
