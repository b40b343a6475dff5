package availability

import "github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"

// SlotIntervalMinutes is the spacing between candidate start times.
const SlotIntervalMinutes = 30

// GenerateSlots returns candidate start times from open, every SlotIntervalMinutes, for which a
// service of the given duration still ends no later than close. The result is ascending and may be
// empty when the service does not fit the window at all.
func GenerateSlots(open, close schedule.Minutes, durationMinutes int) []schedule.Minutes {
	if durationMinutes <= 0 || close <= open {
		return nil
	}
	duration := schedule.Minutes(durationMinutes)

	var slots []schedule.Minutes
	for t := open; t+duration <= close; t += SlotIntervalMinutes {
		slots = append(slots, t)
	}
	return slots
}
