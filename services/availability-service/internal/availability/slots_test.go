package availability

import (
	"testing"

	"github.com/md-rashed-zaman/bayslots/services/availability-service/internal/schedule"
)

func TestGenerateSlots_Basic(t *testing.T) {
	slots := GenerateSlots(schedule.MustParseClock("08:00"), schedule.MustParseClock("17:00"), 60)
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	if slots[0].String() != "08:00" {
		t.Fatalf("expected first slot 08:00, got %s", slots[0])
	}
	if slots[len(slots)-1].String() != "16:00" {
		t.Fatalf("expected last slot 16:00, got %s", slots[len(slots)-1])
	}
	for i := 1; i < len(slots); i++ {
		if slots[i]-slots[i-1] != SlotIntervalMinutes {
			t.Fatalf("slots %s and %s are not %d minutes apart", slots[i-1], slots[i], SlotIntervalMinutes)
		}
	}
}

func TestGenerateSlots_DurationLongerThanWindow(t *testing.T) {
	slots := GenerateSlots(schedule.MustParseClock("09:00"), schedule.MustParseClock("13:00"), 300)
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %v", slots)
	}
}

func TestGenerateSlots_ExactFit(t *testing.T) {
	slots := GenerateSlots(schedule.MustParseClock("09:00"), schedule.MustParseClock("13:00"), 240)
	if len(slots) != 1 || slots[0].String() != "09:00" {
		t.Fatalf("expected single 09:00 slot, got %v", slots)
	}
}

func TestGenerateSlots_Bounds(t *testing.T) {
	for open := schedule.Minutes(0); open < 600; open += 45 {
		for close := open + 15; close <= open+600; close += 50 {
			for _, d := range []int{15, 30, 45, 60, 90, 120, 240} {
				for _, s := range GenerateSlots(open, close, d) {
					if s < open {
						t.Fatalf("slot %s before open %s", s, open)
					}
					if s+schedule.Minutes(d) > close {
						t.Fatalf("slot %s + %d runs past close %s", s, d, close)
					}
				}
			}
		}
	}
}

func TestGenerateSlots_InvalidInput(t *testing.T) {
	if GenerateSlots(600, 600, 30) != nil {
		t.Fatalf("expected nil for empty window")
	}
	if GenerateSlots(480, 1020, 0) != nil {
		t.Fatalf("expected nil for zero duration")
	}
}
