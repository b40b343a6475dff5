package config

import "testing"

func TestInt(t *testing.T) {
	t.Setenv("BAYS", "")
	n, err := Int("BAYS", 2)
	if err != nil || n != 2 {
		t.Fatalf("expected fallback 2, got %d (err=%v)", n, err)
	}

	t.Setenv("BAYS", "4")
	n, err = Int("BAYS", 2)
	if err != nil || n != 4 {
		t.Fatalf("expected 4, got %d (err=%v)", n, err)
	}

	t.Setenv("BAYS", "-1")
	if _, err := Int("BAYS", 2); err == nil {
		t.Fatalf("expected error for negative value")
	}
}

func TestPort(t *testing.T) {
	t.Setenv("PORT", "70000")
	if _, err := Port("PORT", "8085"); err == nil {
		t.Fatalf("expected error for out of range port")
	}
	t.Setenv("PORT", "")
	p, err := Port("PORT", "8085")
	if err != nil || p != "8085" {
		t.Fatalf("expected fallback port, got %q (err=%v)", p, err)
	}
}

func TestLocation(t *testing.T) {
	t.Setenv("TZ_TEST", "")
	loc, err := Location("TZ_TEST", "UTC")
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v (err=%v)", loc, err)
	}
	t.Setenv("TZ_TEST", "Not/AZone")
	if _, err := Location("TZ_TEST", "UTC"); err == nil {
		t.Fatalf("expected error for unknown zone")
	}
}

func TestList(t *testing.T) {
	t.Setenv("ORIGINS", " https://a.example , ,https://b.example")
	got := List("ORIGINS")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected list: %v", got)
	}
}
