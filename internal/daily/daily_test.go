package daily

import (
	"testing"
	"time"
)

func TestDateKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*60*60)
	ts := time.Date(2026, 3, 2, 5, 0, 0, 0, loc) // 2026-03-01 19:00 UTC
	if got := DateKey(ts); got != "2026-03-01" {
		t.Fatalf("DateKey = %q", got)
	}
}

func TestSongIndex(t *testing.T) {
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	later := day.Add(10 * time.Hour)

	a := SongIndex(day, "salt", 17)
	if b := SongIndex(later, "salt", 17); a != b {
		t.Fatalf("same date gave %d and %d", a, b)
	}
	if a < 0 || a >= 17 {
		t.Fatalf("index %d out of range", a)
	}
	if got := SongIndex(day, "salt", 0); got != 0 {
		t.Fatalf("empty table index = %d", got)
	}

	// over a month of dates, the salt has to matter somewhere
	differ := false
	for d := 0; d < 31; d++ {
		ts := day.AddDate(0, 0, d)
		if SongIndex(ts, "salt", 17) != SongIndex(ts, "pepper", 17) {
			differ = true
			break
		}
	}
	if !differ {
		t.Fatal("salt has no effect on the index")
	}
}
