package tone

import (
	"math"
	"testing"
)

func TestFrequency(t *testing.T) {
	tests := []struct {
		note string
		want float64
	}{
		{"A4", 440},
		{"A", 440},
		{"a5", 880},
		{"C4", 261.63},
		{"D#5", 622.25},
		{"Bb3", 233.08},
		{"E2", 82.41},
	}
	for _, tt := range tests {
		got, err := Frequency(tt.note)
		if err != nil {
			t.Fatalf("%s: %v", tt.note, err)
		}
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("%s = %.2f, want %.2f", tt.note, got, tt.want)
		}
	}

	for _, bad := range []string{"", "H4", "C#x"} {
		if _, err := Frequency(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestSequenceLength(t *testing.T) {
	s := Sequence(SampleRate, []string{"C4", "nope", "E4"})

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		total += n
		for i := 0; i < n; i++ {
			if buf[i][0] < -1 || buf[i][0] > 1 {
				t.Fatalf("sample out of range: %f", buf[i][0])
			}
		}
		if !ok {
			break
		}
	}

	want := 3 * (SampleRate.N(noteLength) + SampleRate.N(noteGap))
	if total != want {
		t.Fatalf("streamed %d samples, want %d", total, want)
	}
}
