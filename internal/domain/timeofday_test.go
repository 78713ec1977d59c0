package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 9*60 + 30},
		{in: "23:59", want: 23*60 + 59},
		{in: "24:00", wantErr: true},
		{in: "9:30am", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) error = nil, want error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tc.in, int(got), int(tc.want))
		}
	}
}

func TestTimeOfDayJSONRoundTrip(t *testing.T) {
	in := NewTimeOfDay(14, 5)

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if string(b) != `"14:05"` {
		t.Fatalf("Marshal = %s, want %q", b, "14:05")
	}

	var out TimeOfDay
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out != in {
		t.Fatalf("round trip = %v, want %v", out, in)
	}
}

func TestTimeOfDayAt(t *testing.T) {
	date := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
	got := NewTimeOfDay(9, 30).At(date)

	want := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("At = %v, want %v", got, want)
	}
}

func TestTimeOfDayValid(t *testing.T) {
	if !NewTimeOfDay(0, 0).Valid() {
		t.Errorf("00:00 should be valid")
	}
	if !NewTimeOfDay(23, 59).Valid() {
		t.Errorf("23:59 should be valid")
	}
	if NewTimeOfDay(24, 0).Valid() {
		t.Errorf("24:00 should be invalid")
	}
	if TimeOfDay(-1).Valid() {
		t.Errorf("negative minutes should be invalid")
	}
}
