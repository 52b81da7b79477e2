package availability

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in   string
		want Weekday
	}{
		{"Monday", Monday},
		{"sunday", Sunday},
		{" WEDNESDAY ", Wednesday},
		{"friday", Friday},
	}
	for _, tt := range tests {
		got, err := ParseWeekday(tt.in)
		if err != nil {
			t.Fatalf("ParseWeekday(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseWeekday(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "Mo", "mon", "Sat", "Funday", "mond"} {
		if _, err := ParseWeekday(bad); err == nil {
			t.Errorf("ParseWeekday(%q) expected error", bad)
		}
	}

	_, err := ParseWeekday("Thu")
	if err == nil || !strings.Contains(err.Error(), `"Thu"`) {
		t.Errorf("error should quote the input as given, got %v", err)
	}
}

func TestWeek_Order(t *testing.T) {
	want := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for i, d := range Week {
		if d.String() != want[i] {
			t.Errorf("Week[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestClock_ParseAndFormat(t *testing.T) {
	c, err := ParseClock("09:05")
	if err != nil {
		t.Fatalf("ParseClock: %v", err)
	}
	if int(c) != 9*60+5 {
		t.Errorf("minutes = %d, want %d", int(c), 9*60+5)
	}
	if c.String() != "09:05" {
		t.Errorf("String() = %q", c.String())
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for 25:00")
	}
}

func TestAvailability_JSON(t *testing.T) {
	a := Availability{
		Day:       Thursday,
		TimeSlots: []TimeSlot{{Start: MustClock("08:00"), End: MustClock("09:15")}},
	}
	b, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["dayOfWeek"] != "Thursday" {
		t.Errorf("dayOfWeek = %v", got["dayOfWeek"])
	}
	slot := got["timeSlots"].([]interface{})[0].(map[string]interface{})
	if slot["startTime"] != "08:00" || slot["endTime"] != "09:15" {
		t.Errorf("slot = %v", slot)
	}
}
