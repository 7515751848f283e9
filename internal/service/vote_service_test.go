package service

import "testing"

func TestCrossedMilestone(t *testing.T) {
	tests := []struct {
		name    string
		old     int
		new     int
		want    int
		crossed bool
	}{
		{"stays below", 3, 4, 0, false},
		{"reaches ten", 9, 10, 10, true},
		{"jumps past ten", 8, 12, 10, true},
		{"within same bucket", 11, 14, 0, false},
		{"reaches twenty", 19, 20, 20, true},
		{"skips a bucket", 9, 21, 20, true},
		{"downward move", 12, 9, 0, false},
		{"no move", 10, 10, 0, false},
		{"recovers from negative", -5, 10, 10, true},
		{"negative to positive below ten", -5, 5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			milestone, crossed := crossedMilestone(tt.old, tt.new)
			if crossed != tt.crossed || milestone != tt.want {
				t.Errorf("crossedMilestone(%d, %d) = (%d, %v), want (%d, %v)",
					tt.old, tt.new, milestone, crossed, tt.want, tt.crossed)
			}
		})
	}
}
