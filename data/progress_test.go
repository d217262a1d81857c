package data

import "testing"

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int32
		totalPages  int32
		want        float64
	}{
		{"zero pages read", 0, 300, 0},
		{"halfway", 150, 300, 50},
		{"finished", 300, 300, 100},
		{"past the end clamps to 100", 350, 300, 100},
		{"negative page clamps to 0", -5, 300, 0},
		{"unknown total yields 0", 100, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percentage(tt.currentPage, tt.totalPages); got != tt.want {
				t.Errorf("Percentage(%d, %d) = %v; want %v", tt.currentPage, tt.totalPages, got, tt.want)
			}
		})
	}
}
