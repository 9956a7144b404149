package lakehouse

import (
	"testing"
	"time"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"int64", int64(42), 42},
		{"int32", int32(7), 7},
		{"int", 9, 9},
		{"float64", 3.9, 3},
		{"numeric string", "123", 123},
		{"bad string", "abc", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toInt64(tt.in); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestToFloat64(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"float64", 3.25, 3.25},
		{"float32", float32(1.5), 1.5},
		{"int64", int64(4), 4},
		{"decimal string", "1139201.55", 1139201.55},
		{"bad string", "n/a", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toFloat64(tt.in); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "Electronics", "Electronics"},
		{"bytes", []byte("US"), "US"},
		{"int", 42, "42"},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toString(tt.in); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestToTime(t *testing.T) {
	stamp := time.Date(2026, 5, 14, 0, 0, 0, 0, time.UTC)

	if got := toTime(stamp); !got.Equal(stamp) {
		t.Errorf("Expected %v, got %v", stamp, got)
	}
	if got := toTime("2026-05-14"); !got.Equal(stamp) {
		t.Errorf("Expected %v, got %v", stamp, got)
	}
	if got := toTime("2026-05-14T00:00:00Z"); !got.Equal(stamp) {
		t.Errorf("Expected %v, got %v", stamp, got)
	}
	if got := toTime(nil); !got.IsZero() {
		t.Errorf("Expected zero time, got %v", got)
	}
	if got := toTime("garbage"); !got.IsZero() {
		t.Errorf("Expected zero time, got %v", got)
	}
}
