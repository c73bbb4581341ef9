package utils

import "testing"

func TestRuneIndexToByteOffset(t *testing.T) {
	s := "héllo" // 'é' is two bytes
	tests := []struct {
		runeIndex int
		want      int
	}{
		{0, 0},
		{1, 1},
		{2, 3},
		{5, 6},  // just past the end
		{6, -1}, // out of bounds
		{-1, 0},
	}
	for _, tt := range tests {
		if got := RuneIndexToByteOffset(s, tt.runeIndex); got != tt.want {
			t.Errorf("RuneIndexToByteOffset(%q, %d) = %d, want %d", s, tt.runeIndex, got, tt.want)
		}
	}
}

func TestByteOffsetToRuneIndex(t *testing.T) {
	s := "héllo"
	tests := []struct {
		byteOffset int
		want       int
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // inside 'é' rounds down
		{3, 2},
		{6, 5},
		{99, 5}, // clamps
		{-1, 0},
	}
	for _, tt := range tests {
		if got := ByteOffsetToRuneIndex(s, tt.byteOffset); got != tt.want {
			t.Errorf("ByteOffsetToRuneIndex(%q, %d) = %d, want %d", s, tt.byteOffset, got, tt.want)
		}
	}
}
