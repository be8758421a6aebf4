package main

import "testing"

func TestMask(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "(unset)"},
		{"abc", "***"},
		{"sk-1234567890", "********7890"},
	}
	for _, tc := range tests {
		if got := mask(tc.in); got != tc.want {
			t.Errorf("mask(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
