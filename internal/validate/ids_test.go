package validate

import "testing"

func TestIsID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"64a1f0c2e8b4d6a3f1c0e9b7", true},
		{"64A1F0C2E8B4D6A3F1C0E9B7", true},
		{"", false},
		{"64a1f0c2e8b4d6a3f1c0e9b", false},   // 23 chars
		{"64a1f0c2e8b4d6a3f1c0e9b71", false}, // 25 chars
		{"64a1f0c2e8b4d6a3f1c0e9bz", false},  // non-hex
		{"64a1f0c2-8b4d6a3f1c0e9b7", false},
	}
	for _, tc := range cases {
		if got := IsID(tc.in); got != tc.want {
			t.Errorf("IsID(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewIDShape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if !IsID(id) {
			t.Fatalf("NewID produced malformed id %q", id)
		}
		if seen[id] {
			t.Fatalf("NewID produced duplicate id %q", id)
		}
		seen[id] = true
	}
}
