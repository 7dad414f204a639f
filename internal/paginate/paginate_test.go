package paginate

import (
	"errors"
	"testing"
)

func TestResolveUnpaged(t *testing.T) {
	for _, total := range []int{0, 1, 10, 11, 250} {
		w, pages, err := Resolve(total, 0)
		if err != nil {
			t.Fatalf("total=%d: unexpected error: %v", total, err)
		}
		if pages != 1 {
			t.Fatalf("total=%d: totalPages = %d, want 1", total, pages)
		}
		if w.Skip != 0 || w.Limit != 0 {
			t.Fatalf("total=%d: window = %+v, want zero window", total, w)
		}
	}
}

func TestResolveExactMultiplesDoNotRoundUp(t *testing.T) {
	for _, tc := range []struct{ total, want int }{
		{10, 1}, {20, 2}, {100, 10},
	} {
		_, pages, err := Resolve(tc.total, 1)
		if err != nil {
			t.Fatalf("total=%d: unexpected error: %v", tc.total, err)
		}
		if pages != tc.want {
			t.Fatalf("total=%d: totalPages = %d, want %d", tc.total, pages, tc.want)
		}
	}
}

func TestResolvePageOneAlwaysAccepted(t *testing.T) {
	w, pages, err := Resolve(0, 1)
	if err != nil {
		t.Fatalf("page 1 of empty set rejected: %v", err)
	}
	if pages != 0 {
		t.Fatalf("totalPages = %d, want 0", pages)
	}
	if w.Skip != 0 || w.Limit != PageSize {
		t.Fatalf("window = %+v", w)
	}
}

func TestResolvePagePastEndRejected(t *testing.T) {
	_, _, err := Resolve(15, 3) // only 2 pages
	var re RangeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RangeError, got %v", err)
	}
	if re.TotalPages != 2 {
		t.Fatalf("RangeError.TotalPages = %d, want 2", re.TotalPages)
	}
	if re.Requested != 3 {
		t.Fatalf("RangeError.Requested = %d, want 3", re.Requested)
	}
}

func TestResolveWindow(t *testing.T) {
	w, pages, err := Resolve(35, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pages != 4 {
		t.Fatalf("totalPages = %d, want 4", pages)
	}
	if w.Skip != 20 || w.Limit != 10 {
		t.Fatalf("window = %+v, want skip 20 limit 10", w)
	}
}
