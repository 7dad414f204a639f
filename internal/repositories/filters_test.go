package repositories

import (
	"reflect"
	"testing"
)

func TestFiltersEmpty(t *testing.T) {
	var f Filters
	where, args := f.Where()
	if where != "" || args != nil {
		t.Fatalf("expected empty WHERE, got %q %v", where, args)
	}
	if !f.Empty() {
		t.Fatal("expected Empty() = true")
	}
}

func TestFiltersLikeAndEq(t *testing.T) {
	var f Filters
	f.Like("name", " Motor ")
	f.Like("city", "") // ignored
	f.Eq("dealership_id", "64a1f0c2e8b4d6a3f1c0e9b7")
	f.Eq("province", "") // ignored

	where, args := f.Where()
	want := " WHERE LOWER(name) LIKE ? AND dealership_id = ?"
	if where != want {
		t.Fatalf("where = %q, want %q", where, want)
	}
	if !reflect.DeepEqual(args, []any{"%motor%", "64a1f0c2e8b4d6a3f1c0e9b7"}) {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestFiltersEscapesLikeMetacharacters(t *testing.T) {
	var f Filters
	f.Like("name", "50%_off\\")
	_, args := f.Where()
	if len(args) != 1 {
		t.Fatalf("expected 1 arg, got %v", args)
	}
	if args[0] != `%50\%\_off\\%` {
		t.Fatalf("unexpected escaped pattern %q", args[0])
	}
}
