package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

// memCounters is an in-memory Counters for tests.
type memCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (m *memCounters) Next(_ context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = map[string]int64{}
	}
	m.values[name]++
	return m.values[name], nil
}

func TestGeneratorSequentialNumbersAreContiguous(t *testing.T) {
	g := Generator{Counters: &memCounters{}}

	first, err := g.Next(context.Background(), "PED")
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := g.Next(context.Background(), "PED")
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first != "PED-000001" {
		t.Fatalf("first number = %q, want PED-000001", first)
	}
	if second != "PED-000002" {
		t.Fatalf("second number = %q, want PED-000002", second)
	}
}

func TestGeneratorPrefixesAreIndependent(t *testing.T) {
	g := Generator{Counters: &memCounters{}}

	if n, _ := g.Next(context.Background(), "PED"); n != "PED-000001" {
		t.Fatalf("order number = %q", n)
	}
	if n, _ := g.Next(context.Background(), "INCID"); n != "INCID-000001" {
		t.Fatalf("incidence number = %q", n)
	}
}

func TestGeneratorConcurrentCreatesNeverDuplicate(t *testing.T) {
	g := Generator{Counters: &memCounters{}}

	const workers = 100
	numbers := make(chan string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := g.Next(context.Background(), "PED")
			if err != nil {
				t.Errorf("next: %v", err)
				return
			}
			numbers <- n
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for n := range numbers {
		if seen[n] {
			t.Fatalf("duplicate number minted: %s", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Fatalf("got %d distinct numbers, want %d", len(seen), workers)
	}
}

func TestSQLCountersNext(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO counters").WithArgs("PED").
		WillReturnResult(sqlmock.NewResult(7, 1))

	n, err := SQLCounters{DB: db}.Next(context.Background(), "PED")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if n != 7 {
		t.Fatalf("value = %d, want 7", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSuffix(t *testing.T) {
	n, err := Suffix("PED-000042", "PED")
	if err != nil {
		t.Fatalf("suffix: %v", err)
	}
	if n != 42 {
		t.Fatalf("suffix = %d, want 42", n)
	}
	if _, err := Suffix("INCID-000001", "PED"); err == nil {
		t.Fatal("expected prefix mismatch error")
	}
	if _, err := Suffix("PED-xyz", "PED"); err == nil {
		t.Fatal("expected parse error")
	}
}
