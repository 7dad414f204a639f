package notify

import (
	"errors"
	"sync"
	"testing"

	"standards-backend/internal/domain"

	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) Send(m *gomail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func testOrder() domain.Order {
	return domain.Order{
		Number:     "PED-000042",
		Dealership: domain.Ref{ID: "64a1f0c2e8b4d6a3f1c0e9b7", Name: "Motor Norte"},
		Provider:   domain.Ref{ID: "74a1f0c2e8b4d6a3f1c0e9b7", Name: "Rotulación SA"},
		Lines:      []domain.OrderLine{{Product: domain.Ref{ID: "84a1f0c2e8b4d6a3f1c0e9b7"}, Units: 3}},
		State:      domain.OrderStatePending,
	}
}

func TestOrderCreatedSendsToAllContacts(t *testing.T) {
	sender := &fakeSender{}
	d := &Dispatcher{Sender: sender, From: "no-reply@test", OpsMailbox: "ops@test"}

	d.OrderCreated(testOrder(), "dealer@test", []string{"prov1@test", "prov2@test"})
	d.Wait()

	if sender.count() != 1 {
		t.Fatalf("expected 1 message, got %d", sender.count())
	}
	to := sender.sent[0].GetHeader("To")
	if len(to) != 4 {
		t.Fatalf("expected 4 recipients, got %v", to)
	}
	subject := sender.sent[0].GetHeader("Subject")
	if len(subject) != 1 || subject[0] != "Nuevo pedido PED-000042" {
		t.Fatalf("unexpected subject %v", subject)
	}
}

func TestDispatchDeduplicatesAndSkipsEmptyRecipients(t *testing.T) {
	sender := &fakeSender{}
	d := &Dispatcher{Sender: sender, From: "no-reply@test", OpsMailbox: "dealer@test"}

	d.OrderCancelled(testOrder(), "dealer@test", []string{"", "dealer@test"})
	d.Wait()

	if sender.count() != 1 {
		t.Fatalf("expected 1 message, got %d", sender.count())
	}
	to := sender.sent[0].GetHeader("To")
	if len(to) != 1 || to[0] != "dealer@test" {
		t.Fatalf("expected deduplicated single recipient, got %v", to)
	}
}

func TestSendFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	d := &Dispatcher{Sender: sender, From: "no-reply@test", OpsMailbox: "ops@test"}

	inc := domain.Incidence{
		Number:        "INCID-000007",
		Dealership:    domain.Ref{Name: "Motor Norte"},
		IncidenceType: domain.Ref{Name: "Señalética"},
	}
	d.IncidenceCreated(inc, "dealer@test")
	d.Wait() // must not panic and must not block
}

func TestNilSenderIsNoop(t *testing.T) {
	d := &Dispatcher{From: "no-reply@test", OpsMailbox: "ops@test"}
	d.OrderCreated(testOrder(), "dealer@test", nil)
	d.Wait()
}
