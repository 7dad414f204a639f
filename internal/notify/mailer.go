// Package notify sends the best-effort emails triggered by order and
// incidence state transitions. Delivery failures never fail the request
// that triggered them; they are logged and swallowed, and dispatch runs
// off the request goroutine so the response is never delayed.
package notify

import (
	"fmt"
	"strings"
	"sync"

	"standards-backend/internal/domain"
	"standards-backend/internal/utils"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Sender delivers one message. SMTPSender is the production implementation.
type Sender interface {
	Send(m *gomail.Message) error
}

// SMTPSender delivers through an SMTP relay via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
}

func NewSMTPSender(host string, port int, user, pass string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass)}
}

func (s *SMTPSender) Send(m *gomail.Message) error {
	return s.dialer.DialAndSend(m)
}

// Dispatcher fans business events out to dealership contacts, provider
// contacts and the fixed operations mailbox. A nil Sender disables it.
type Dispatcher struct {
	Sender     Sender
	From       string
	OpsMailbox string

	wg sync.WaitGroup
}

// OrderCreated notifies the dealership, the provider contacts and ops.
func (d *Dispatcher) OrderCreated(o domain.Order, dealershipEmail string, providerEmails []string) {
	subject := fmt.Sprintf("Nuevo pedido %s", o.Number)
	body := fmt.Sprintf(
		"Se ha registrado el pedido %s para el concesionario %s.\n\nProveedor: %s\nLíneas: %d\nEstado: %s\n",
		o.Number, o.Dealership.Name, o.Provider.Name, len(o.Lines), o.State)
	d.dispatch(subject, body, recipients(dealershipEmail, providerEmails, d.OpsMailbox))
}

// OrderCancelled notifies the same audience about a transition into
// Cancelado. Callers compare previous vs new state first, so no-op updates
// never re-notify.
func (d *Dispatcher) OrderCancelled(o domain.Order, dealershipEmail string, providerEmails []string) {
	subject := fmt.Sprintf("Pedido %s cancelado", o.Number)
	body := fmt.Sprintf(
		"El pedido %s del concesionario %s ha sido cancelado.\n\nProveedor: %s\n",
		o.Number, o.Dealership.Name, o.Provider.Name)
	d.dispatch(subject, body, recipients(dealershipEmail, providerEmails, d.OpsMailbox))
}

func (d *Dispatcher) IncidenceCreated(inc domain.Incidence, dealershipEmail string) {
	subject := fmt.Sprintf("Nueva incidencia %s", inc.Number)
	body := fmt.Sprintf(
		"Se ha registrado la incidencia %s en el concesionario %s.\n\nTipo: %s\nDescripción: %s\n",
		inc.Number, inc.Dealership.Name, inc.IncidenceType.Name, inc.Description)
	d.dispatch(subject, body, recipients(dealershipEmail, nil, d.OpsMailbox))
}

func (d *Dispatcher) IncidenceCancelled(inc domain.Incidence, dealershipEmail string) {
	subject := fmt.Sprintf("Incidencia %s cancelada", inc.Number)
	body := fmt.Sprintf(
		"La incidencia %s del concesionario %s ha sido cancelada.\n",
		inc.Number, inc.Dealership.Name)
	d.dispatch(subject, body, recipients(dealershipEmail, nil, d.OpsMailbox))
}

// Wait blocks until in-flight sends finish. Used on shutdown and in tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) dispatch(subject, body string, to []string) {
	if d.Sender == nil || len(to) == 0 {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", d.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if err := d.Sender.Send(m); err != nil {
			utils.Log.WithFields(logrus.Fields{
				"module":  "NOTIFY",
				"subject": subject,
				"to":      strings.Join(to, ","),
			}).WithError(err).Warn("mail send failed")
		}
	}()
}

func recipients(dealership string, providers []string, ops string) []string {
	seen := map[string]bool{}
	out := []string{}
	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" || seen[addr] {
			return
		}
		seen[addr] = true
		out = append(out, addr)
	}
	add(dealership)
	for _, p := range providers {
		add(p)
	}
	add(ops)
	return out
}
