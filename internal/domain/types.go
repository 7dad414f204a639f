package domain

import "time"

// Document number prefixes for numbered business documents.
const (
	OrderPrefix     = "PED"
	IncidencePrefix = "INCID"
)

// Role names. Principals with RoleDealership are scoped to their own
// dealership on order/incidence listings.
const (
	RoleAdmin      = "admin"
	RoleDealership = "concesionario"
)

// Order states.
const (
	OrderStatePending   = "Pendiente"
	OrderStateSent      = "Enviado"
	OrderStateDelivered = "Entregado"
	OrderStateCancelled = "Cancelado"
)

// Incidence states.
const (
	IncidenceStateOpen       = "Abierta"
	IncidenceStateInProgress = "En curso"
	IncidenceStateResolved   = "Resuelta"
	IncidenceStateCancelled  = "Cancelada"
)

// Audit statuses.
const (
	AuditStatusPlanned    = "Planificada"
	AuditStatusInProgress = "En curso"
	AuditStatusCompleted  = "Completada"
)

var (
	OrderStates     = []string{OrderStatePending, OrderStateSent, OrderStateDelivered, OrderStateCancelled}
	IncidenceStates = []string{IncidenceStateOpen, IncidenceStateInProgress, IncidenceStateResolved, IncidenceStateCancelled}
	AuditStatuses   = []string{AuditStatusPlanned, AuditStatusInProgress, AuditStatusCompleted}
)

// Ref is a reference to another collection's document, expanded with the
// referenced name at read time.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Lookup is a simple id+name document (roles, incidence types, product families).
type Lookup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Admin is an authenticated back-office user. Password never leaves the server.
type Admin struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Surname    string    `json:"surname"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Role       Ref       `json:"role"`
	Dealership *Ref      `json:"dealership,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Dealership struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	Province   string    `json:"province,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Installation struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Dealership Ref       `json:"dealership"`
	Type       string    `json:"type,omitempty"`
	Address    string    `json:"address,omitempty"`
	Surface    float64   `json:"surface,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Personnel struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	DNI          string    `json:"dni,omitempty"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Position     string    `json:"position,omitempty"`
	Dealership   Ref       `json:"dealership"`
	Installation *Ref      `json:"installation,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Audit struct {
	ID           string    `json:"id"`
	Dealership   Ref       `json:"dealership"`
	Installation *Ref      `json:"installation,omitempty"`
	Auditor      string    `json:"auditor"`
	Date         string    `json:"date"`
	Score        int       `json:"score"`
	Status       string    `json:"status"`
	Comments     string    `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Provider struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	EmailP1   string    `json:"emailP1"`
	EmailP2   string    `json:"emailP2,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         float64   `json:"price"`
	Units         int       `json:"units"`
	ProductFamily Ref       `json:"productFamily"`
	Provider      Ref       `json:"provider"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OrderLine is one product line inside an order.
type OrderLine struct {
	Product Ref `json:"product"`
	Units   int `json:"units"`
}

// Order is a numbered business document (PED-000001, ...). Number is minted
// at creation and immutable afterwards.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	Dealership Ref         `json:"dealership"`
	Provider   Ref         `json:"provider"`
	Lines      []OrderLine `json:"lines"`
	Address    string      `json:"address,omitempty"`
	State      string      `json:"state"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Incidence is a numbered business document (INCID-000001, ...).
type Incidence struct {
	ID            string    `json:"id"`
	Number        string    `json:"number"`
	IncidenceType Ref       `json:"incidenceType"`
	Dealership    Ref       `json:"dealership"`
	Installation  *Ref      `json:"installation,omitempty"`
	Description   string    `json:"description"`
	State         string    `json:"state"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidState reports whether v is one of allowed.
func ValidState(v string, allowed []string) bool {
	for _, s := range allowed {
		if s == v {
			return true
		}
	}
	return false
}
