package validate

import (
	"math"
	"strings"
	"testing"
)

func TestUsername(t *testing.T) {
	valid := []string{"admin", "john.doe", "jane_doe-99", "a1b2c"}
	for _, s := range valid {
		if !Username(s) {
			t.Errorf("Username(%q) = false, want true", s)
		}
	}
	invalid := []string{
		"abcd",                 // too short
		strings.Repeat("a", 21),
		"john..doe", // doubled separator
		".johndoe",  // leading separator
		"johndoe_",  // trailing separator
		"john doe",
		"jöhndoe",
	}
	for _, s := range invalid {
		if Username(s) {
			t.Errorf("Username(%q) = true, want false", s)
		}
	}
}

func TestPersonName(t *testing.T) {
	valid := []string{"María", "Jean-Luc", "O'Brien", "Ana Belén"}
	for _, s := range valid {
		if !PersonName(s) {
			t.Errorf("PersonName(%q) = false, want true", s)
		}
	}
	invalid := []string{"", " María", "Ana  Belén", "R2D2", strings.Repeat("a", 61)}
	for _, s := range invalid {
		if PersonName(s) {
			t.Errorf("PersonName(%q) = true, want false", s)
		}
	}
}

func TestEmail(t *testing.T) {
	if !Email("audit@concesionario.es") {
		t.Error("expected valid email to pass")
	}
	for _, s := range []string{"", "no-at", "a@b", "a b@c.es"} {
		if Email(s) {
			t.Errorf("Email(%q) = true, want false", s)
		}
	}
}

func TestDNIAndPostalCode(t *testing.T) {
	if !DNI("12345678Z") {
		t.Error("expected valid DNI to pass")
	}
	if DNI("1234567Z") || DNI("123456789") {
		t.Error("expected malformed DNI to fail")
	}
	if !PostalCode("28001") {
		t.Error("expected valid postal code to pass")
	}
	if PostalCode("2800") || PostalCode("28001a") {
		t.Error("expected malformed postal code to fail")
	}
}

func TestErrorsBatchesIndependentFailures(t *testing.T) {
	errs := NewErrors()
	errs.Require("name", "", PersonName)
	errs.Require("emailP1", "not-an-email", Email)
	errs.Optional("phone", nil, Phone)

	if errs.OK() {
		t.Fatal("expected accumulated errors")
	}
	entries := errs.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(entries), entries)
	}
	if !strings.Contains(entries[0].Detail, "name is required") {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if !strings.Contains(entries[1].Detail, "emailP1") {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestRequireOptSkipsAbsentButRejectsEmpty(t *testing.T) {
	errs := NewErrors()
	errs.RequireOpt("name", nil, PersonName)
	if !errs.OK() {
		t.Fatal("nil pointer must be skipped under partial-update semantics")
	}

	empty := ""
	errs.RequireOpt("name", &empty, PersonName)
	if errs.OK() {
		t.Fatal("explicit empty string must be rejected")
	}
}

func TestFloatMinRejectsNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		errs := NewErrors()
		val := v
		errs.FloatMin("price", &val, 0)
		if errs.OK() {
			t.Errorf("FloatMin accepted non-finite %v", v)
		}
	}

	errs := NewErrors()
	neg := -0.5
	errs.FloatMin("price", &neg, 0)
	if errs.OK() {
		t.Error("FloatMin accepted negative price")
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"Pendiente", "Enviado"}
	errs := NewErrors()
	bad := "Perdido"
	errs.OneOf("state", &bad, allowed)
	if errs.OK() {
		t.Fatal("expected unknown state to be rejected")
	}
	errs = NewErrors()
	good := "Enviado"
	errs.OneOf("state", &good, allowed)
	if !errs.OK() {
		t.Fatalf("expected allowed state to pass: %+v", errs.Entries())
	}
}
