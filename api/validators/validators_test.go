package validators

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/angelmondragon/mercadito-backend/pkg/errors"
)

type sampleBody struct {
	Name     string `json:"name" validate:"required,max=5"`
	Quantity int    `json:"quantity" validate:"min=1"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"","quantity":0}`))
	var body sampleBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
	}
	if details["name"] != "is required" || details["quantity"] != "must be at least 1" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"ok","quantity":1,"extra":true}`))
	var body sampleBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&promoted=yes&subtotal=10.50&category=nope", nil)

	page, err := ParseQueryInt(req, "page", 1, 1, 100)
	if err != nil || page != 2 {
		t.Fatalf("page: %d %v", page, err)
	}
	promoted, err := ParseQueryBool(req, "promoted")
	if err != nil || promoted == nil || !*promoted {
		t.Fatalf("promoted: %v %v", promoted, err)
	}
	subtotal, err := ParseQueryDecimal(req, "subtotal")
	if err != nil || subtotal.StringFixed(2) != "10.50" {
		t.Fatalf("subtotal: %v %v", subtotal, err)
	}
	if _, err := ParseQueryUUID(req, "category"); err == nil {
		t.Fatalf("expected uuid error")
	}
	missing, err := ParseQueryUUID(req, "absent")
	if err != nil || missing != nil {
		t.Fatalf("absent uuid should be nil, got %v %v", missing, err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  leche  ", 3); got != "lec" {
		t.Fatalf("unexpected %q", got)
	}
}
