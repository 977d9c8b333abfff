package server

import (
	"errors"
	"net/http"
	"testing"

	alertdomain "github.com/shopcraft/storefront/internal/alert/domain"
	catalogdomain "github.com/shopcraft/storefront/internal/catalog/domain"
	"github.com/shopcraft/storefront/internal/monitor"
	"gorm.io/gorm"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"forbidden", catalogdomain.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"product not found", catalogdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"notification not found", alertdomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"record not found", gorm.ErrRecordNotFound, http.StatusNotFound, "not_found"},
		{"invalid name", catalogdomain.ErrInvalidName, http.StatusBadRequest, "validation_error"},
		{"invalid notification id", alertdomain.ErrInvalidID, http.StatusBadRequest, "validation_error"},
		{"invalid interval", monitor.ErrInvalidInterval, http.StatusBadRequest, "validation_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
		{"nil", nil, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			if status != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, status)
			}
			if payload.Type != tc.wantType {
				t.Fatalf("expected type %q, got %q", tc.wantType, payload.Type)
			}
		})
	}
}

func TestMapErrorValidationPayload(t *testing.T) {
	status, payload := mapError(newValidationError("price", "invalid_price", "invalid value"))
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if len(payload.Errors) != 1 || payload.Errors[0].Field != "price" {
		t.Fatalf("expected price field error, got %+v", payload.Errors)
	}
}

func TestClassifyErrorForLog(t *testing.T) {
	errType, code := classifyErrorForLog(catalogdomain.ErrInvalidStock)
	if errType != "validation_error" {
		t.Fatalf("expected validation_error, got %q", errType)
	}
	if code != "invalid_stock" {
		t.Fatalf("expected invalid_stock code, got %q", code)
	}
}

func TestParseKeepImageIDs(t *testing.T) {
	ids, err := parseKeepImageIDs(`["1959926702221824001", 42]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1959926702221824001 || ids[1] != 42 {
		t.Fatalf("unexpected ids: %v", ids)
	}

	ids, err = parseKeepImageIDs("")
	if err != nil || ids != nil {
		t.Fatalf("expected empty parse to clear keep set, got %v %v", ids, err)
	}

	if _, err := parseKeepImageIDs(`{"nope": true}`); err == nil {
		t.Fatalf("expected error for non-array payload")
	}
	if _, err := parseKeepImageIDs(`[true]`); err == nil {
		t.Fatalf("expected error for boolean element")
	}
}
