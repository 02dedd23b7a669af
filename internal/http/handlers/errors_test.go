package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"navticket/internal/domain"

	"github.com/gin-gonic/gin"
)

func TestRespondDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", domain.ValidationError{Field: "seat_numbers", Msg: "required"}, http.StatusBadRequest, "validation_error"},
		{"not found", domain.NotFoundError{Resource: "trip"}, http.StatusNotFound, "not_found"},
		{"conflict", domain.ConflictError{Resource: "seats", Seats: []string{"1B"}}, http.StatusConflict, "conflict"},
		{"state", domain.StateError{Resource: "booking", Msg: "already cancelled"}, http.StatusConflict, "invalid_state"},
		{"internal", domain.InternalError{Msg: "boom"}, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		RespondDomainError(c, tc.err)

		if w.Code != tc.wantStatus {
			t.Fatalf("%s: expected status %d, got %d", tc.name, tc.wantStatus, w.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid JSON body: %v", tc.name, err)
		}
		if body["code"] != tc.wantCode {
			t.Fatalf("%s: expected code %q, got %v", tc.name, tc.wantCode, body["code"])
		}
	}
}

func TestConflictResponseCarriesSeats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	RespondDomainError(c, domain.ConflictError{Resource: "seats", Msg: "seats are not available", Seats: []string{"1B", "2C"}})

	var body struct {
		Details struct {
			Seats []string `json:"seats"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(body.Details.Seats) != 2 || body.Details.Seats[0] != "1B" {
		t.Fatalf("expected conflicting seats in details, got %v", body.Details.Seats)
	}
}
