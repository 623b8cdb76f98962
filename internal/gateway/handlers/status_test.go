package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"labstock-system/internal/gateway/handlers"
	"labstock-system/internal/services/inventory/handler"
)

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &handler.ValidationError{Message: "quantity must be greater than 0"}, http.StatusBadRequest},
		{"not found", &handler.NotFoundError{Resource: "reservation", ID: 7}, http.StatusNotFound},
		{"insufficient stock", &handler.InsufficientStockError{ProductID: 1, WarehouseID: 2, Available: 3, Requested: 9}, http.StatusConflict},
		{"consistency fault", &handler.ConsistencyFault{Message: "reserved quantity negative"}, http.StatusInternalServerError},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := handlers.StatusFromError(tc.err); got != tc.want {
				t.Fatalf("StatusFromError(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
