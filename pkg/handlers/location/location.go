package location

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/auth"
	"github.com/casafix/home-services-backend/pkg/mapping"
	"github.com/casafix/home-services-backend/pkg/realtime"
	"github.com/casafix/home-services-backend/pkg/storage"
)

// LocationHandler holds the dependencies for provider location tracking.
type LocationHandler struct {
	Store     storage.ApiStore
	Publisher realtime.Publisher
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(store storage.ApiStore, publisher realtime.Publisher) *LocationHandler {
	return &LocationHandler{Store: store, Publisher: publisher}
}

// UpdateLocation handles a position ping from the order's assigned provider.
// Only the latest ping is kept.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var update api.LocationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if update.Latitude < -90 || update.Latitude > 90 || update.Longitude < -180 || update.Longitude > 180 {
		http.Error(w, "latitude/longitude out of range", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve order: %v", err), http.StatusInternalServerError)
		}
		return
	}
	if order.ProviderId == "" || claims.UserID != order.ProviderId {
		http.Error(w, "Only the assigned provider can report location", http.StatusForbidden)
		return
	}

	ping := mapping.ToDomainLocation(orderId, claims.UserID, &update)
	if err := h.Store.PutLocation(r.Context(), ping); err != nil {
		http.Error(w, fmt.Sprintf("Failed to record location: %v", err), http.StatusInternalServerError)
		return
	}

	if h.Publisher != nil {
		h.Publisher.Publish(r.Context(), realtime.OrderTopic(orderId), realtime.Event{
			Kind: realtime.EventLocationUpdate,
			Payload: realtime.LocationUpdatePayload{
				OrderID:    ping.OrderId,
				ProviderID: ping.ProviderId,
				Latitude:   ping.Latitude,
				Longitude:  ping.Longitude,
				RecordedAt: ping.RecordedAt,
			},
		})
	}

	apiLocation := mapping.ToApiLocation(ping)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLocation); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}

// GetLatestLocation handles retrieving the provider's most recent position
// for an order. This is the reconciliation fetch for the tracking view.
func (h *LocationHandler) GetLatestLocation(w http.ResponseWriter, r *http.Request, orderId string) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	order, err := h.Store.GetOrder(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve order: %v", err), http.StatusInternalServerError)
		}
		return
	}
	if claims.UserID != order.CustomerId && claims.UserID != order.ProviderId {
		http.Error(w, "Not a participant in this order", http.StatusForbidden)
		return
	}

	ping, err := h.Store.GetLatestLocation(r.Context(), orderId)
	if err != nil {
		if errors.Is(err, storage.ErrNoLocation) {
			http.Error(w, "No location recorded for this order", http.StatusNotFound)
		} else {
			http.Error(w, fmt.Sprintf("Failed to retrieve location: %v", err), http.StatusInternalServerError)
		}
		return
	}

	apiLocation := mapping.ToApiLocation(ping)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(apiLocation); err != nil {
		http.Error(w, fmt.Sprintf("Failed to write response: %v", err), http.StatusInternalServerError)
	}
}
