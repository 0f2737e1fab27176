package mapping

import (
	"github.com/casafix/home-services-backend/pkg/api"
	"github.com/casafix/home-services-backend/pkg/models"
)

// ToApiOrder converts a domain Order model to an API Order model.
func ToApiOrder(order *models.Order) *api.Order {
	apiOrder := &api.Order{
		Id:          order.Id,
		CustomerId:  order.CustomerId,
		ServiceCode: order.ServiceCode,
		Address:     order.Address,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}
	if order.ProviderId != "" {
		apiOrder.ProviderId = &order.ProviderId
	}
	if order.Notes != "" {
		apiOrder.Notes = &order.Notes
	}
	return apiOrder
}

// ToDomainNewOrder converts an API NewOrder model to a domain Order model.
// Note: This is a simplified mapping; server-side fields (id, status,
// timestamps) are filled in by the storage layer.
func ToDomainNewOrder(customerID string, newOrder *api.NewOrder) *models.Order {
	order := &models.Order{
		CustomerId:  customerID,
		ServiceCode: newOrder.ServiceCode,
		Address:     newOrder.Address,
	}
	if newOrder.Notes != nil {
		order.Notes = *newOrder.Notes
	}
	return order
}

// ToApiMessage converts a domain ChatMessage model to an API Message model.
func ToApiMessage(msg *models.ChatMessage) *api.Message {
	return &api.Message{
		Id:        msg.Id,
		OrderId:   msg.OrderId,
		SenderId:  msg.SenderId,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt,
	}
}

// ToDomainNewMessage converts an API NewMessage model to a domain ChatMessage model.
func ToDomainNewMessage(orderID, senderID string, newMsg *api.NewMessage) *models.ChatMessage {
	return &models.ChatMessage{
		OrderId:  orderID,
		SenderId: senderID,
		Body:     newMsg.Body,
	}
}

// ToApiLocation converts a domain LocationPing model to an API Location model.
func ToApiLocation(ping *models.LocationPing) *api.Location {
	return &api.Location{
		OrderId:    ping.OrderId,
		ProviderId: ping.ProviderId,
		Latitude:   ping.Latitude,
		Longitude:  ping.Longitude,
		RecordedAt: ping.RecordedAt,
	}
}

// ToDomainLocation converts an API LocationUpdate model to a domain LocationPing model.
func ToDomainLocation(orderID, providerID string, upd *api.LocationUpdate) *models.LocationPing {
	return &models.LocationPing{
		OrderId:    orderID,
		ProviderId: providerID,
		Latitude:   upd.Latitude,
		Longitude:  upd.Longitude,
	}
}
