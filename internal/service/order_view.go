package service

import (
	"time"

	"github.com/shoppingmall/internal/models"
)

// OrderView 订单视图
type OrderView struct {
	ID          uint         `json:"id"`
	UserID      uint         `json:"user_id"`
	Quantity    int          `json:"quantity"`
	Status      string       `json:"status"`
	PaymentTime time.Time    `json:"payment_time"`
	ShippedAt   *time.Time   `json:"shipped_at,omitempty"`
	ReceivedAt  *time.Time   `json:"received_at,omitempty"`
	Produce     *VariantView `json:"produce"`
	Address     *AddressView `json:"address"`
	Commented   bool         `json:"commented"`
}

// CartItemView 购物车项视图
type CartItemView struct {
	Produce  *VariantView `json:"produce"`
	Quantity int          `json:"quantity"`
}

func buildOrderView(order *models.Order, commented bool) OrderView {
	return OrderView{
		ID:          order.ID,
		UserID:      order.UserID,
		Quantity:    order.Quantity,
		Status:      order.Status,
		PaymentTime: order.PaymentTime,
		ShippedAt:   order.ShippedAt,
		ReceivedAt:  order.ReceivedAt,
		Produce:     buildVariantView(order.Variant),
		Address:     buildAddressView(order.Address),
		Commented:   commented,
	}
}

func buildOrderViews(orders []models.Order, commented map[uint]bool) []OrderView {
	result := make([]OrderView, 0, len(orders))
	for i := range orders {
		result = append(result, buildOrderView(&orders[i], commented[orders[i].ID]))
	}
	return result
}

func buildCartItemViews(items []models.CartItem) []CartItemView {
	result := make([]CartItemView, 0, len(items))
	for i := range items {
		result = append(result, CartItemView{
			Produce:  buildVariantView(items[i].Variant),
			Quantity: items[i].Quantity,
		})
	}
	return result
}
