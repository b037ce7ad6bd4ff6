package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OrderStatusPending = "Pending"

// Order is an immutable snapshot of a cart taken at checkout.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	ProductsOrdered []CartItem         `bson:"productsOrdered" json:"productsOrdered"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	OrderedOn       time.Time          `bson:"orderedOn" json:"orderedOn"`
	Status          string             `bson:"status" json:"status"`
}

// NewOrderFromCart snapshots a cart into an order. The line items are copied,
// not shared, so later cart mutations cannot reach into the order, and the
// total is recomputed from the item subtotals rather than trusted from the
// cart document.
func NewOrderFromCart(cart Cart, orderedOn time.Time) Order {
	items := make([]CartItem, len(cart.Items))
	copy(items, cart.Items)

	var total float64
	for _, item := range items {
		total += item.Subtotal
	}

	return Order{
		UserID:          cart.UserID,
		ProductsOrdered: items,
		TotalPrice:      total,
		OrderedOn:       orderedOn,
		Status:          OrderStatusPending,
	}
}
