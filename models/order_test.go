package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewOrderFromCart(t *testing.T) {
	userID := primitive.NewObjectID()
	p1 := primitive.NewObjectID()
	cart := NewCart(userID, CartItem{ProductID: p1, Quantity: 3, Subtotal: 30})
	orderedOn := time.Now()

	order := NewOrderFromCart(cart, orderedOn)

	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.ProductsOrdered, 1)
	assert.Equal(t, CartItem{ProductID: p1, Quantity: 3, Subtotal: 30}, order.ProductsOrdered[0])
	assert.Equal(t, 30.0, order.TotalPrice)
	assert.Equal(t, orderedOn, order.OrderedOn)
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestNewOrderFromCartRecomputesTotal(t *testing.T) {
	cart := NewCart(primitive.NewObjectID(), CartItem{ProductID: primitive.NewObjectID(), Quantity: 1, Subtotal: 25})
	// A cart document with a drifted stored total must not leak into the order.
	cart.TotalPrice = 999

	order := NewOrderFromCart(cart, time.Now())

	assert.Equal(t, 25.0, order.TotalPrice)
}

func TestOrderIsIndependentOfLaterCartMutations(t *testing.T) {
	p1 := primitive.NewObjectID()
	cart := NewCart(primitive.NewObjectID(), CartItem{ProductID: p1, Quantity: 2, Subtotal: 20})

	order := NewOrderFromCart(cart, time.Now())

	cart.AddItem(CartItem{ProductID: p1, Quantity: 5, Subtotal: 50})
	cart.AddItem(CartItem{ProductID: primitive.NewObjectID(), Quantity: 1, Subtotal: 3})
	cart.Items[0].Quantity = 100
	cart.Clear()

	require.Len(t, order.ProductsOrdered, 1)
	assert.Equal(t, 2, order.ProductsOrdered[0].Quantity)
	assert.Equal(t, 20.0, order.ProductsOrdered[0].Subtotal)
	assert.Equal(t, 20.0, order.TotalPrice)
}
