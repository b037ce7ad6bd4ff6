package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one product line within a cart or an order.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// Cart is the single mutable cart of one user. TotalPrice always equals the
// sum of the item subtotals; every mutating method recomputes it before
// returning.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Items      []CartItem         `bson:"cartItems" json:"cartItems"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	UpdatedOn  time.Time          `bson:"updatedOn" json:"updatedOn"`
}

// NewCart creates a cart for userID holding a single line item.
func NewCart(userID primitive.ObjectID, item CartItem) Cart {
	c := Cart{
		UserID: userID,
		Items:  []CartItem{item},
	}
	c.recomputeTotal()
	return c
}

// AddItem merges item into the cart: if the product is already present its
// quantity and subtotal accumulate, otherwise the item is appended.
func (c *Cart) AddItem(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.Items[i].Subtotal += item.Subtotal
			c.recomputeTotal()
			return
		}
	}
	c.Items = append(c.Items, item)
	c.recomputeTotal()
}

// SetItem overwrites the quantity and subtotal of an existing line item.
// A product not yet in the cart is appended instead; the return value tells
// the caller which of the two happened.
func (c *Cart) SetItem(item CartItem) (existed bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity = item.Quantity
			c.Items[i].Subtotal = item.Subtotal
			c.recomputeTotal()
			return true
		}
	}
	c.Items = append(c.Items, item)
	c.recomputeTotal()
	return false
}

// RemoveItem deletes the line item for productID. Returns false if the
// product is not in the cart.
func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.recomputeTotal()
			return true
		}
	}
	return false
}

// Clear empties the cart. The cart document itself survives.
func (c *Cart) Clear() {
	c.Items = []CartItem{}
	c.recomputeTotal()
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) recomputeTotal() {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal
	}
	c.TotalPrice = total
}
