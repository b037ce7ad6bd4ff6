package cartController

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/locks"
	"storefront-backend/middlewares"
	"storefront-backend/models"
	"storefront-backend/responses"
)

const requestTimeout = 10 * time.Second

// Collection is the slice of *mongo.Collection the controller uses; tests
// substitute in-memory fakes.
type Collection interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

// Controller mutates the caller's owner-keyed cart document. Every mutation
// is a read-modify-write, so each one runs under the caller's keyed lock;
// concurrent edits by the same user serialize instead of losing updates.
// The request timeout is derived only after the lock is held, so waiting on
// a contended lock never eats into the store's budget.
type Controller struct {
	carts     Collection
	userLocks *locks.Keyed
}

func New(carts Collection, userLocks *locks.Keyed) *Controller {
	return &Controller{carts: carts, userLocks: userLocks}
}

func (ct *Controller) GetCart(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err := ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "No cart found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}

	c.JSON(http.StatusOK, cart)
}

type addItemRequest struct {
	ProductID string  `json:"productId" binding:"required"`
	Quantity  int     `json:"quantity"`
	Subtotal  float64 `json:"subtotal"`
}

func (ct *Controller) AddToCart(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	item, msg := itemFromRequest(req.ProductID, req.Quantity, req.Subtotal)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	ct.userLocks.Lock(userID.Hex())
	defer ct.userLocks.Unlock(userID.Hex())

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err := ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		cart = models.NewCart(userID, item)
		cart.UpdatedOn = time.Now()
		res, err := ct.carts.InsertOne(ctx, cart)
		if err != nil {
			ct.storeError(c, err, "Error saving new cart")
			return
		}
		cart.ID = res.InsertedID.(primitive.ObjectID)
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "Item added to cart successfully",
			"cart":    cart,
		})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}

	cart.AddItem(item)
	if err := ct.save(ctx, &cart); err != nil {
		ct.storeError(c, err, "Error saving updated cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product added to existing cart",
		"cart":    cart,
	})
}

type updateQuantityRequest struct {
	ProductID   string  `json:"productId" binding:"required"`
	NewQuantity int     `json:"newQuantity"`
	Subtotal    float64 `json:"subtotal"`
}

func (ct *Controller) UpdateQuantity(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	item, msg := itemFromRequest(req.ProductID, req.NewQuantity, req.Subtotal)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	ct.userLocks.Lock(userID.Hex())
	defer ct.userLocks.Unlock(userID.Hex())

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err := ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}

	message := "Item updated to existing cart"
	if existed := cart.SetItem(item); !existed {
		message = "Item added to cart"
	}

	if err := ct.save(ctx, &cart); err != nil {
		ct.storeError(c, err, "Error saving updated cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"cart":    cart,
	})
}

func (ct *Controller) RemoveItem(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	ct.userLocks.Lock(userID.Hex())
	defer ct.userLocks.Unlock(userID.Hex())

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err = ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}

	if !cart.RemoveItem(productID) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	}

	if err := ct.save(ctx, &cart); err != nil {
		ct.storeError(c, err, "Error saving updated cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Item removed from cart successfully",
		"updatedCart": cart,
	})
}

func (ct *Controller) ClearCart(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ct.userLocks.Lock(userID.Hex())
	defer ct.userLocks.Unlock(userID.Hex())

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err := ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}

	// Clearing an empty cart is a no-op, not an error.
	if cart.IsEmpty() {
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"message":     "Cart already empty",
			"updatedCart": cart,
		})
		return
	}

	cart.Clear()
	if err := ct.save(ctx, &cart); err != nil {
		ct.storeError(c, err, "Error saving updated cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Cart cleared successfully",
		"updatedCart": cart,
	})
}

func (ct *Controller) save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedOn = time.Now()
	_, err := ct.carts.UpdateOne(ctx, bson.M{"userId": cart.UserID}, bson.M{"$set": bson.M{
		"cartItems":  cart.Items,
		"totalPrice": cart.TotalPrice,
		"updatedOn":  cart.UpdatedOn,
	}})
	return err
}

// itemFromRequest validates the incoming line item fields and converts the
// product id. A non-empty message means rejection.
func itemFromRequest(productID string, quantity int, subtotal float64) (models.CartItem, string) {
	if quantity < 1 {
		return models.CartItem{}, "Quantity must be at least 1"
	}
	if subtotal < 0 {
		return models.CartItem{}, "Subtotal must be at least 0"
	}
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return models.CartItem{}, "Invalid product id"
	}
	return models.CartItem{ProductID: id, Quantity: quantity, Subtotal: subtotal}, ""
}

// callerID resolves the authenticated user's id from the request claims.
// A request that never passed a gate carries no claims and is rejected
// instead of dereferencing nil.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	claims := middlewares.CurrentClaims(c)
	if claims == nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id in token"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

func (ct *Controller) storeError(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(http.StatusInternalServerError, responses.NewError(msg, "SERVER_ERROR", nil))
}
