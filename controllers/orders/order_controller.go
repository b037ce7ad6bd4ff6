package orderController

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
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

type Controller struct {
	orders    Collection
	carts     Collection
	userLocks *locks.Keyed
	clearCart bool
}

// New builds the order controller. userLocks must be the same instance the
// cart controller uses, so checkout and cart edits of one user serialize
// against each other. clearCart controls whether checkout empties the cart.
func New(orders, carts Collection, userLocks *locks.Keyed, clearCart bool) *Controller {
	return &Controller{orders: orders, carts: carts, userLocks: userLocks, clearCart: clearCart}
}

func (ct *Controller) Checkout(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ct.userLocks.Lock(userID.Hex())
	defer ct.userLocks.Unlock(userID.Hex())

	// The timeout budget starts once the lock is held; waiting on a
	// contended lock must not eat into it.
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var cart models.Cart
	err := ct.carts.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "No items to checkout"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding cart")
		return
	}
	if cart.IsEmpty() {
		c.JSON(http.StatusNotFound, gin.H{"message": "No items to checkout"})
		return
	}

	order := models.NewOrderFromCart(cart, time.Now())
	res, err := ct.orders.InsertOne(ctx, order)
	if err != nil {
		ct.storeError(c, err, "Error saving new order")
		return
	}
	order.ID = res.InsertedID.(primitive.ObjectID)

	if ct.clearCart {
		cart.Clear()
		cart.UpdatedOn = time.Now()
		_, err := ct.carts.UpdateOne(ctx, bson.M{"userId": userID}, bson.M{"$set": bson.M{
			"cartItems":  cart.Items,
			"totalPrice": cart.TotalPrice,
			"updatedOn":  cart.UpdatedOn,
		}})
		if err != nil {
			// The order is already persisted; a failed clear leaves a stale
			// cart behind but must not fail the checkout.
			log.Warn().Err(err).Str("userId", userID.Hex()).Msg("clearing cart after checkout failed")
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Ordered successfully",
		"order":   order,
	})
}

func (ct *Controller) MyOrders(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ct.list(ctx, c, bson.M{"userId": userID})
}

func (ct *Controller) AllOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	ct.list(ctx, c, bson.M{})
}

func (ct *Controller) list(ctx context.Context, c *gin.Context, filter bson.M) {
	cur, err := ct.orders.Find(ctx, filter)
	if err != nil {
		ct.storeError(c, err, "Error finding orders")
		return
	}
	orders := []models.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		ct.storeError(c, err, "Error reading orders")
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No order found"})
		return
	}
	c.JSON(http.StatusOK, orders)
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
