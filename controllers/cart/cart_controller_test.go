package cartController

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront-backend/auth"
	"storefront-backend/locks"
	"storefront-backend/middlewares"
	"storefront-backend/models"
)

func TestItemFromRequest(t *testing.T) {
	productID := primitive.NewObjectID()

	tests := []struct {
		name      string
		productID string
		quantity  int
		subtotal  float64
		wantMsg   string
	}{
		{"valid", productID.Hex(), 2, 20, ""},
		{"zero subtotal allowed", productID.Hex(), 1, 0, ""},
		{"zero quantity", productID.Hex(), 0, 10, "Quantity must be at least 1"},
		{"negative quantity", productID.Hex(), -3, 10, "Quantity must be at least 1"},
		{"negative subtotal", productID.Hex(), 1, -0.01, "Subtotal must be at least 0"},
		{"bad product id", "not-an-object-id", 1, 10, "Invalid product id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, msg := itemFromRequest(tt.productID, tt.quantity, tt.subtotal)
			assert.Equal(t, tt.wantMsg, msg)
			if tt.wantMsg == "" {
				assert.Equal(t, productID, item.ProductID)
				assert.Equal(t, tt.quantity, item.Quantity)
				assert.Equal(t, tt.subtotal, item.Subtotal)
			}
		})
	}
}

// deadlineRecordingCollection satisfies Collection and records the deadline
// of the context each read arrives with.
type deadlineRecordingCollection struct {
	mu       sync.Mutex
	deadline time.Time
}

func (f *deadlineRecordingCollection) FindOne(ctx context.Context, _ interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	f.mu.Lock()
	if d, ok := ctx.Deadline(); ok {
		f.deadline = d
	}
	f.mu.Unlock()
	return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
}

func (f *deadlineRecordingCollection) InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (f *deadlineRecordingCollection) UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *deadlineRecordingCollection) recorded() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deadline
}

func TestAddToCartDeadlineStartsAfterLock(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	userID := primitive.NewObjectID()
	carts := &deadlineRecordingCollection{}
	userLocks := locks.NewKeyed()
	ct := New(carts, userLocks)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/cart/add-to-cart", middlewares.Require(tokens, middlewares.Authenticated), ct.AddToCart)

	token, err := tokens.Issue(models.User{ID: userID, Email: "buyer@example.com"})
	require.NoError(t, err)

	body := `{"productId":"` + primitive.NewObjectID().Hex() + `","quantity":1,"subtotal":10}`
	req := httptest.NewRequest(http.MethodPost, "/cart/add-to-cart", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	// Hold the caller's lock so the handler has to wait for it; the store
	// deadline must be measured from when the lock is acquired, not from
	// when the request arrived.
	const holdFor = 500 * time.Millisecond
	start := time.Now()
	userLocks.Lock(userID.Hex())

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.ServeHTTP(rec, req)
	}()

	time.Sleep(holdFor)
	userLocks.Unlock(userID.Hex())
	<-done

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.False(t, carts.recorded().IsZero())
	assert.Greater(t, carts.recorded().Sub(start), requestTimeout+holdFor/2,
		"lock wait consumed the store's timeout budget")
}
