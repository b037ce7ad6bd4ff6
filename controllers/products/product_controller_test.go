package productController

import (
	"context"
	"net/http"
	"net/http/httptest"
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
	"storefront-backend/middlewares"
	"storefront-backend/models"
)

// fakeCollection satisfies Collection with canned reads and write counters,
// so the handler's store branches run without a live database.
type fakeCollection struct {
	findOneResult func() *mongo.SingleResult
	docs          []interface{}
	inserts       int
	updates       int
}

func (f *fakeCollection) FindOne(context.Context, interface{}, ...*options.FindOneOptions) *mongo.SingleResult {
	return f.findOneResult()
}

func (f *fakeCollection) InsertOne(context.Context, interface{}, ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.inserts++
	return &mongo.InsertOneResult{InsertedID: primitive.NewObjectID()}, nil
}

func (f *fakeCollection) UpdateOne(context.Context, interface{}, interface{}, ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	f.updates++
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (f *fakeCollection) Find(context.Context, interface{}, ...*options.FindOptions) (*mongo.Cursor, error) {
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func storedProduct(product models.Product) func() *mongo.SingleResult {
	return func() *mongo.SingleResult {
		return mongo.NewSingleResultFromDocument(product, nil, nil)
	}
}

func newLifecycleRouter(tokens *auth.TokenService, ct *Controller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admin := middlewares.Require(tokens, middlewares.Authenticated, middlewares.Admin)
	r.PATCH("/products/:productId/archive", admin, ct.Archive)
	r.PATCH("/products/:productId/activate", admin, ct.Activate)
	return r
}

func adminRequest(t *testing.T, tokens *auth.TokenService, path string) *http.Request {
	t.Helper()
	token, err := tokens.Issue(models.User{
		ID:      primitive.NewObjectID(),
		Email:   "admin@example.com",
		IsAdmin: true,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestLifecycleToggle(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	productID := primitive.NewObjectID()

	tests := []struct {
		name        string
		storedState bool
		action      string
		wantMsg     string
		wantWrites  int
	}{
		{"archive active product", true, "archive", "Product archived successfully", 1},
		{"archive already archived", false, "archive", "Product already archived", 0},
		{"activate archived product", false, "activate", "Product activated successfully", 1},
		{"activate already active", true, "activate", "Product already activated", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := &fakeCollection{findOneResult: storedProduct(models.Product{
				ID:       productID,
				Name:     "Teak Chair",
				Price:    100,
				IsActive: tt.storedState,
			})}
			r := newLifecycleRouter(tokens, New(products))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, adminRequest(t, tokens, "/products/"+productID.Hex()+"/"+tt.action))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
			assert.Equal(t, tt.wantWrites, products.updates,
				"a toggle into the current state must not issue a write")
		})
	}
}

func TestLifecycleToggleMissingProduct(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	products := &fakeCollection{findOneResult: func() *mongo.SingleResult {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}}
	r := newLifecycleRouter(tokens, New(products))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, adminRequest(t, tokens, "/products/"+primitive.NewObjectID().Hex()+"/archive"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
	assert.Zero(t, products.updates)
}
