package productController

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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
	products Collection
}

func New(products Collection) *Controller {
	return &Controller{products: products}
}

func (ct *Controller) Create(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be at least 0"})
		return
	}

	err := ct.products.FindOne(ctx, bson.M{"name": req.Name}).Err()
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Product already exists"})
		return
	}
	if err != mongo.ErrNoDocuments {
		ct.storeError(c, err, "Error checking existing product")
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsActive:    true,
		CreatedOn:   time.Now(),
	}

	res, err := ct.products.InsertOne(ctx, product)
	if err != nil {
		ct.storeError(c, err, "Error saving new product")
		return
	}
	product.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product added successfully",
		"result":  product,
	})
}

func (ct *Controller) GetAll(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	products, err := ct.find(ctx, bson.M{})
	if err != nil {
		ct.storeError(c, err, "Error finding products")
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No Products"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ct *Controller) GetActive(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	products, err := ct.find(ctx, bson.M{"isActive": true})
	if err != nil {
		ct.storeError(c, err, "Error finding products")
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "No active product found"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (ct *Controller) GetByID(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	var product models.Product
	err = ct.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding product")
		return
	}

	c.JSON(http.StatusOK, product)
}

func (ct *Controller) Update(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Price must be at least 0"})
		return
	}

	res, err := ct.products.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": bson.M{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
	}})
	if err != nil {
		ct.storeError(c, err, "Error updating product")
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product updated successfully"})
}

func (ct *Controller) Archive(c *gin.Context) {
	ct.setActive(c, false, "Product already archived", "Product archived successfully")
}

func (ct *Controller) Activate(c *gin.Context) {
	ct.setActive(c, true, "Product already activated", "Product activated successfully")
}

// setActive toggles the lifecycle flag. The state is read first so the
// idempotent case responds without issuing a write.
func (ct *Controller) setActive(c *gin.Context, active bool, alreadyMsg, successMsg string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	productID, err := primitive.ObjectIDFromHex(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product id"})
		return
	}

	var product models.Product
	err = ct.products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding product")
		return
	}

	if product.IsActive == active {
		c.JSON(http.StatusOK, gin.H{"message": alreadyMsg, "product": product})
		return
	}

	_, err = ct.products.UpdateOne(ctx, bson.M{"_id": productID}, bson.M{"$set": bson.M{"isActive": active}})
	if err != nil {
		ct.storeError(c, err, "Error updating product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": successMsg})
}

func (ct *Controller) SearchByName(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	// Case-insensitive substring match; the needle is quoted so user input
	// cannot inject regex syntax.
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(req.Name), Options: "i"}}
	products, err := ct.find(ctx, filter)
	if err != nil {
		ct.storeError(c, err, "Error searching products")
		return
	}

	c.JSON(http.StatusOK, products)
}

func (ct *Controller) SearchByPrice(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req struct {
		MinPrice *float64 `json:"minPrice"`
		MaxPrice *float64 `json:"maxPrice"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.MinPrice == nil || req.MaxPrice == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "minPrice and maxPrice are required"})
		return
	}

	filter := bson.M{"price": bson.M{"$gte": *req.MinPrice, "$lte": *req.MaxPrice}}
	products, err := ct.find(ctx, filter)
	if err != nil {
		ct.storeError(c, err, "Error searching products")
		return
	}
	if len(products) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "No product found"})
		return
	}

	c.JSON(http.StatusOK, products)
}

func (ct *Controller) find(ctx context.Context, filter bson.M) ([]models.Product, error) {
	cur, err := ct.products.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (ct *Controller) storeError(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	c.JSON(http.StatusInternalServerError, responses.NewError(msg, "SERVER_ERROR", nil))
}
