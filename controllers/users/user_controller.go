package userController

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"storefront-backend/auth"
	"storefront-backend/middlewares"
	"storefront-backend/models"
	"storefront-backend/responses"
)

const requestTimeout = 10 * time.Second

type Controller struct {
	users  *mongo.Collection
	tokens *auth.TokenService
}

func New(users *mongo.Collection, tokens *auth.TokenService) *Controller {
	return &Controller{users: users, tokens: tokens}
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	MobileNo  string `json:"mobileNo"`
	Password  string `json:"password"`
}

// validateRegistration returns the rejection message for the first rule the
// request breaks, or "" when it passes.
func validateRegistration(req RegisterRequest) string {
	if !strings.Contains(req.Email, "@") {
		return "Invalid email format"
	}
	if len(req.MobileNo) != 11 {
		return "Mobile number is invalid"
	}
	if len(req.Password) < 8 {
		return "Password must be atleast 8 characters long"
	}
	return ""
}

func (ct *Controller) Register(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if msg := validateRegistration(req); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	err := ct.users.FindOne(ctx, bson.M{"email": req.Email}).Err()
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"message": "Email already in use"})
		return
	}
	if err != mongo.ErrNoDocuments {
		ct.storeError(c, err, "Error checking existing email")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ct.storeError(c, err, "Error hashing password")
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		MobileNo:  req.MobileNo,
		Password:  string(hashed),
	}

	res, err := ct.users.InsertOne(ctx, user)
	if err != nil {
		ct.storeError(c, err, "Error saving new user")
		return
	}
	user.ID = res.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user":    user.Sanitized(),
	})
}

func (ct *Controller) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if !strings.Contains(req.Email, "@") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid email format"})
		return
	}

	var user models.User
	err := ct.users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "No email found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding user")
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Incorrect email or password"})
		return
	}

	token, err := ct.tokens.Issue(user)
	if err != nil {
		ct.storeError(c, err, "Error creating access token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User logged in successfully",
		"access":  token,
	})
}

func (ct *Controller) GetProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var user models.User
	err := ct.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error finding user")
		return
	}

	c.JSON(http.StatusOK, user.Sanitized())
}

func (ct *Controller) SetAsAdmin(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	userID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user id"})
		return
	}

	var user models.User
	err = ct.users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isAdmin": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	if err != nil {
		ct.storeError(c, err, "Error updating user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User set as admin successfully",
		"user":    user.Sanitized(),
	})
}

func (ct *Controller) UpdatePassword(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var req struct {
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if len(req.NewPassword) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Password must be atleast 8 characters long"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		ct.storeError(c, err, "Error hashing password")
		return
	}

	_, err = ct.users.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": string(hashed)}})
	if err != nil {
		ct.storeError(c, err, "Error updating password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
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
