package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedOn   time.Time          `bson:"createdOn" json:"createdOn"`
}
