package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Image is the media host identifier/URL pair kept inside a Service.
type Image struct {
	PublicID string `json:"public_id" bson:"public_id"`
	URL      string `json:"url"       bson:"url"`
}

// Service is a catalog entry stored in MongoDB.
type Service struct {
	ID          primitive.ObjectID `json:"_id"         bson:"_id,omitempty"`
	Name        string             `json:"name"        bson:"name"`
	Description string             `json:"description" bson:"description"`
	Img         *Image             `json:"img"         bson:"img,omitempty"`
	Price       string             `json:"price"       bson:"price"`
	CreatedAt   time.Time          `json:"createdAt"   bson:"created_at"`
	UpdatedAt   time.Time          `json:"updatedAt"   bson:"updated_at"`
}

// ServiceUpdate carries the fields of an update; Price is always required.
type ServiceUpdate struct {
	Name        *string
	Description *string
	Img         *Image
	Price       string
}

// ServicePage is one page of the catalog plus the full collection count.
type ServicePage struct {
	Services []Service
	Total    int64
}

// DeleteResult mirrors the driver's delete acknowledgement.
type DeleteResult struct {
	Acknowledged bool
	DeletedCount int64
}
