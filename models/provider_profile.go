package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProviderProfile is the public business profile of a provider user.
type ProviderProfile struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID             string             `bson:"uid" json:"uid"`
	BusinessName    string             `bson:"businessName" json:"businessName"`
	Bio             string             `bson:"bio" json:"bio"`
	ServiceArea     string             `bson:"serviceArea" json:"serviceArea"`
	YearsExperience int                `bson:"yearsExperience" json:"yearsExperience"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Verified        bool               `bson:"verified" json:"verified"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type UpsertProviderProfileRequest struct {
	BusinessName    string `json:"businessName" binding:"required,min=2,max=120"`
	Bio             string `json:"bio" binding:"omitempty,max=2000"`
	ServiceArea     string `json:"serviceArea" binding:"omitempty,max=200"`
	YearsExperience int    `json:"yearsExperience" binding:"omitempty,min=0,max=80"`
	Phone           string `json:"phone" binding:"omitempty,max=32"`
}
