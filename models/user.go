package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Identity tiers. Guests get the lower daily render budget.
const (
	TierRegistered = "registered"
	TierGuest      = "guest"
)

type User struct {
	ID        bson.ObjectID `json:"-" bson:"_id,omitempty"`
	UID       string        `json:"uid" bson:"uid"`
	Email     string        `json:"email,omitempty" bson:"email,omitempty"`
	Password  string        `json:"-" bson:"password,omitempty"`
	FirstName string        `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  string        `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Tier      string        `json:"tier" bson:"tier"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6,max=64"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type TokenResponse struct {
	UID   string `json:"uid"`
	Tier  string `json:"tier"`
	Token string `json:"token"`
}
