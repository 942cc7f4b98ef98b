// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role gates which booking operations a user may perform.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleProvider, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted identity record keyed by the external auth UID.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UID       string             `bson:"uid" json:"uid"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Role      Role               `bson:"role" json:"role"`
	Verified  bool               `bson:"verified" json:"verified"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address   string             `bson:"address,omitempty" json:"address,omitempty"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	FCMToken  string             `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CompleteProfileRequest is sent once after external signup to create the User record.
type CompleteProfileRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=100"`
	Role    Role   `json:"role" binding:"required,oneof=customer provider"`
	Phone   string `json:"phone" binding:"omitempty,max=32"`
	Address string `json:"address" binding:"omitempty,max=300"`
}

// UpdateProfileRequest carries the editable profile fields. Role is accepted only
// so that attempts to change it can be rejected explicitly.
type UpdateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	Address   *string `json:"address" binding:"omitempty,max=300"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
	Role      *Role   `json:"role"`
}

// UpdateRoleRequest is the admin-only role change.
type UpdateRoleRequest struct {
	Role Role `json:"role" binding:"required,oneof=customer provider admin"`
}

type FCMTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
