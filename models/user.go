// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	JobTitle     string             `bson:"jobTitle,omitempty" json:"jobTitle,omitempty"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"` // super_admin, department_admin, technician, viewer
	Department   string             `bson:"department" json:"department"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"-"`
}
