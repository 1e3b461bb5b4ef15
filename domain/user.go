package domain

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

type User struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Email      string         `gorm:"column:email;unique;not null" json:"email"`
	Username   string         `gorm:"column:username;unique;not null" json:"username"`
	FirstName  string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName   string         `gorm:"column:last_name;not null" json:"last_name"`
	Phone      string         `gorm:"column:phone" json:"phone,omitempty"`
	Password   string         `gorm:"column:password;not null" json:"password,omitempty"`
	IsVerified bool           `gorm:"column:is_verified;default:false" json:"is_verified"`
	IsActive   bool           `gorm:"column:is_active;default:true" json:"is_active"`
	Role       string         `gorm:"column:role;default:customer" json:"role"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
