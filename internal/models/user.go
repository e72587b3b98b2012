package models

import "time"

type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"unique;not null" json:"username"`
	MatricNumber string `gorm:"unique;not null" json:"matric_number"`
	Email        string `gorm:"unique;not null" json:"email"` // synthetic, derived from the matric number
	Password     string `gorm:"not null" json:"-"`
	PhoneNumber  string `json:"phone_number,omitempty"` // optional, for SMS notifications

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	MatricNumber string `json:"matric_number"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	PhoneNumber  string `json:"phone_number"`
}

type LoginRequest struct {
	LoginID  string `json:"login_id"` // matric number or username
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	IsAdmin bool   `json:"is_admin"`
	Message string `json:"message"`
}
