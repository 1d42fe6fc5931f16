package domain

import "time"

type User struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	PasswordHash string `json:"-"`
	Name         string
	Phone        string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
