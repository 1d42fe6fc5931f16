package domain

import "time"

type Post struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"index"`
	Content   string
	ImageURL  string
	CreatedAt time.Time
}

type Reply struct {
	ID        string `gorm:"primaryKey"`
	PostID    string `gorm:"index"`
	UserID    string `gorm:"index"`
	Content   string
	CreatedAt time.Time
}
