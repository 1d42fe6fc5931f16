package domain

import "time"

type Tournament struct {
	ID                string `gorm:"primaryKey"`
	Name              string
	Description       string
	Date              string `gorm:"index"` // YYYY-MM-DD
	Location          string
	City              string
	MaxPlayers        int32
	RegisteredPlayers int32
	Category          string `gorm:"index"`
	Color             string
	CreatedBy         string `gorm:"index"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Registration struct {
	ID           string `gorm:"primaryKey"`
	TournamentID string `gorm:"index;uniqueIndex:uniq_tournament_user"`
	UserID       string `gorm:"uniqueIndex:uniq_tournament_user"`
	CreatedAt    time.Time
}
