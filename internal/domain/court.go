package domain

import "time"

type Court struct {
	ID             string `gorm:"primaryKey"`
	Name           string
	Description    string
	Location       string
	City           string `gorm:"index"`
	AvailableTimes string // comma-separated slot labels, kept as entered
	Amenities      string // comma-separated
	PricePerHour   string
	Color          string
	Rating         float64
	Reviews        int32
	ContactNumber  string
	CreatedBy      string `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
