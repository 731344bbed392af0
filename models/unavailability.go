package models

import "time"

// Unavailability blocks a city for a whole day or a single slot.
type Unavailability struct {
	ID              int       `gorm:"primaryKey" bson:"id" json:"id"`
	CityID          int       `gorm:"index;not null" bson:"city_id" json:"city_id"`
	UnavailableDate string    `gorm:"index;not null" bson:"unavailable_date" json:"unavailable_date"`
	UnavailableTime *string   `bson:"unavailable_time" json:"unavailable_time"` // nil blocks the whole day
	Reason          string    `gorm:"not null" bson:"reason" json:"reason"`
	CreatedAt       time.Time `bson:"created_at" json:"created_at"`

	CityName string `gorm:"-" bson:"-" json:"city_name,omitempty"`
}

// Covers reports whether the block applies to the given date and slot.
func (u Unavailability) Covers(date, hour string) bool {
	if u.UnavailableDate != date {
		return false
	}
	return u.UnavailableTime == nil || *u.UnavailableTime == "" || *u.UnavailableTime == hour
}

// UnavailabilityInput is the payload for registering a block.
type UnavailabilityInput struct {
	Pin             string  `json:"pin"`
	CityID          int     `json:"city_id"`
	UnavailableDate string  `json:"unavailable_date"`
	UnavailableTime *string `json:"unavailable_time"`
	Reason          string  `json:"reason"`
}
