package models

import "time"

// City is one of the fixed delivery locations.
type City struct {
	ID        int       `gorm:"primaryKey;autoIncrement:false" bson:"id" json:"id"`
	Name      string    `gorm:"not null" bson:"name" json:"name"`
	State     string    `gorm:"size:2;not null" bson:"state" json:"state"` // two-letter UF code
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// SeedCities is the fixed set inserted at startup.
var SeedCities = []City{
	{ID: 1, Name: "Fortaleza", State: "CE"},
	{ID: 2, Name: "João Pessoa", State: "PB"},
	{ID: 3, Name: "Natal", State: "RN"},
	{ID: 4, Name: "Eunápolis", State: "BA"},
	{ID: 5, Name: "Poços de Caldas", State: "MG"},
	{ID: 6, Name: "Ourinhos", State: "SP"},
	{ID: 7, Name: "Itupeva", State: "SP"},
	{ID: 8, Name: "Registro", State: "SP"},
}
