package database

import (
	"time"

	"gorm.io/datatypes"
)

type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Slug      string    `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Category  string    `gorm:"size:100" json:"category"`
	Content   string    `gorm:"type:text" json:"content"`
	Image     *string   `gorm:"size:512" json:"image"`
	Excerpt   *string   `gorm:"type:text" json:"excerpt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pin is a city marker drawn on a market's map.
type Pin struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type Market struct {
	ID               uint                     `gorm:"primaryKey" json:"id"`
	Name             string                   `gorm:"size:255;not null" json:"name"`
	Slug             string                   `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	Tag              string                   `gorm:"size:100" json:"tag"`
	ShortDescription string                   `gorm:"type:text" json:"shortDescription"`
	FullDescription  string                   `gorm:"type:text" json:"fullDescription"`
	YieldRate        string                   `gorm:"size:50" json:"yieldRate"`
	AppreciationRate string                   `gorm:"size:50" json:"appreciationRate"`
	ImageURL         string                   `gorm:"column:image_url;size:512" json:"imageUrl"`
	MapLat           float64                  `json:"mapLat"`
	MapLng           float64                  `json:"mapLng"`
	MapZoom          int                      `json:"mapZoom"`
	Pins             datatypes.JSONSlice[Pin] `json:"pins"`
	Properties       []Property               `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE" json:"properties,omitempty"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

type PropertyStatus string

const (
	StatusOnPlan            PropertyStatus = "on-plan"
	StatusUnderConstruction PropertyStatus = "under-construction"
	StatusReady             PropertyStatus = "ready"
)

type Property struct {
	ID                     uint                        `gorm:"primaryKey" json:"id"`
	MarketID               uint                        `gorm:"index;not null" json:"marketId"`
	Market                 *Market                     `gorm:"foreignKey:MarketID" json:"market,omitempty"`
	Description            string                      `gorm:"type:text;not null" json:"description"`
	Images                 datatypes.JSONSlice[string] `json:"images"`
	Location               *string                     `gorm:"size:255" json:"location"`
	Typology               *string                     `gorm:"size:100" json:"typology"`
	Status                 *PropertyStatus             `gorm:"size:32" json:"status"`
	EstimatedProfitability *string                     `gorm:"size:100" json:"estimatedProfitability"`
	DeliveryDate           *string                     `gorm:"size:100" json:"deliveryDate"`
	CreatedAt              time.Time                   `json:"createdAt"`
}
