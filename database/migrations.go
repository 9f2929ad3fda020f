package database

import (
	"fmt"
	"solara/logging"
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Table snapshots as they were when each migration was written. They must
// never change once released; later schema changes get a new migration.

type accountV1 struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (accountV1) TableName() string { return "accounts" }

type postV1 struct {
	ID        uint    `gorm:"primaryKey"`
	Title     string  `gorm:"size:255;not null"`
	Slug      string  `gorm:"size:255;uniqueIndex;not null"`
	Category  string  `gorm:"size:100"`
	Content   string  `gorm:"type:text"`
	Image     *string `gorm:"size:512"`
	Excerpt   *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (postV1) TableName() string { return "posts" }

type marketV1 struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"size:255;not null"`
	Slug             string `gorm:"size:255;uniqueIndex;not null"`
	Tag              string `gorm:"size:100"`
	ShortDescription string `gorm:"type:text"`
	FullDescription  string `gorm:"type:text"`
	YieldRate        string `gorm:"size:50"`
	AppreciationRate string `gorm:"size:50"`
	ImageURL         string `gorm:"column:image_url;size:512"`
	MapLat           float64
	MapLng           float64
	MapZoom          int
	Pins             datatypes.JSONSlice[Pin]
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (marketV1) TableName() string { return "markets" }

type propertyV1 struct {
	ID                     uint      `gorm:"primaryKey"`
	MarketID               uint      `gorm:"index;not null"`
	Market                 *marketV1 `gorm:"foreignKey:MarketID;constraint:OnDelete:CASCADE"`
	Description            string    `gorm:"type:text;not null"`
	Images                 datatypes.JSONSlice[string]
	Location               *string `gorm:"size:255"`
	Typology               *string `gorm:"size:100"`
	Status                 *string `gorm:"size:32"`
	EstimatedProfitability *string `gorm:"size:100"`
	DeliveryDate           *string `gorm:"size:100"`
	CreatedAt              time.Time
}

func (propertyV1) TableName() string { return "properties" }

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202601150001_create_accounts",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&accountV1{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("accounts")
			},
		},
		{
			ID: "202601150002_create_posts",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&postV1{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("posts")
			},
		},
		{
			ID: "202601150003_create_markets_and_properties",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&marketV1{}, &propertyV1{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("properties", "markets")
			},
		},
	}
}

// Migrate applies every pending migration in order.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	logging.Info().Int("known", len(migrations())).Msg("database migrations applied")
	return nil
}

// RollbackLast reverts the most recently applied migration.
func RollbackLast(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, migrations())
	return m.RollbackLast()
}
