package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Markets stores markets together with the properties they own.
type Markets struct {
	*Repository[Market]
	Properties *Repository[Property]
	db         *gorm.DB
}

func NewMarkets(db *gorm.DB) *Markets {
	return &Markets{
		Repository: NewRepository[Market](db).WithPreload("Properties", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("properties.id ASC")
		}),
		Properties: NewRepository[Property](db),
		db:         db,
	}
}

// AddProperty attaches p to the market marketID.
func (m *Markets) AddProperty(ctx context.Context, marketID uint, p *Property) error {
	var market Market
	if err := m.db.WithContext(ctx).Select("id").First(&market, marketID).Error; err != nil {
		return translate(err)
	}

	p.MarketID = market.ID
	return m.Properties.Create(ctx, p)
}

func (m *Markets) DeleteProperty(ctx context.Context, id uint) error {
	return m.Properties.Delete(ctx, id)
}

// Featured returns the most recently added properties with their market.
func (m *Markets) Featured(ctx context.Context, limit int) ([]Property, error) {
	properties := []Property{}
	err := m.db.WithContext(ctx).
		Preload("Market").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("listing featured properties: %w", err)
	}
	return properties, nil
}

// Delete removes the market and every property it owns.
func (m *Markets) Delete(ctx context.Context, id uint) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var market Market
		if err := tx.First(&market, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Where("market_id = ?", market.ID).Delete(&Property{}).Error; err != nil {
			return fmt.Errorf("deleting properties of market %d: %w", market.ID, err)
		}
		return tx.Delete(&market).Error
	})
}
