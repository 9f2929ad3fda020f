package database_test

import (
	"context"
	"fmt"
	"solara/database"
	"solara/database/databasetest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newMarket(slug string) *database.Market {
	return &database.Market{
		Name:             "Market " + slug,
		Slug:             slug,
		Tag:              "Europe",
		ShortDescription: "short",
		FullDescription:  "<p>full</p>",
		YieldRate:        "6%",
		AppreciationRate: "4%",
		ImageURL:         "/uploads/image-1-2.jpg",
		MapLat:           38.72,
		MapLng:           -9.14,
		MapZoom:          6,
		Pins: datatypes.NewJSONSlice([]database.Pin{
			{City: "Lisbon", Lat: 38.72, Lng: -9.14},
			{City: "Porto", Lat: 41.15, Lng: -8.61},
		}),
	}
}

func TestMarketRoundTripWithProperties(t *testing.T) {
	ctx := context.Background()
	markets := database.NewMarkets(databasetest.Open(t))

	m := newMarket("portugal")
	require.NoError(t, markets.Create(ctx, m))

	status := database.StatusUnderConstruction
	for i := 0; i < 2; i++ {
		p := &database.Property{
			Description: fmt.Sprintf("Villa %d", i),
			Images:      datatypes.NewJSONSlice([]string{"/uploads/a.jpg", "/uploads/b.jpg"}),
			Status:      &status,
		}
		require.NoError(t, markets.AddProperty(ctx, m.ID, p))
		assert.Equal(t, m.ID, p.MarketID)
	}

	got, err := markets.GetBySlug(ctx, "portugal")
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, []database.Pin{{City: "Lisbon", Lat: 38.72, Lng: -9.14}, {City: "Porto", Lat: 41.15, Lng: -8.61}}, []database.Pin(got.Pins))
	require.Len(t, got.Properties, 2)
	assert.Equal(t, "Villa 0", got.Properties[0].Description)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, []string(got.Properties[0].Images))
	require.NotNil(t, got.Properties[1].Status)
	assert.Equal(t, database.StatusUnderConstruction, *got.Properties[1].Status)
}

func TestAddPropertyToMissingMarket(t *testing.T) {
	markets := database.NewMarkets(databasetest.Open(t))

	err := markets.AddProperty(context.Background(), 404, &database.Property{Description: "orphan"})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteMarketCascades(t *testing.T) {
	ctx := context.Background()
	markets := database.NewMarkets(databasetest.Open(t))

	doomed := newMarket("doomed")
	kept := newMarket("kept")
	require.NoError(t, markets.Create(ctx, doomed))
	require.NoError(t, markets.Create(ctx, kept))

	gone := &database.Property{Description: "goes away"}
	stays := &database.Property{Description: "stays"}
	require.NoError(t, markets.AddProperty(ctx, doomed.ID, gone))
	require.NoError(t, markets.AddProperty(ctx, kept.ID, stays))

	require.NoError(t, markets.Delete(ctx, doomed.ID))

	_, err := markets.GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	_, err = markets.Properties.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = markets.Properties.GetByID(ctx, stays.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, markets.Delete(ctx, doomed.ID), database.ErrNotFound)
}

func TestDeleteProperty(t *testing.T) {
	ctx := context.Background()
	markets := database.NewMarkets(databasetest.Open(t))

	m := newMarket("spain")
	require.NoError(t, markets.Create(ctx, m))
	p := &database.Property{Description: "flat"}
	require.NoError(t, markets.AddProperty(ctx, m.ID, p))

	require.NoError(t, markets.DeleteProperty(ctx, p.ID))
	assert.ErrorIs(t, markets.DeleteProperty(ctx, p.ID), database.ErrNotFound)

	got, err := markets.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Properties)
}

func TestFeaturedProperties(t *testing.T) {
	ctx := context.Background()
	markets := database.NewMarkets(databasetest.Open(t))

	m := newMarket("brazil")
	require.NoError(t, markets.Create(ctx, m))
	for i := 0; i < 4; i++ {
		require.NoError(t, markets.AddProperty(ctx, m.ID, &database.Property{Description: fmt.Sprintf("p%d", i)}))
	}

	featured, err := markets.Featured(ctx, 3)
	require.NoError(t, err)
	require.Len(t, featured, 3)
	assert.Equal(t, "p3", featured[0].Description)
	require.NotNil(t, featured[0].Market)
	assert.Equal(t, "brazil", featured[0].Market.Slug)
}

func TestUpdateMarketPartial(t *testing.T) {
	ctx := context.Background()
	markets := database.NewMarkets(databasetest.Open(t))

	m := newMarket("italy")
	require.NoError(t, markets.Create(ctx, m))

	updated, err := markets.Update(ctx, m.ID, map[string]any{"yield_rate": "9%"})
	require.NoError(t, err)
	assert.Equal(t, "9%", updated.YieldRate)
	assert.Equal(t, m.AppreciationRate, updated.AppreciationRate)
	assert.Len(t, updated.Pins, 2)
}
