package site

import (
	"net/http"
	"solara/constants"
	"solara/database"
	"solara/logging"
	"solara/response"

	"github.com/go-chi/chi/v5"
	"gorm.io/datatypes"
)

type pinRequest struct {
	City string  `json:"city" validate:"required"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lng  float64 `json:"lng" validate:"longitude"`
}

type createMarketRequest struct {
	Name             string       `json:"name" validate:"required,max=255"`
	Slug             string       `json:"slug" validate:"max=255"`
	Tag              string       `json:"tag" validate:"max=100"`
	ShortDescription string       `json:"shortDescription"`
	FullDescription  string       `json:"fullDescription"`
	YieldRate        string       `json:"yieldRate" validate:"max=50"`
	AppreciationRate string       `json:"appreciationRate" validate:"max=50"`
	ImageURL         string       `json:"imageUrl" validate:"max=512"`
	MapLat           float64      `json:"mapLat" validate:"latitude"`
	MapLng           float64      `json:"mapLng" validate:"longitude"`
	MapZoom          int          `json:"mapZoom" validate:"min=0,max=22"`
	Pins             []pinRequest `json:"pins" validate:"dive"`
}

// updateMarketRequest leaves nil fields untouched. A nil Pins slice means
// "not sent"; an empty JSON array clears the pins.
type updateMarketRequest struct {
	Name             *string      `json:"name" validate:"omitnil,min=1,max=255"`
	Slug             *string      `json:"slug" validate:"omitnil,max=255"`
	Tag              *string      `json:"tag" validate:"omitnil,max=100"`
	ShortDescription *string      `json:"shortDescription"`
	FullDescription  *string      `json:"fullDescription"`
	YieldRate        *string      `json:"yieldRate" validate:"omitnil,max=50"`
	AppreciationRate *string      `json:"appreciationRate" validate:"omitnil,max=50"`
	ImageURL         *string      `json:"imageUrl" validate:"omitnil,max=512"`
	MapLat           *float64     `json:"mapLat" validate:"omitnil,latitude"`
	MapLng           *float64     `json:"mapLng" validate:"omitnil,longitude"`
	MapZoom          *int         `json:"mapZoom" validate:"omitnil,min=0,max=22"`
	Pins             []pinRequest `json:"pins" validate:"omitempty,dive"`
}

type createPropertyRequest struct {
	Description            string   `json:"description" validate:"required"`
	Images                 []string `json:"images" validate:"dive,max=512"`
	Location               *string  `json:"location" validate:"omitnil,max=255"`
	Typology               *string  `json:"typology" validate:"omitnil,max=100"`
	Status                 *string  `json:"status" validate:"omitnil,oneof=on-plan under-construction ready"`
	EstimatedProfitability *string  `json:"estimatedProfitability" validate:"omitnil,max=100"`
	DeliveryDate           *string  `json:"deliveryDate" validate:"omitnil,max=100"`
}

func toPins(in []pinRequest) datatypes.JSONSlice[database.Pin] {
	pins := make([]database.Pin, 0, len(in))
	for _, p := range in {
		pins = append(pins, database.Pin{City: p.City, Lat: p.Lat, Lng: p.Lng})
	}
	return datatypes.NewJSONSlice(pins)
}

func (s *Site) ListMarkets(w http.ResponseWriter, r *http.Request) {
	markets, err := s.markets.List(r.Context())
	if err != nil {
		writeError(w, r, err, "market")
		return
	}
	response.JSON(w, http.StatusOK, markets)
}

func (s *Site) GetMarketBySlug(w http.ResponseWriter, r *http.Request) {
	market, err := s.markets.GetBySlug(r.Context(), chi.URLParam(r, "market"))
	if err != nil {
		writeError(w, r, err, "market")
		return
	}
	response.JSON(w, http.StatusOK, market)
}

func (s *Site) GetMarketByID(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "market")
	if err != nil {
		writeError(w, r, err, "market")
		return
	}

	market, err := s.markets.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "market")
		return
	}
	response.JSON(w, http.StatusOK, market)
}

func (s *Site) CreateMarket(w http.ResponseWriter, r *http.Request) {
	var req createMarketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "market")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err, "market")
		return
	}

	var err error
	if req.Slug, err = resolveSlug(req.Slug, req.Name, "name"); err != nil {
		writeError(w, r, err, "market")
		return
	}
	if err := s.markets.EnsureSlugAvailable(r.Context(), req.Slug, 0); err != nil {
		writeError(w, r, err, "market")
		return
	}

	market := database.Market{
		Name:             req.Name,
		Slug:             req.Slug,
		Tag:              req.Tag,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		YieldRate:        req.YieldRate,
		AppreciationRate: req.AppreciationRate,
		ImageURL:         req.ImageURL,
		MapLat:           req.MapLat,
		MapLng:           req.MapLng,
		MapZoom:          req.MapZoom,
		Pins:             toPins(req.Pins),
	}
	if err := s.markets.Create(r.Context(), &market); err != nil {
		writeError(w, r, err, "market")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("market_id", market.ID).Str("slug", market.Slug).Str("by", actor(r)).Msg("market created")
	response.JSON(w, http.StatusCreated, market)
}

func (s *Site) UpdateMarket(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "market")
	if err != nil {
		writeError(w, r, err, "market")
		return
	}

	var req updateMarketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "market")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err, "market")
		return
	}

	changes := map[string]any{}
	setString := func(column string, v *string) {
		if v != nil {
			changes[column] = *v
		}
	}
	setString("name", req.Name)
	setString("tag", req.Tag)
	setString("short_description", req.ShortDescription)
	setString("full_description", req.FullDescription)
	setString("yield_rate", req.YieldRate)
	setString("appreciation_rate", req.AppreciationRate)
	setString("image_url", req.ImageURL)
	if req.MapLat != nil {
		changes["map_lat"] = *req.MapLat
	}
	if req.MapLng != nil {
		changes["map_lng"] = *req.MapLng
	}
	if req.MapZoom != nil {
		changes["map_zoom"] = *req.MapZoom
	}
	if req.Pins != nil {
		changes["pins"] = toPins(req.Pins)
	}
	if req.Slug != nil {
		var name string
		if req.Name != nil {
			name = *req.Name
		} else if *req.Slug == "" {
			existing, err := s.markets.GetByID(r.Context(), id)
			if err != nil {
				writeError(w, r, err, "market")
				return
			}
			name = existing.Name
		}
		newSlug, err := resolveSlug(*req.Slug, name, "name")
		if err != nil {
			writeError(w, r, err, "market")
			return
		}
		if err := s.markets.EnsureSlugAvailable(r.Context(), newSlug, id); err != nil {
			writeError(w, r, err, "market")
			return
		}
		changes["slug"] = newSlug
	}

	market, err := s.markets.Update(r.Context(), id, changes)
	if err != nil {
		writeError(w, r, err, "market")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("market_id", id).Int("fields", len(changes)).Str("by", actor(r)).Msg("market updated")
	response.JSON(w, http.StatusOK, market)
}

// DeleteMarket removes the market and, with it, all of its properties.
func (s *Site) DeleteMarket(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "market")
	if err != nil {
		writeError(w, r, err, "market")
		return
	}

	if err := s.markets.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, "market")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("market_id", id).Str("by", actor(r)).Msg("market deleted")
	response.NoContent(w)
}

func (s *Site) AddProperty(w http.ResponseWriter, r *http.Request) {
	marketID, err := idParam(r, "market")
	if err != nil {
		writeError(w, r, err, "market")
		return
	}

	var req createPropertyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, "property")
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err, "property")
		return
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}
	property := database.Property{
		Description:            req.Description,
		Images:                 datatypes.NewJSONSlice(images),
		Location:               req.Location,
		Typology:               req.Typology,
		EstimatedProfitability: req.EstimatedProfitability,
		DeliveryDate:           req.DeliveryDate,
	}
	if req.Status != nil {
		status := database.PropertyStatus(*req.Status)
		property.Status = &status
	}

	if err := s.markets.AddProperty(r.Context(), marketID, &property); err != nil {
		writeError(w, r, err, "market")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("market_id", marketID).Uint("property_id", property.ID).Str("by", actor(r)).Msg("property added")
	response.JSON(w, http.StatusCreated, property)
}

func (s *Site) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "propertyID")
	if err != nil {
		writeError(w, r, err, "property")
		return
	}

	if err := s.markets.DeleteProperty(r.Context(), id); err != nil {
		writeError(w, r, err, "property")
		return
	}

	logging.Ctx(r.Context()).Info().Uint("property_id", id).Str("by", actor(r)).Msg("property deleted")
	response.NoContent(w)
}

func (s *Site) FeaturedProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := s.markets.Featured(r.Context(), constants.FEATURED_PROPERTIES_LIMIT)
	if err != nil {
		writeError(w, r, err, "property")
		return
	}
	response.JSON(w, http.StatusOK, properties)
}
