package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
	"github.com/nyayasahayak/legallibrary/internal/core/usecases"
)

// queryPoint reads lat and lng (or lon). It returns nil when neither is set.
func queryPoint(c *fiber.Ctx) (*domain.GeoPoint, error) {
	latStr := c.Query("lat")
	lngStr := c.Query("lng", c.Query("lon"))
	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errors.New("lat and lng must be given together")
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errors.New("lat must be a number")
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errors.New("lng must be a number")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errors.New("coordinates out of range")
	}
	return &domain.GeoPoint{Lat: lat, Lon: lng}, nil
}

// ListStatesHandler returns every state and union territory.
func ListStatesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		states, err := deps.Locations.ListStates(c.UserContext())
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(states)
	}
}

// ListDistrictsHandler returns the districts of one state.
func ListDistrictsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		districts, err := deps.Locations.ListDistricts(c.UserContext(), c.Params("code"))
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(districts)
	}
}

// ListDistrictStationsHandler returns the catalogue police stations of a district.
func ListDistrictStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stations, err := deps.Locations.ListStations(c.UserContext(), c.Params("code"))
		if err != nil {
			return errorFrom(c, err)
		}
		return c.JSON(stations)
	}
}

// NearbyStationsHandler finds live police stations around lat/lng or an address.
func NearbyStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		near, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		radius := c.QueryFloat("radius", 0)
		if radius < 0 {
			return errBadRequest(c, "radius must be positive")
		}

		stations, err := deps.Locations.NearbyStations(c.UserContext(), usecases.NearbyQuery{
			Near:     near,
			Address:  c.Query("address"),
			RadiusKm: radius,
		})
		if err != nil {
			return errorFrom(c, err)
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(fiber.Map{
			"count":    len(stations),
			"stations": stations,
		})
	}
}
