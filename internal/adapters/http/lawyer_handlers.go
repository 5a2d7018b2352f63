package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nyayasahayak/legallibrary/internal/core/domain"
)

// SearchLawyersHandler filters the lawyer directory.
//
// Query: search, city, expertise, min_rating, lat, lng, radius (km),
// offset, limit. lat and lng must be given together.
func SearchLawyersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f := domain.LawyerFilter{
			Search:    c.Query("search"),
			City:      c.Query("city"),
			Expertise: c.Query("expertise"),
		}
		if len(f.Search) > 200 {
			return errBadRequest(c, "search too long (max 200 characters)")
		}

		if v := c.Query("min_rating"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return errBadRequest(c, "min_rating must be a number")
			}
			f.MinRating = &r
		}

		near, err := queryPoint(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		f.Near = near
		if v := c.Query("radius"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil || r <= 0 {
				return errBadRequest(c, "radius must be a positive number of kilometres")
			}
			f.RadiusKm = r
		}

		lawyers, err := deps.Lawyers.Search(c.UserContext(), f)
		if err != nil {
			return errorFrom(c, err)
		}
		return paginate(c, lawyers, 50, 200)
	}
}
