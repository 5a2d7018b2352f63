package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ListActsHandler returns all acts with their sections.
func ListActsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		acts, err := deps.Legal.ListActs(c.UserContext())
		if err != nil {
			return errorFrom(c, err)
		}
		return paginate(c, acts, 50, 200)
	}
}

// GetActHandler looks an act up by id or by part of its name.
func GetActHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return errBadRequest(c, "act id is required")
		}
		act, err := deps.Legal.GetAct(c.UserContext(), id)
		if err != nil {
			return errorFrom(c, err)
		}
		return c.JSON(act)
	}
}

// ListArticlesHandler returns the constitution articles.
func ListArticlesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		articles, err := deps.Legal.ListArticles(c.UserContext())
		if err != nil {
			return errorFrom(c, err)
		}
		return paginate(c, articles, 100, 500)
	}
}

// ListCasesHandler returns the case law collection.
func ListCasesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cases, err := deps.Legal.ListCases(c.UserContext())
		if err != nil {
			return errorFrom(c, err)
		}
		return paginate(c, cases, 100, 500)
	}
}
