package utils

import "github.com/gofiber/fiber/v2"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParsePagination reads ?page= and ?limit= with sane bounds.
func ParsePagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", DefaultPageSize)
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
