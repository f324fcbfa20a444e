package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"employee-management-api/internal/constants"
	"employee-management-api/internal/dto"
)

// GetPageRequest extracts and validates pagination parameters from the request
func GetPageRequest(c *gin.Context) dto.PageRequest {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.DefaultPage)))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.DefaultPage {
		page = constants.DefaultPage
	}
	if pageSize < 1 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	sortDirection := c.DefaultQuery("sort_direction", "asc")
	if sortDirection != "desc" {
		sortDirection = "asc"
	}

	return dto.PageRequest{
		Page:          page,
		PageSize:      pageSize,
		SearchTerm:    c.Query("search_term"),
		SortColumn:    c.Query("sort_column"),
		SortDirection: sortDirection,
	}
}
