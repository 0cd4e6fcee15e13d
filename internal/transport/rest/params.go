package rest

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"medsched/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequestResponse(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func optionalInt64Query(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		badRequestResponse(c, "invalid "+name)
		return nil, false
	}
	return &v, true
}

func optionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		badRequestResponse(c, name+": "+err.Error())
		return nil, false
	}
	return &d, true
}

// pageQuery reads page (1-based) and page_size and returns them with the matching offset.
func pageQuery(c *gin.Context) (page, pageSize, offset int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return page, pageSize, (page - 1) * pageSize
}
