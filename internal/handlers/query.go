package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/iloilo-msme/produkta/internal/listing"
	"github.com/iloilo-msme/produkta/internal/services"
)

// parseListingQuery reads the listing query parameters. sectors and locations accept both
// repeated parameters and comma separated lists.
func parseListingQuery(c *gin.Context) (listing.Query, error) {
	q := listing.DefaultQuery()

	for _, raw := range splitParams(c.QueryArray("sectors")) {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return q, fmt.Errorf("invalid sectors parameter: %q is not a sector id", raw)
		}
		q.Sectors = append(q.Sectors, id)
	}
	q.Locations = splitParams(c.QueryArray("locations"))
	q.Search = strings.TrimSpace(c.Query("q"))

	if column := c.Query("sort"); column != "" {
		if !listing.IsSortColumn(column) {
			return q, fmt.Errorf("invalid sort parameter: %q", column)
		}
		q.Sort = listing.SortSpec{Column: column, Direction: listing.DirAsc}
		if dir := c.Query("dir"); dir != "" {
			q.Sort.Direction = listing.ParseDirection(dir)
		}
	}

	if all := c.Query("all"); all != "" {
		showAll, err := strconv.ParseBool(all)
		if err != nil {
			return q, fmt.Errorf("invalid all parameter: must be true or false")
		}
		q.ShowAll = showAll
	}

	// a show-all listing is a single page, so page and per_page are not applied
	pageStr, perPageStr := c.Query("page"), c.Query("per_page")
	if q.ShowAll {
		pageStr, perPageStr = "", ""
	}
	page, perPage, err := services.ValidatePaginationParams(pageStr, perPageStr)
	if err != nil {
		return q, err
	}
	q.Page, q.PageSize = page, perPage

	return q.Normalized(), nil
}

func splitParams(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
