// Package pagination turns list query parameters into bounded storage options
// and shapes the pagination metadata and navigation links of list responses.
package pagination

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"employee-service/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is the derived cursor state of a list request
type Params struct {
	Page  int
	Limit int
	Skip  int
}

// Parser parses page parameters with a configurable default and upper bound
type Parser struct {
	DefaultLimit int
	MaxLimit     int
}

// NewParser returns a parser; non-positive values fall back to the package
// defaults and maxLimit never exceeds MaxLimit
func NewParser(defaultLimit, maxLimit int) Parser {
	if maxLimit <= 0 || maxLimit > MaxLimit {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return Parser{DefaultLimit: defaultLimit, MaxLimit: maxLimit}
}

// ParsePageParams parses page and limit with the package defaults
func ParsePageParams(query url.Values) Params {
	return NewParser(DefaultLimit, MaxLimit).Parse(query)
}

// Parse is total: any input yields page >= 1, 1 <= limit <= MaxLimit and
// skip = (page-1)*limit. Out-of-range values clamp, unparseable values use defaults.
func (p Parser) Parse(query url.Values) Params {
	page := parseInt(query.Get("page"), DefaultPage)
	if page < 1 {
		page = 1
	}

	limit := parseInt(query.Get("limit"), p.DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > p.MaxLimit {
		limit = p.MaxLimit
	}

	return Params{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

// parseInt returns def for empty or unparseable input. Very large values,
// including those beyond int64, are capped before the skip multiplication can
// overflow.
func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	// on ErrRange ParseInt returns the int64 bound with the input's sign
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	const ceiling = 1 << 20
	if v > ceiling {
		return ceiling
	}
	if v < -ceiling {
		return -ceiling
	}
	return int(v)
}

// Meta computes the pagination block for a result of total rows
func Meta(params Params, total int64) *models.PaginationInfo {
	pages := 0
	if params.Limit > 0 {
		pages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}
	return &models.PaginationInfo{
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pages,
	}
}

// BuildLinks builds self/next/prev links from the request URL, keeping every
// other query parameter as it was
func BuildLinks(u *url.URL, params Params, meta *models.PaginationInfo) *models.Links {
	links := &models.Links{Self: pageURL(u, params.Page, params.Limit)}
	if params.Page < meta.Pages {
		links.Next = pageURL(u, params.Page+1, params.Limit)
	}
	if params.Page > 1 {
		prev := params.Page - 1
		if meta.Pages > 0 && prev > meta.Pages {
			prev = meta.Pages
		}
		links.Prev = pageURL(u, prev, params.Limit)
	}
	return links
}

func pageURL(u *url.URL, page, limit int) string {
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return u.Path + "?" + q.Encode()
}
