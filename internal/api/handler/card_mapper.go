package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

const dateLayout = "2006-01-02"

func toCardResponse(c *domain.Card) cardResponse {
	return cardResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Color:       c.Color,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt.UTC(),
		CreatorID:   c.CreatorID,
	}
}

func toCardPageResponse(p *ports.CardPage) cardPageResponse {
	content := make([]cardResponse, 0, len(p.Items))
	for _, c := range p.Items {
		content = append(content, toCardResponse(c))
	}
	return cardPageResponse{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages,
	}
}

func (r patchCardRequest) toPatch() domain.CardPatch {
	return domain.CardPatch{
		Name:        r.Name,
		Description: r.Description,
		Color:       r.Color,
		Status:      r.Status,
	}
}

var sortFields = map[string]ports.SortField{
	"id":          ports.SortByID,
	"name":        ports.SortByName,
	"description": ports.SortByDescription,
	"color":       ports.SortByColor,
	"status":      ports.SortByStatus,
	"created_at":  ports.SortByCreatedAt,
	"createdAt":   ports.SortByCreatedAt,
}

// parsePageRequest reads page, size and sort=field[,asc|desc] from the query
// string. Range clamping is left to the service.
func parsePageRequest(c echo.Context) (ports.PageRequest, error) {
	var (
		req  ports.PageRequest
		sort string
	)
	err := echo.QueryParamsBinder(c).
		Int("page", &req.Page).
		Int("size", &req.Size).
		String("sort", &sort).
		BindError()
	if err != nil {
		return req, &RequestValidationError{Errors: []string{"page and size must be integers"}}
	}

	if sort == "" {
		return req, nil
	}
	parts := strings.SplitN(sort, ",", 2)
	field, ok := sortFields[strings.TrimSpace(parts[0])]
	if !ok {
		return req, &RequestValidationError{Errors: []string{"sort: unknown field " + parts[0]}}
	}
	req.Sort = field
	if len(parts) == 2 {
		switch strings.ToLower(strings.TrimSpace(parts[1])) {
		case "asc", "":
		case "desc":
			req.Desc = true
		default:
			return req, &RequestValidationError{Errors: []string{"sort: direction must be asc or desc"}}
		}
	}
	return req, nil
}

// parseSearchInput reads the optional search filters. A parameter that is
// present but empty is treated as absent.
func parseSearchInput(c echo.Context) (ports.SearchCardsInput, error) {
	var in ports.SearchCardsInput
	in.Name = optionalQuery(c, "name")
	in.Description = optionalQuery(c, "description")
	in.Color = optionalQuery(c, "color")
	in.Status = optionalQuery(c, "status")

	if raw := optionalQuery(c, "date"); raw != nil {
		day, err := time.Parse(dateLayout, *raw)
		if err != nil {
			return in, &RequestValidationError{Errors: []string{"date: must be formatted as YYYY-MM-DD"}}
		}
		in.Date = &day
	}
	return in, nil
}

func optionalQuery(c echo.Context, name string) *string {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	return &v
}

// cardID reads a required id from the path or query string.
func cardID(c echo.Context, fromPath bool) (string, error) {
	var id string
	if fromPath {
		id = c.Param("id")
	} else {
		id = c.QueryParam("id")
	}
	if strings.TrimSpace(id) == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	return id, nil
}
