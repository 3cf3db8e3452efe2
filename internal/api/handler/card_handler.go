package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/erickogi/cards-restful/internal/api/metrics"
	"github.com/erickogi/cards-restful/internal/core/domain"
	"github.com/erickogi/cards-restful/internal/core/ports"
)

// CardHandler handles HTTP requests for card operations.
type CardHandler struct {
	service ports.CardService
}

func NewCardHandler(service ports.CardService) *CardHandler {
	return &CardHandler{service: service}
}

// Create handles POST /api/card/create.
//
// @Summary      Create a card
// @Description  The card is owned by the caller and starts in TODO.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string             false  "Replays the first result for a repeated key"
// @Param        body             body      createCardRequest  true   "Card fields"
// @Success      200              {object}  cardEnvelope
// @Failure      400              {object}  validationErrorResponse
// @Failure      401              {object}  messageResponse
// @Router       /api/card/create [post]
func (h *CardHandler) Create(c echo.Context) error {
	var req createCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	card, err := h.service.Create(c.Request().Context(), bearerToken(c), ports.CreateCardInput{
		Name:           req.Name,
		Description:    req.Description,
		Color:          req.Color,
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	observe("create", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cardEnvelope{
		Message: "Card created successfully!",
		Card:    toCardResponse(card),
	})
}

// List handles GET /api/card/list.
//
// @Summary      List cards
// @Description  Members see their own cards, admins see every card.
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int     false  "0-based page index"
// @Param        size  query     int     false  "Page size (default 20, max 100)"
// @Param        sort  query     string  false  "field[,asc|desc]"
// @Success      200   {object}  cardPageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/card/list [get]
func (h *CardHandler) List(c echo.Context) error {
	page, err := parsePageRequest(c)
	if err != nil {
		return err
	}

	result, err := h.service.List(c.Request().Context(), bearerToken(c), page)
	observe("list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardPageResponse(result))
}

// Search handles GET /api/card/search.
//
// @Summary      Search cards
// @Description  Every provided filter must match. The date matches the creation day.
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        name         query     string  false  "Exact name"
// @Param        description  query     string  false  "Exact description"
// @Param        color        query     string  false  "#RRGGBB"
// @Param        date         query     string  false  "Creation day, YYYY-MM-DD"
// @Param        status       query     string  false  "TODO, IN_PROGRESS or DONE"
// @Param        page         query     int     false  "0-based page index"
// @Param        size         query     int     false  "Page size"
// @Param        sort         query     string  false  "field[,asc|desc]"
// @Success      200          {object}  cardPageResponse
// @Failure      400          {object}  validationErrorResponse
// @Failure      401          {object}  messageResponse
// @Router       /api/card/search [get]
func (h *CardHandler) Search(c echo.Context) error {
	page, err := parsePageRequest(c)
	if err != nil {
		return err
	}
	input, err := parseSearchInput(c)
	if err != nil {
		return err
	}

	result, err := h.service.Search(c.Request().Context(), bearerToken(c), page, input)
	observe("search", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardPageResponse(result))
}

// Get handles GET /api/card/card?id=.
//
// @Summary      Get one card
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   query     string  true  "Card id"
// @Success      200  {object}  cardResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/card/card [get]
func (h *CardHandler) Get(c echo.Context) error {
	id, err := cardID(c, false)
	if err != nil {
		return err
	}

	card, err := h.service.Get(c.Request().Context(), bearerToken(c), id)
	observe("get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCardResponse(card))
}

// Patch handles PATCH /api/card/update/:id.
//
// @Summary      Update card fields
// @Description  Only the provided fields change. An invalid field rejects the whole update.
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Card id"
// @Param        body  body      patchCardRequest  true  "Fields to change"
// @Success      200   {object}  cardEnvelope
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /api/card/update/{id} [patch]
func (h *CardHandler) Patch(c echo.Context) error {
	id, err := cardID(c, true)
	if err != nil {
		return err
	}

	var req patchCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	card, err := h.service.Patch(c.Request().Context(), bearerToken(c), id, req.toPatch())
	observe("patch", err)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cardEnvelope{
		Message: "Card updated successfully!",
		Card:    toCardResponse(card),
	})
}

// Delete handles DELETE /api/card/delete/:id.
//
// @Summary      Delete a card
// @Tags         cards
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Card id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/card/delete/{id} [delete]
func (h *CardHandler) Delete(c echo.Context) error {
	id, err := cardID(c, true)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), bearerToken(c), id)
	observe("delete", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Card deleted"})
}

func observe(op string, err error) {
	metrics.CardOperationsTotal.WithLabelValues(op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCardNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrUnknownUser):
		return "unknown_user"
	default:
		return "error"
	}
}
