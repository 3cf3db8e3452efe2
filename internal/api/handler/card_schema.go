package handler

import "time"

// messageResponse is the plain envelope for acknowledgements and errors.
type messageResponse struct {
	Message string `json:"message"`
}

// validationErrorResponse is returned for 400s caused by request validation.
type validationErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
}

// --- Request types ---

type createCardRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description"`
	Color       *string `json:"color"       validate:"omitnil,cardcolor"`
}

// patchCardRequest carries a partial update: absent fields stay untouched.
type patchCardRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"  validate:"omitnil,cardcolor"`
	Status      *string `json:"status" validate:"omitnil,cardstatus"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract does not follow domain
// refactors.

type cardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	CreatorID   string    `json:"creator_id"`
}

type cardEnvelope struct {
	Message string       `json:"message"`
	Card    cardResponse `json:"card"`
}

type cardPageResponse struct {
	Content       []cardResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"total_elements"`
	TotalPages    int            `json:"total_pages"`
}
