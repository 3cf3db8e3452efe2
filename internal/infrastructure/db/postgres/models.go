package postgres

import (
	"strconv"
	"time"

	"github.com/erickogi/cards-restful/internal/core/domain"
)

type cardModel struct {
	ID          uint64    `gorm:"primaryKey"`
	Name        string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	Color       string    `gorm:"size:7"`
	Status      string    `gorm:"size:16;not null;index"`
	CreatedAt   time.Time `gorm:"not null;index"`
	CreatorID   string    `gorm:"size:64;not null;index"`
}

func (cardModel) TableName() string { return "cards" }

func (m cardModel) toDomain() *domain.Card {
	return &domain.Card{
		ID:          strconv.FormatUint(m.ID, 10),
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
		Status:      domain.CardStatus(m.Status),
		CreatedAt:   m.CreatedAt.UTC(),
		CreatorID:   m.CreatorID,
	}
}

type roleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:20;uniqueIndex;not null"`
}

func (roleModel) TableName() string { return "roles" }

type userModel struct {
	ID           uint64      `gorm:"primaryKey"`
	Email        string      `gorm:"size:320;uniqueIndex;not null"`
	PasswordHash string      `gorm:"size:120;not null"`
	Roles        []roleModel `gorm:"many2many:user_roles;"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	roles := make([]domain.Role, len(m.Roles))
	for i, r := range m.Roles {
		roles[i] = domain.Role(r.Name)
	}
	return &domain.User{
		ID:           strconv.FormatUint(m.ID, 10),
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type activityModel struct {
	ID         uint64    `gorm:"primaryKey"`
	CardID     string    `gorm:"size:64;not null;index"`
	ActorID    string    `gorm:"size:64;not null"`
	Action     string    `gorm:"size:16;not null"`
	At         time.Time `gorm:"not null"`
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

func (activityModel) TableName() string { return "card_activities" }

// parseID converts a public card id into the serial key. ok is false for ids
// that cannot exist in this store.
func parseID(id string) (uint64, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return n, true
}
