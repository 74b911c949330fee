package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/fundlift/fundlift-backend/pkg/enums"
)

// User is the identity record behind campaign creators and donors.
// Credential issuance lives with an external auth collaborator; this
// service only needs display metadata and the server-verified role.
type User struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email       string           `gorm:"type:text;not null;uniqueIndex"`
	DisplayName string           `gorm:"column:display_name;not null"`
	AvatarID    *string          `gorm:"column:avatar_id"`
	Role        enums.MemberRole `gorm:"column:role;not null;default:'user'"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
