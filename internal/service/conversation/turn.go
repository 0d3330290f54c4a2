package conversation

import (
	"time"

	"VisionTalk/internal/service/image"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Turn — одна реплика диалога. После создания не меняется.
type Turn struct {
	ID        string
	Role      Role
	Text      string
	Image     *image.ProcessedImage // снимок картинки сессии на момент отправки, только у user
	CreatedAt time.Time
}

// NewUserTurn фиксирует текст и картинку, активную в момент отправки.
func NewUserTurn(text string, img *image.ProcessedImage) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Text:      text,
		Image:     img,
		CreatedAt: time.Now().UTC(),
	}
}

func NewAssistantTurn(text string) Turn {
	return Turn{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}
