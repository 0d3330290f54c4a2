package ai

import (
	"context"
	"errors"
	"strings"

	"VisionTalk/internal/service/image"
)

// ErrEmptyRequest — клиенту передали запрос без текста и без картинки.
var ErrEmptyRequest = errors.New("empty request: neither text nor image")

// RequestKind — вариант запроса, вычисляется один раз из входа.
type RequestKind int

const (
	KindEmpty RequestKind = iota
	KindTextOnly
	KindImageOnly
	KindCombined
)

func (k RequestKind) String() string {
	switch k {
	case KindTextOnly:
		return "text"
	case KindImageOnly:
		return "image"
	case KindCombined:
		return "text+image"
	default:
		return "empty"
	}
}

// Request — то, что уходит во внешний сервис генерации.
type Request struct {
	Kind  RequestKind
	Text  string
	Image *image.ProcessedImage
}

// NewRequest определяет вариант запроса. Текст из одних пробелов считается отсутствующим.
func NewRequest(text string, img *image.ProcessedImage) Request {
	hasText := strings.TrimSpace(text) != ""
	hasImage := img != nil && len(img.Data) > 0

	switch {
	case hasText && hasImage:
		return Request{Kind: KindCombined, Text: text, Image: img}
	case hasImage:
		return Request{Kind: KindImageOnly, Image: img}
	case hasText:
		return Request{Kind: KindTextOnly, Text: text}
	default:
		return Request{Kind: KindEmpty}
	}
}

// Client интерфейс для взаимодействия с AI. Все реализации должны быть взаимозаменяемыми.
type Client interface {
	Generate(ctx context.Context, req Request) (string, error)
}
