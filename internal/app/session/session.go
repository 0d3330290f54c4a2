package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"sync"

	"VisionTalk/internal/ai"
	"VisionTalk/internal/service/conversation"
	"VisionTalk/internal/service/image"
	"VisionTalk/internal/service/turn"

	"go.uber.org/zap"
)

// ErrBusy — предыдущий ход ещё не завершён. Ходы не ставятся в очередь.
var ErrBusy = errors.New("another turn is in progress")

// Session — контекст одного пользователя: история, текущая картинка и обработчик ходов.
type Session struct {
	store     *conversation.Store
	processor *turn.Processor
	images    *image.Processor
	logger    *zap.SugaredLogger

	turnMu sync.Mutex
	mu     sync.Mutex
	image  *image.ProcessedImage
}

func New(client ai.Client, images *image.Processor, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	store := conversation.NewStore()
	return &Session{
		store:     store,
		processor: turn.New(store, client, logger),
		images:    images,
		logger:    logger,
	}
}

// Send отправляет текст вместе с текущей картинкой сессии.
func (s *Session) Send(ctx context.Context, text string) (conversation.Turn, error) {
	if !s.turnMu.TryLock() {
		return conversation.Turn{}, ErrBusy
	}
	defer s.turnMu.Unlock()

	return s.processor.Handle(ctx, text, s.Image())
}

// UploadImage декодирует картинку и заменяет ею текущую.
func (s *Session) UploadImage(r io.Reader) (image.ProcessedImage, error) {
	img, err := s.images.Decode(r)
	if err != nil {
		return image.ProcessedImage{}, fmt.Errorf("upload image: %w", err)
	}
	s.mu.Lock()
	s.image = &img
	s.mu.Unlock()
	s.logger.Infow("Картинка сессии заменена", "width", img.Width, "height", img.Height, "bytes", img.SizeBytes)
	return img, nil
}

func (s *Session) Image() *image.ProcessedImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image
}

func (s *Session) RemoveImage() {
	s.mu.Lock()
	s.image = nil
	s.mu.Unlock()
}

// ClearHistory очищает историю; картинка сессии остаётся.
func (s *Session) ClearHistory() {
	s.store.Clear()
	s.logger.Infow("История очищена")
}

func (s *Session) History() iter.Seq[conversation.Turn] {
	return s.store.All()
}
