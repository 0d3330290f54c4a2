package turn

import (
	"context"
	"fmt"

	"VisionTalk/internal/ai"
	"VisionTalk/internal/service/conversation"
	"VisionTalk/internal/service/image"

	"go.uber.org/zap"
)

// State — состояние последнего хода: Idle -> Sent -> {Completed, Failed}.
type State int

const (
	StateIdle State = iota
	StateSent
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateSent:
		return "sent"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

type History interface {
	Append(t conversation.Turn) error
}

// Processor превращает ввод пользователя в запрос к AI и дописывает результат в историю.
type Processor struct {
	history History
	client  ai.Client
	logger  *zap.SugaredLogger
	state   State
}

func New(history History, client ai.Client, logger *zap.SugaredLogger) *Processor {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Processor{history: history, client: client, logger: logger}
}

func (p *Processor) State() State { return p.state }

// Handle выполняет один ход. Ошибка всегда *ErrorReport.
// При NoInput история не меняется; при сбое сервиса реплика пользователя остаётся, ответа нет.
func (p *Processor) Handle(ctx context.Context, text string, img *image.ProcessedImage) (conversation.Turn, error) {
	req := ai.NewRequest(text, img)
	if req.Kind == ai.KindEmpty {
		return conversation.Turn{}, noInput()
	}

	p.state = StateIdle
	if err := p.history.Append(conversation.NewUserTurn(req.Text, req.Image)); err != nil {
		return conversation.Turn{}, serviceFailure(fmt.Errorf("append user turn: %w", err))
	}

	p.state = StateSent
	p.logger.Infow("Отправка..", "kind", req.Kind.String(), "text", req.Text)
	resp, err := p.generate(ctx, req)
	if err != nil {
		p.state = StateFailed
		p.logger.Warnw("Ход завершился ошибкой", "kind", req.Kind.String(), "error", err)
		return conversation.Turn{}, serviceFailure(err)
	}

	answer := conversation.NewAssistantTurn(resp)
	if err := p.history.Append(answer); err != nil {
		p.state = StateFailed
		return conversation.Turn{}, serviceFailure(fmt.Errorf("append assistant turn: %w", err))
	}
	p.state = StateCompleted
	return answer, nil
}

// generate — единственный вызов внешнего сервиса; паника клиента становится ошибкой.
func (p *Processor) generate(ctx context.Context, req ai.Request) (resp string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation client panic: %v", r)
		}
	}()
	return p.client.Generate(ctx, req)
}
