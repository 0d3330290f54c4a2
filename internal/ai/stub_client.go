package ai

import "context"

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct{}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) Generate(_ context.Context, req Request) (string, error) {
	if req.Kind == KindEmpty {
		return "", ErrEmptyRequest
	}
	return "запрос получен: " + req.Kind.String(), nil
}
