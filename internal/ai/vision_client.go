package ai

import (
	"context"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/responses"
	"go.uber.org/zap"
)

// VisionClient отправляет текст и/или картинку в OpenAI Responses API.
type VisionClient struct {
	client *openai.Client
	model  openai.ChatModel
	logger *zap.SugaredLogger
}

func NewVisionClient(client *openai.Client, model string, logger *zap.SugaredLogger) *VisionClient {
	if model == "" {
		model = string(openai.ChatModelGPT4o)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &VisionClient{client: client, model: openai.ChatModel(model), logger: logger}
}

// inputContent собирает контент user-сообщения: текст, затем картинка как data URL.
func inputContent(req Request) (responses.ResponseInputMessageContentListParam, error) {
	content := make(responses.ResponseInputMessageContentListParam, 0, 2)
	switch req.Kind {
	case KindTextOnly:
		content = append(content, responses.ResponseInputContentParamOfInputText(req.Text))
	case KindImageOnly:
		content = appendImage(content, req)
	case KindCombined:
		content = append(content, responses.ResponseInputContentParamOfInputText(req.Text))
		content = appendImage(content, req)
	default:
		return nil, ErrEmptyRequest
	}
	return content, nil
}

func appendImage(content responses.ResponseInputMessageContentListParam, req Request) responses.ResponseInputMessageContentListParam {
	imageParam := responses.ResponseInputContentParamOfInputImage(responses.ResponseInputImageDetailAuto)
	imageParam.OfInputImage.ImageURL = openai.String(req.Image.DataURL())
	return append(content, imageParam)
}

func (c *VisionClient) Generate(ctx context.Context, req Request) (string, error) {
	content, err := inputContent(req)
	if err != nil {
		return "", err
	}

	params := responses.ResponseNewParams{
		Model: c.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: responses.ResponseInputParam{
				responses.ResponseInputItemParamOfMessage(content, responses.EasyInputMessageRoleUser),
			},
		},
	}

	start := time.Now()
	c.logger.Infow("Запрос в OpenAI...", "kind", req.Kind.String(), "model", string(c.model))
	resp, err := c.client.Responses.New(ctx, params)
	dur := time.Since(start)
	if err != nil {
		c.logger.Errorw("Ошибка ответа OpenAI", "duration", dur.String(), "error", err)
		return "", err
	}
	c.logger.Infow("Ответ OpenAI получен", "duration", dur.String())

	return resp.OutputText(), nil
}
