package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"VisionTalk/internal/ai"
	"VisionTalk/internal/app/session"
	imgsvc "VisionTalk/internal/service/image"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	reply string
	err   error
}

func (c *scriptedClient) Generate(_ context.Context, _ ai.Request) (string, error) {
	return c.reply, c.err
}

func setupRouter(client ai.Client) *chi.Mux {
	s := session.New(client, imgsvc.NewProcessor(0, 0, 0), nil)
	r := chi.NewRouter()
	New(s, 1<<20, nil).RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func sendText(r http.Handler, text string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(map[string]string{"text": text})
	return do(r, http.MethodPost, "/messages", bytes.NewBuffer(payload), "application/json")
}

func multipartImage(t *testing.T, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngData(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 6))))
	return buf.Bytes()
}

func TestSendMessageSuccess(t *testing.T) {
	r := setupRouter(&scriptedClient{reply: "hi there"})

	resp := sendText(r, "hello")
	require.Equal(t, http.StatusOK, resp.Code)

	var got turnResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &got))
	assert.Equal(t, "assistant", got.Role)
	assert.Equal(t, "hi there", got.Text)

	resp = do(r, http.MethodGet, "/messages", nil, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var turns []turnResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &turns))
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "hello", turns[0].Text)
}

func TestSendMessageNoInput(t *testing.T) {
	r := setupRouter(&scriptedClient{reply: "unused"})

	resp := sendText(r, "   ")
	require.Equal(t, http.StatusBadRequest, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "no_input", body["kind"])

	resp = do(r, http.MethodGet, "/messages", nil, "")
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestSendMessageServiceFailure(t *testing.T) {
	r := setupRouter(&scriptedClient{err: errors.New("quota exceeded")})

	resp := sendText(r, "hello")
	require.Equal(t, http.StatusBadGateway, resp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "service_failure", body["kind"])
	assert.Contains(t, body["error"], "quota exceeded")

	var turns []turnResponse
	resp = do(r, http.MethodGet, "/messages", nil, "")
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &turns))
	require.Len(t, turns, 1)
	assert.Equal(t, "user", turns[0].Role)
}

func TestSendMessageInvalidBody(t *testing.T) {
	r := setupRouter(&scriptedClient{})

	resp := do(r, http.MethodPost, "/messages", bytes.NewBufferString("{oops"), "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestClearMessages(t *testing.T) {
	r := setupRouter(&scriptedClient{reply: "ok"})
	require.Equal(t, http.StatusOK, sendText(r, "hello").Code)

	resp := do(r, http.MethodDelete, "/messages", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)

	resp = do(r, http.MethodGet, "/messages", nil, "")
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestImageLifecycle(t *testing.T) {
	r := setupRouter(&scriptedClient{reply: "a black square"})

	resp := do(r, http.MethodGet, "/image", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	body, ct := multipartImage(t, pngData(t))
	resp = do(r, http.MethodPut, "/image", body, ct)
	require.Equal(t, http.StatusOK, resp.Code)

	var meta imageResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &meta))
	assert.Equal(t, 10, meta.Width)
	assert.Equal(t, 6, meta.Height)
	assert.Equal(t, "image/jpeg", meta.MimeType)

	// только картинка, без текста
	resp = sendText(r, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var turns []turnResponse
	resp = do(r, http.MethodGet, "/messages", nil, "")
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &turns))
	require.Len(t, turns, 2)
	assert.True(t, strings.HasPrefix(turns[0].Image, "data:image/jpeg;base64,"))
	assert.Empty(t, turns[1].Image)

	resp = do(r, http.MethodDelete, "/image", nil, "")
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = do(r, http.MethodGet, "/image", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUploadRejectsNonImage(t *testing.T) {
	r := setupRouter(&scriptedClient{})

	body, ct := multipartImage(t, []byte("plain text"))
	resp := do(r, http.MethodPut, "/image", body, ct)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestUploadRequiresImageField(t *testing.T) {
	r := setupRouter(&scriptedClient{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file"))
	require.NoError(t, mw.Close())

	resp := do(r, http.MethodPut, "/image", &buf, mw.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
