package ai

import (
	"context"
	"testing"

	"VisionTalk/internal/service/image"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = &image.ProcessedImage{Data: []byte{1, 2, 3}, MimeType: "image/jpeg", Width: 1, Height: 1, SizeBytes: 3}

func TestNewRequestKinds(t *testing.T) {
	tests := []struct {
		name string
		text string
		img  *image.ProcessedImage
		want RequestKind
	}{
		{name: "neither", want: KindEmpty},
		{name: "whitespace text", text: "  \n\t", want: KindEmpty},
		{name: "empty image data", img: &image.ProcessedImage{}, want: KindEmpty},
		{name: "text only", text: "hello", want: KindTextOnly},
		{name: "image only", img: testImage, want: KindImageOnly},
		{name: "whitespace text with image", text: " ", img: testImage, want: KindImageOnly},
		{name: "both", text: "describe", img: testImage, want: KindCombined},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewRequest(tt.text, tt.img)
			assert.Equal(t, tt.want, req.Kind)
		})
	}
}

func TestNewRequestDropsUnusedInputs(t *testing.T) {
	req := NewRequest("  ", testImage)
	assert.Empty(t, req.Text)
	assert.Same(t, testImage, req.Image)

	req = NewRequest("hello", nil)
	assert.Equal(t, "hello", req.Text)
	assert.Nil(t, req.Image)
}

func TestStubClient(t *testing.T) {
	c := NewStubClient()

	out, err := c.Generate(context.Background(), NewRequest("hi", testImage))
	require.NoError(t, err)
	assert.Contains(t, out, "text+image")

	_, err = c.Generate(context.Background(), NewRequest("", nil))
	assert.ErrorIs(t, err, ErrEmptyRequest)
}
