package image

import (
	"encoding/base64"
	"fmt"
)

// DataURL кодирует картинку в data URL для провайдеров и веб-клиента.
func (i ProcessedImage) DataURL() string {
	contentType := i.MimeType
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(i.Data))
}

// Base64 возвращает только полезную нагрузку без префикса data:.
func (i ProcessedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}
