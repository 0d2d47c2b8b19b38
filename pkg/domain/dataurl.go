package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const defaultImageMimeType = "image/png"

// EncodeDataURL は画像バイナリを data: URI に変換します。
// mimeType が空の場合は image/png として扱うのだ。
func EncodeDataURL(data []byte, mimeType string) string {
	if mimeType == "" {
		mimeType = defaultImageMimeType
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// DecodeDataURL は data: URI から画像バイナリと MIME タイプを取り出します。
func DecodeDataURL(url string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return nil, "", fmt.Errorf("data: URI ではありません: %q", truncateString(url, 40))
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("data: URI の形式が不正です: %q", truncateString(url, 40))
	}

	mimeType := defaultImageMimeType
	if m := strings.TrimSuffix(meta, ";base64"); m != "" {
		mimeType = m
	}

	// ブラウザ由来のペイロードは区切りの後に空白が入ることがあるのだ
	payload = strings.TrimSpace(payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("base64のデコードに失敗しました: %w", err)
	}
	return data, mimeType, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
