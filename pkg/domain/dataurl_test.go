package domain

import (
	"bytes"
	"strings"
	"testing"
)

func TestDataURL_RoundTrip(t *testing.T) {
	t.Run("エンコードしてデコードすると元に戻ること", func(t *testing.T) {
		payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
		url := EncodeDataURL(payload, "image/png")

		if !strings.HasPrefix(url, "data:image/png;base64,") {
			t.Fatalf("data: URI の形式が不正です: %s", url)
		}

		data, mimeType, err := DecodeDataURL(url)
		if err != nil {
			t.Fatalf("デコードに失敗しました: %v", err)
		}
		if !bytes.Equal(data, payload) {
			t.Error("デコード結果が元のバイナリと一致しません")
		}
		if mimeType != "image/png" {
			t.Errorf("期待値 'image/png', 実際の値 '%s'", mimeType)
		}
	})

	t.Run("MIME タイプ未指定なら image/png になること", func(t *testing.T) {
		url := EncodeDataURL([]byte{1, 2, 3}, "")
		_, mimeType, err := DecodeDataURL(url)
		if err != nil {
			t.Fatalf("デコードに失敗しました: %v", err)
		}
		if mimeType != "image/png" {
			t.Errorf("期待値 'image/png', 実際の値 '%s'", mimeType)
		}
	})

	t.Run("区切り直後の空白を許容すること", func(t *testing.T) {
		data, _, err := DecodeDataURL("data:image/png;base64, AQID")
		if err != nil {
			t.Fatalf("デコードに失敗しました: %v", err)
		}
		if !bytes.Equal(data, []byte{1, 2, 3}) {
			t.Error("空白入りペイロードのデコード結果が不正です")
		}
	})

	t.Run("data: URI でなければエラーになること", func(t *testing.T) {
		if _, _, err := DecodeDataURL("https://cdn/x.png"); err == nil {
			t.Error("https URL でエラーが発生しませんでした")
		}
	})
}
