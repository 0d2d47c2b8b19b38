package publisher

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// fakeWriter は書き込まれた内容をメモリに記録します。
type fakeWriter struct {
	written map[string][]byte
}

func (f *fakeWriter) Write(ctx context.Context, path string, data io.Reader, contentType string) error {
	if f.written == nil {
		f.written = make(map[string][]byte)
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.written[path] = b
	return nil
}

// fakeFetcher は data: URI だけをローカルでデコードします。
type fakeFetcher struct{}

func (fakeFetcher) FetchRaw(ctx context.Context, rawURL string) ([]byte, string, error) {
	return domain.DecodeDataURL(rawURL)
}

func exportBook() domain.Book {
	return domain.Book{
		ID:         "42",
		Title:      "The Fox",
		RandomFact: "Foxes can hear a watch ticking 40 yards away.",
		Pages: []domain.Page{
			{
				Content: "Once upon a time there was a fox.",
				Image:   &domain.Image{ID: "img0", URL: "data:image/png;base64,aGk="},
			},
			{Content: "The fox went home."},
		},
	}
}

func TestBuildMarkdown(t *testing.T) {
	t.Run("タイトル・本文・豆知識が含まれること", func(t *testing.T) {
		md := BuildMarkdown(exportBook())

		for _, want := range []string{
			"# The Fox",
			"## Page 1",
			"![Page 1](images/page_1.png)",
			"Once upon a time there was a fox.",
			"> Foxes can hear a watch ticking 40 yards away.",
		} {
			if !strings.Contains(md, want) {
				t.Errorf("'%s' が含まれていません:\n%s", want, md)
			}
		}
	})

	t.Run("挿絵の無いページには画像参照が入らないこと", func(t *testing.T) {
		md := BuildMarkdown(exportBook())
		if strings.Contains(md, "page_2.png") {
			t.Error("挿絵の無いページに画像参照が埋め込まれています")
		}
	})
}

func TestBookPublisher_Publish(t *testing.T) {
	t.Run("markdownと挿絵が書き出されること", func(t *testing.T) {
		writer := &fakeWriter{}
		pub := NewBookPublisher(writer, fakeFetcher{}, nil)

		result, err := pub.Publish(context.Background(), exportBook(), Options{OutputDir: "out"})
		if err != nil {
			t.Fatalf("予期しないエラー: %v", err)
		}

		if _, ok := writer.written[result.MarkdownPath]; !ok {
			t.Errorf("markdownが書き出されていません: %s", result.MarkdownPath)
		}
		if len(result.ImagePaths) != 1 {
			t.Fatalf("挿絵は 1 枚のはずです。実際の値 %d", len(result.ImagePaths))
		}
		if got := string(writer.written[result.ImagePaths[0]]); got != "hi" {
			t.Errorf("挿絵の中身が不正です: %q", got)
		}
		if result.HTMLPath != "" {
			t.Errorf("HTML変換器なしで HTML パスが設定されています: %s", result.HTMLPath)
		}
	})
}
