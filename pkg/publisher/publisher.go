package publisher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-text-format/pkg/md2htmlrunner"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された book.md のパス
	HTMLPath     string   // 生成された HTML のパス
	ImagePaths   []string // 保存された全挿絵のパスリスト
}

const (
	defaultBookName     = "book.md"
	defaultImageDirName = "images"
)

// ImageFetcher は挿絵の URL からバイナリを取得します。
// data: URI とリモート URL の両方を扱えること。
type ImageFetcher interface {
	FetchRaw(ctx context.Context, rawURL string) ([]byte, string, error)
}

// BookPublisher は絵本の成果物の永続化とフォーマット変換を担います。
// writer が GCS 対応であればローカル・リモートのどちらにも書き出せます。
type BookPublisher struct {
	writer     remoteio.OutputWriter
	fetcher    ImageFetcher
	htmlRunner md2htmlrunner.Runner
}

// NewBookPublisher は書き込み先、挿絵の取得元、HTML 変換器を注入して初期化します。
// htmlRunner が nil の場合は Markdown のみを出力します。
func NewBookPublisher(writer remoteio.OutputWriter, fetcher ImageFetcher, htmlRunner md2htmlrunner.Runner) *BookPublisher {
	return &BookPublisher{
		writer:     writer,
		fetcher:    fetcher,
		htmlRunner: htmlRunner,
	}
}

// Publish は挿絵の保存、Markdownの構築、HTML変換を一括して実行し、
// 生成されたファイル情報を返却するのだ！
func (p *BookPublisher) Publish(ctx context.Context, book domain.Book, opts Options) (PublishResult, error) {
	result := PublishResult{}

	markdown, err := ResolveOutputPath(opts.OutputDir, defaultBookName)
	if err != nil {
		return result, err
	}
	result.MarkdownPath = markdown

	imgDir, err := ResolveOutputPath(opts.OutputDir, defaultImageDirName)
	if err != nil {
		return result, err
	}

	savedPaths, err := p.saveImages(ctx, book, imgDir)
	if err != nil {
		return result, fmt.Errorf("挿絵の書き込みに失敗しました: %w", err)
	}
	result.ImagePaths = savedPaths

	content := BuildMarkdown(book)

	if err := p.writer.Write(ctx, markdown, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return result, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}

	if p.htmlRunner != nil {
		slog.Info("HTMLへの変換を開始します", "title", book.Title)
		htmlBuffer, err := p.htmlRunner.Run(ctx, book.Title, []byte(content))
		if err != nil {
			return result, fmt.Errorf("HTMLの変換に失敗しました: %w", err)
		}

		htmlPath := strings.TrimSuffix(markdown, filepath.Ext(markdown)) + ".html"
		if err := p.writer.Write(ctx, htmlPath, htmlBuffer, "text/html; charset=utf-8"); err != nil {
			return result, fmt.Errorf("HTMLファイルの書き込みに失敗しました: %w", err)
		}
		result.HTMLPath = htmlPath
	}

	slog.Info("絵本を書き出しました",
		"book_id", book.ID,
		"markdown", result.MarkdownPath,
		"images", len(result.ImagePaths))

	return result, nil
}

// saveImages は挿絵付きの各ページの画像を取得して保存し、パスのリストを返します。
// 挿絵の無いページは飛ばすため、リストの長さはページ数と一致しないことがあります。
func (p *BookPublisher) saveImages(ctx context.Context, book domain.Book, baseDir string) ([]string, error) {
	var paths []string
	for i, page := range book.Pages {
		if page.Image == nil || page.Image.URL == "" {
			continue
		}

		data, _, err := p.fetcher.FetchRaw(ctx, page.Image.URL)
		if err != nil {
			return nil, fmt.Errorf("ページ %d の挿絵の取得に失敗しました: %w", i, err)
		}

		name := fmt.Sprintf("page_%d.png", i+1)
		fullPath, err := ResolveOutputPath(baseDir, name)
		if err != nil {
			return nil, fmt.Errorf("出力パスの解決に失敗しました: %w", err)
		}

		if err := p.writer.Write(ctx, fullPath, bytes.NewReader(data), "image/png"); err != nil {
			return nil, fmt.Errorf("挿絵の書き込みに失敗しました %s: %w", fullPath, err)
		}
		paths = append(paths, fullPath)
	}
	return paths, nil
}
