package runner

import (
	"context"
	"fmt"

	"github.com/shouni/go-ehon-kit/pkg/domain"
	"github.com/shouni/go-ehon-kit/pkg/publisher"
)

// PublishRunner は絵本の書き出し処理のインターフェースです。
type PublishRunner interface {
	Run(ctx context.Context, book domain.Book) (publisher.PublishResult, error)
}

// DefaultPublishRunner は pkg/publisher を利用した標準実装です。
type DefaultPublishRunner struct {
	outputDir string
	publisher *publisher.BookPublisher
}

func NewDefaultPublishRunner(outputDir string, pub *publisher.BookPublisher) *DefaultPublishRunner {
	return &DefaultPublishRunner{
		outputDir: outputDir,
		publisher: pub,
	}
}

func (pr *DefaultPublishRunner) Run(ctx context.Context, book domain.Book) (publisher.PublishResult, error) {
	if book.Title == "" {
		return publisher.PublishResult{}, fmt.Errorf("書き出す絵本がありません: %w", domain.ErrPrecondition)
	}

	opts := publisher.Options{
		OutputDir: pr.outputDir,
	}
	return pr.publisher.Publish(ctx, book, opts)
}
