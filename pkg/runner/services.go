package runner

import (
	"context"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// BookService は本文生成を担うAIサービスです。
// バックエンド経由（pkg/backend）と直接生成（pkg/generator）の両方が満たします。
type BookService interface {
	GenerateBook(ctx context.Context, req domain.GenerateRequest) (domain.Book, error)
}

// ImageService は挿絵生成を担うAIサービスです。
type ImageService interface {
	GenerateImage(ctx context.Context, req domain.GenerateRequest) (domain.GeneratedImage, error)
}

// BookStore は生成結果の保存先です。
type BookStore interface {
	CreateBook(ctx context.Context, book domain.Book) (domain.Book, error)
}

// ImageAttacher は生成済みの挿絵をページに取り付けて永続化します。
type ImageAttacher interface {
	Reconcile(ctx context.Context, book domain.Book, pageIndex int, generated domain.GeneratedImage) (domain.Book, error)
}
