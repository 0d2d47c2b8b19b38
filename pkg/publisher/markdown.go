package publisher

import (
	"fmt"
	"path"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// BuildMarkdown は絵本1冊分の Markdown を構築します。
// 挿絵の参照は images/ 配下への相対パスで埋め込みます。
func BuildMarkdown(book domain.Book) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", book.Title))

	for i, page := range book.Pages {
		sb.WriteString(fmt.Sprintf("## Page %d\n\n", i+1))

		if page.Image != nil && page.Image.URL != "" {
			rel := path.Join(defaultImageDirName, fmt.Sprintf("page_%d.png", i+1))
			sb.WriteString(fmt.Sprintf("![Page %d](%s)\n\n", i+1, rel))
		}

		sb.WriteString(strings.TrimSpace(page.Content))
		sb.WriteString("\n\n")
	}

	if book.RandomFact != "" {
		sb.WriteString(fmt.Sprintf("> %s\n", strings.TrimSpace(book.RandomFact)))
	}

	return sb.String()
}
