package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// BookPromptBuilder は本文生成用の指示文を組み立てます。
// 主役・補助キャラクターの一覧と、応答に要求する JSON スキーマを
// instructions に埋め込みます。
type BookPromptBuilder struct {
	pageCount  int
	characters domain.CharactersMap
}

// NewBookPromptBuilder は新しい BookPromptBuilder を生成します。
// pageCount が 0 以下の場合はデフォルトのページ数を使います。
func NewBookPromptBuilder(chars domain.CharactersMap, pageCount int) *BookPromptBuilder {
	if pageCount <= 0 {
		pageCount = DefaultPageCount
	}
	return &BookPromptBuilder{
		pageCount:  pageCount,
		characters: chars,
	}
}

// Build はユーザーの要約文から本文生成リクエストを構築します。
// 要約は <book-summary> マークアップで包み、プロンプト本文と区別させます。
func (pb *BookPromptBuilder) Build(input string) domain.GenerateRequest {
	var sb strings.Builder

	sb.WriteString("You are an award winning children's book author and illustrator.\n")
	sb.WriteString("You are going to write a book in the children's genre.\n")
	sb.WriteString("The book should focus on the text content in the <book-summary> markup, ")
	sb.WriteString("and the protagonists should always be the main characters of the story, even if not mentioned in the <book-summary>. ")
	sb.WriteString("You can use the optional characters as needed for storyline support.\n\n")

	sb.WriteString("The protagonists are the following characters:\n")
	sb.WriteString(domain.Roster(pb.characters.Mains()))
	sb.WriteString("\nThe optional characters are:\n")
	sb.WriteString(domain.Roster(pb.characters.Optionals()))

	sb.WriteString("\nRequirements:\n")
	sb.WriteString(fmt.Sprintf("  - Each book should contain %d pages.\n", pb.pageCount))
	sb.WriteString(fmt.Sprintf("  - Each page should get about %d words.\n", WordsPerPage))
	sb.WriteString("  - It should rhyme a little.\n")
	sb.WriteString("  - The book should have a random fact related to the book's subject matter shown at the end.\n")
	sb.WriteString("  - The response should be in JSON format, should be minified, and have the following schema:\n\n")
	sb.WriteString("```\n")
	sb.WriteString(bookSchemaExample)
	sb.WriteString("\n```\n")

	return domain.GenerateRequest{
		Instructions: sb.String(),
		Input:        fmt.Sprintf("<book-summary>%s</book-summary>", input),
	}
}
