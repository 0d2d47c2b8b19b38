package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-ehon-kit/pkg/domain"
)

// IllustrationPromptBuilder は挿絵生成用の指示文を組み立てます。
// キャラクターの外見情報を毎回注入することで、ページをまたいだ
// 見た目の一貫性を継続トークンと二重に支えるのだ。
type IllustrationPromptBuilder struct {
	characters   domain.CharactersMap
	defaultStyle string
}

// NewIllustrationPromptBuilder は新しい IllustrationPromptBuilder を生成します。
// defaultStyle が空の場合はフォールバックの画風を使います。
func NewIllustrationPromptBuilder(chars domain.CharactersMap, defaultStyle string) *IllustrationPromptBuilder {
	if defaultStyle == "" {
		defaultStyle = DefaultArtStyle
	}
	return &IllustrationPromptBuilder{
		characters:   chars,
		defaultStyle: defaultStyle,
	}
}

// Build はページのシノプシスと継続トークンから挿絵生成リクエストを構築します。
// artStyle が空ならビルダーのデフォルト画風を使います。
func (pb *IllustrationPromptBuilder) Build(synopsis, previousResponseID, artStyle string) domain.GenerateRequest {
	if artStyle == "" {
		artStyle = pb.defaultStyle
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("The image should have an aspect ratio of %s and a %s art style.\n", PageAspectRatio, artStyle))
	sb.WriteString("Include the main characters, if applicable, with these characteristics:\n")
	sb.WriteString(domain.Roster(pb.characters.Mains()))
	sb.WriteString("And the optional characters, if applicable:\n")
	sb.WriteString(domain.Roster(pb.characters.Optionals()))

	return domain.GenerateRequest{
		Instructions:       sb.String(),
		Input:              synopsis,
		PreviousResponseID: previousResponseID,
		ArtStyle:           artStyle,
		AsImage:            true,
	}
}
