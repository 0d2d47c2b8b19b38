package prompts

const (
	// DefaultPageCount は1冊あたりのページ数です。
	DefaultPageCount = 6
	// DefaultArtStyle は画風が指定されなかったときのフォールバックです。
	DefaultArtStyle = "Dr. Seuss"
	// PageAspectRatio は絵本の判型に合わせた挿絵のアスペクト比です。
	PageAspectRatio = "820/1030"
	// WordsPerPage は1ページあたりのおおよその語数です。
	WordsPerPage = 90
)

// bookSchemaExample は本文生成の応答に要求する JSON スキーマの見本です。
// AI にはこの形の minified JSON を返させるのだ。
const bookSchemaExample = `{
  "title": "A tagline for the book",
  "pages": [
    {
      "content": "Part of the story's plot (no more than 60 words)",
      "synopsis": "A very detailed scene synopsis. If it's needed, it should mention the environment, the weather, the characters involved, the time of day, etc."
    }
  ],
  "random_fact": "A random fact about the story."
}`
