package domain

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Character は絵本に登場するキャラクターの定義を保持します。
// VisualCues は挿絵プロンプトに注入する外見上の特徴です。
type Character struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	VisualCues []string `json:"visual_cues"`
	Traits     string   `json:"traits"`
	Optional   bool     `json:"optional"` // true なら物語の補助役として任意に登場する
}

// CharactersMap は ID をキーとしたキャラクターの検索用マップなのだ。
type CharactersMap map[string]Character

// LoadCharacters は指定されたファイルパスからJSONを読み込み、キャラクターマップを返すのだ。
func LoadCharacters(path string) (CharactersMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("キャラクターファイルの読み込みに失敗したのだ: %w", err)
	}
	return ParseCharacters(data)
}

// ParseCharacters はJSONバイト列からキャラクターマップをパースして返すのだ。
func ParseCharacters(charactersJSON []byte) (CharactersMap, error) {
	var chars CharactersMap
	if err := json.Unmarshal(charactersJSON, &chars); err != nil {
		return nil, fmt.Errorf("キャラクター設定のデコードに失敗したのだ: %w", err)
	}
	return chars, nil
}

// Mains は主役キャラクターを ID 順で返します。
func (cm CharactersMap) Mains() []Character {
	return cm.filter(false)
}

// Optionals は補助キャラクターを ID 順で返します。
func (cm CharactersMap) Optionals() []Character {
	return cm.filter(true)
}

func (cm CharactersMap) filter(optional bool) []Character {
	var out []Character
	for _, c := range cm {
		if c.Optional == optional {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Roster はプロンプトに埋め込むための番号付きキャラクター一覧を組み立てます。
func Roster(chars []Character) string {
	var sb strings.Builder
	for i, c := range chars {
		sb.WriteString(fmt.Sprintf("  %d. %s", i+1, c.Name))
		if len(c.VisualCues) > 0 {
			sb.WriteString(", ")
			sb.WriteString(strings.Join(c.VisualCues, ", "))
		}
		if c.Traits != "" {
			sb.WriteString(". ")
			sb.WriteString(c.Traits)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// String はキャラクターの情報を文字列で返すのだ。
func (c Character) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}
