package ingredient

import "strings"

// RecognizedIngredient 辨識結果
type RecognizedIngredient struct {
	Key          string   `json:"key"`
	Category     Category `json:"category"`
	DisplayName  string   `json:"display_name"`
	StandardName string   `json:"standard_name"`
}

// Recognizer 食材辨識器，只持有唯讀分類表，可並行使用
type Recognizer struct {
	taxonomy *Taxonomy
}

// NewRecognizer 創建辨識器
func NewRecognizer(t *Taxonomy) *Recognizer {
	return &Recognizer{taxonomy: t}
}

// Taxonomy 使用中的分類表
func (r *Recognizer) Taxonomy() *Taxonomy {
	return r.taxonomy
}

// Tokenize 以逗號切分，去除空白並轉小寫，丟棄空片段
func Tokenize(text string) []string {
	parts := strings.Split(text, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tok := strings.ToLower(strings.TrimSpace(p))
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Recognize 將輸入文字比對分類表。
// 片段包含別名或別名包含片段即視為符合；每個片段只取掃描順序中的第一個符合項，
// 同一標準鍵只記錄第一次出現的片段。
func (r *Recognizer) Recognize(text string) []RecognizedIngredient {
	tokens := Tokenize(text)
	result := make([]RecognizedIngredient, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))

	for _, tok := range tokens {
		entry, ok := r.match(tok)
		if !ok || seen[entry.Key] {
			continue
		}
		seen[entry.Key] = true
		result = append(result, RecognizedIngredient{
			Key:          entry.Key,
			Category:     entry.Category,
			DisplayName:  tok,
			StandardName: entry.StandardName(),
		})
	}

	return result
}

func (r *Recognizer) match(token string) (Entry, bool) {
	for _, e := range r.taxonomy.entries {
		for _, alias := range e.Aliases {
			if strings.Contains(token, alias) || strings.Contains(alias, token) {
				return e, true
			}
		}
	}
	return Entry{}, false
}
