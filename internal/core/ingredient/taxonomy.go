// Package ingredient 維護食材分類表並將使用者輸入的文字辨識為分類食材。
package ingredient

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"nutritrack/internal/pkg/common"
)

// Category 食材分類
type Category string

const (
	CategoryProteins   Category = "proteins"
	CategoryVegetables Category = "vegetables"
	CategoryGrains     Category = "grains"
	CategoryDairy      Category = "dairy"
	CategoryOils       Category = "oils"
	CategorySeasonings Category = "seasonings"
)

// Categories 固定分類順序，同時也是辨識時的掃描順序
var Categories = []Category{
	CategoryProteins,
	CategoryVegetables,
	CategoryGrains,
	CategoryDairy,
	CategoryOils,
	CategorySeasonings,
}

// Valid 是否為已知分類
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

//go:embed taxonomy.json
var defaultTaxonomyJSON []byte

// Entry 食材別名紀錄，第一個別名為標準名稱
type Entry struct {
	Key      string   `json:"key"`
	Category Category `json:"category"`
	Aliases  []string `json:"aliases"`
}

// StandardName 標準名稱
func (e Entry) StandardName() string {
	return e.Aliases[0]
}

// Taxonomy 唯讀食材分類表，載入後可在多個請求間共用
type Taxonomy struct {
	entries []Entry
	byKey   map[string]int
}

type taxonomyDocument []struct {
	Category    Category `json:"category"`
	Ingredients []struct {
		Key     string   `json:"key"`
		Aliases []string `json:"aliases"`
	} `json:"ingredients"`
}

// DefaultTaxonomy 載入內建分類表
func DefaultTaxonomy() (*Taxonomy, error) {
	return LoadTaxonomy(bytes.NewReader(defaultTaxonomyJSON))
}

// LoadTaxonomyFile 從檔案載入分類表，路徑為空時使用內建資料
func LoadTaxonomyFile(path string) (*Taxonomy, error) {
	if path == "" {
		return DefaultTaxonomy()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open taxonomy file: %w", err)
	}
	defer f.Close()
	return LoadTaxonomy(f)
}

// LoadTaxonomy 解析並驗證分類表
func LoadTaxonomy(r io.Reader) (*Taxonomy, error) {
	var doc taxonomyDocument
	if err := common.DecodeJSONStrict(r, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}

	// 依固定分類順序排列，檔案中的分類順序不影響掃描順序
	grouped := make(map[Category][]Entry, len(Categories))
	t := &Taxonomy{byKey: make(map[string]int)}
	seenCategory := make(map[Category]bool)

	for _, group := range doc {
		if !group.Category.Valid() {
			return nil, fmt.Errorf("unknown category %q", group.Category)
		}
		if seenCategory[group.Category] {
			return nil, fmt.Errorf("category %q declared twice", group.Category)
		}
		seenCategory[group.Category] = true

		for _, item := range group.Ingredients {
			key := strings.TrimSpace(item.Key)
			if key == "" {
				return nil, fmt.Errorf("empty ingredient key in category %q", group.Category)
			}
			if len(item.Aliases) == 0 {
				return nil, fmt.Errorf("ingredient %q has no aliases", key)
			}
			for _, alias := range item.Aliases {
				if strings.TrimSpace(alias) == "" {
					return nil, fmt.Errorf("ingredient %q has an empty alias", key)
				}
				if alias != strings.ToLower(alias) {
					return nil, fmt.Errorf("ingredient %q alias %q must be lowercase", key, alias)
				}
			}
			if _, dup := t.byKey[key]; dup {
				return nil, fmt.Errorf("duplicate ingredient key %q", key)
			}
			t.byKey[key] = -1
			grouped[group.Category] = append(grouped[group.Category], Entry{
				Key:      key,
				Category: group.Category,
				Aliases:  append([]string(nil), item.Aliases...),
			})
		}
	}

	for _, c := range Categories {
		for _, e := range grouped[c] {
			t.byKey[e.Key] = len(t.entries)
			t.entries = append(t.entries, e)
		}
	}

	if len(t.entries) == 0 {
		return nil, fmt.Errorf("taxonomy has no ingredients")
	}

	return t, nil
}

// Entries 依掃描順序回傳所有食材
func (t *Taxonomy) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Lookup 依標準鍵查詢
func (t *Taxonomy) Lookup(key string) (Entry, bool) {
	idx, ok := t.byKey[key]
	if !ok {
		return Entry{}, false
	}
	return t.entries[idx], true
}

// Len 食材數量
func (t *Taxonomy) Len() int {
	return len(t.entries)
}
