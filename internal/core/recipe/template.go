package recipe

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"nutritrack/internal/core/ingredient"
	"nutritrack/internal/pkg/common"
)

// TemplateID 模板識別碼
type TemplateID string

const (
	TemplateStirFry  TemplateID = "stir_fry"
	TemplateSalad    TemplateID = "salad"
	TemplatePasta    TemplateID = "pasta"
	TemplateScramble TemplateID = "scramble"
	TemplateSoup     TemplateID = "soup"
	TemplateBowl     TemplateID = "bowl"
)

// genericDescriptionFormat 未設定描述格式時使用
const genericDescriptionFormat = "A delicious dish made with %s"

//go:embed templates.json
var defaultTemplatesJSON []byte

// Template 食譜模板
type Template struct {
	ID                TemplateID            `json:"id"`
	Name              string                `json:"name"`
	NameSuffix        string                `json:"name_suffix"`
	DescriptionFormat string                `json:"description_format"`
	MealType          common.MealType       `json:"meal_type"`
	Required          []ingredient.Category `json:"required"`
	Optional          []ingredient.Category `json:"optional"`
	Instructions      []string              `json:"instructions"`
	CookingTime       string                `json:"cooking_time"`
	Cuisine           string                `json:"cuisine"`
}

// Accepts 分類是否屬於必要或可選分類
func (t Template) Accepts(c ingredient.Category) bool {
	return containsCategory(t.Required, c) || containsCategory(t.Optional, c)
}

// Describe 以食材清單產生描述
func (t Template) Describe(ingredients string) string {
	format := t.DescriptionFormat
	if format == "" {
		format = genericDescriptionFormat
	}
	return fmt.Sprintf(format, ingredients)
}

// Catalog 唯讀模板目錄，依宣告順序保存
type Catalog struct {
	templates []Template
}

// DefaultCatalog 載入內建模板
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(defaultTemplatesJSON))
}

// LoadCatalogFile 從檔案載入模板，路徑為空時使用內建資料
func LoadCatalogFile(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open templates file: %w", err)
	}
	defer f.Close()
	return LoadCatalog(f)
}

// LoadCatalog 解析並驗證模板
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var templates []Template
	if err := common.DecodeJSONStrict(r, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}

	seen := make(map[TemplateID]bool, len(templates))
	for i, t := range templates {
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("template %d (%s): %w", i, t.ID, err)
		}
		if seen[t.ID] {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		seen[t.ID] = true
	}

	return &Catalog{templates: templates}, nil
}

func validateTemplate(t Template) error {
	if strings.TrimSpace(string(t.ID)) == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.NameSuffix) == "" {
		return fmt.Errorf("name and name_suffix are required")
	}
	if t.DescriptionFormat != "" && strings.Count(t.DescriptionFormat, "%s") != 1 {
		return fmt.Errorf("description_format must contain exactly one %%s")
	}
	if !t.MealType.Valid() {
		return fmt.Errorf("invalid meal_type %q", t.MealType)
	}
	if len(t.Required) == 0 {
		return fmt.Errorf("at least one required category")
	}
	for _, c := range t.Required {
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", c)
		}
	}
	for _, c := range t.Optional {
		if !c.Valid() {
			return fmt.Errorf("unknown category %q", c)
		}
		if containsCategory(t.Required, c) {
			return fmt.Errorf("category %q is both required and optional", c)
		}
	}
	if len(t.Instructions) == 0 {
		return fmt.Errorf("at least one instruction")
	}
	return nil
}

// Templates 依宣告順序回傳模板
func (c *Catalog) Templates() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

// Get 依識別碼查詢模板
func (c *Catalog) Get(id TemplateID) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

func containsCategory(list []ingredient.Category, c ingredient.Category) bool {
	for _, item := range list {
		if item == c {
			return true
		}
	}
	return false
}
