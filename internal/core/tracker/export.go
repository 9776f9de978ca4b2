package tracker

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	minDate = "0001-01-01"
	maxDate = "9999-12-31"
)

// ExportData 完整資料匯出
type ExportData struct {
	Goals         Goals                               `json:"goals"`
	DailyEntries  map[string]map[MealSlot][]FoodEntry `json:"daily_entries"`
	WeightEntries []WeightEntry                       `json:"weight_entries"`
	ExportDate    time.Time                           `json:"export_date"`
}

// csvHeader 匯出欄位
var csvHeader = []string{"date", "meal", "name", "quantity", "calories", "protein", "fat", "carbs"}

// Export 依日期與時段分組匯出全部資料
func (s *Service) Export(ctx context.Context) (*ExportData, error) {
	entries, err := s.store.ListEntries(ctx, minDate, maxDate)
	if err != nil {
		return nil, err
	}
	weights, err := s.store.ListWeights(ctx)
	if err != nil {
		return nil, err
	}
	goals, err := s.Goals(ctx)
	if err != nil {
		return nil, err
	}

	daily := make(map[string]map[MealSlot][]FoodEntry)
	for _, e := range entries {
		if daily[e.Date] == nil {
			daily[e.Date] = make(map[MealSlot][]FoodEntry)
		}
		daily[e.Date][e.Meal] = append(daily[e.Date][e.Meal], e)
	}
	if weights == nil {
		weights = []WeightEntry{}
	}

	return &ExportData{
		Goals:         goals,
		DailyEntries:  daily,
		WeightEntries: weights,
		ExportDate:    s.now().UTC(),
	}, nil
}

// ExportCSV 每筆飲食紀錄一列，營養值為份量乘上單份數值
func (s *Service) ExportCSV(ctx context.Context, w io.Writer) error {
	entries, err := s.store.ListEntries(ctx, minDate, maxDate)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range entries {
		total := e.Item().Total()
		row := []string{
			e.Date,
			string(e.Meal),
			e.Name,
			formatNumber(e.Item().EffectiveQuantity()),
			formatNumber(total.Calories),
			formatNumber(total.Protein),
			formatNumber(total.Fat),
			formatNumber(total.Carbs),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
