package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"nutritrack/internal/core/nutrition"
	"nutritrack/internal/pkg/common"
)

const (
	defaultInsightDays = 7
	maxInsightDays     = 366
	// adherenceTolerance 與目標相差 10% 以內視為達標
	adherenceTolerance = 0.10
	// splitTolerance 實際比例與目標相差超過 5 個百分點才提示
	splitTolerance = 5.0
)

// DayTotal 單日加總
type DayTotal struct {
	Date   string              `json:"date"`
	Totals nutrition.Nutrition `json:"totals"`
}

// MacroSplit 三大營養素熱量比例（百分比）
type MacroSplit struct {
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbs   float64 `json:"carbs"`
}

// Insights 區間統計
type Insights struct {
	From          string              `json:"from"`
	To            string              `json:"to"`
	DaysInRange   int                 `json:"days_in_range"`
	DaysLogged    int                 `json:"days_logged"`
	Averages      nutrition.Nutrition `json:"averages"`
	AdherentDays  int                 `json:"adherent_days"`
	AdherenceRate float64             `json:"adherence_rate"`
	ActualSplit   MacroSplit          `json:"actual_split"`
	GoalSplit     MacroSplit          `json:"goal_split"`
	WeightChange  *float64            `json:"weight_change"`
	Daily         []DayTotal          `json:"daily"`
	Messages      []string            `json:"messages"`
	CalorieTarget float64             `json:"calorie_target"`
}

// Insights 計算 [from, to] 區間的平均、達標率與建議。未指定時為最近 7 天。
func (s *Service) Insights(ctx context.Context, from, to string) (*Insights, error) {
	start, end, err := s.insightRange(from, to)
	if err != nil {
		return nil, err
	}
	fromStr, toStr := start.Format(common.DateLayout), end.Format(common.DateLayout)

	entries, err := s.store.ListEntries(ctx, fromStr, toStr)
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

	out := &Insights{
		From:          fromStr,
		To:            toStr,
		DaysInRange:   int(end.Sub(start).Hours()/24) + 1,
		GoalSplit:     MacroSplit{Protein: goals.ProteinPercent, Fat: goals.FatPercent, Carbs: goals.CarbPercent},
		CalorieTarget: goals.CalorieTarget,
		Daily:         []DayTotal{},
		Messages:      []string{},
	}

	// 依日期分組，ListEntries 已按日期排序
	byDate := make(map[string][]nutrition.Item)
	var dates []string
	var all []nutrition.Item
	for _, e := range entries {
		if _, ok := byDate[e.Date]; !ok {
			dates = append(dates, e.Date)
		}
		byDate[e.Date] = append(byDate[e.Date], e.Item())
		all = append(all, e.Item())
	}

	out.DaysLogged = len(dates)
	for _, d := range dates {
		total := nutrition.Sum(byDate[d])
		out.Daily = append(out.Daily, DayTotal{Date: d, Totals: total})
		if goals.CalorieTarget > 0 && math.Abs(total.Calories-goals.CalorieTarget) <= goals.CalorieTarget*adherenceTolerance {
			out.AdherentDays++
		}
	}

	if out.DaysLogged > 0 {
		sum := nutrition.Sum(all)
		out.Averages = sum.Scale(1 / float64(out.DaysLogged))
		out.AdherenceRate = float64(out.AdherentDays) / float64(out.DaysLogged) * 100
		p, f, c := nutrition.Split(sum)
		out.ActualSplit = MacroSplit{Protein: p, Fat: f, Carbs: c}
	}

	out.WeightChange = weightChange(weights, fromStr, toStr)
	out.Messages = buildInsightMessages(out)

	return out, nil
}

func (s *Service) insightRange(from, to string) (time.Time, time.Time, error) {
	var end time.Time
	if to == "" {
		end = s.now()
	} else {
		t, err := time.Parse(common.DateLayout, to)
		if err != nil {
			return time.Time{}, time.Time{}, common.NewFieldValidationError("to", "to must be in YYYY-MM-DD format")
		}
		end = t
	}
	end, _ = time.Parse(common.DateLayout, end.Format(common.DateLayout))

	start := end.AddDate(0, 0, -(defaultInsightDays - 1))
	if from != "" {
		t, err := time.Parse(common.DateLayout, from)
		if err != nil {
			return time.Time{}, time.Time{}, common.NewFieldValidationError("from", "from must be in YYYY-MM-DD format")
		}
		start = t
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, common.NewFieldValidationError("from", "from must not be after to")
	}
	if end.Sub(start).Hours()/24 >= maxInsightDays {
		return time.Time{}, time.Time{}, common.NewFieldValidationError("from", fmt.Sprintf("range must not exceed %d days", maxInsightDays))
	}
	return start, end, nil
}

// weightChange 區間內最早與最晚紀錄的差，不足兩筆時為 nil
func weightChange(weights []WeightEntry, from, to string) *float64 {
	var inRange []WeightEntry
	for _, w := range weights {
		if w.Date >= from && w.Date <= to {
			inRange = append(inRange, w)
		}
	}
	if len(inRange) < 2 {
		return nil
	}
	sort.SliceStable(inRange, func(i, j int) bool { return inRange[i].Date < inRange[j].Date })
	change := round1(inRange[len(inRange)-1].Weight - inRange[0].Weight)
	return &change
}

func buildInsightMessages(in *Insights) []string {
	if in.DaysLogged == 0 {
		return []string{"No meals logged in this period. Start logging to see insights."}
	}

	var msgs []string

	target := in.CalorieTarget
	avg := in.Averages.Calories
	switch {
	case avg > target*(1+adherenceTolerance):
		msgs = append(msgs, fmt.Sprintf("Your average intake of %.0f kcal is above your %.0f kcal target.", avg, target))
	case avg < target*(1-adherenceTolerance):
		msgs = append(msgs, fmt.Sprintf("Your average intake of %.0f kcal is below your %.0f kcal target.", avg, target))
	default:
		msgs = append(msgs, fmt.Sprintf("Your average intake of %.0f kcal is on track with your %.0f kcal target.", avg, target))
	}

	msgs = append(msgs, fmt.Sprintf("You hit your calorie target on %d of %d logged days.", in.AdherentDays, in.DaysLogged))

	macros := []struct {
		name   string
		actual float64
		goal   float64
	}{
		{"Protein", in.ActualSplit.Protein, in.GoalSplit.Protein},
		{"Fat", in.ActualSplit.Fat, in.GoalSplit.Fat},
		{"Carbs", in.ActualSplit.Carbs, in.GoalSplit.Carbs},
	}
	for _, m := range macros {
		diff := m.actual - m.goal
		if math.Abs(diff) <= splitTolerance {
			continue
		}
		dir := "below"
		if diff > 0 {
			dir = "above"
		}
		msgs = append(msgs, fmt.Sprintf("%s makes up %.0f%% of your calories, %s your %.0f%% goal.", m.name, m.actual, dir, m.goal))
	}

	if in.WeightChange != nil {
		switch change := *in.WeightChange; {
		case change < 0:
			msgs = append(msgs, fmt.Sprintf("You lost %.1f lbs over this period.", -change))
		case change > 0:
			msgs = append(msgs, fmt.Sprintf("You gained %.1f lbs over this period.", change))
		default:
			msgs = append(msgs, "Your weight held steady over this period.")
		}
	}

	return msgs
}
