// Package sqlite 以 SQLite 實作飲食、體重與目標的儲存
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nutritrack/internal/core/tracker"
	"nutritrack/internal/pkg/common"

	_ "modernc.org/sqlite"
)

// timeLayout 固定寬度，字串排序即時間排序
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store SQLite 儲存
type Store struct {
	db *sql.DB
}

var _ tracker.Store = (*Store)(nil)

// NewStore 開啟資料庫並建立資料表
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// 記憶體資料庫每個連線各自獨立，只保留一個連線
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close 關閉資料庫
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping 檢查連線
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS food_entries (
        id TEXT PRIMARY KEY,
        date TEXT NOT NULL,
        meal TEXT NOT NULL,
        name TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        fat REAL NOT NULL,
        carbs REAL NOT NULL,
        quantity REAL NOT NULL,
        source TEXT NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS weight_entries (
        seq INTEGER PRIMARY KEY AUTOINCREMENT,
        id TEXT NOT NULL UNIQUE,
        date TEXT NOT NULL,
        weight REAL NOT NULL,
        week INTEGER NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS goals (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        calorie_target REAL NOT NULL,
        protein_percent REAL NOT NULL,
        fat_percent REAL NOT NULL,
        carb_percent REAL NOT NULL,
        weight_goal REAL NOT NULL
    );

    CREATE INDEX IF NOT EXISTS idx_food_entries_date ON food_entries(date);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

func storageError(action string, err error) error {
	return common.ErrStorageFailure.Wrap(fmt.Errorf("failed to %s: %w", action, err))
}

// AddEntry 新增飲食紀錄
func (s *Store) AddEntry(ctx context.Context, e *tracker.FoodEntry) error {
	query := `
        INSERT INTO food_entries (id, date, meal, name, calories, protein, fat, carbs, quantity, source, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Date, string(e.Meal), e.Name, e.Calories, e.Protein, e.Fat, e.Carbs,
		e.Quantity, e.Source, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return storageError("insert food entry", err)
	}
	return nil
}

// UpdateEntry 修改飲食紀錄
func (s *Store) UpdateEntry(ctx context.Context, e *tracker.FoodEntry) error {
	query := `
        UPDATE food_entries
        SET meal = ?, name = ?, calories = ?, protein = ?, fat = ?, carbs = ?, quantity = ?, source = ?
        WHERE id = ?
    `
	res, err := s.db.ExecContext(ctx, query,
		string(e.Meal), e.Name, e.Calories, e.Protein, e.Fat, e.Carbs, e.Quantity, e.Source, e.ID)
	if err != nil {
		return storageError("update food entry", err)
	}
	return requireAffected(res)
}

// DeleteEntry 刪除飲食紀錄
func (s *Store) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM food_entries WHERE id = ?`, id)
	if err != nil {
		return storageError("delete food entry", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storageError("read affected rows", err)
	}
	if n == 0 {
		return common.ErrEntryNotFound
	}
	return nil
}

const entryColumns = `id, date, meal, name, calories, protein, fat, carbs, quantity, source, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*tracker.FoodEntry, error) {
	e := &tracker.FoodEntry{}
	var meal, createdAtStr string
	err := row.Scan(&e.ID, &e.Date, &meal, &e.Name, &e.Calories, &e.Protein, &e.Fat, &e.Carbs,
		&e.Quantity, &e.Source, &createdAtStr)
	if err != nil {
		return nil, err
	}
	e.Meal = tracker.MealSlot(meal)
	if e.CreatedAt, err = time.Parse(timeLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return e, nil
}

// GetEntry 查詢單筆紀錄
func (s *Store) GetEntry(ctx context.Context, id string) (*tracker.FoodEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM food_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrEntryNotFound
		}
		return nil, storageError("query food entry", err)
	}
	return e, nil
}

// ListEntries 區間內的紀錄，依日期與新增順序排列
func (s *Store) ListEntries(ctx context.Context, from, to string) ([]tracker.FoodEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM food_entries
        WHERE date >= ? AND date <= ?
        ORDER BY date, created_at, rowid`

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, storageError("query food entries", err)
	}
	defer rows.Close()

	entries := []tracker.FoodEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, storageError("scan food entry", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate food entries", err)
	}
	return entries, nil
}

// AddWeight 新增體重紀錄
func (s *Store) AddWeight(ctx context.Context, w *tracker.WeightEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weight_entries (id, date, weight, week, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Date, w.Weight, w.Week, w.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return storageError("insert weight entry", err)
	}
	return nil
}

// CountWeights 體重紀錄筆數
func (s *Store) CountWeights(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM weight_entries`).Scan(&n); err != nil {
		return 0, storageError("count weight entries", err)
	}
	return n, nil
}

// ListWeights 依新增順序回傳體重紀錄
func (s *Store) ListWeights(ctx context.Context) ([]tracker.WeightEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, weight, week, created_at FROM weight_entries ORDER BY seq`)
	if err != nil {
		return nil, storageError("query weight entries", err)
	}
	defer rows.Close()

	weights := []tracker.WeightEntry{}
	for rows.Next() {
		var w tracker.WeightEntry
		var createdAtStr string
		if err := rows.Scan(&w.ID, &w.Date, &w.Weight, &w.Week, &createdAtStr); err != nil {
			return nil, storageError("scan weight entry", err)
		}
		if w.CreatedAt, err = time.Parse(timeLayout, createdAtStr); err != nil {
			return nil, storageError("parse weight created_at", err)
		}
		weights = append(weights, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("iterate weight entries", err)
	}
	return weights, nil
}

// GetGoals 讀取目標
func (s *Store) GetGoals(ctx context.Context) (tracker.Goals, bool, error) {
	var g tracker.Goals
	err := s.db.QueryRowContext(ctx,
		`SELECT calorie_target, protein_percent, fat_percent, carb_percent, weight_goal FROM goals WHERE id = 1`).
		Scan(&g.CalorieTarget, &g.ProteinPercent, &g.FatPercent, &g.CarbPercent, &g.WeightGoal)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tracker.Goals{}, false, nil
		}
		return tracker.Goals{}, false, storageError("query goals", err)
	}
	return g, true, nil
}

// SaveGoals 儲存目標
func (s *Store) SaveGoals(ctx context.Context, g tracker.Goals) error {
	query := `
        INSERT INTO goals (id, calorie_target, protein_percent, fat_percent, carb_percent, weight_goal)
        VALUES (1, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            calorie_target = excluded.calorie_target,
            protein_percent = excluded.protein_percent,
            fat_percent = excluded.fat_percent,
            carb_percent = excluded.carb_percent,
            weight_goal = excluded.weight_goal
    `
	if _, err := s.db.ExecContext(ctx, query, g.CalorieTarget, g.ProteinPercent, g.FatPercent, g.CarbPercent, g.WeightGoal); err != nil {
		return storageError("save goals", err)
	}
	return nil
}

// Clear 刪除所有紀錄與目標
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageError("start transaction", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"food_entries", "weight_entries", "goals"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return storageError("clear "+table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageError("commit clear", err)
	}
	return nil
}
