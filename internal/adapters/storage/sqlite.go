package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen/kondate/internal/domain"
	"github.com/jsamuelsen/kondate/internal/domain/ingredient"
	"github.com/jsamuelsen/kondate/internal/domain/shopping"
)

const slowQueryThreshold = 200 * time.Millisecond

type listRecord struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (listRecord) TableName() string { return "shopping_lists" }

type entryRecord struct {
	ID            string   `gorm:"primaryKey"`
	ListID        string   `gorm:"index;not null"`
	Position      int      `gorm:"not null"`
	Name          string   `gorm:"not null"`
	Quantity      string
	Category      string
	Checked       bool
	SourceRecipes []string `gorm:"serializer:json"`
}

func (entryRecord) TableName() string { return "shopping_entries" }

// SQLiteStore persists lists in a SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the schema. Query logs at warn level and above go to logger.
func OpenSQLite(path string, logger *slog.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.With(slog.String("component", "storage.sqlite")).Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&listRecord{}, &entryRecord{}); err != nil {
		return nil, fmt.Errorf("migrating sqlite database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get implements ports.ShoppingListRepository.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*shopping.List, error) {
	db := s.db.WithContext(ctx)

	var list listRecord
	if err := db.First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError(domain.EntityShoppingList, id)
		}
		return nil, fmt.Errorf("loading shopping list %s: %w", id, err)
	}

	var records []entryRecord
	if err := db.Where("list_id = ?", id).Order("position").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("loading entries of %s: %w", id, err)
	}

	entries := make([]*shopping.Entry, len(records))
	for i, r := range records {
		entries[i] = &shopping.Entry{
			ID:            r.ID,
			Name:          r.Name,
			Quantity:      r.Quantity,
			Category:      ingredient.Category(r.Category),
			Checked:       r.Checked,
			SourceRecipes: r.SourceRecipes,
		}
	}

	return shopping.Restore(id, entries), nil
}

// Save replaces the stored list and all of its entries in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, list *shopping.List) error {
	records := make([]entryRecord, len(list.Entries))
	for i, e := range list.Entries {
		records[i] = entryRecord{
			ID:            e.ID,
			ListID:        list.ID,
			Position:      i,
			Name:          e.Name,
			Quantity:      e.Quantity,
			Category:      string(e.Category),
			Checked:       e.Checked,
			SourceRecipes: e.SourceRecipes,
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"updated_at"}),
		}
		if err := tx.Clauses(upsert).Create(&listRecord{ID: list.ID}).Error; err != nil {
			return fmt.Errorf("saving shopping list %s: %w", list.ID, err)
		}

		if err := tx.Where("list_id = ?", list.ID).Delete(&entryRecord{}).Error; err != nil {
			return fmt.Errorf("clearing entries of %s: %w", list.ID, err)
		}

		if len(records) == 0 {
			return nil
		}

		if err := tx.Create(&records).Error; err != nil {
			return fmt.Errorf("saving entries of %s: %w", list.ID, err)
		}

		return nil
	})
}

// Delete implements ports.ShoppingListRepository.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("list_id = ?", id).Delete(&entryRecord{}).Error; err != nil {
			return fmt.Errorf("deleting entries of %s: %w", id, err)
		}

		if err := tx.Delete(&listRecord{ID: id}).Error; err != nil {
			return fmt.Errorf("deleting shopping list %s: %w", id, err)
		}

		return nil
	})
}

// Name implements ports.HealthChecker.
func (s *SQLiteStore) Name() string {
	return "storage"
}

// Check pings the database.
func (s *SQLiteStore) Check(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
