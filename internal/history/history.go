// Package history persists the commands entered at the shelly prompt.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Manager stores history entries in a sqlite database.
type Manager struct {
	db          *gorm.DB
	versionPath string
}

// Entry is one command run at the prompt.
type Entry struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Command   string
	Directory string
	ExitCode  sql.NullInt32
}

// TableName keeps the table name stable across renames of Entry.
func (Entry) TableName() string {
	return "history_entries"
}

const schemaVersion = 1

// NewManager opens (creating if needed) the history database at dbFilePath.
// The schema version marker lives next to it.
func NewManager(dbFilePath string) (*Manager, error) {
	dbFileExists := true
	if _, err := os.Stat(dbFilePath); errors.Is(err, os.ErrNotExist) {
		dbFileExists = false
	} else if err != nil {
		return nil, fmt.Errorf("error checking history db: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbFilePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening history db: %w", err)
	}

	m := &Manager{
		db:          db,
		versionPath: filepath.Join(filepath.Dir(dbFilePath), "history_schema_version"),
	}

	if m.needsMigration(dbFileExists) {
		if err := db.AutoMigrate(&Entry{}); err != nil {
			return nil, fmt.Errorf("error migrating history schema: %w", err)
		}
		if err := os.WriteFile(m.versionPath, []byte(strconv.Itoa(schemaVersion)), 0644); err != nil {
			return nil, fmt.Errorf("error writing history schema version: %w", err)
		}
	}

	return m, nil
}

func (m *Manager) needsMigration(dbFileExists bool) bool {
	if !dbFileExists {
		return true
	}
	if matches, err := m.schemaVersionMatches(); err != nil || !matches {
		return true
	}
	// The marker can outlive the table (manual deletion, corruption).
	return !m.db.Migrator().HasTable(&Entry{})
}

func (m *Manager) schemaVersionMatches() (bool, error) {
	data, err := os.ReadFile(m.versionPath)
	if err != nil {
		return false, err
	}
	version, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, err
	}
	return version == schemaVersion, nil
}

// StartCommand records command as started in directory. The exit code is
// filled in by FinishCommand.
func (m *Manager) StartCommand(command string, directory string) (*Entry, error) {
	entry := Entry{
		Command:   command,
		Directory: directory,
	}
	if err := m.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// FinishCommand stores the exit code of entry.
func (m *Manager) FinishCommand(entry *Entry, exitCode int) (*Entry, error) {
	entry.ExitCode = sql.NullInt32{Int32: int32(exitCode), Valid: true}
	if err := m.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// GetRecentEntries returns up to limit of the latest entries, oldest first.
// A non-empty directory restricts the result to commands run there.
func (m *Manager) GetRecentEntries(directory string, limit int) ([]Entry, error) {
	var entries []Entry
	db := m.db
	if directory != "" {
		db = db.Where("directory = ?", directory)
	}
	if err := db.Order("created_at desc").Order("id desc").Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}

	slices.Reverse(entries)
	return entries, nil
}

// Values returns the commands of the latest limit entries, most recent
// first, the order the editor walks them with Up.
func (m *Manager) Values(limit int) ([]string, error) {
	entries, err := m.GetRecentEntries("", limit)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(entries))
	for i, e := range entries {
		values[len(entries)-1-i] = e.Command
	}
	return values, nil
}

// Count returns the number of stored entries.
func (m *Manager) Count() (int64, error) {
	var n int64
	if err := m.db.Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// LastEntry returns the most recent entry, or nil when the history is empty.
func (m *Manager) LastEntry() (*Entry, error) {
	var entry Entry
	err := m.db.Order("created_at desc").Order("id desc").Limit(1).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteEntry removes the entry with the given id.
func (m *Manager) DeleteEntry(id uint) error {
	result := m.db.Delete(&Entry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no history entry found with id %d", id)
	}
	return nil
}

// ResetHistory removes every entry.
func (m *Manager) ResetHistory() error {
	return m.db.Exec("DELETE FROM history_entries").Error
}

// Close releases the database connection.
func (m *Manager) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
