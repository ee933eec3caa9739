// Package database хранение загруженных документов и состояния фильтров
// в локальной sqlite-базе. Документы лежат как JSON-блобы: ядро работает
// с ними в памяти, база дает только переживание перезапуска, без гарантий
// долговечности. Последняя запись побеждает, блокировок нет.
package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dealerboard/analytics"
)

// DatasetKind вид хранимого документа
type DatasetKind string

const (
	DatasetSales     DatasetKind = "sales"
	DatasetInventory DatasetKind = "inventory"
)

// ErrNotFound документ или состояние еще не сохранялись
var ErrNotFound = errors.New("запись не найдена")

// Config настройки подключения
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig параметры пула по умолчанию
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Store обертка над sqlite для документов и настроек дашборда
type Store struct {
	conn        *sql.DB
	migrateOnce sync.Mutex // защита DDL от конкурентного открытия
}

// Open открывает базу и накатывает схему
func Open(path string, cfg Config) (*Store, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// Close закрывает подключение
func (s *Store) Close() error {
	return s.conn.Close()
}

// GetDB отдает низкоуровневое подключение (для тестов и отчетов)
func (s *Store) GetDB() *sql.DB {
	return s.conn
}

func (s *Store) migrate() error {
	s.migrateOnce.Lock()
	defer s.migrateOnce.Unlock()

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			kind TEXT PRIMARY KEY,
			payload TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS filter_state (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			payload TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sync_cursors (
			provider TEXT PRIMARY KEY,
			cursor INTEGER NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range ddl {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}
	return nil
}

// SaveDocument сохраняет документ указанного вида, затирая предыдущий
func (s *Store) SaveDocument(kind DatasetKind, doc *analytics.RawDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	_, err = s.conn.Exec(`
		INSERT INTO datasets (kind, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(kind), string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// LoadDocument читает последний сохраненный документ указанного вида
func (s *Store) LoadDocument(kind DatasetKind) (*analytics.RawDocument, error) {
	var payload string
	err := s.conn.QueryRow(`SELECT payload FROM datasets WHERE kind = ?`, string(kind)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	var doc analytics.RawDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return &doc, nil
}

// DocumentUpdatedAt время последнего сохранения документа
func (s *Store) DocumentUpdatedAt(kind DatasetKind) (time.Time, error) {
	var ts time.Time
	err := s.conn.QueryRow(`SELECT updated_at FROM datasets WHERE kind = ?`, string(kind)).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read updated_at: %w", err)
	}
	return ts, nil
}

// SaveFilterState сохраняет последние критерии фильтрации
func (s *Store) SaveFilterState(c analytics.Criteria) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal filter state: %w", err)
	}
	_, err = s.conn.Exec(`
		INSERT INTO filter_state (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save filter state: %w", err)
	}
	return nil
}

// LoadFilterState читает сохраненные критерии; если их нет,
// возвращает критерии по умолчанию без ошибки
func (s *Store) LoadFilterState() (analytics.Criteria, error) {
	var payload string
	err := s.conn.QueryRow(`SELECT payload FROM filter_state WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return analytics.DefaultCriteria(), nil
	}
	if err != nil {
		return analytics.DefaultCriteria(), fmt.Errorf("failed to load filter state: %w", err)
	}

	c := analytics.DefaultCriteria()
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return analytics.DefaultCriteria(), fmt.Errorf("failed to unmarshal filter state: %w", err)
	}
	return c, nil
}

// SaveSyncCursor сохраняет курсор провайдера синхронизации.
// Курсором владеет вызывающая сторона, база только переживает рестарт.
func (s *Store) SaveSyncCursor(provider string, cursor int64) error {
	_, err := s.conn.Exec(`
		INSERT INTO sync_cursors (provider, cursor, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET cursor = excluded.cursor, updated_at = excluded.updated_at
	`, provider, cursor, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save sync cursor: %w", err)
	}
	return nil
}

// LoadSyncCursor читает курсор провайдера; отсутствие записи дает 0
func (s *Store) LoadSyncCursor(provider string) (int64, error) {
	var cursor int64
	err := s.conn.QueryRow(`SELECT cursor FROM sync_cursors WHERE provider = ?`, provider).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load sync cursor: %w", err)
	}
	return cursor, nil
}
