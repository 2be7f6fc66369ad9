package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	key TEXT PRIMARY KEY,
	texts TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
`

// SQLite 持久化到本地 SQLite 文件的缓存
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ Cache = (*SQLite)(nil)

// OpenSQLite 打开或创建缓存文件，path 为 ":memory:" 时只在内存中保存
func OpenSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("创建缓存目录失败: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开缓存 %s 失败: %w", path, err)
	}
	// 单连接，":memory:" 下所有语句共享同一个库
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化缓存 %s 失败: %w", path, err)
	}

	logger.Debug("缓存已打开", zap.String("path", path))
	return &SQLite{db: db, logger: logger}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) ([]string, bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT texts FROM batches WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取缓存失败: %w", err)
	}

	var texts []string
	if err := json.Unmarshal([]byte(raw), &texts); err != nil {
		// 损坏的条目当作未命中，之后会被覆盖
		s.logger.Warn("缓存条目无法解析", zap.String("key", key), zap.Error(err))
		return nil, false, nil
	}
	return texts, true, nil
}

func (s *SQLite) Put(ctx context.Context, key string, texts []string) error {
	raw, err := json.Marshal(texts)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO batches (key, texts, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET texts = excluded.texts, created_at = excluded.created_at`,
		key, string(raw), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("写入缓存失败: %w", err)
	}
	return nil
}

// Len 缓存的批次数
func (s *SQLite) Len(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM batches`).Scan(&n)
	return n, err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
