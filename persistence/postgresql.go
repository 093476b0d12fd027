// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq"

	"github.com/wfunc/townserver/models"
)

// PostgreSQL 数据库实现（database/sql + lib/pq）
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS towns (
            id SERIAL PRIMARY KEY,
            town_id VARCHAR(255) UNIQUE NOT NULL,
            friendly_name VARCHAR(255) NOT NULL,
            is_publicly_listed BOOLEAN NOT NULL DEFAULT FALSE,
            capacity INT NOT NULL DEFAULT 50,
            update_password VARCHAR(255) NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS game_records (
            id SERIAL PRIMARY KEY,
            town_id VARCHAR(255) NOT NULL,
            area_id VARCHAR(255) NOT NULL,
            game_id VARCHAR(255) UNIQUE NOT NULL,
            game_type VARCHAR(100) NOT NULL,
            scores JSONB NOT NULL,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_towns_town_id ON towns(town_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_town_id ON game_records(town_id);
        CREATE INDEX IF NOT EXISTS idx_game_records_created_at ON game_records(created_at);
    `)

	return err
}

// SaveTownRecord 保存城镇目录记录
func (p *PostgreSQL) SaveTownRecord(townID, friendlyName, updatePassword string, isPublic bool, capacity int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO towns (town_id, friendly_name, is_publicly_listed, capacity, update_password)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err := p.db.ExecContext(ctx, query, townID, friendlyName, isPublic, capacity, updatePassword)
	return err
}

// UpdateTownRecord 更新城镇显示名与公开标记
func (p *PostgreSQL) UpdateTownRecord(townID, friendlyName string, isPublic bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        UPDATE towns
        SET friendly_name = $2, is_publicly_listed = $3, updated_at = CURRENT_TIMESTAMP
        WHERE town_id = $1
    `
	result, err := p.db.ExecContext(ctx, query, townID, friendlyName, isPublic)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteTownRecord 删除城镇目录记录
func (p *PostgreSQL) DeleteTownRecord(townID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := p.db.ExecContext(ctx, `DELETE FROM towns WHERE town_id = $1`, townID)
	return err
}

// GetTownPassword 读取城镇更新口令
func (p *PostgreSQL) GetTownPassword(townID string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var password string
	err := p.db.QueryRowContext(ctx,
		`SELECT update_password FROM towns WHERE town_id = $1`, townID).Scan(&password)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return password, nil
}

// ListTownRecords 列出公开城镇记录
func (p *PostgreSQL) ListTownRecords() ([]models.TownRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT town_id, friendly_name, is_publicly_listed, capacity, created_at
        FROM towns WHERE is_publicly_listed = TRUE
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.TownRecord
	for rows.Next() {
		var record models.TownRecord
		if err := rows.Scan(&record.TownID, &record.FriendlyName,
			&record.IsPubliclyListed, &record.Capacity, &record.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// SaveGameRecord 保存游戏记录
func (p *PostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	scores, err := json.Marshal(record.Scores)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO game_records (town_id, area_id, game_id, game_type, scores)
        VALUES ($1, $2, $3, $4, $5)
    `
	_, err = p.db.ExecContext(ctx, query,
		record.TownID, record.AreaID, record.GameID, record.GameType, scores)
	return err
}

// ListGameRecords 按城镇列出游戏记录
func (p *PostgreSQL) ListGameRecords(townID string) ([]models.GameRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := p.db.QueryContext(ctx, `
        SELECT town_id, area_id, game_id, game_type, scores, created_at
        FROM game_records WHERE town_id = $1 ORDER BY created_at DESC
    `, townID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.GameRecord
	for rows.Next() {
		var record models.GameRecord
		var scores []byte
		if err := rows.Scan(&record.TownID, &record.AreaID, &record.GameID,
			&record.GameType, &scores, &record.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(scores, &record.Scores); err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, rows.Err()
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
