// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/townserver/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := db.AutoMigrate(&models.GormTown{}, &models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveTownRecord 保存城镇目录记录
func (p *GormPostgreSQL) SaveTownRecord(townID, friendlyName, updatePassword string, isPublic bool, capacity int) error {
	record := models.GormTown{
		TownID:           townID,
		FriendlyName:     friendlyName,
		IsPubliclyListed: isPublic,
		Capacity:         capacity,
		UpdatePassword:   updatePassword,
	}
	return p.db.Create(&record).Error
}

// UpdateTownRecord 更新城镇显示名与公开标记
func (p *GormPostgreSQL) UpdateTownRecord(townID, friendlyName string, isPublic bool) error {
	result := p.db.Model(&models.GormTown{}).
		Where("town_id = ?", townID).
		Updates(map[string]interface{}{
			"friendly_name":      friendlyName,
			"is_publicly_listed": isPublic,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// DeleteTownRecord 删除城镇目录记录
func (p *GormPostgreSQL) DeleteTownRecord(townID string) error {
	return p.db.Where("town_id = ?", townID).Delete(&models.GormTown{}).Error
}

// GetTownPassword 读取城镇更新口令
func (p *GormPostgreSQL) GetTownPassword(townID string) (string, error) {
	var record models.GormTown
	if err := p.db.Where("town_id = ?", townID).First(&record).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return record.UpdatePassword, nil
}

// ListTownRecords 列出公开城镇记录
func (p *GormPostgreSQL) ListTownRecords() ([]models.TownRecord, error) {
	var rows []models.GormTown
	if err := p.db.Where("is_publicly_listed = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]models.TownRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.TownRecord{
			TownID:           row.TownID,
			FriendlyName:     row.FriendlyName,
			IsPubliclyListed: row.IsPubliclyListed,
			Capacity:         row.Capacity,
			CreatedAt:        row.CreatedAt,
		})
	}
	return result, nil
}

// SaveGameRecord 保存游戏记录
func (p *GormPostgreSQL) SaveGameRecord(record *models.GameRecord) error {
	row := models.GormGameRecord{
		TownID:   record.TownID,
		AreaID:   record.AreaID,
		GameID:   record.GameID,
		GameType: record.GameType,
		Scores:   record.Scores,
	}
	return p.db.Create(&row).Error
}

// ListGameRecords 按城镇列出游戏记录
func (p *GormPostgreSQL) ListGameRecords(townID string) ([]models.GameRecord, error) {
	var rows []models.GormGameRecord
	if err := p.db.Where("town_id = ?", townID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]models.GameRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.GameRecord{
			TownID:    row.TownID,
			AreaID:    row.AreaID,
			GameID:    row.GameID,
			GameType:  row.GameType,
			Scores:    row.Scores,
			CreatedAt: row.CreatedAt,
		})
	}
	return result, nil
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
