// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormTown 城镇目录模型
type GormTown struct {
	gorm.Model
	TownID           string `gorm:"uniqueIndex;not null"`
	FriendlyName     string `gorm:"not null"`
	IsPubliclyListed bool   `gorm:"default:false"`
	Capacity         int    `gorm:"default:50"`
	UpdatePassword   string `gorm:"not null"`
}

// GormGameRecord 游戏记录模型
type GormGameRecord struct {
	gorm.Model
	TownID   string         `gorm:"index;not null"`
	AreaID   string         `gorm:"not null"`
	GameID   string         `gorm:"uniqueIndex;not null"`
	GameType string         `gorm:"not null"`
	Scores   map[string]int `gorm:"type:jsonb;serializer:json"`
}
