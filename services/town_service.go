// services/town_service.go
package services

import (
	"fmt"
	"time"

	"github.com/wfunc/townserver/logger"
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/persistence"
	"github.com/wfunc/townserver/town"
)

var ErrInvalidPassword = fmt.Errorf("invalid town update password")

// TownService 城镇生命周期服务：活动城镇在 Manager 里，目录与历史
// 落在数据库里。
type TownService struct {
	db      persistence.Database
	manager *town.Manager
}

func NewTownService(db persistence.Database, manager *town.Manager) *TownService {
	return &TownService{db: db, manager: manager}
}

// CreateTown 创建城镇并写入目录记录
func (s *TownService) CreateTown(friendlyName string, isPublic bool, mapObjects []models.MapObject) (*town.Town, error) {
	t, err := s.manager.CreateTown(friendlyName, isPublic, mapObjects)
	if err != nil {
		return nil, err
	}

	if err := s.db.SaveTownRecord(t.ID, t.FriendlyName, t.UpdatePassword, t.IsPubliclyListed, t.Capacity); err != nil {
		// 目录写入失败不致命，城镇仍可加入
		logger.Log.Errorf("Failed to persist town record %s: %v", t.ID, err)
	}
	return t, nil
}

// ListPublicTowns 公开城镇列表，合并实时在线人数
func (s *TownService) ListPublicTowns() []models.TownListing {
	var listings []models.TownListing
	for _, t := range s.manager.Towns() {
		if !t.IsPubliclyListed {
			continue
		}
		listings = append(listings, models.TownListing{
			TownID:           t.ID,
			FriendlyName:     t.FriendlyName,
			CurrentOccupancy: t.PlayerCount(),
			MaximumOccupancy: t.Capacity,
		})
	}
	return listings
}

// UpdateTown 口令校验通过后更新城镇设置
func (s *TownService) UpdateTown(townID, password, friendlyName string, isPublic bool) error {
	t, exists := s.manager.GetTown(townID)
	if !exists {
		return town.ErrTownNotFound
	}
	if t.UpdatePassword != password {
		return ErrInvalidPassword
	}

	t.FriendlyName = friendlyName
	t.IsPubliclyListed = isPublic
	return s.db.UpdateTownRecord(townID, friendlyName, isPublic)
}

// DeleteTown 口令校验通过后关闭并删除城镇
func (s *TownService) DeleteTown(townID, password string) error {
	t, exists := s.manager.GetTown(townID)
	if !exists {
		return town.ErrTownNotFound
	}
	if t.UpdatePassword != password {
		return ErrInvalidPassword
	}

	s.manager.RemoveTown(townID)
	return s.db.DeleteTownRecord(townID)
}

// RecordRound 归档一局结束的比分，实现 town.RoundRecorder
func (s *TownService) RecordRound(townID, areaID, gameType string, result models.GameResult) {
	record := &models.GameRecord{
		TownID:    townID,
		AreaID:    areaID,
		GameID:    result.GameID,
		GameType:  gameType,
		Scores:    result.Scores,
		CreatedAt: time.Now(),
	}
	if err := s.db.SaveGameRecord(record); err != nil {
		logger.Log.Errorf("Failed to persist game record %s: %v", result.GameID, err)
	}
}

// GameHistory 某城镇的归档游戏记录
func (s *TownService) GameHistory(townID string) ([]models.GameRecord, error) {
	return s.db.ListGameRecords(townID)
}
