// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/townserver/models"
)

// Database 数据库接口
type Database interface {
	SaveTownRecord(townID, friendlyName, updatePassword string, isPublic bool, capacity int) error
	UpdateTownRecord(townID, friendlyName string, isPublic bool) error
	DeleteTownRecord(townID string) error
	GetTownPassword(townID string) (string, error)
	ListTownRecords() ([]models.TownRecord, error)
	SaveGameRecord(record *models.GameRecord) error
	ListGameRecords(townID string) ([]models.GameRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
