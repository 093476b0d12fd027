package town

import (
	"github.com/wfunc/townserver/models"
)

// Broadcaster defines the interface for broadcasting messages to a town.
// This is defined here to break the import cycle between town and broadcast.
type Broadcaster interface {
	BroadcastToTown(townID string, msgID uint16, data []byte) error
}

// TokenProvider 按 (城镇, 玩家) 签发视频房间令牌的外部提供方
type TokenProvider interface {
	TokenForTown(townID, playerID string) (string, error)
}

// RoundRecorder 接收已结束一局的比分（归档用）
type RoundRecorder interface {
	RecordRound(townID, areaID, gameType string, result models.GameResult)
}
