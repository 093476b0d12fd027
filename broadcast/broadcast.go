// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/townserver/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToTown(townID string, msgID uint16, data []byte) error
	SendToPlayer(playerID string, msgID uint16, data []byte) error
}

// 基于会话管理器的城镇广播器
type TownBroadcaster struct {
	sessionManager *session.Manager
}

func NewTownBroadcaster(sessionManager *session.Manager) *TownBroadcaster {
	return &TownBroadcaster{
		sessionManager: sessionManager,
	}
}

// BroadcastToTown 把消息发给某城镇的全部会话
func (b *TownBroadcaster) BroadcastToTown(townID string, msgID uint16, data []byte) error {
	sessions := b.sessionManager.GetByTown(townID)

	for _, s := range sessions {
		if err := s.Send(msgID, data); err != nil {
			// 单个连接发送失败不影响其他会话，由读循环负责清理
			continue
		}
	}

	return nil
}

// SendToPlayer 发给单个玩家（指令应答）
func (b *TownBroadcaster) SendToPlayer(playerID string, msgID uint16, data []byte) error {
	s, exists := b.sessionManager.GetByPlayer(playerID)
	if !exists {
		return ErrSessionNotFound
	}
	return s.Send(msgID, data)
}
