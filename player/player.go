// player/player.go
package player

import (
	"github.com/google/uuid"

	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/session"
)

// Player 一名已连接的参与者。由所属 Town 独占持有：连接时创建，断开时销毁。
type Player struct {
	ID         string
	UserName   string
	Location   models.PlayerLocation
	VideoToken string

	sess *session.Session
}

func New(userName string, sess *session.Session) *Player {
	return &Player{
		ID:       uuid.New().String(),
		UserName: userName,
		Location: models.PlayerLocation{
			X:        0,
			Y:        0,
			Rotation: "back",
			Moving:   false,
		},
		sess: sess,
	}
}

// Session 玩家的出站通道
func (p *Player) Session() *session.Session {
	return p.sess
}

// Model 对外快照
func (p *Player) Model() models.PlayerModel {
	return models.PlayerModel{
		ID:       p.ID,
		UserName: p.UserName,
		Location: p.Location,
	}
}
