// game/game.go
package game

import (
	"errors"

	"github.com/google/uuid"

	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

// 规则违规错误：只回报给发起指令的连接，共享状态保持不变
var (
	ErrGameFull            = errors.New("game is full")
	ErrPlayerAlreadyInGame = errors.New("player is already in this game")
	ErrPlayerNotInGame     = errors.New("player is not in this game")
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrGameNotStartable    = errors.New("game is not startable")
	ErrMoveNotYourTurn     = errors.New("not your turn")
	ErrInvalidPosition     = errors.New("board position is not valid")
	ErrPositionOccupied    = errors.New("board position is not empty")
)

// Game 一局回合制游戏的状态机。一个实例只服务一局；状态到达 OVER 后，
// 持有它的 GameArea 必须换新实例才能继续开局。
type Game interface {
	ID() string
	GameType() string
	Status() models.GameStatus
	Winner() string
	Players() []*player.Player
	SeatHolders() []string
	Join(p *player.Player) error
	Leave(p *player.Player) error
	Start(playerID string) error
	ApplyMove(playerID string, move models.GameMove) error
	Model() models.GameInstance
}

// base 只负责 id 与参与者簿记，规则全部在具体游戏里
type base struct {
	id      string
	players []*player.Player
}

func newBase() base {
	return base{id: uuid.New().String()}
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Players() []*player.Player {
	result := make([]*player.Player, len(b.players))
	copy(result, b.players)
	return result
}

func (b *base) hasPlayer(playerID string) bool {
	for _, p := range b.players {
		if p.ID == playerID {
			return true
		}
	}
	return false
}

func (b *base) addPlayer(p *player.Player) {
	b.players = append(b.players, p)
}

func (b *base) removePlayer(playerID string) {
	kept := b.players[:0]
	for _, p := range b.players {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	b.players = kept
}

func (b *base) playerIDs() []string {
	ids := make([]string, 0, len(b.players))
	for _, p := range b.players {
		ids = append(ids, p.ID)
	}
	return ids
}
