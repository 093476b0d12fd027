// area/gamearea.go
package area

import (
	"errors"

	"github.com/wfunc/townserver/game"
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

var ErrMissingMove = errors.New("missing move payload")

// GameFactory 构造新的一局。prev 是本区域里刚结束的上一局（可为 nil），
// 支持跨局延续的游戏可从中取座位偏好。
type GameFactory func(prev game.Game) game.Game

// GameArea 承载一局回合制游戏的区域。任一时刻最多一局在进行；
// 首个 JoinGame 指令在没有游戏或上一局已结束时惰性开新局。
type GameArea struct {
	Base
	gameType string
	game     game.Game
	history  []models.GameResult
	names    map[string]string // participant id -> display name
	newGame  GameFactory
}

func NewGameArea(id string, box models.BoundingBox, gameType string, factory GameFactory, emitter Emitter) *GameArea {
	a := &GameArea{
		Base:     newBase(id, box, emitter),
		gameType: gameType,
		names:    make(map[string]string),
		newGame:  factory,
	}
	a.self = a
	return a
}

// Game 当前持有的一局，可能为 nil
func (a *GameArea) Game() game.Game {
	return a.game
}

// History 已结束各局的比分，只增不改
func (a *GameArea) History() []models.GameResult {
	return append([]models.GameResult(nil), a.history...)
}

// HandleCommand 把结构化指令分发给持有的游戏。指令要么完整成功
// （状态变更 + 一次广播），要么完整失败（错误上抛，无任何变更）。
func (a *GameArea) HandleCommand(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error) {
	switch cmd.Type {
	case models.CommandJoinGame:
		return a.handleJoin(p)
	case models.CommandStartGame:
		return a.handleStart(p, cmd)
	case models.CommandGameMove:
		return a.handleMove(p, cmd)
	case models.CommandLeaveGame:
		return a.handleLeave(p, cmd)
	default:
		return nil, ErrUnknownCommand
	}
}

func (a *GameArea) handleJoin(p *player.Player) (map[string]interface{}, error) {
	if a.game == nil || a.game.Status() == models.GameOver {
		a.game = a.newGame(a.game)
	}
	if err := a.game.Join(p); err != nil {
		return nil, err
	}
	a.names[p.ID] = p.UserName
	a.emitter.AreaChanged(a)
	return map[string]interface{}{"gameID": a.game.ID()}, nil
}

func (a *GameArea) handleStart(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error) {
	if err := a.checkGame(cmd.GameID); err != nil {
		return nil, err
	}
	if err := a.game.Start(p.ID); err != nil {
		return nil, err
	}
	a.emitter.AreaChanged(a)
	return nil, nil
}

func (a *GameArea) handleMove(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error) {
	if err := a.checkGame(cmd.GameID); err != nil {
		return nil, err
	}
	if cmd.Move == nil {
		return nil, ErrMissingMove
	}
	if err := a.game.ApplyMove(p.ID, *cmd.Move); err != nil {
		return nil, err
	}
	a.recordResultIfOver()
	a.emitter.AreaChanged(a)
	return nil, nil
}

func (a *GameArea) handleLeave(p *player.Player, cmd *models.InteractableCommand) (map[string]interface{}, error) {
	if err := a.checkGame(cmd.GameID); err != nil {
		return nil, err
	}
	wasOver := a.game.Status() == models.GameOver
	if err := a.game.Leave(p); err != nil {
		return nil, err
	}
	if !wasOver {
		a.recordResultIfOver()
	}
	a.emitter.AreaChanged(a)
	return nil, nil
}

func (a *GameArea) checkGame(gameID string) error {
	if a.game == nil {
		return ErrNoGameInActive
	}
	if a.game.ID() != gameID {
		return ErrGameIDMismatch
	}
	return nil
}

// recordResultIfOver 在一局刚转入 OVER 时追加恰好一条历史记录：
// 胜者 1 分、负者 0 分，平局双方 0 分。
func (a *GameArea) recordResultIfOver() {
	if a.game.Status() != models.GameOver {
		return
	}
	winner := a.game.Winner()
	scores := make(map[string]int)
	for _, id := range a.game.SeatHolders() {
		if winner != "" && id == winner {
			scores[a.names[id]] = 1
		} else {
			scores[a.names[id]] = 0
		}
	}
	result := models.GameResult{GameID: a.game.ID(), Scores: scores}
	a.history = append(a.history, result)
	a.emitter.RoundOver(a, result)
}

func (a *GameArea) Model() models.InteractableModel {
	m := models.InteractableModel{
		ID:        a.id,
		Type:      models.TypeGameArea,
		Occupants: a.occupantIDs(),
		GameType:  a.gameType,
		History:   a.History(),
	}
	if a.game != nil {
		instance := a.game.Model()
		m.Game = &instance
	}
	return m
}
