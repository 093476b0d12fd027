// area/factory.go
package area

import (
	"fmt"

	"github.com/wfunc/townserver/game"
	"github.com/wfunc/townserver/models"
)

// FromMapObject 根据地图元数据构造具体区域。GameArea 需要 gameType
// 属性（TicTacToe 或 ConnectFour）。
func FromMapObject(obj models.MapObject, emitter Emitter) (Interactable, error) {
	box := obj.BoundingBox()
	switch obj.Type {
	case models.TypeConversationArea:
		return NewConversationArea(obj.Name, box, emitter), nil
	case models.TypeViewingArea:
		return NewViewingArea(obj.Name, box, emitter), nil
	case models.TypeGameArea:
		gameType, _ := obj.Properties["gameType"].(string)
		factory, err := factoryForGameType(gameType)
		if err != nil {
			return nil, err
		}
		return NewGameArea(obj.Name, box, gameType, factory, emitter), nil
	default:
		return nil, fmt.Errorf("unknown map object type %q for %q", obj.Type, obj.Name)
	}
}

func factoryForGameType(gameType string) (GameFactory, error) {
	switch gameType {
	case models.GameTypeTicTacToe:
		return func(prev game.Game) game.Game {
			return game.NewTicTacToe()
		}, nil
	case models.GameTypeConnectFour:
		return func(prev game.Game) game.Game {
			prevGame, _ := prev.(*game.ConnectFourGame)
			return game.NewConnectFour(prevGame)
		}, nil
	default:
		return nil, fmt.Errorf("unknown game type %q", gameType)
	}
}
