package server

import (
	"encoding/json"
	"os"

	"github.com/wfunc/townserver/models"
)

// LoadMapObjects 读取地图文件中的可交互区域定义。
// 未配置地图文件时使用内置布局。
func LoadMapObjects(path string) ([]models.MapObject, error) {
	if path == "" {
		return DefaultMapObjects(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var objects []models.MapObject
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, err
	}
	return objects, nil
}

// DefaultMapObjects 内置地图：两个会话区、一个观影区、两个游戏区
func DefaultMapObjects() []models.MapObject {
	return []models.MapObject{
		{Name: "Lounge", Type: models.TypeConversationArea, X: 100, Y: 100, Width: 200, Height: 150},
		{Name: "Garden", Type: models.TypeConversationArea, X: 500, Y: 100, Width: 180, Height: 180},
		{Name: "Cinema", Type: models.TypeViewingArea, X: 100, Y: 400, Width: 240, Height: 160},
		{
			Name: "Arcade", Type: models.TypeGameArea, X: 500, Y: 400, Width: 160, Height: 160,
			Properties: map[string]interface{}{"gameType": models.GameTypeTicTacToe},
		},
		{
			Name: "Parlor", Type: models.TypeGameArea, X: 800, Y: 400, Width: 160, Height: 160,
			Properties: map[string]interface{}{"gameType": models.GameTypeConnectFour},
		},
	}
}
