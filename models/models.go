// models/models.go
package models

import (
	"time"
)

// 玩家精灵的固定尺寸，用于包含/重叠判定
const (
	PlayerSpriteWidth  = 32.0
	PlayerSpriteHeight = 64.0
)

// PlayerLocation 玩家在地图上的位置
type PlayerLocation struct {
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	Rotation       string  `json:"rotation"` // front/back/left/right
	Moving         bool    `json:"moving"`
	InteractableID string  `json:"interactableID,omitempty"`
}

// BoundingBox 轴对齐包围盒，(X, Y) 为左上角
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ContainsLocation reports whether a player footprint centered at loc
// intersects the box. Strict inequality on all four edges, so a footprint
// that only touches an edge is not contained.
func (b BoundingBox) ContainsLocation(loc PlayerLocation) bool {
	return loc.X+PlayerSpriteWidth/2 > b.X &&
		loc.X-PlayerSpriteWidth/2 < b.X+b.Width &&
		loc.Y+PlayerSpriteHeight/2 > b.Y &&
		loc.Y-PlayerSpriteHeight/2 < b.Y+b.Height
}

// Overlaps reports whether two boxes, each expanded by half the player
// footprint on every side, overlap. Raw boxes whose edges touch therefore
// count as overlapping. Symmetric.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	ax1, ax2 := b.X-PlayerSpriteWidth/2, b.X+b.Width+PlayerSpriteWidth/2
	ay1, ay2 := b.Y-PlayerSpriteHeight/2, b.Y+b.Height+PlayerSpriteHeight/2
	bx1, bx2 := other.X-PlayerSpriteWidth/2, other.X+other.Width+PlayerSpriteWidth/2
	by1, by2 := other.Y-PlayerSpriteHeight/2, other.Y+other.Height+PlayerSpriteHeight/2

	noOverlap := ax1 >= bx2 || bx1 >= ax2 || ay1 >= by2 || by1 >= ay2
	return !noOverlap
}

// PlayerModel 玩家快照（对外广播）
type PlayerModel struct {
	ID       string         `json:"id"`
	UserName string         `json:"userName"`
	Location PlayerLocation `json:"location"`
}

// InteractableModel 可交互区域快照（对外广播）。Type 区分具体变体，
// 只有对应变体的可选字段会被填充。
type InteractableModel struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"` // ConversationArea / ViewingArea / GameArea
	Occupants []string `json:"occupants"`

	// ConversationArea
	Topic string `json:"topic,omitempty"`

	// ViewingArea
	Video          string  `json:"video,omitempty"`
	IsPlaying      bool    `json:"isPlaying,omitempty"`
	ElapsedTimeSec float64 `json:"elapsedTimeSec,omitempty"`

	// GameArea
	GameType string        `json:"gameType,omitempty"`
	Game     *GameInstance `json:"game,omitempty"`
	History  []GameResult  `json:"history,omitempty"`
}

// 区域变体类型
const (
	TypeConversationArea = "ConversationArea"
	TypeViewingArea      = "ViewingArea"
	TypeGameArea         = "GameArea"
)

// MapObject 地图加载器产出的一个带类型的命名矩形区域
type MapObject struct {
	Name       string                 `json:"name"`
	Type       string                 `json:"type"`
	X          float64                `json:"x"`
	Y          float64                `json:"y"`
	Width      float64                `json:"width"`
	Height     float64                `json:"height"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// BoundingBox returns the object's rectangle as a BoundingBox.
func (o MapObject) BoundingBox() BoundingBox {
	return BoundingBox{X: o.X, Y: o.Y, Width: o.Width, Height: o.Height}
}

// InteractableCommand 作用于某个区域的指令信封
type InteractableCommand struct {
	CommandID      string    `json:"commandID"`
	InteractableID string    `json:"interactableID"`
	Type           string    `json:"type"` // JoinGame / StartGame / GameMove / LeaveGame
	GameID         string    `json:"gameID,omitempty"`
	Move           *GameMove `json:"move,omitempty"`
}

// 指令类型
const (
	CommandJoinGame  = "JoinGame"
	CommandStartGame = "StartGame"
	CommandGameMove  = "GameMove"
	CommandLeaveGame = "LeaveGame"
)

// CommandResponse 指令应答，仅发给发起指令的连接
type CommandResponse struct {
	CommandID      string                 `json:"commandID"`
	InteractableID string                 `json:"interactableID"`
	Error          string                 `json:"error,omitempty"`
	Payload        map[string]interface{} `json:"payload,omitempty"`
}

// ChatMessage 聊天消息，原样广播
type ChatMessage struct {
	Author         string    `json:"author"`
	Body           string    `json:"body"`
	InteractableID string    `json:"interactableID,omitempty"`
	DateCreated    time.Time `json:"dateCreated"`
}

// TownRecord 城镇目录记录（持久化 + 列表展示）
type TownRecord struct {
	TownID           string    `json:"townID"`
	FriendlyName     string    `json:"friendlyName"`
	IsPubliclyListed bool      `json:"isPubliclyListed"`
	Capacity         int       `json:"capacity"`
	CreatedAt        time.Time `json:"createdAt"`
}

// TownListing 公开城镇列表条目，合并了实时在线人数
type TownListing struct {
	TownID           string `json:"townID"`
	FriendlyName     string `json:"friendlyName"`
	CurrentOccupancy int    `json:"currentOccupancy"`
	MaximumOccupancy int    `json:"maximumOccupancy"`
}

// GameRecord 一局游戏的归档记录
type GameRecord struct {
	TownID    string         `json:"townID"`
	AreaID    string         `json:"areaID"`
	GameID    string         `json:"gameID"`
	GameType  string         `json:"gameType"`
	Scores    map[string]int `json:"scores"`
	CreatedAt time.Time      `json:"createdAt"`
}
