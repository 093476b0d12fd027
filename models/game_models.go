// models/game_models.go
package models

// GameStatus 游戏状态标签
type GameStatus string

const (
	GameWaitingForPlayers GameStatus = "WAITING_FOR_PLAYERS"
	GameWaitingToStart    GameStatus = "WAITING_TO_START"
	GameInProgress        GameStatus = "IN_PROGRESS"
	GameOver              GameStatus = "OVER"
)

// 棋子标记
const (
	PieceX      = "X"
	PieceO      = "O"
	PieceRed    = "Red"
	PieceYellow = "Yellow"
)

// 游戏类型
const (
	GameTypeTicTacToe   = "TicTacToe"
	GameTypeConnectFour = "ConnectFour"
)

// GameMove 一步落子。TicTacToe 使用 Row/Col，ConnectFour 使用 Col 和
// 该列当前最低空行的 Row。
type GameMove struct {
	GamePiece string `json:"gamePiece"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

// GameInstance 一局游戏的快照，State 为具体游戏的状态结构
type GameInstance struct {
	ID      string      `json:"id"`
	Players []string    `json:"players"`
	State   interface{} `json:"state"`
}

// TicTacToeState 井字棋状态快照
type TicTacToeState struct {
	Moves  []GameMove `json:"moves"`
	X      string     `json:"x,omitempty"`
	O      string     `json:"o,omitempty"`
	Status GameStatus `json:"status"`
	Winner string     `json:"winner,omitempty"`
}

// ConnectFourState 四子棋状态快照
type ConnectFourState struct {
	Moves       []GameMove `json:"moves"`
	Red         string     `json:"red,omitempty"`
	Yellow      string     `json:"yellow,omitempty"`
	RedReady    bool       `json:"redReady"`
	YellowReady bool       `json:"yellowReady"`
	FirstPlayer string     `json:"firstPlayer"`
	Status      GameStatus `json:"status"`
	Winner      string     `json:"winner,omitempty"`
}

// GameResult 一局结束后的比分，按玩家显示名记分：胜者 1、负者 0，平局双方 0
type GameResult struct {
	GameID string         `json:"gameID"`
	Scores map[string]int `json:"scores"`
}
