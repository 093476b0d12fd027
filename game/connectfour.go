// game/connectfour.go
package game

import (
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

const (
	connectFourCols = 7
	connectFourRows = 6
)

// ConnectFourGame 四子棋。红黄两席，双方需各自发出 start 才开局。
// 上一局的占席信息会传入新实例，用于保持颜色延续并轮换先手。
type ConnectFourGame struct {
	base
	moves       []models.GameMove
	red         string
	yellow      string
	redReady    bool
	yellowReady bool
	firstPlayer string
	status      models.GameStatus
	winner      string

	// carried over from the previous round
	prefRed    string
	prefYellow string
	prevFirst  string
}

// NewConnectFour 创建新的一局。prev 为区域里上一局（可为 nil）。
func NewConnectFour(prev *ConnectFourGame) *ConnectFourGame {
	g := &ConnectFourGame{
		base:        newBase(),
		status:      models.GameWaitingForPlayers,
		firstPlayer: models.PieceRed,
	}
	if prev != nil {
		g.prefRed = prev.red
		g.prefYellow = prev.yellow
		g.prevFirst = prev.firstPlayer
	}
	return g
}

func (g *ConnectFourGame) GameType() string {
	return models.GameTypeConnectFour
}

func (g *ConnectFourGame) Status() models.GameStatus {
	return g.status
}

func (g *ConnectFourGame) Winner() string {
	return g.winner
}

func (g *ConnectFourGame) SeatHolders() []string {
	var seats []string
	if g.red != "" {
		seats = append(seats, g.red)
	}
	if g.yellow != "" {
		seats = append(seats, g.yellow)
	}
	return seats
}

func (g *ConnectFourGame) Join(p *player.Player) error {
	if g.red == p.ID || g.yellow == p.ID {
		return ErrPlayerAlreadyInGame
	}

	// 上一局持有同色的玩家优先拿回原色，其余按红先黄后补位
	switch {
	case g.prefRed == p.ID && g.red == "":
		g.red = p.ID
	case g.prefYellow == p.ID && g.yellow == "":
		g.yellow = p.ID
	case g.red == "":
		g.red = p.ID
	case g.yellow == "":
		g.yellow = p.ID
	default:
		return ErrGameFull
	}
	g.addPlayer(p)

	if g.red != "" && g.yellow != "" {
		g.status = models.GameWaitingToStart
	}
	return nil
}

// Start 记录一方的就绪信号；双方都就绪后进入 IN_PROGRESS 并确定先手。
func (g *ConnectFourGame) Start(playerID string) error {
	if g.status != models.GameWaitingToStart {
		return ErrGameNotStartable
	}
	switch playerID {
	case g.red:
		g.redReady = true
	case g.yellow:
		g.yellowReady = true
	default:
		return ErrPlayerNotInGame
	}

	if g.redReady && g.yellowReady {
		g.firstPlayer = g.deriveFirstPlayer()
		g.status = models.GameInProgress
	}
	return nil
}

// deriveFirstPlayer 默认红先；若上一局有占席者仍在本局，则先手换成
// 上一局没有先走的颜色。开局时才推导，而不是加入时。
func (g *ConnectFourGame) deriveFirstPlayer() string {
	carryOver := (g.prefRed != "" && (g.prefRed == g.red || g.prefRed == g.yellow)) ||
		(g.prefYellow != "" && (g.prefYellow == g.red || g.prefYellow == g.yellow))
	if carryOver {
		return oppositePiece(g.prevFirst)
	}
	return models.PieceRed
}

func oppositePiece(piece string) string {
	if piece == models.PieceRed {
		return models.PieceYellow
	}
	return models.PieceRed
}

func (g *ConnectFourGame) ApplyMove(playerID string, move models.GameMove) error {
	if g.status != models.GameInProgress {
		return ErrGameNotInProgress
	}

	var piece string
	switch playerID {
	case g.red:
		piece = models.PieceRed
	case g.yellow:
		piece = models.PieceYellow
	default:
		return ErrPlayerNotInGame
	}

	// 自先手起严格按步数交替
	turn := g.firstPlayer
	if len(g.moves)%2 == 1 {
		turn = oppositePiece(g.firstPlayer)
	}
	if piece != turn {
		return ErrMoveNotYourTurn
	}

	if move.Col < 0 || move.Col >= connectFourCols || move.Row < 0 || move.Row >= connectFourRows {
		return ErrInvalidPosition
	}

	// 落点必须是该列当前最低的空行
	filled := 0
	for _, m := range g.moves {
		if m.Col == move.Col {
			filled++
		}
	}
	if filled >= connectFourRows {
		return ErrInvalidPosition // column is full
	}
	if move.Row != connectFourRows-1-filled {
		return ErrInvalidPosition
	}

	g.moves = append(g.moves, models.GameMove{GamePiece: piece, Row: move.Row, Col: move.Col})
	g.checkForEnd()
	return nil
}

func (g *ConnectFourGame) checkForEnd() {
	var board [connectFourRows][connectFourCols]string
	for _, m := range g.moves {
		board[m.Row][m.Col] = m.GamePiece
	}

	dirs := [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	winningPiece := ""
	for row := 0; row < connectFourRows; row++ {
		for col := 0; col < connectFourCols; col++ {
			piece := board[row][col]
			if piece == "" {
				continue
			}
			for _, d := range dirs {
				count := 1
				r, c := row+d[0], col+d[1]
				for r >= 0 && r < connectFourRows && c >= 0 && c < connectFourCols && board[r][c] == piece {
					count++
					r += d[0]
					c += d[1]
				}
				if count >= 4 {
					winningPiece = piece
				}
			}
		}
	}

	switch winningPiece {
	case models.PieceRed:
		g.status = models.GameOver
		g.winner = g.red
	case models.PieceYellow:
		g.status = models.GameOver
		g.winner = g.yellow
	default:
		if len(g.moves) == connectFourRows*connectFourCols {
			g.status = models.GameOver // tie, no winner
		}
	}
}

func (g *ConnectFourGame) Leave(p *player.Player) error {
	if g.red != p.ID && g.yellow != p.ID {
		return ErrPlayerNotInGame
	}

	switch g.status {
	case models.GameOver:
		// finished rounds are immutable
	case models.GameInProgress:
		g.status = models.GameOver
		if g.red == p.ID {
			g.winner = g.yellow
		} else {
			g.winner = g.red
		}
	default:
		// waiting: vacate the seat and fall back to WAITING_FOR_PLAYERS
		if g.red == p.ID {
			g.red = ""
			g.redReady = false
		} else {
			g.yellow = ""
			g.yellowReady = false
		}
		g.status = models.GameWaitingForPlayers
	}

	g.removePlayer(p.ID)
	return nil
}

func (g *ConnectFourGame) Model() models.GameInstance {
	state := models.ConnectFourState{
		Moves:       append([]models.GameMove(nil), g.moves...),
		Red:         g.red,
		Yellow:      g.yellow,
		RedReady:    g.redReady,
		YellowReady: g.yellowReady,
		FirstPlayer: g.firstPlayer,
		Status:      g.status,
		Winner:      g.winner,
	}
	return models.GameInstance{
		ID:      g.id,
		Players: g.playerIDs(),
		State:   state,
	}
}
