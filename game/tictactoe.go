// game/tictactoe.go
package game

import (
	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

// TicTacToeGame 井字棋。先加入者执 X，后加入者执 O；双方到齐即开局，
// 回合由步数奇偶决定（偶数步轮到 X）。
type TicTacToeGame struct {
	base
	moves  []models.GameMove
	x      string // seat holder player ids
	o      string
	status models.GameStatus
	winner string
}

func NewTicTacToe() *TicTacToeGame {
	return &TicTacToeGame{
		base:   newBase(),
		status: models.GameWaitingToStart,
	}
}

func (g *TicTacToeGame) GameType() string {
	return models.GameTypeTicTacToe
}

func (g *TicTacToeGame) Status() models.GameStatus {
	return g.status
}

func (g *TicTacToeGame) Winner() string {
	return g.winner
}

func (g *TicTacToeGame) SeatHolders() []string {
	var seats []string
	if g.x != "" {
		seats = append(seats, g.x)
	}
	if g.o != "" {
		seats = append(seats, g.o)
	}
	return seats
}

func (g *TicTacToeGame) Join(p *player.Player) error {
	if g.x == p.ID || g.o == p.ID {
		return ErrPlayerAlreadyInGame
	}
	switch {
	case g.x == "":
		g.x = p.ID
	case g.o == "":
		g.o = p.ID
	default:
		return ErrGameFull
	}
	g.addPlayer(p)

	if g.x != "" && g.o != "" {
		g.status = models.GameInProgress
	}
	return nil
}

// Start 井字棋没有单独的准备阶段，双方到齐即自动开局
func (g *TicTacToeGame) Start(playerID string) error {
	return ErrGameNotStartable
}

func (g *TicTacToeGame) ApplyMove(playerID string, move models.GameMove) error {
	if g.status != models.GameInProgress {
		return ErrGameNotInProgress
	}

	var piece string
	switch playerID {
	case g.x:
		piece = models.PieceX
	case g.o:
		piece = models.PieceO
	default:
		return ErrPlayerNotInGame
	}

	if move.Row < 0 || move.Row > 2 || move.Col < 0 || move.Col > 2 {
		return ErrInvalidPosition
	}
	for _, m := range g.moves {
		if m.Row == move.Row && m.Col == move.Col {
			return ErrPositionOccupied
		}
	}

	// 偶数步轮到 X
	turn := models.PieceO
	if len(g.moves)%2 == 0 {
		turn = models.PieceX
	}
	if piece != turn {
		return ErrMoveNotYourTurn
	}

	g.moves = append(g.moves, models.GameMove{GamePiece: piece, Row: move.Row, Col: move.Col})
	g.checkForEnd()
	return nil
}

func (g *TicTacToeGame) checkForEnd() {
	var board [3][3]string
	for _, m := range g.moves {
		board[m.Row][m.Col] = m.GamePiece
	}

	winningPiece := ""
	for i := 0; i < 3; i++ {
		if board[i][0] != "" && board[i][0] == board[i][1] && board[i][1] == board[i][2] {
			winningPiece = board[i][0]
		}
		if board[0][i] != "" && board[0][i] == board[1][i] && board[1][i] == board[2][i] {
			winningPiece = board[0][i]
		}
	}
	if board[1][1] != "" {
		if (board[0][0] == board[1][1] && board[1][1] == board[2][2]) ||
			(board[0][2] == board[1][1] && board[1][1] == board[2][0]) {
			winningPiece = board[1][1]
		}
	}

	switch winningPiece {
	case models.PieceX:
		g.status = models.GameOver
		g.winner = g.x
	case models.PieceO:
		g.status = models.GameOver
		g.winner = g.o
	default:
		if len(g.moves) == 9 {
			g.status = models.GameOver // tie, no winner
		}
	}
}

func (g *TicTacToeGame) Leave(p *player.Player) error {
	if g.x != p.ID && g.o != p.ID {
		return ErrPlayerNotInGame
	}

	switch g.status {
	case models.GameOver:
		// finished rounds are immutable
	case models.GameInProgress:
		g.status = models.GameOver
		if g.x == p.ID {
			g.winner = g.o
		} else {
			g.winner = g.x
		}
	default:
		// still waiting on a second seat: reset to an empty game
		g.moves = nil
		g.x = ""
		g.o = ""
		g.status = models.GameWaitingToStart
	}

	g.removePlayer(p.ID)
	return nil
}

func (g *TicTacToeGame) Model() models.GameInstance {
	state := models.TicTacToeState{
		Moves:  append([]models.GameMove(nil), g.moves...),
		X:      g.x,
		O:      g.o,
		Status: g.status,
		Winner: g.winner,
	}
	return models.GameInstance{
		ID:      g.id,
		Players: g.playerIDs(),
		State:   state,
	}
}
