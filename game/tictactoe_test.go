package game

import (
	"testing"

	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

func newTestPlayer(name string) *player.Player {
	return player.New(name, nil)
}

// newTicTacToeInProgress seats two players; the first holds X, the second O.
func newTicTacToeInProgress(t *testing.T) (*TicTacToeGame, *player.Player, *player.Player) {
	t.Helper()
	g := NewTicTacToe()
	px := newTestPlayer("alice")
	po := newTestPlayer("bob")
	if err := g.Join(px); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if err := g.Join(po); err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	return g, px, po
}

func TestTicTacToe_JoinSeatsAndStatus(t *testing.T) {
	g := NewTicTacToe()
	if g.Status() != models.GameWaitingToStart {
		t.Fatalf("Expected new game status %s, got %s", models.GameWaitingToStart, g.Status())
	}

	px := newTestPlayer("alice")
	if err := g.Join(px); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if g.Status() != models.GameWaitingToStart {
		t.Errorf("Game with one player should still be %s, got %s", models.GameWaitingToStart, g.Status())
	}
	if err := g.Join(px); err != ErrPlayerAlreadyInGame {
		t.Errorf("Expected ErrPlayerAlreadyInGame on rejoin, got %v", err)
	}

	po := newTestPlayer("bob")
	if err := g.Join(po); err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	if g.Status() != models.GameInProgress {
		t.Errorf("Game with both seats taken should be %s, got %s", models.GameInProgress, g.Status())
	}

	extra := newTestPlayer("carol")
	if err := g.Join(extra); err != ErrGameFull {
		t.Errorf("Expected ErrGameFull for third join, got %v", err)
	}

	seats := g.SeatHolders()
	if len(seats) != 2 || seats[0] != px.ID || seats[1] != po.ID {
		t.Errorf("Expected seat holders [%s %s], got %v", px.ID, po.ID, seats)
	}
}

func TestTicTacToe_StartNotSupported(t *testing.T) {
	g, px, _ := newTicTacToeInProgress(t)
	if err := g.Start(px.ID); err != ErrGameNotStartable {
		t.Errorf("Expected ErrGameNotStartable, got %v", err)
	}
}

func TestTicTacToe_MoveValidation(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)

	// O may not move first
	if err := g.ApplyMove(po.ID, models.GameMove{Row: 0, Col: 0}); err != ErrMoveNotYourTurn {
		t.Errorf("Expected ErrMoveNotYourTurn for O moving first, got %v", err)
	}

	// out of bounds
	if err := g.ApplyMove(px.ID, models.GameMove{Row: 3, Col: 0}); err != ErrInvalidPosition {
		t.Errorf("Expected ErrInvalidPosition for row 3, got %v", err)
	}

	if err := g.ApplyMove(px.ID, models.GameMove{Row: 0, Col: 0}); err != nil {
		t.Fatalf("valid move failed: %v", err)
	}

	// occupied square
	if err := g.ApplyMove(po.ID, models.GameMove{Row: 0, Col: 0}); err != ErrPositionOccupied {
		t.Errorf("Expected ErrPositionOccupied, got %v", err)
	}

	// X may not move twice in a row
	if err := g.ApplyMove(px.ID, models.GameMove{Row: 1, Col: 1}); err != ErrMoveNotYourTurn {
		t.Errorf("Expected ErrMoveNotYourTurn for X moving twice, got %v", err)
	}

	// outsider
	outsider := newTestPlayer("mallory")
	if err := g.ApplyMove(outsider.ID, models.GameMove{Row: 1, Col: 1}); err != ErrPlayerNotInGame {
		t.Errorf("Expected ErrPlayerNotInGame for outsider, got %v", err)
	}

	// rejected moves leave the board untouched
	state := g.Model().State.(models.TicTacToeState)
	if len(state.Moves) != 1 {
		t.Errorf("Rejected moves should not be recorded, got %d moves", len(state.Moves))
	}
}

func TestTicTacToe_MoveBeforeBothSeated(t *testing.T) {
	g := NewTicTacToe()
	px := newTestPlayer("alice")
	if err := g.Join(px); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.ApplyMove(px.ID, models.GameMove{Row: 0, Col: 0}); err != ErrGameNotInProgress {
		t.Errorf("Expected ErrGameNotInProgress before both seats taken, got %v", err)
	}
}

// playTicTacToe applies an alternating X/O move sequence.
func playTicTacToe(t *testing.T, g *TicTacToeGame, px, po *player.Player, moves [][2]int) {
	t.Helper()
	for i, m := range moves {
		mover := px
		if i%2 == 1 {
			mover = po
		}
		if err := g.ApplyMove(mover.ID, models.GameMove{Row: m[0], Col: m[1]}); err != nil {
			t.Fatalf("move %d (%d,%d) failed: %v", i, m[0], m[1], err)
		}
	}
}

func TestTicTacToe_RowWin(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	// X takes the top row
	playTicTacToe(t, g, px, po, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != px.ID {
		t.Errorf("Expected winner %s, got %s", px.ID, g.Winner())
	}

	// no moves after the game is over
	if err := g.ApplyMove(po.ID, models.GameMove{Row: 2, Col: 2}); err != ErrGameNotInProgress {
		t.Errorf("Expected ErrGameNotInProgress after game over, got %v", err)
	}
}

func TestTicTacToe_ColumnWinForO(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	// O takes the left column while X wanders
	playTicTacToe(t, g, px, po, [][2]int{{0, 1}, {0, 0}, {1, 1}, {1, 0}, {2, 2}, {2, 0}})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != po.ID {
		t.Errorf("Expected winner %s, got %s", po.ID, g.Winner())
	}
}

func TestTicTacToe_DiagonalWin(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	playTicTacToe(t, g, px, po, [][2]int{{0, 0}, {0, 1}, {1, 1}, {0, 2}, {2, 2}})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != px.ID {
		t.Errorf("Expected winner %s, got %s", px.ID, g.Winner())
	}
}

func TestTicTacToe_Tie(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	// full board with no three in a row
	playTicTacToe(t, g, px, po, [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 1}, {1, 0}, {1, 2},
		{2, 1}, {2, 0}, {2, 2},
	})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s after 9 moves, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != "" {
		t.Errorf("Expected no winner in a tie, got %s", g.Winner())
	}
}

func TestTicTacToe_LeaveWhileWaitingResets(t *testing.T) {
	g := NewTicTacToe()
	px := newTestPlayer("alice")
	if err := g.Join(px); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.Leave(px); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	if g.Status() != models.GameWaitingToStart {
		t.Errorf("Expected status %s after sole player left, got %s", models.GameWaitingToStart, g.Status())
	}
	if len(g.SeatHolders()) != 0 {
		t.Errorf("Expected no seat holders after reset, got %v", g.SeatHolders())
	}

	// a different pair can take the empty game
	p2 := newTestPlayer("bob")
	if err := g.Join(p2); err != nil {
		t.Errorf("Join after reset failed: %v", err)
	}
}

func TestTicTacToe_LeaveInProgressForfeits(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	if err := g.Leave(px); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s after forfeit, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != po.ID {
		t.Errorf("Expected remaining player %s to win, got %s", po.ID, g.Winner())
	}
}

func TestTicTacToe_LeaveAfterOverIsImmutable(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	playTicTacToe(t, g, px, po, [][2]int{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0, 2}})
	if g.Winner() != px.ID {
		t.Fatalf("setup failed, expected winner %s", px.ID)
	}

	// the loser leaving must not change the recorded result
	if err := g.Leave(po); err != nil {
		t.Fatalf("leave after game over failed: %v", err)
	}
	if g.Winner() != px.ID {
		t.Errorf("Winner changed after leave on a finished game: %s", g.Winner())
	}
	if g.Status() != models.GameOver {
		t.Errorf("Status changed after leave on a finished game: %s", g.Status())
	}
}

func TestTicTacToe_LeaveNotInGame(t *testing.T) {
	g, _, _ := newTicTacToeInProgress(t)
	outsider := newTestPlayer("mallory")
	if err := g.Leave(outsider); err != ErrPlayerNotInGame {
		t.Errorf("Expected ErrPlayerNotInGame, got %v", err)
	}
}

func TestTicTacToe_Model(t *testing.T) {
	g, px, po := newTicTacToeInProgress(t)
	playTicTacToe(t, g, px, po, [][2]int{{1, 1}})

	m := g.Model()
	if m.ID != g.ID() {
		t.Errorf("Model ID mismatch: %s vs %s", m.ID, g.ID())
	}
	state, ok := m.State.(models.TicTacToeState)
	if !ok {
		t.Fatalf("Expected TicTacToeState, got %T", m.State)
	}
	if state.X != px.ID || state.O != po.ID {
		t.Errorf("Model seats mismatch: X=%s O=%s", state.X, state.O)
	}
	if len(state.Moves) != 1 || state.Moves[0].GamePiece != models.PieceX {
		t.Errorf("Model moves mismatch: %v", state.Moves)
	}
}
