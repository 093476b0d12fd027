package game

import (
	"testing"

	"github.com/wfunc/townserver/models"
	"github.com/wfunc/townserver/player"
)

// newConnectFourInProgress seats two players and readies both; the first
// holds red and moves first.
func newConnectFourInProgress(t *testing.T) (*ConnectFourGame, *player.Player, *player.Player) {
	t.Helper()
	g := NewConnectFour(nil)
	red := newTestPlayer("alice")
	yellow := newTestPlayer("bob")
	if err := g.Join(red); err != nil {
		t.Fatalf("red join failed: %v", err)
	}
	if err := g.Join(yellow); err != nil {
		t.Fatalf("yellow join failed: %v", err)
	}
	if err := g.Start(red.ID); err != nil {
		t.Fatalf("red start failed: %v", err)
	}
	if err := g.Start(yellow.ID); err != nil {
		t.Fatalf("yellow start failed: %v", err)
	}
	return g, red, yellow
}

// playConnectFour drops pieces into the given columns in order, alternating
// red/yellow from red, computing each landing row from the column fill.
func playConnectFour(t *testing.T, g *ConnectFourGame, red, yellow *player.Player, cols []int) {
	t.Helper()
	filled := make(map[int]int)
	for i, col := range cols {
		mover := red
		if i%2 == 1 {
			mover = yellow
		}
		row := connectFourRows - 1 - filled[col]
		if err := g.ApplyMove(mover.ID, models.GameMove{Row: row, Col: col}); err != nil {
			t.Fatalf("move %d (col %d, row %d) failed: %v", i, col, row, err)
		}
		filled[col]++
	}
}

func TestConnectFour_StatusProgression(t *testing.T) {
	g := NewConnectFour(nil)
	if g.Status() != models.GameWaitingForPlayers {
		t.Fatalf("Expected new game status %s, got %s", models.GameWaitingForPlayers, g.Status())
	}

	red := newTestPlayer("alice")
	if err := g.Join(red); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if g.Status() != models.GameWaitingForPlayers {
		t.Errorf("One seated player should keep status %s, got %s", models.GameWaitingForPlayers, g.Status())
	}

	yellow := newTestPlayer("bob")
	if err := g.Join(yellow); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if g.Status() != models.GameWaitingToStart {
		t.Errorf("Two seated players should give status %s, got %s", models.GameWaitingToStart, g.Status())
	}

	if err := g.Join(newTestPlayer("carol")); err != ErrGameFull {
		t.Errorf("Expected ErrGameFull for third join, got %v", err)
	}

	// one ready signal is not enough
	if err := g.Start(red.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if g.Status() != models.GameWaitingToStart {
		t.Errorf("Status should stay %s with one ready signal, got %s", models.GameWaitingToStart, g.Status())
	}

	if err := g.Start(yellow.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if g.Status() != models.GameInProgress {
		t.Errorf("Both ready should give status %s, got %s", models.GameInProgress, g.Status())
	}

	// starting a running game is not allowed
	if err := g.Start(red.ID); err != ErrGameNotStartable {
		t.Errorf("Expected ErrGameNotStartable once in progress, got %v", err)
	}
}

func TestConnectFour_StartValidation(t *testing.T) {
	g := NewConnectFour(nil)
	red := newTestPlayer("alice")
	if err := g.Join(red); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// cannot start while a seat is empty
	if err := g.Start(red.ID); err != ErrGameNotStartable {
		t.Errorf("Expected ErrGameNotStartable with one seat empty, got %v", err)
	}

	yellow := newTestPlayer("bob")
	if err := g.Join(yellow); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.Start(newTestPlayer("mallory").ID); err != ErrPlayerNotInGame {
		t.Errorf("Expected ErrPlayerNotInGame for outsider start, got %v", err)
	}
}

func TestConnectFour_MoveValidation(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)

	// yellow may not move first
	if err := g.ApplyMove(yellow.ID, models.GameMove{Row: 5, Col: 0}); err != ErrMoveNotYourTurn {
		t.Errorf("Expected ErrMoveNotYourTurn, got %v", err)
	}

	// out of bounds column
	if err := g.ApplyMove(red.ID, models.GameMove{Row: 5, Col: 7}); err != ErrInvalidPosition {
		t.Errorf("Expected ErrInvalidPosition for col 7, got %v", err)
	}

	// a piece must land on the lowest empty row of its column
	if err := g.ApplyMove(red.ID, models.GameMove{Row: 4, Col: 0}); err != ErrInvalidPosition {
		t.Errorf("Expected ErrInvalidPosition for floating piece, got %v", err)
	}

	if err := g.ApplyMove(red.ID, models.GameMove{Row: 5, Col: 0}); err != nil {
		t.Fatalf("valid move failed: %v", err)
	}
	// next piece in the same column stacks one row up
	if err := g.ApplyMove(yellow.ID, models.GameMove{Row: 5, Col: 0}); err != ErrInvalidPosition {
		t.Errorf("Expected ErrInvalidPosition for occupied landing row, got %v", err)
	}
	if err := g.ApplyMove(yellow.ID, models.GameMove{Row: 4, Col: 0}); err != nil {
		t.Fatalf("stacked move failed: %v", err)
	}

	state := g.Model().State.(models.ConnectFourState)
	if len(state.Moves) != 2 {
		t.Errorf("Rejected moves should not be recorded, got %d moves", len(state.Moves))
	}
}

func TestConnectFour_ColumnFull(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	// fill column 0 completely, alternating
	playConnectFour(t, g, red, yellow, []int{0, 0, 0, 0, 0, 0})

	if err := g.ApplyMove(red.ID, models.GameMove{Row: 0, Col: 0}); err != ErrInvalidPosition {
		t.Errorf("Expected ErrInvalidPosition for full column, got %v", err)
	}
}

func TestConnectFour_VerticalWin(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	playConnectFour(t, g, red, yellow, []int{0, 1, 0, 1, 0, 1, 0})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != red.ID {
		t.Errorf("Expected winner %s, got %s", red.ID, g.Winner())
	}
}

func TestConnectFour_HorizontalWin(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	playConnectFour(t, g, red, yellow, []int{0, 0, 1, 1, 2, 2, 3})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != red.ID {
		t.Errorf("Expected winner %s, got %s", red.ID, g.Winner())
	}

	if err := g.ApplyMove(yellow.ID, models.GameMove{Row: 4, Col: 3}); err != ErrGameNotInProgress {
		t.Errorf("Expected ErrGameNotInProgress after game over, got %v", err)
	}
}

func TestConnectFour_DiagonalWin(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	// red builds the rising diagonal (5,0)..(2,3)
	playConnectFour(t, g, red, yellow, []int{0, 1, 1, 2, 2, 3, 2, 3, 3, 6, 3})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != red.ID {
		t.Errorf("Expected winner %s, got %s", red.ID, g.Winner())
	}
}

func TestConnectFour_AntiDiagonalWin(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	playConnectFour(t, g, red, yellow, []int{6, 5, 5, 4, 4, 3, 4, 3, 3, 0, 3})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != red.ID {
		t.Errorf("Expected winner %s, got %s", red.ID, g.Winner())
	}
}

func TestConnectFour_Tie(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	// a full 42-move board with no four in a row anywhere
	playConnectFour(t, g, red, yellow, []int{
		0, 1, 1, 0, 1, 0, 0, 1, 0, 1, 1, 0,
		2, 3, 3, 2, 3, 2, 2, 3, 2, 3, 3, 2,
		4, 5, 5, 4, 6, 6, 5, 4, 4, 5, 4, 6, 6, 5, 6, 4, 5, 6,
	})

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s after 42 moves, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != "" {
		t.Errorf("Expected no winner in a tie, got %s", g.Winner())
	}
}

func TestConnectFour_LeaveWhileWaitingVacatesSeat(t *testing.T) {
	g := NewConnectFour(nil)
	red := newTestPlayer("alice")
	yellow := newTestPlayer("bob")
	if err := g.Join(red); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.Join(yellow); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := g.Leave(red); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if g.Status() != models.GameWaitingForPlayers {
		t.Errorf("Expected status %s after a seat was vacated, got %s", models.GameWaitingForPlayers, g.Status())
	}

	// the vacated red seat can be filled again
	carol := newTestPlayer("carol")
	if err := g.Join(carol); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if g.Status() != models.GameWaitingToStart {
		t.Errorf("Expected status %s after reseating, got %s", models.GameWaitingToStart, g.Status())
	}
}

func TestConnectFour_LeaveInProgressForfeits(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	if err := g.Leave(yellow); err != nil {
		t.Fatalf("leave failed: %v", err)
	}

	if g.Status() != models.GameOver {
		t.Fatalf("Expected status %s after forfeit, got %s", models.GameOver, g.Status())
	}
	if g.Winner() != red.ID {
		t.Errorf("Expected remaining player %s to win, got %s", red.ID, g.Winner())
	}
}

func TestConnectFour_LeaveAfterOverIsImmutable(t *testing.T) {
	g, red, yellow := newConnectFourInProgress(t)
	playConnectFour(t, g, red, yellow, []int{0, 1, 0, 1, 0, 1, 0})
	if g.Winner() != red.ID {
		t.Fatalf("setup failed, expected winner %s", red.ID)
	}

	if err := g.Leave(red); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
	if g.Winner() != red.ID || g.Status() != models.GameOver {
		t.Errorf("Finished game changed after leave: winner=%s status=%s", g.Winner(), g.Status())
	}
}

func TestConnectFour_FirstPlayerAlternatesAcrossRounds(t *testing.T) {
	prev, red, yellow := newConnectFourInProgress(t)
	// finish round one; red moved first
	playConnectFour(t, prev, red, yellow, []int{0, 1, 0, 1, 0, 1, 0})

	// yellow returns for a rematch against a newcomer
	g := NewConnectFour(prev)
	carol := newTestPlayer("carol")
	if err := g.Join(yellow); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if err := g.Join(carol); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	// the returning player keeps their color
	model := g.Model().State.(models.ConnectFourState)
	if model.Yellow != yellow.ID {
		t.Errorf("Returning player should keep yellow, got yellow=%s", model.Yellow)
	}
	if model.Red != carol.ID {
		t.Errorf("Newcomer should take red, got red=%s", model.Red)
	}

	if err := g.Start(yellow.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := g.Start(carol.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// red went first last round, so yellow leads the rematch
	model = g.Model().State.(models.ConnectFourState)
	if model.FirstPlayer != models.PieceYellow {
		t.Errorf("Expected first player %s, got %s", models.PieceYellow, model.FirstPlayer)
	}
	if err := g.ApplyMove(carol.ID, models.GameMove{Row: 5, Col: 0}); err != ErrMoveNotYourTurn {
		t.Errorf("Red should not lead the rematch, got %v", err)
	}
	if err := g.ApplyMove(yellow.ID, models.GameMove{Row: 5, Col: 0}); err != nil {
		t.Errorf("Yellow should lead the rematch, got %v", err)
	}
}

func TestConnectFour_FreshPairKeepsRedFirst(t *testing.T) {
	prev, red, yellow := newConnectFourInProgress(t)
	playConnectFour(t, prev, red, yellow, []int{0, 1, 0, 1, 0, 1, 0})

	// nobody from the previous round returns
	g := NewConnectFour(prev)
	p1 := newTestPlayer("carol")
	p2 := newTestPlayer("dave")
	if err := g.Join(p1); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.Join(p2); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if err := g.Start(p1.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if err := g.Start(p2.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	model := g.Model().State.(models.ConnectFourState)
	if model.FirstPlayer != models.PieceRed {
		t.Errorf("Expected first player %s for a fresh pair, got %s", models.PieceRed, model.FirstPlayer)
	}
}
