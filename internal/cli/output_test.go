package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type OutputSuite struct {
	suite.Suite
	buf *bytes.Buffer
}

func TestOutputSuite(t *testing.T) {
	suite.Run(t, new(OutputSuite))
}

func (s *OutputSuite) SetupTest() {
	s.buf = &bytes.Buffer{}
}

func emptyGrid() [][]int {
	grid := make([][]int, 20)
	for y := range grid {
		grid[y] = make([]int, 10)
	}
	return grid
}

func (s *OutputSuite) session() Session {
	grid := emptyGrid()
	grid[19] = []int{1, 1, 1, 1, 0, 0, 0, 0, 0, 0}
	return Session{
		ID:    "ABC123",
		Mode:  "classic",
		Phase: "falling",
		Grid:  grid,
		CurrentPiece: &Piece{
			Type: "O", Color: 2, X: 4, Y: 0,
			Cells: [][]int{{1, 1}, {1, 1}},
		},
		NextPiece: &Piece{Type: "T", Color: 3, Cells: [][]int{{0, 1, 0}, {1, 1, 1}}},
		Score:     100,
		Level:     1,
		Lines:     1,
	}
}

func (s *OutputSuite) lines() []string {
	return strings.Split(s.buf.String(), "\n")
}

func (s *OutputSuite) TestJSONSession() {
	NewOutput("json", s.buf).Print(s.session())

	var decoded Session
	s.Require().NoError(json.Unmarshal(s.buf.Bytes(), &decoded))
	s.Equal("ABC123", decoded.ID)
	s.Equal(100, decoded.Score)
}

func (s *OutputSuite) TestTextSessionShowsStats() {
	NewOutput("text", s.buf).Print(s.session())

	out := s.buf.String()
	s.Contains(out, "Session: ABC123")
	s.Contains(out, "Score: 100")
	s.Contains(out, "Next:")
}

func (s *OutputSuite) TestBoardOverlaysPieceAndGrid() {
	board := renderBoard(s.session())
	rows := strings.Split(board, "\n")

	// Rounded border plus 20 rows
	s.Require().Len(rows, 22)
	s.Contains(rows[1], " . . . .[][]")
	s.Contains(rows[20], "[][][][] .")
}

func (s *OutputSuite) TestBoardHidesFoggedCells() {
	session := s.session()
	session.CurrentPiece = nil
	opacity := make([][]float64, 20)
	for y := range opacity {
		opacity[y] = make([]float64, 10)
	}
	session.Fog = &Fog{Phase: "hidden", Opacity: opacity}

	board := renderBoard(session)
	s.NotContains(board, "[]")
}

func (s *OutputSuite) TestBoardMarksPendingRows() {
	session := s.session()
	session.PendingClearRows = []int{19}

	rows := strings.Split(renderBoard(session), "\n")
	s.Contains(rows[20], "====================")
}

func (s *OutputSuite) TestTextChallenge() {
	session := s.session()
	session.Mode = "challenge"
	session.Challenge = &Challenge{Level: 2, TargetType: "score", TargetRemaining: 400, PiecesUsed: 3, PiecesLimit: 15}

	NewOutput("text", s.buf).Print(session)
	s.Contains(s.buf.String(), "Target: 400 score left")
	s.Contains(s.buf.String(), "Pieces: 3/15")
}

func (s *OutputSuite) TestTextCommandNotApplied() {
	NewOutput("text", s.buf).Print(CommandResult{Command: "move-left", Applied: false, Session: s.session()})
	s.Equal("move-left: no effect", s.lines()[0])
}

func (s *OutputSuite) TestTextHighScores() {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	NewOutput("text", s.buf).Print(HighScores{
		Mode:   "classic",
		Scores: []HighScore{{Rank: 1, Score: 1500, Lines: 12, Level: 2, AchievedAt: at}},
	})

	s.Equal("High scores (classic):", s.lines()[0])
	s.Contains(s.lines()[1], "1500")
	s.Contains(s.lines()[1], "2024-01-01")
}

func (s *OutputSuite) TestTextEmptyHighScores() {
	NewOutput("text", s.buf).Print(HighScores{Mode: "invisible"})
	s.Contains(s.buf.String(), "none yet")
}

func (s *OutputSuite) TestTextChallenges() {
	NewOutput("text", s.buf).Print(ChallengeList{Levels: []ChallengeLevel{
		{Level: 1, TargetType: "lines", TargetValue: 3, PiecesLimit: 18, Unlocked: true},
		{Level: 2, TargetType: "score", TargetValue: 500, PiecesLimit: 15},
	}})

	s.Contains(s.lines()[0], "[unlocked]")
	s.Contains(s.lines()[1], "[locked]")
}

func (s *OutputSuite) TestTextSnapshots() {
	NewOutput("text", s.buf).Print(SnapshotList{})
	s.Equal("No saved sessions\n", s.buf.String())

	s.buf.Reset()
	NewOutput("text", s.buf).Print(SnapshotList{SessionIDs: []string{"A", "B"}})
	s.Contains(s.buf.String(), "Saved sessions (2):")
}

func (s *OutputSuite) TestPrintMessage() {
	NewOutput("json", s.buf).PrintMessage("done")
	s.JSONEq(`{"message":"done"}`, s.buf.String())

	s.buf.Reset()
	NewOutput("text", s.buf).PrintMessage("done")
	s.Equal("done\n", s.buf.String())
}

func (s *OutputSuite) TestUnknownTypeFallsBackToJSON() {
	NewOutput("text", s.buf).Print(map[string]int{"x": 1})
	s.JSONEq(`{"x":1}`, s.buf.String())
}
