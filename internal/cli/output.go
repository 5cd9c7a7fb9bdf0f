package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Session:
		o.printSession(v)
	case CommandResult:
		o.printCommandResult(v)
	case SavedResult:
		fmt.Fprintf(o.w, "Saved %s (score %d) at %s\n", v.SessionID, v.Score, v.SavedAt.Format(time.DateTime))
	case SnapshotList:
		o.printSnapshotList(v)
	case HighScores:
		o.printHighScores(v)
	case ChallengeList:
		o.printChallenges(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\nSessions: %d\n", v.Status, v.Sessions)
	default:
		o.printJSON(data)
	}
}

// Piece response type (matches API)
type Piece struct {
	Type     string  `json:"type"`
	Color    int     `json:"color"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Rotation int     `json:"rotation"`
	Cells    [][]int `json:"cells"`
}

// Challenge response type
type Challenge struct {
	Level           int    `json:"level"`
	TargetType      string `json:"target_type"`
	TargetRemaining int    `json:"target_remaining"`
	PiecesUsed      int    `json:"pieces_used"`
	PiecesLimit     int    `json:"pieces_limit"`
}

// Fog response type
type Fog struct {
	Phase        string      `json:"phase"`
	Opacity      [][]float64 `json:"opacity"`
	NextChangeAt time.Time   `json:"next_change_at"`
}

// Session response type
type Session struct {
	ID               string     `json:"id"`
	Mode             string     `json:"mode"`
	Phase            string     `json:"phase"`
	Grid             [][]int    `json:"grid"`
	CurrentPiece     *Piece     `json:"current_piece"`
	NextPiece        *Piece     `json:"next_piece"`
	Score            int        `json:"score"`
	Level            int        `json:"level"`
	Lines            int        `json:"lines"`
	Combo            int        `json:"combo"`
	DropIntervalMs   int64      `json:"drop_interval_ms"`
	PendingClearRows []int      `json:"pending_clear_rows,omitempty"`
	EndReason        string     `json:"end_reason,omitempty"`
	Challenge        *Challenge `json:"challenge,omitempty"`
	Fog              *Fog       `json:"fog,omitempty"`
}

// CommandResult response type
type CommandResult struct {
	Command string  `json:"command"`
	Applied bool    `json:"applied"`
	Session Session `json:"session"`
}

// SavedResult response type
type SavedResult struct {
	SessionID string    `json:"session_id"`
	Score     int       `json:"score"`
	SavedAt   time.Time `json:"saved_at"`
}

// SnapshotList response type
type SnapshotList struct {
	SessionIDs []string `json:"session_ids"`
}

// HighScore response type
type HighScore struct {
	Rank       int       `json:"rank"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	AchievedAt time.Time `json:"achieved_at"`
}

// HighScores response type
type HighScores struct {
	Mode   string      `json:"mode"`
	Scores []HighScore `json:"scores"`
}

// ChallengeLevel response type
type ChallengeLevel struct {
	Level       int    `json:"level"`
	TargetType  string `json:"target_type"`
	TargetValue int    `json:"target_value"`
	PiecesLimit int    `json:"pieces_limit"`
	Unlocked    bool   `json:"unlocked"`
}

// ChallengeList response type
type ChallengeList struct {
	Levels []ChallengeLevel `json:"levels"`
}

// HealthResult response type
type HealthResult struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

// Palette indexed by grid color code; 1..7 are the tetrominoes, the rest
// appear in challenge presets
var palette = []lipgloss.Color{
	"", "51", "226", "93", "46", "196", "21", "208",
	"244", "250", "39", "213", "118", "202", "141", "220", "33", "160", "87",
}

var (
	boardBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	emptyCell  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

func cellStyle(code int) lipgloss.Style {
	if code <= 0 || code >= len(palette) {
		return emptyCell
	}
	return lipgloss.NewStyle().Foreground(palette[code]).Background(palette[code])
}

// renderBoard draws the grid with the falling piece overlaid. Cells the fog
// currently hides are drawn empty.
func renderBoard(s Session) string {
	if len(s.Grid) == 0 {
		return ""
	}

	cells := make([][]int, len(s.Grid))
	for y, row := range s.Grid {
		cells[y] = append([]int(nil), row...)
		if s.Fog != nil && y < len(s.Fog.Opacity) {
			for x := range cells[y] {
				if x < len(s.Fog.Opacity[y]) && s.Fog.Opacity[y][x] < 0.5 {
					cells[y][x] = 0
				}
			}
		}
	}

	if p := s.CurrentPiece; p != nil {
		for dy, row := range p.Cells {
			for dx, v := range row {
				x, y := p.X+dx, p.Y+dy
				if v == 0 || y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
					continue
				}
				cells[y][x] = p.Color
			}
		}
	}

	pending := make(map[int]bool, len(s.PendingClearRows))
	for _, r := range s.PendingClearRows {
		pending[r] = true
	}

	var b strings.Builder
	for y, row := range cells {
		for _, code := range row {
			switch {
			case pending[y]:
				b.WriteString(valueStyle.Render("=="))
			case code == 0:
				b.WriteString(emptyCell.Render(" ."))
			default:
				b.WriteString(cellStyle(code).Render("[]"))
			}
		}
		if y < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return boardBorder.Render(b.String())
}

func renderPreview(p *Piece) string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for y, row := range p.Cells {
		for _, v := range row {
			if v == 0 {
				b.WriteString("  ")
			} else {
				b.WriteString(cellStyle(p.Color).Render("[]"))
			}
		}
		if y < len(p.Cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func statLine(label string, value any) string {
	return labelStyle.Render(label+": ") + valueStyle.Render(fmt.Sprint(value))
}

func (o *Output) printSession(s Session) {
	info := []string{
		statLine("Session", s.ID),
		statLine("Mode", s.Mode),
		statLine("Phase", s.Phase),
		statLine("Score", s.Score),
		statLine("Level", s.Level),
		statLine("Lines", s.Lines),
	}
	if s.Combo > 0 {
		info = append(info, statLine("Combo", s.Combo))
	}
	if s.EndReason != "" {
		info = append(info, statLine("Ended", s.EndReason))
	}
	if c := s.Challenge; c != nil {
		info = append(info,
			statLine("Challenge", c.Level),
			statLine("Target", fmt.Sprintf("%d %s left", c.TargetRemaining, c.TargetType)),
			statLine("Pieces", fmt.Sprintf("%d/%d", c.PiecesUsed, c.PiecesLimit)),
		)
	}
	if s.Fog != nil {
		info = append(info, statLine("Fog", s.Fog.Phase))
	}
	if s.NextPiece != nil {
		info = append(info, "", labelStyle.Render("Next:"), renderPreview(s.NextPiece))
	}

	side := lipgloss.NewStyle().PaddingLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, info...))
	fmt.Fprintln(o.w, lipgloss.JoinHorizontal(lipgloss.Top, renderBoard(s), side))
}

func (o *Output) printCommandResult(r CommandResult) {
	if !r.Applied {
		fmt.Fprintf(o.w, "%s: no effect\n", r.Command)
	}
	o.printSession(r.Session)
}

func (o *Output) printSnapshotList(l SnapshotList) {
	if len(l.SessionIDs) == 0 {
		fmt.Fprintln(o.w, "No saved sessions")
		return
	}
	fmt.Fprintf(o.w, "Saved sessions (%d):\n", len(l.SessionIDs))
	for _, id := range l.SessionIDs {
		fmt.Fprintf(o.w, "  - %s\n", id)
	}
}

func (o *Output) printHighScores(h HighScores) {
	fmt.Fprintf(o.w, "High scores (%s):\n", h.Mode)
	if len(h.Scores) == 0 {
		fmt.Fprintln(o.w, "  none yet")
		return
	}
	for _, s := range h.Scores {
		fmt.Fprintf(o.w, "  %d. %7d  lines %-4d level %-3d %s\n",
			s.Rank, s.Score, s.Lines, s.Level, s.AchievedAt.Format(time.DateOnly))
	}
}

func (o *Output) printChallenges(c ChallengeList) {
	for _, l := range c.Levels {
		state := "locked"
		if l.Unlocked {
			state = "unlocked"
		}
		fmt.Fprintf(o.w, "  %2d. %-6s %5d in %3d pieces  [%s]\n",
			l.Level, l.TargetType, l.TargetValue, l.PiecesLimit, state)
	}
}
