package e2e_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/neontetris/internal/api"
	"github.com/mcoot/neontetris/internal/factory"
	"github.com/mcoot/neontetris/internal/services/game"
	"github.com/mcoot/neontetris/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	projectRoot := findProjectRoot(t)

	binaryPath := filepath.Join(t.TempDir(), "tetris-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/tetris")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	return r.runAs("json", args...)
}

func (r *cliRunner) runAs(format string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--output", format,
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// startTestServer runs the real API on a free port with gravity slowed to
// an hour, so pieces only move when the CLI says so
func startTestServer(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	gameCfg := game.DefaultConfig()
	gameCfg.Engine.Rules.BaseInterval = time.Hour
	gameCfg.Engine.Rules.MinInterval = time.Hour

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger, Game: gameCfg})
	require.NoError(t, err)

	server := &http.Server{
		Addr: addr,
		Handler: api.NewRouter(api.RouterConfig{
			Logger:         logger,
			GameController: app.GameController,
			HubManager:     app.HubManager,
		}),
	}

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
		_ = app.Close()
	})

	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")
	return serverURL
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing
type pieceResponse struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

type sessionResponse struct {
	ID           string         `json:"id"`
	Mode         string         `json:"mode"`
	Phase        string         `json:"phase"`
	Grid         [][]int        `json:"grid"`
	CurrentPiece *pieceResponse `json:"current_piece"`
	Score        int            `json:"score"`
	Challenge    *struct {
		Level       int `json:"level"`
		PiecesLimit int `json:"pieces_limit"`
	} `json:"challenge"`
}

type commandResponse struct {
	Command string          `json:"command"`
	Applied bool            `json:"applied"`
	Session sessionResponse `json:"session"`
}

type snapshotListResponse struct {
	SessionIDs []string `json:"session_ids"`
}

type challengesResponse struct {
	Levels []struct {
		Level    int  `json:"level"`
		Unlocked bool `json:"unlocked"`
	} `json:"levels"`
}

func decode[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(output), &v), "output: %s", output)
	return v
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}

	serverURL := startTestServer(t)
	cli := newCLIRunner(t, serverURL)

	var sessionID string

	t.Run("health", func(t *testing.T) {
		output, err := cli.run("health")
		require.NoError(t, err, output)
		assert.Contains(t, output, `"status": "ok"`)
	})

	t.Run("session start", func(t *testing.T) {
		output, err := cli.run("session", "start", "--mode", "classic")
		require.NoError(t, err, output)

		session := decode[sessionResponse](t, output)
		assert.NotEmpty(t, session.ID)
		assert.Equal(t, "classic", session.Mode)
		assert.Equal(t, "falling", session.Phase)
		require.NotNil(t, session.CurrentPiece)
		sessionID = session.ID
	})

	t.Run("send commands", func(t *testing.T) {
		output, err := cli.run("send", sessionID, "left", "drop")
		require.NoError(t, err, output)

		result := decode[commandResponse](t, output)
		assert.Equal(t, "hard-drop", result.Command)
		assert.True(t, result.Applied)

		filled := 0
		for _, v := range result.Session.Grid[len(result.Session.Grid)-1] {
			if v != 0 {
				filled++
			}
		}
		assert.Positive(t, filled)
	})

	t.Run("send rejects unknown command", func(t *testing.T) {
		output, err := cli.run("send", sessionID, "teleport")
		assert.Error(t, err)
		assert.Contains(t, output, "unknown command")
	})

	t.Run("save and list", func(t *testing.T) {
		output, err := cli.run("session", "save", sessionID)
		require.NoError(t, err, output)
		assert.Contains(t, output, sessionID)

		output, err = cli.run("snapshot", "list")
		require.NoError(t, err, output)
		list := decode[snapshotListResponse](t, output)
		assert.Contains(t, list.SessionIDs, sessionID)
	})

	t.Run("end and restore", func(t *testing.T) {
		output, err := cli.run("session", "end", sessionID)
		require.NoError(t, err, output)

		output, err = cli.run("session", "get", sessionID)
		assert.Error(t, err)
		assert.Contains(t, output, "SESSION_NOT_FOUND")

		output, err = cli.run("snapshot", "restore", sessionID)
		require.NoError(t, err, output)
		session := decode[sessionResponse](t, output)
		assert.Equal(t, sessionID, session.ID)
		assert.Equal(t, "paused", session.Phase)
	})

	t.Run("text output", func(t *testing.T) {
		output, err := cli.runAs("text", "session", "get", sessionID)
		require.NoError(t, err, output)
		assert.Contains(t, output, "Session: "+sessionID)
		assert.Contains(t, output, "Phase: paused")
	})

	t.Run("snapshot delete", func(t *testing.T) {
		output, err := cli.run("snapshot", "delete", sessionID)
		require.NoError(t, err, output)

		output, err = cli.run("snapshot", "list")
		require.NoError(t, err, output)
		list := decode[snapshotListResponse](t, output)
		assert.NotContains(t, list.SessionIDs, sessionID)
	})

	t.Run("challenges", func(t *testing.T) {
		output, err := cli.run("challenges")
		require.NoError(t, err, output)

		challenges := decode[challengesResponse](t, output)
		require.Len(t, challenges.Levels, 15)
		assert.True(t, challenges.Levels[0].Unlocked)
		assert.False(t, challenges.Levels[1].Unlocked)
	})

	t.Run("locked challenge level", func(t *testing.T) {
		output, err := cli.run("session", "start", "--mode", "challenge", "--level", "3")
		assert.Error(t, err)
		assert.Contains(t, output, "LEVEL_LOCKED")
	})

	t.Run("next level before winning", func(t *testing.T) {
		output, err := cli.run("session", "start", "--mode", "challenge")
		require.NoError(t, err, output)

		session := decode[sessionResponse](t, output)
		require.NotNil(t, session.Challenge)
		assert.Equal(t, 1, session.Challenge.Level)

		output, err = cli.run("session", "next-level", session.ID)
		assert.Error(t, err)
		assert.Contains(t, output, "GAME_NOT_WON")
	})

	t.Run("highscores", func(t *testing.T) {
		output, err := cli.run("highscores", "classic")
		require.NoError(t, err, output)
		assert.Contains(t, output, `"mode": "classic"`)

		output, err = cli.run("highscores", "marathon")
		assert.Error(t, err)
		assert.Contains(t, output, "UNKNOWN_MODE")
	})
}
