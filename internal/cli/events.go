package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events <id>",
		Short: "Stream a session's events",
		Long: `Connect to the session's websocket endpoint and stream events in real-time.

The first event is always session_state, carrying the full session. After
that, events include:
  - piece_spawned / piece_locked: A piece entered or settled on the board
  - lines_pending / lines_cleared: Rows filled and then removed
  - level_up: Gravity sped up
  - paused / resumed: The session was paused or resumed
  - fog_changed: Invisible-mode visibility changed
  - game_over / game_won: The session ended
  - level_unlocked: A challenge win opened the next level
  - game_reset: The session restarted

The stream ends when the session ends. Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, args[0], cmd.OutOrStdout(), jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// StreamEvent is an event as received from the server
type StreamEvent struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	SessionID string          `json:"session_id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func streamEvents(ctx context.Context, id string, w io.Writer, jsonOutput bool) error {
	wsURL, err := client.WebSocketURL(sessionPath(id, "events"))
	if err != nil {
		return err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("connection failed: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	// Unblock ReadMessage on cancellation
	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Fprintf(w, "Connected to session %s\n", id)
	}

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Fprintln(w, "Disconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		if jsonOutput {
			fmt.Fprintln(w, string(message))
			continue
		}

		var evt StreamEvent
		if err := json.Unmarshal(message, &evt); err != nil {
			return errors.Join(fmt.Errorf("malformed event"), err)
		}
		printEvent(w, evt)
	}
}

func printEvent(w io.Writer, evt StreamEvent) {
	timestamp := evt.Timestamp.Local().Format(time.DateTime)
	if evt.Type == "session_state" {
		fmt.Fprintf(w, "[%s] %s\n", timestamp, evt.Type)
		var s Session
		if err := json.Unmarshal(evt.Payload, &s); err == nil {
			NewOutput("text", w).Print(s)
		}
		return
	}

	displayData := string(evt.Payload)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, evt.Type, displayData)
}
