// chatcli runs the deterministic engine against stdin for local
// testing: one line in, one reply out, state carried in-process.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	appconfig "github.com/sunsweeper/sunsweeper-ai-platform/internal/config"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/conversation"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/knowledge"
	"github.com/sunsweeper/sunsweeper-ai-platform/internal/outcome"
	"github.com/sunsweeper/sunsweeper-ai-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New("warn")

	store, err := knowledge.Load(cfg.KnowledgeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "knowledge load failed, running fail-closed: %v\n", err)
		store = nil
	}

	sink, err := outcome.NewFileSink(cfg.OutcomeLogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open outcome log %s: %v\n", cfg.OutcomeLogPath, err)
		os.Exit(1)
	}
	defer sink.Close()

	engine := conversation.NewEngine(store, outcome.NewRecorder(sink, logger), logger)
	state := conversation.NewState()
	conversationID := uuid.NewString()
	ctx := context.Background()

	fmt.Println("sunsweeper chat (ctrl-d to quit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := scanner.Text()
		if message == "" {
			continue
		}
		var reply string
		reply, state = engine.Handle(ctx, conversationID, message, state)
		fmt.Println(reply)
		if state.Booking != nil {
			fmt.Printf("[booked: %d panels on %s at %s, %s]\n",
				state.Booking.PanelCount, state.Booking.RequestedDate,
				state.Booking.Time, conversation.FormatUSD(state.Booking.TotalUSD))
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "stdin: %v\n", err)
		os.Exit(1)
	}
}
