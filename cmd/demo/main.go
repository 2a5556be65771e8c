// Console chat against the orchestrator in simulation mode. No database,
// redis or API keys needed; useful for exercising the selection and
// integration behavior by hand.
package main

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"unified-ai-chat/internal/unified"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	svc := unified.New(unified.ModeSimulated, nil, rng, &log)

	info := svc.Info()
	fmt.Println(info.Description)
	fmt.Printf("%d models configured, simulation mode. Type a message, Ctrl-D to quit.\n\n", info.TotalModels)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		message := strings.TrimSpace(scanner.Text())
		if message == "" {
			continue
		}
		res := svc.Handle(context.Background(), message, "demo-session", "demo-user")
		fmt.Printf("\n%s\n", res.Response)
		fmt.Printf("  [models: %s | sentiment: %s | topic: %s | complexity: %s]\n\n",
			strings.Join(res.ProvidersUsed, ", "),
			res.Context.Sentiment, res.Context.Topic, res.Context.Complexity)
	}
}
