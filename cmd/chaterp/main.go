// Command chaterp is a terminal client for the ChatERP backend: pick an
// advisor, exchange streamed messages, and manage locally persisted chat
// sessions with slash commands.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dotku/chaterp/internal/config"
	"github.com/dotku/chaterp/internal/engine"
	"github.com/dotku/chaterp/internal/model/advisor"
	"github.com/dotku/chaterp/internal/model/chat"
	"github.com/dotku/chaterp/internal/storage"
	"github.com/dotku/chaterp/internal/think"
	"github.com/dotku/chaterp/internal/transport"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	advisorID := cfg.Client.AdvisorID
	if len(os.Args) > 1 {
		advisorID = os.Args[1]
	}
	advisors := advisor.NewMemoryStore(advisor.Seed())
	adv, ok := advisors.FindByID(advisorID)
	if !ok {
		log.Fatalf("unknown advisor %q; known advisors: %s", advisorID, advisorIDs(advisors))
	}

	store, err := openStore(cfg.Client)
	if err != nil {
		log.Fatalf("failed to open session storage: %v", err)
	}
	defer store.Close()

	mode := transport.ModeChunked
	if cfg.Client.Transport == "events" {
		mode = transport.ModeEvents
	}
	client := transport.NewClient(cfg.Client.BaseURL, mode, 0)

	eng := engine.New(adv.ID, store, client, cfg.Client.RequestTimeout)
	eng.SetThinkMode(cfg.Client.ThinkMode)

	fmt.Printf("%s %s — %s\n", adv.Icon, adv.Name, adv.Description)
	fmt.Println(`Type a message, or /help for commands.`)

	runLoop(ctx, eng)
}

func openStore(cfg config.ClientConfig) (*storage.SessionStore, error) {
	var (
		kv  storage.KV
		err error
	)
	if cfg.Storage == "badger" {
		kv, err = storage.OpenBadger(cfg.StoragePath)
	} else {
		kv, err = storage.NewFileKV(cfg.StoragePath)
	}
	if err != nil {
		return nil, err
	}
	return storage.NewSessionStore(kv), nil
}

func runLoop(ctx context.Context, eng *engine.Engine) {
	// Stream the draft to the terminal as fragments arrive. The observer
	// gets the accumulated total, so only the unseen suffix is printed.
	var printed int
	eng.SetOnDraft(func(draft chat.Message) {
		if len(draft.Content) > printed {
			fmt.Print(draft.Content[printed:])
			printed = len(draft.Content)
		}
	})

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if exit := runCommand(eng, line); exit {
				return
			}
			continue
		}

		printed = 0
		fmt.Print("advisor> ")
		eng.SendMessage(ctx, line)
		fmt.Println()
		printAssistantReply(eng, printed)
	}
}

// printAssistantReply handles the parts streaming did not show: the apology
// on failure (never streamed) and the reasoning hint.
func printAssistantReply(eng *engine.Engine, streamed int) {
	messages := eng.Messages()
	if len(messages) == 0 {
		return
	}
	last := messages[len(messages)-1]
	if last.IsUser {
		return
	}
	if streamed == 0 && last.Content != "" {
		fmt.Println(last.Content)
	}
	if parsed := think.Parse(last.Content); parsed.HasReasoning {
		fmt.Printf("(reasoning available — /expand %s to toggle)\n", last.ID)
	}
}

func runCommand(eng *engine.Engine, line string) (exit bool) {
	parts := strings.Fields(line)
	switch parts[0] {
	case "/exit", "/quit":
		return true
	case "/new":
		eng.StartNewSession()
		fmt.Printf("started session %s\n", eng.SessionID())
	case "/clear":
		eng.ClearConversation()
		fmt.Println("conversation cleared")
	case "/think":
		eng.SetThinkMode(!eng.ThinkMode())
		fmt.Printf("think mode: %v\n", eng.ThinkMode())
	case "/sessions":
		for _, session := range eng.History() {
			marker := " "
			if session.SessionID == eng.SessionID() {
				marker = "*"
			}
			fmt.Printf("%s %s  %s (%d messages)\n", marker, session.SessionID, session.Title, len(session.Messages))
		}
	case "/load":
		if len(parts) < 2 {
			fmt.Println("usage: /load <session-id>")
			break
		}
		eng.LoadSession(parts[1])
		printTranscript(eng)
	case "/delete":
		if len(parts) < 2 {
			fmt.Println("usage: /delete <session-id>")
			break
		}
		eng.DeleteSession(parts[1])
		fmt.Printf("active session: %s\n", eng.SessionID())
	case "/expand":
		if len(parts) < 2 {
			fmt.Println("usage: /expand <message-id>")
			break
		}
		eng.ToggleThinkExpanded(parts[1])
		printReasoning(eng, parts[1])
	case "/history":
		printTranscript(eng)
	case "/help":
		fmt.Println(`commands:
  /new               start a new session
  /clear             clear the current conversation
  /think             toggle think mode
  /sessions          list sessions
  /load <id>         switch to a session
  /delete <id>       delete a session
  /expand <msg-id>   toggle a message's reasoning
  /history           show the current transcript
  /exit              quit`)
	default:
		fmt.Printf("unknown command %s (try /help)\n", parts[0])
	}
	return false
}

func printTranscript(eng *engine.Engine) {
	for _, msg := range eng.Messages() {
		role := "advisor"
		if msg.IsUser {
			role = "you"
		}
		content := msg.Content
		if !msg.IsUser {
			parsed := think.Parse(content)
			if parsed.HasReasoning && !eng.ThinkExpanded(msg.ID) {
				content = parsed.Answer
			}
		}
		fmt.Printf("%s> %s\n", role, content)
	}
}

func printReasoning(eng *engine.Engine, messageID string) {
	if !eng.ThinkExpanded(messageID) {
		fmt.Println("reasoning hidden")
		return
	}
	for _, msg := range eng.Messages() {
		if msg.ID != messageID {
			continue
		}
		parsed := think.Parse(msg.Content)
		if !parsed.HasReasoning {
			fmt.Println("no reasoning in that message")
			return
		}
		fmt.Printf("--- reasoning ---\n%s\n-----------------\n", parsed.Reasoning)
		return
	}
	fmt.Println("message not found")
}

func advisorIDs(store advisor.Store) string {
	items := store.List()
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return strings.Join(ids, ", ")
}
