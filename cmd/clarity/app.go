package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/entrhq/clarity/pkg/bootdoc"
	appconfig "github.com/entrhq/clarity/pkg/config"
	"github.com/entrhq/clarity/pkg/llm"
	"github.com/entrhq/clarity/pkg/logging"
	"github.com/entrhq/clarity/pkg/memory"
	"github.com/entrhq/clarity/pkg/session"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	okStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Faint(true)
)

// app holds the interactive session state. Everything with real invariants
// lives in the packages it delegates to; the app is glue.
type app struct {
	cfg         *appconfig.Config
	doc         *bootdoc.Doc
	provider    llm.Provider
	writer      *session.Writer
	temperature float64
	log         *logging.Logger

	// Memory wiring; nil when long-term memory is disabled.
	store     *memory.FileStore
	finalizer *memory.Finalizer

	history []session.Turn
}

// run drives the read-eval-print loop until /exit, EOF, or cancellation.
func (a *app) run(ctx context.Context) {
	fmt.Println(okStyle.Render("✓ Loaded boot doc from " + a.doc.Path))
	fmt.Println(dimStyle.Render(fmt.Sprintf("Model: %s (temp: %.2f)", a.provider.GetModel(), a.temperature)))
	fmt.Println(dimStyle.Render("Type your message or /help for commands"))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			a.finalize(context.Background())
			return
		default:
		}

		fmt.Print(promptStyle.Render("Clarity > "))
		if !scanner.Scan() {
			fmt.Println()
			a.finalize(context.Background())
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := a.handleCommand(input); quit {
				a.finalize(context.Background())
				return
			}
			continue
		}

		a.exchange(ctx, input)
	}
}

// exchange sends one user message and prints the assistant reply.
func (a *app) exchange(ctx context.Context, input string) {
	a.appendTurn(session.RoleUser, input)

	reply, err := a.provider.Complete(ctx, a.buildMessages())
	if err != nil {
		a.log.Errorf("Completion failed: %v", err)
		fmt.Println(errorStyle.Render("Error getting response: " + err.Error()))
		return
	}

	a.appendTurn(session.RoleAssistant, reply.Content)
	fmt.Println(assistantStyle.Render("Assistant: ") + reply.Content)
	fmt.Println()
}

// buildMessages assembles the request: boot doc, memory context, history.
func (a *app) buildMessages() []*llm.Message {
	messages := []*llm.Message{llm.NewSystemMessage(a.doc.Content)}
	if a.store != nil {
		if record := a.store.Load(); record != nil {
			messages = append(messages, llm.NewSystemMessage(record.ContextBlock()))
		}
	}
	for _, turn := range a.history {
		messages = append(messages, &llm.Message{Role: string(turn.Role), Content: turn.Content})
	}
	return messages
}

// appendTurn records a turn in both the in-memory history and the transcript.
func (a *app) appendTurn(role session.Role, content string) {
	a.history = append(a.history, session.Turn{Role: role, Content: content})
	if err := a.writer.Append(role, content); err != nil {
		a.log.Warnf("Transcript append failed: %v", err)
	}
}

// handleCommand dispatches a slash command. It returns true when the loop
// should exit.
func (a *app) handleCommand(input string) bool {
	cmd, rest, _ := strings.Cut(input, " ")
	switch strings.ToLower(cmd) {
	case "/exit", "/quit":
		return true
	case "/help":
		a.showHelp()
	case "/reset":
		a.history = nil
		fmt.Println(warnStyle.Render("Conversation history cleared. Starting a new conversation."))
	case "/reload":
		doc, err := bootdoc.Load(a.doc.Path)
		if err != nil {
			fmt.Println(errorStyle.Render("Reload failed: " + err.Error()))
			break
		}
		a.doc = doc
		a.history = nil
		fmt.Println(okStyle.Render("✓ Boot document reloaded"))
	case "/bootdoc", "/which_bootdoc":
		fmt.Println("Current boot document: " + a.doc.Path)
	case "/memory":
		a.handleMemoryCommand(strings.TrimSpace(rest))
	default:
		fmt.Println(warnStyle.Render("Unknown command. Type /help for the command list."))
	}
	return false
}

// handleMemoryCommand shows or edits the long-term memory record.
func (a *app) handleMemoryCommand(args string) {
	if a.store == nil {
		fmt.Println("Long-term memory is disabled in settings")
		return
	}
	if args == "" {
		a.showMemory()
		return
	}

	action, rest, _ := strings.Cut(args, " ")
	field, value, _ := strings.Cut(strings.TrimSpace(rest), " ")
	value = strings.Trim(strings.TrimSpace(value), `"'`)

	record := a.store.Load()
	if record == nil {
		record = &memory.Record{}
	}

	switch {
	case action == "set" && field == "user_profile" && value != "":
		record.UserProfile = value
	case action == "add" && field == "preference" && value != "":
		record = memory.Merge(record, &memory.Record{Preferences: []string{value}})
	default:
		fmt.Println(warnStyle.Render("Usage: /memory [set user_profile <text> | add preference <text>]"))
		return
	}

	if err := a.store.Save(record); err != nil {
		a.log.Errorf("Manual memory save failed: %v", err)
		fmt.Println(errorStyle.Render("Failed to update memory: " + err.Error()))
		return
	}
	fmt.Println(okStyle.Render("✓ Memory updated"))
}

func (a *app) showMemory() {
	record := a.store.Load()
	if record == nil {
		fmt.Println("No long-term memory found. Share some information about yourself or your work to build memory.")
		return
	}
	fmt.Println()
	fmt.Println(dimStyle.Render("=== Long-term Memory ==="))
	fmt.Print(record.ContextBlock())
	fmt.Println()
}

func (a *app) showHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  /help           - Show this help message")
	fmt.Println("  /exit           - Exit the program (saves memory)")
	fmt.Println("  /quit           - Alias for /exit")
	fmt.Println("  /reset          - Clear conversation history")
	fmt.Println("  /reload         - Reload the boot document")
	fmt.Println("  /bootdoc        - Print the current boot document path")
	if a.store != nil {
		fmt.Println("  /memory         - Show or edit the long-term memory record")
	}
	fmt.Println()
}

// finalize runs the once-per-run summarize-then-save cycle. Safe to call
// from every exit path; only the first call does work.
func (a *app) finalize(ctx context.Context) {
	if a.finalizer == nil {
		return
	}
	fmt.Println(warnStyle.Render("Saving session..."))
	if err := a.finalizer.Finalize(ctx, a.history); err != nil {
		a.log.Errorf("Finalize failed: %v", err)
		fmt.Println(warnStyle.Render("! Memory unchanged this session: " + err.Error()))
		return
	}
	fmt.Println(okStyle.Render("✓ Session saved"))
}

// Close releases the transcript and debug log files.
func (a *app) Close() {
	if a.writer != nil {
		_ = a.writer.Close()
	}
	if a.log != nil {
		_ = a.log.Close()
	}
}
