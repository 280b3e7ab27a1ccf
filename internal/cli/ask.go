package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphaelgruber/newsrag/internal/client"
	"github.com/raphaelgruber/newsrag/internal/models"
)

var askSession string

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about the article catalog",
	Long: `Ask a question about the article catalog.

The LLM decides whether to search article content or the people index
before answering, and cites the articles it used.

Pass --session to keep conversation history across questions, or
--server to send the question to a running newsrag server.

Examples:
  newsrag ask "What happened with the city budget?"
  newsrag ask "Who is mentioned in the budget article?" --session session-abc
  newsrag ask "Any news about the election?" --server http://localhost:8000`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askSession, "session", "", "session ID for conversation history")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]
	ctx := cmd.Context()

	if serverURL != "" {
		resp, err := client.New(serverURL).Query(ctx, question, askSession)
		if err != nil {
			return err
		}
		printAnswer(resp.Answer, sourcesLines(resp.Sources))
		if askSession == "" {
			fmt.Printf("\nSession: %s\n", resp.SessionID)
		}
		return nil
	}

	svc, err := getRAG(ctx)
	if err != nil {
		return err
	}

	sessionID := askSession
	if sessionID == "" {
		sessionID = svc.Sessions().CreateSession()
	}

	answer, sources, err := svc.Query(ctx, question, sessionID)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}

	printAnswer(answer, sourcesLines(sources))
	if askSession == "" {
		fmt.Printf("\nSession: %s\n", sessionID)
	}
	return nil
}

func sourcesLines(sources []models.Source) []string {
	lines := make([]string, 0, len(sources))
	for _, s := range sources {
		line := fmt.Sprintf("[%d] %s", s.Index, s.Text)
		if s.URL != nil {
			line += " - " + *s.URL
		}
		lines = append(lines, line)
	}
	return lines
}

func printAnswer(answer string, sources []string) {
	fmt.Println(answer)
	if len(sources) > 0 {
		fmt.Println("\nSources:")
		for _, line := range sources {
			fmt.Printf("  %s\n", line)
		}
	}
}
