package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevencode7/rafiq/internal/app"
	"github.com/sevencode7/rafiq/internal/assistant"
	"github.com/sevencode7/rafiq/internal/chat"
	"github.com/sevencode7/rafiq/internal/markdown"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant",
	Long:  "Without a subcommand, opens the active chat and reads questions line by line until EOF or /exit.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

var chatNewCmd = &cobra.Command{
	Use:   "new [title]",
	Short: "Start a new chat and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		s := a.Chats.Create(strings.Join(args, " "))
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.ID, s.Title)
		return nil
	},
}

var chatListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List chats, most recent first",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		active, _ := a.Chats.Active()
		for _, s := range a.Chats.List() {
			marker := " "
			if s.ID == active.ID {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\t%s\t(%d)\n", marker, s.ID, s.Title, len(s.Messages))
		}
		return nil
	},
}

var chatUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a chat active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		if !a.Chats.SetActive(args[0]) {
			return fmt.Errorf("chat not found: %s", args[0])
		}
		return nil
	},
}

var chatRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a chat",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		if _, ok := a.Chats.Get(args[0]); !ok {
			return fmt.Errorf("chat not found: %s", args[0])
		}
		a.Chats.Rename(args[0], strings.Join(args[1:], " "))
		return nil
	},
}

var chatDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a chat",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		a.Chats.Delete(args[0])
		return nil
	},
}

var chatShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a chat, the active one by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := clientApp(cmd.Context())
		if err != nil {
			return err
		}
		r, err := markdown.NewRenderer(markdown.DefaultWidth)
		if err != nil {
			return err
		}

		var s chat.Session
		if len(args) == 1 {
			var ok bool
			if s, ok = a.Chats.Get(args[0]); !ok {
				return fmt.Errorf("chat not found: %s", args[0])
			}
		} else {
			s = a.Chats.EnsureActive()
		}
		fmt.Fprintln(cmd.OutOrStdout(), r.Session(s))
		return nil
	},
}

var chatAskCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Ask the assistant in the active chat",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return askOnce(cmd, args)
	},
}

func askOnce(cmd *cobra.Command, args []string) error {
	a, err := clientApp(cmd.Context())
	if err != nil {
		return err
	}
	r, err := markdown.NewRenderer(markdown.DefaultWidth)
	if err != nil {
		return err
	}
	a.Chats.EnsureActive()
	return ask(cmd, a, r, strings.Join(args, " "))
}

// ask sends one question and prints the reply. An unreachable assistant is
// reported in the transcript, not as a command error.
func ask(cmd *cobra.Command, a *app.App, r *markdown.Renderer, text string) error {
	reply, err := a.Assistant.Ask(cmd.Context(), text)
	switch {
	case errors.Is(err, assistant.ErrAssistantUnavailable):
		fmt.Fprintln(cmd.OutOrStdout(), r.Notice(assistant.UnavailableMessage))
		return nil
	case err != nil:
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.Message(chat.Message{Role: chat.RoleAssistant, Content: reply.Text}))
	return nil
}

func runInteractive(cmd *cobra.Command) error {
	a, err := clientApp(cmd.Context())
	if err != nil {
		return err
	}
	r, err := markdown.NewRenderer(markdown.DefaultWidth)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Session(a.Chats.EnsureActive()))

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		}

		if err := ask(cmd, a, r, line); err != nil {
			return err
		}
		if cmd.Context().Err() != nil {
			return nil
		}
	}
}

func init() {
	chatCmd.AddCommand(chatNewCmd, chatListCmd, chatUseCmd, chatRenameCmd, chatDeleteCmd, chatShowCmd, chatAskCmd)
	rootCmd.AddCommand(chatCmd)
}
