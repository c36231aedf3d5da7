package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dugoutai/dugout/config"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]",
	Short: "Ask a question, or start an interactive session",
	Long: `With an argument, answers a single question and exits. Without one,
starts an interactive loop sharing a single session; type "exit" to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		assistant, err := buildAssistant(ctx, cfg, buildLogger(cfg))
		if err != nil {
			return err
		}

		if len(args) == 1 {
			res, err := assistant.Ask(ctx, "", args[0])
			if err != nil {
				return err
			}
			fmt.Println(res.Answer)
			return nil
		}

		fmt.Println("dugout interactive mode (type \"exit\" to quit)")
		sessionID := ""
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}

			res, err := assistant.Ask(ctx, sessionID, line)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			sessionID = res.SessionID
			fmt.Println(res.Answer)
		}
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
