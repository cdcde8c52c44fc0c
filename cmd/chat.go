package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [initial request]",
		Short: "Start an interactive conversation that keeps context across turns",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}

			var initialQuery string
			if len(args) > 0 {
				initialQuery = strings.Join(args, " ")
			}

			scanner := bufio.NewScanner(os.Stdin)

			for {
				var userInput string

				if initialQuery != "" {
					userInput = initialQuery
					initialQuery = ""
					color.Cyan("💬 You: %s\n", userInput)
				} else {
					fmt.Print(color.CyanString("\n💬 You: "))
					if !scanner.Scan() {
						break
					}
					userInput = strings.TrimSpace(scanner.Text())
				}

				if userInput == "" {
					continue
				}
				if userInput == "exit" || userInput == "quit" {
					break
				}

				result := rt.dispatcher.Handle(cmd.Context(), userInput, rt.conversation)
				printResult(result)
			}

			return scanner.Err()
		},
	}
}
