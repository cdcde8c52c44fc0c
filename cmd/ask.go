package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <request>",
		Short: "Handle a single natural-language request and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildRuntime()
			if err != nil {
				return err
			}

			utterance := strings.Join(args, " ")
			result := rt.dispatcher.Handle(cmd.Context(), utterance, rt.conversation)
			printResult(result)

			if result.Status == agent.StatusError && !result.Recoverable() {
				return fmt.Errorf("request failed: %s", result.Message)
			}
			return nil
		},
	}
}

func printResult(result agent.OperationResult) {
	switch {
	case result.Status == agent.StatusOK:
		fmt.Println(result.Payload)
	case result.Recoverable():
		color.Yellow("🤔 %s", result.Message)
	default:
		color.Red("❌ %s", result.Message)
	}
}
