package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wqeqwqeq/AzureAgent/internal/agent"
	"github.com/wqeqwqeq/AzureAgent/internal/agent/specialists"
)

func newCapabilitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capabilities",
		Short: "List the registered specialists, their keywords and operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fallback, domain := specialists.Load()
			registry, err := agent.NewRegistry(fallback, domain...)
			if err != nil {
				return err
			}

			for _, entry := range registry.Entries() {
				color.Cyan("%s", entry.SpecialistID)
				fmt.Printf("  keywords:   %s\n", strings.Join(entry.Keywords, ", "))
				fmt.Printf("  operations: %s\n", strings.Join(entry.Operations, ", "))

				required := make([]string, len(entry.RequiredFields))
				for i, field := range entry.RequiredFields {
					required[i] = string(field)
				}
				fmt.Printf("  requires:   %s\n\n", strings.Join(required, ", "))
			}

			return nil
		},
	}
}
