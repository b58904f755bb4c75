package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/models"
)

func newPromptCmd(c *cli) *cobra.Command {
	var req models.PromptRequest

	cmd := &cobra.Command{
		Use:   "prompt <text>...",
		Short: "Send a prompt to an agent",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.requireSession(cmd.Context()); err != nil {
				return err
			}

			req.Prompt = strings.Join(args, " ")
			resp, err := c.services.AgentService.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), resp.Output)
			fmt.Fprintf(cmd.ErrOrStderr(), "agent: %s, conversation: %s, tokens: %s, cost: $%.4f\n",
				orDash(resp.Agent), orDash(resp.ConversationID), humanize.Comma(resp.TokensUsed), resp.CostUSD)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Agent, "agent", "", "agent to route the prompt to")
	cmd.Flags().StringVar(&req.ConversationID, "conversation", "", "continue a conversation")
	cmd.Flags().StringToStringVar(&req.Context, "context", nil, "extra context as key=value pairs")

	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
