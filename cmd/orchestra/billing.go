// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/orchestra/internal/service"
	"github.com/MKhiriev/orchestra/models"
)

func newPlansCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List subscription plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.optionalSession(cmd.Context()); err != nil {
				return err
			}

			plans, err := c.services.BillingService.Plans(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tFEATURES")
			for _, p := range plans {
				name := p.Name
				if p.Popular {
					name += " *"
				}
				price := formatPrice(p.PriceCents, p.Currency) + "/" + string(p.Interval)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, name, price, strings.Join(p.Features, ", "))
			}
			return tw.Flush()
		},
	}
}

func newSubscriptionCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Manage the subscription",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(cmd, args); err != nil {
				return err
			}
			_, err := c.requireSession(cmd.Context())
			return err
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the current subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := c.services.BillingService.Subscription(cmd.Context())
			if errors.Is(err, service.ErrNoSubscription) {
				fmt.Fprintln(cmd.OutOrStdout(), "No subscription, see 'orchestra plans'")
				return nil
			}
			if err != nil {
				return err
			}

			printSubscription(cmd, sub)
			return nil
		},
	}

	var req models.CheckoutRequest
	checkoutCmd := &cobra.Command{
		Use:   "checkout <plan>",
		Short: "Start a checkout for a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PlanID = args[0]

			session, err := c.services.BillingService.Checkout(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), session.URL)
			return nil
		},
	}
	checkoutCmd.Flags().StringVar(&req.SuccessURL, "success-url", "", "page to return to after payment")
	checkoutCmd.Flags().StringVar(&req.CancelURL, "cancel-url", "", "page to return to when payment is abandoned")

	portalCmd := &cobra.Command{
		Use:   "portal",
		Short: "Print the billing portal URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			portal, err := c.services.BillingService.Portal(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), portal.URL)
			return nil
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription at the end of the period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub, err := c.services.BillingService.Cancel(cmd.Context())
			if err != nil {
				return err
			}
			printSubscription(cmd, sub)
			return nil
		},
	}

	cmd.AddCommand(showCmd, checkoutCmd, portalCmd, cancelCmd)
	return cmd
}

func printSubscription(cmd *cobra.Command, sub models.Subscription) {
	w := cmd.OutOrStdout()
	printField(w, "Plan", sub.PlanID)
	printField(w, "Status", string(sub.Status))
	if sub.CurrentPeriodEnd.IsZero() {
		return
	}

	label := "Renews"
	if sub.CancelAtPeriodEnd {
		label = "Ends"
	}
	printField(w, label, sub.CurrentPeriodEnd.Format("2006-01-02")+" ("+humanize.Time(sub.CurrentPeriodEnd)+")")
}
