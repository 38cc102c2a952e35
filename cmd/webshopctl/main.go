// Command webshopctl sends contact messages and reviews to the webshop
// backend and checks its health.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/junaidrashid-git/webshop/apiclient"
	"github.com/junaidrashid-git/webshop/config"
	"github.com/junaidrashid-git/webshop/feedback"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	host    string
	baseURL string
}

func (o *options) client() *apiclient.Client {
	base := o.baseURL
	if base == "" {
		base = apiclient.BaseURL(o.host, config.Defaults().DeployedBaseURL)
	}
	return apiclient.New(base)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "webshopctl",
		Short:         "Talk to the webshop backend",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.host, "host", "localhost",
		"hostname the page would be served from; localhost selects the local backend")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", os.Getenv("WEBSHOP_BASE_URL"),
		"backend URL, overrides --host")

	root.AddCommand(newContactCmd(opts), newReviewCmd(opts), newHealthCmd(opts))
	return root
}

func newContactCmd(opts *options) *cobra.Command {
	var form feedback.ContactForm
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message through the contact form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "Sending...")
			msg, err := opts.client().SubmitContact(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&form.Name, "name", "", "your name")
	cmd.Flags().StringVar(&form.Email, "email", "", "your email address")
	cmd.Flags().StringVar(&form.Message, "message", "", "the message")
	return cmd
}

func newReviewCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Add or list product reviews",
	}

	var form feedback.ReviewForm
	add := &cobra.Command{
		Use:   "add",
		Short: "Submit a review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.ErrOrStderr(), "Submitting...")
			if err := opts.client().SubmitReview(cmd.Context(), form); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Review submitted!")
			return nil
		},
	}
	add.Flags().StringVar(&form.Name, "name", "", "your name")
	add.Flags().StringVar(&form.Message, "message", "", "the review")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show reviews, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reviews, err := opts.client().ListReviews(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(reviews) == 0 {
				fmt.Fprintln(out, "No reviews yet.")
				return nil
			}
			for _, r := range reviews {
				fmt.Fprintf(out, "%s: %s\n", r.Name, r.Message)
			}
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the backend and its database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := opts.client().Health(cmd.Context())
			if err != nil {
				return err
			}
			db := "connected"
			if h.Database != 1 {
				db = "disconnected"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "status: %s, database: %s\n", h.Status, db)
			return nil
		},
	}
}
