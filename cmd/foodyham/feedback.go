package main

import (
	"github.com/spf13/cobra"

	"github.com/example/foodyham/internal/domain/feedback"
)

func (c *cli) feedbackCmd() *cobra.Command {
	var f feedback.Feedback

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Tell us how we did",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// signed-in users default to their own name and email
			if identity, ok := c.app.Session.Identity(); ok {
				if f.Name == "" {
					f.Name = identity.Name
				}
				if f.Email == "" {
					f.Email = identity.Email
				}
			}
			if err := c.app.Client.SubmitFeedback(cmd.Context(), f); err != nil {
				return err
			}
			c.success("Thank you! Your feedback has been successfully submitted.")
			return nil
		},
	}

	cmd.Flags().IntVarP(&f.Rating, "rating", "r", 0, "Rating from 1 to 5")
	cmd.Flags().StringVarP(&f.Comment, "comment", "m", "", "Your comments")
	cmd.Flags().StringVar(&f.Name, "name", "", "Your name (optional)")
	cmd.Flags().StringVar(&f.Email, "email", "", "Your email (optional)")
	return cmd
}
