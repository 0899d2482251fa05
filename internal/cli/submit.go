package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/harvestlane/contactsync/internal/models"
	"github.com/harvestlane/contactsync/internal/submit"
)

// SubmitOptions holds flags for the submit command.
type SubmitOptions struct {
	*RootOptions
	Name     string
	Email    string
	Phone    string
	Message  string
	Products []string
}

// NewSubmitCommand creates the submit command.
func NewSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SubmitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a contact form, queueing it locally if offline",
		Long: `Submit a contact form to the remote API.

Validation runs locally first; an invalid form is rejected before any
network traffic. If the network is down the form is queued locally and
uploaded by the next sync.

Example:
  contactsync submit --name "Maria Lopez" --email maria@example.com \
    --phone "(555) 123-4567" --message "Do you deliver on weekends?"`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSubmit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "customer name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "customer email (required)")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "customer phone (required)")
	cmd.Flags().StringVar(&opts.Message, "message", "", "message text (required)")
	cmd.Flags().StringSliceVar(&opts.Products, "product", nil, "interested product (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("phone")
	_ = cmd.MarkFlagRequired("message")

	return cmd
}

func runSubmit(cmd *cobra.Command, opts *SubmitOptions) error {
	a, err := openApp(opts.RootOptions)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	a.probe(ctx)

	outcome, err := a.submit.Submit(ctx, models.FormInput{
		Name:               opts.Name,
		Email:              opts.Email,
		Phone:              opts.Phone,
		Message:            opts.Message,
		InterestedProducts: opts.Products,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		return printJSON(out, outcome)
	}

	switch outcome.Kind {
	case submit.OutcomeSubmitted:
		fmt.Fprintf(out, "Submitted. Server id: %s\n", outcome.Remote.ID)
	case submit.OutcomeQueued:
		fmt.Fprintf(out, "You appear to be offline. Saved locally (queue id %d); it will be sent when connectivity returns.\n", outcome.LocalID)
	case submit.OutcomeValidationFailed:
		fmt.Fprintln(out, "Validation failed:")
		fields := make([]string, 0, len(outcome.FieldErrors))
		for field := range outcome.FieldErrors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(out, "  %s: %s\n", field, outcome.FieldErrors[field])
		}
		return fmt.Errorf("form is invalid")
	case submit.OutcomeFailed:
		return fmt.Errorf("submission failed: %s", outcome.Reason)
	}
	return nil
}
