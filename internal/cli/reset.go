package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eleven-am/bulldoggy/internal/logger"
	"github.com/eleven-am/bulldoggy/internal/reminders"
)

var resetUser string

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every reminder list of a user",
		Long: `Deletes all lists and items owned by --user and clears the user's
selected list. Other users are not affected.`,
		RunE: runReset,
	}

	cmd.Flags().StringVar(&resetUser, "user", "", "Username whose reminders are deleted")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Users[resetUser]; !ok {
		logger.CLI().Warn("resetting a user that is not configured", "username", resetUser)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	st := reminders.NewStore(db).For(resetUser)
	lists, err := st.GetLists(ctx)
	if err != nil {
		return err
	}
	if err := st.DeleteLists(ctx); err != nil {
		return fmt.Errorf("failed to delete lists: %w", err)
	}
	if err := st.SetSelectedList(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d list(s) for %s\n", len(lists), resetUser)
	return nil
}
