package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dvloznov/expense-tracker/internal/config"
	"github.com/dvloznov/expense-tracker/internal/domain"
	"github.com/dvloznov/expense-tracker/internal/export"
	"github.com/dvloznov/expense-tracker/internal/logger"
	"github.com/dvloznov/expense-tracker/internal/session"
	"github.com/dvloznov/expense-tracker/internal/session/backend"
	"github.com/dvloznov/expense-tracker/internal/tracker"
)

var errNotSignedIn = errors.New("not signed in: run 'cli signin' first")

// app carries what every command needs. openKV is swapped out in tests.
type app struct {
	cfg    config.Config
	openKV func(ctx context.Context, cfg config.Config) (session.KeyValueStore, io.Closer, error)

	store  *tracker.Store
	closer io.Closer
}

func newApp() *app {
	return &app{openKV: backend.Open}
}

func newRootCmd(a *app) *cobra.Command {
	var (
		sessionFile    string
		sessionBackend string
		verbose        bool
	)

	root := &cobra.Command{
		Use:          "cli",
		Short:        "Expense tracker CLI",
		Long:         `Sign in, list transactions with a running balance, and add validated transactions.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.SessionFile = sessionFile
			cfg.SessionBackend = sessionBackend
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			a.cfg = cfg
			log := logger.NewWithOptions(logger.Options{Level: level, Out: cmd.ErrOrStderr()})

			ctx := logger.WithContext(cmd.Context(), log)
			cmd.SetContext(ctx)

			kv, closer, err := a.openKV(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open session storage: %w", err)
			}
			a.closer = closer
			a.store = tracker.New(kv, tracker.WithLogger(logger.FromContext(ctx)))
			a.store.RestoreSession(ctx)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}
			return nil
		},
	}

	defaults, _ := config.Load()
	defaultBackend := config.BackendFile
	if os.Getenv("SESSION_BACKEND") != "" {
		defaultBackend = defaults.SessionBackend
	}
	root.PersistentFlags().StringVar(&sessionFile, "session-file", defaults.SessionFile, "File that persists the session flag (or set SESSION_FILE env)")
	root.PersistentFlags().StringVar(&sessionBackend, "session-backend", defaultBackend, "Session storage: file, gcs or memory (or set SESSION_BACKEND env)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newSignInCmd(a),
		newSignOutCmd(a),
		newStatusCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newAddCmd(a),
		newExportCmd(a),
	)
	return root
}

func (a *app) requireSession() error {
	if !a.store.IsAuthenticated() {
		return errNotSignedIn
	}
	return nil
}

func newSignInCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and persist the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.SignIn(cmd.Context(), username, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newSignOutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Sign out and clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.SignOut(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is active",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed in.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first, with the current balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			printTransactions(cmd.OutOrStdout(), a.store.Transactions())
			fmt.Fprintf(cmd.OutOrStdout(), "\nCurrent Balance: %s\n", domain.FormatCurrency(a.store.Balance()))
			return nil
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			txn, ok := a.store.GetTransaction(args[0])
			if !ok {
				return fmt.Errorf("transaction %s not found", args[0])
			}
			printDetails(cmd.OutOrStdout(), txn)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	var draft domain.Draft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Validate and add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			res := domain.Validate(draft)
			if !res.IsValid {
				printFieldErrors(cmd.ErrOrStderr(), res.Errors)
				return fmt.Errorf("please correct the highlighted fields")
			}
			parsed, err := draft.Parse()
			if err != nil {
				return err
			}

			txn := a.store.AddTransaction(parsed)
			fmt.Fprintln(cmd.OutOrStdout(), "Transaction added successfully!")
			printDetails(cmd.OutOrStdout(), txn)
			fmt.Fprintf(cmd.OutOrStdout(), "\nCurrent Balance: %s\n", domain.FormatCurrency(a.store.Balance()))
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Date, "date", "", "Date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&draft.Amount, "amount", "", "Amount, e.g. 12.50")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Description")
	cmd.Flags().StringVar(&draft.Location, "location", "", "Location")
	cmd.Flags().StringVar(&draft.Type, "type", "", "Credit, Debit or Refund")
	cmd.Flags().StringVar(&draft.Category, "category", "", "Shopping, Travel, Utility, Food, Entertainment, Income or Other")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write transactions to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			txns := a.store.Transactions()
			if err := export.WriteFile(output, txns); err != nil {
				return fmt.Errorf("failed to export transactions: %w", err)
			}
			log := logger.FromContext(cmd.Context())
			log.Debug().
				Str("file", output).
				Int("count", len(txns)).
				Msg("Exported transactions")
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d transactions.\n", output, len(txns))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "transactions.csv", "Output CSV file")
	return cmd
}

func printTransactions(w io.Writer, txns []domain.Transaction) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDESCRIPTION\tCATEGORY\tTYPE\tAMOUNT")
	for _, t := range txns {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, domain.FormatDate(t.Date), t.Description, t.Category, t.Type, domain.FormatCurrency(t.Signed()))
	}
	tw.Flush()
}

func printDetails(w io.Writer, t domain.Transaction) {
	fmt.Fprintf(w, "ID:          %s\n", t.ID)
	fmt.Fprintf(w, "Date:        %s\n", domain.FormatDate(t.Date))
	fmt.Fprintf(w, "Amount:      %s\n", domain.FormatCurrency(t.Amount))
	fmt.Fprintf(w, "Type:        %s\n", t.Type)
	fmt.Fprintf(w, "Category:    %s\n", t.Category)
	fmt.Fprintf(w, "Description: %s\n", t.Description)
	fmt.Fprintf(w, "Location:    %s\n", t.Location)
}

func printFieldErrors(w io.Writer, errs map[string]string) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		fmt.Fprintf(w, "  %s: %s\n", f, errs[f])
	}
}
