package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/bachatbox/internal/adapter/http/dto"
	"github.com/iho/bachatbox/internal/adapter/http/middleware"
	"github.com/iho/bachatbox/internal/domain"
	"github.com/iho/bachatbox/internal/infrastructure/auth"
	"github.com/iho/bachatbox/internal/infrastructure/logger"
	"github.com/iho/bachatbox/internal/infrastructure/postgres"
	"github.com/iho/bachatbox/internal/normalizer"
)

type options struct {
	baseURL string
	userID  string
	token   string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "bachatbox-cli",
		Short:         "bachatbox CLI tool",
		Long:          `A command line interface for parsing bank messages and interacting with the bachatbox API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:8080", "Base URL of the bachatbox API")
	rootCmd.PersistentFlags().StringVar(&opts.userID, "user", os.Getenv("BACHATBOX_USER"), "Caller id sent as X-User-ID")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("BACHATBOX_TOKEN"), "Bearer token for authenticated servers")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newParseCmd(),
		newIngestCmd(opts),
		newListCmd(opts),
		newSummaryCmd(opts),
		newTokenCmd(),
		newMigrateCmd(),
	)

	return rootCmd
}

func newParseCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "parse <message>",
		Short: "Normalize a bank message locally and print the transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := normalizer.New(normalizer.WithStrictHints(strict))
			tx, err := n.Normalize(normalizer.Input{Text: strings.Join(args, " ")})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), dto.TransactionFromDomain(tx))
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Validate structured hints")
	return cmd
}

func newIngestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <message>",
		Short: "Send a bank message to the API",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := json.Marshal(dto.IngestRequest{Message: strings.Join(args, " ")})
			if err != nil {
				return err
			}

			var resp dto.IngestResponse
			if err := opts.do(http.MethodPost, "/api/v1/sms", bytes.NewReader(body), &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ListTransactionsResponse
			path := "/api/v1/sms?limit=" + url.QueryEscape(strconv.Itoa(limit))
			if err := opts.do(http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tAMOUNT\tCATEGORY\tDESCRIPTION")
			for _, tx := range resp.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					tx.ID, tx.Type, tx.Amount.StringFixed(2), tx.Category, truncate(tx.Description, 40))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of transactions")
	return cmd
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show income, expense and category totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.SummaryResponse
			if err := opts.do(http.MethodGet, "/api/v1/sms/summary", nil, &resp); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		secret   string
		email    string
		duration time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development JWT for a caller",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return errors.New("a signing secret is required (--secret or JWT_SECRET)")
			}

			token, err := auth.NewJWTManager(secret, duration).Generate(&domain.User{ID: args[0], Email: email})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&secret, "secret", os.Getenv("JWT_SECRET"), "Signing secret")
	cmd.Flags().StringVar(&email, "email", "", "Optional email claim")
	cmd.Flags().DurationVar(&duration, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	var (
		databaseURL string
		path        string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
	cmd.PersistentFlags().StringVar(&path, "path", "internal/infrastructure/postgres/migrations", "Migrations directory")

	migrator := func(cmd *cobra.Command) *postgres.Migrator {
		log := logger.NewWithWriter(cmd.ErrOrStderr(), logger.Config{Level: "info", Format: "console"})
		return postgres.NewMigrator(databaseURL, path, log)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrator(cmd).Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return migrator(cmd).Down()
			},
		},
	)

	return cmd
}

// do sends a request to the API and decodes a successful reply into out.
func (o *options) do(method, path string, body io.Reader, out any) error {
	req, err := http.NewRequest(method, strings.TrimRight(o.baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if o.userID != "" {
		req.Header.Set(middleware.UserIDHeader, o.userID)
	}
	if o.token != "" {
		req.Header.Set("Authorization", "Bearer "+o.token)
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return json.Unmarshal(raw, out)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
