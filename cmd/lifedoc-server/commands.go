package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/lifedoc/lifedoc/internal/config"
	"github.com/lifedoc/lifedoc/internal/domain/user"
	"github.com/lifedoc/lifedoc/internal/platform/auth"
	"github.com/lifedoc/lifedoc/internal/platform/db"
	"github.com/lifedoc/lifedoc/migrations"
	"github.com/lifedoc/lifedoc/pkg/pagination"
)

// withPool loads config, opens the pool and hands both to fn.
func withPool(ctx context.Context, fn func(cfg *config.Config, pool *pgxpool.Pool) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	return fn(cfg, pool)
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	// migrate up
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(_ *config.Config, pool *pgxpool.Pool) error {
				count, err := db.NewMigrator(pool, migrations.FS).Up(cmd.Context())
				if err != nil {
					return fmt.Errorf("migration failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
				return nil
			})
		},
	})

	// migrate status
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(_ *config.Config, pool *pgxpool.Pool) error {
				statuses, err := db.NewMigrator(pool, migrations.FS).Status(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to get migration status: %w", err)
				}
				printMigrationStatus(cmd.OutOrStdout(), statuses)
				return nil
			})
		},
	})

	return cmd
}

func printMigrationStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	fmt.Fprintln(w, "---------- ---------------------------------------- ---------- --------------------")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := cmd.Flags().GetInt("page")
			limit, _ := cmd.Flags().GetInt("limit")
			return withPool(cmd.Context(), func(_ *config.Config, pool *pgxpool.Pool) error {
				res, err := user.NewService(user.NewRepoPG(pool)).List(cmd.Context(), pagination.New(page, limit))
				if err != nil {
					return err
				}
				printUsers(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	listCmd.Flags().Int("page", pagination.DefaultPage, "Page number")
	listCmd.Flags().Int("limit", pagination.DefaultLimit, fmt.Sprintf("Accounts per page (max %d)", pagination.MaxLimit))
	cmd.AddCommand(listCmd)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := user.CreateInput{}
			in.Name, _ = cmd.Flags().GetString("name")
			in.Email, _ = cmd.Flags().GetString("email")
			in.Password, _ = cmd.Flags().GetString("password")
			in.Type, _ = cmd.Flags().GetString("type")
			return withPool(cmd.Context(), func(_ *config.Config, pool *pgxpool.Pool) error {
				u, err := user.NewService(user.NewRepoPG(pool)).Create(cmd.Context(), in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s (%s)\n", u.Type, u.Email, u.ID)
				return nil
			})
		},
	}
	createCmd.Flags().String("name", "", "Display name")
	createCmd.Flags().String("email", "", "Login email")
	createCmd.Flags().String("password", "", "Initial password (min 8 characters)")
	createCmd.Flags().String("type", user.TypeUser, "Account type: user, doctor or admin")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "promote <email>",
		Short: "Grant the admin role to an existing account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), func(_ *config.Config, pool *pgxpool.Pool) error {
				u, err := user.NewService(user.NewRepoPG(pool)).Promote(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User %s promoted to admin\n", u.Email)
				return nil
			})
		},
	})

	return cmd
}

func printUsers(w io.Writer, p *user.Page) {
	fmt.Fprintf(w, "%-36s %-8s %-30s %s\n", "ID", "TYPE", "EMAIL", "NAME")
	for _, u := range p.Users {
		fmt.Fprintf(w, "%-36s %-8s %-30s %s\n", u.ID, u.Type, u.Email, u.Name)
	}
	fmt.Fprintf(w, "page %d of %d, %d account(s)\n", p.CurrentPage, p.TotalPages, p.TotalUsers)
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue API tokens",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			return withPool(cmd.Context(), func(cfg *config.Config, pool *pgxpool.Pool) error {
				u, err := user.NewService(user.NewRepoPG(pool)).Authenticate(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				if ttl <= 0 {
					ttl = cfg.TokenTTL
				}
				token, err := auth.IssueToken([]byte(cfg.JWTSecret), u.ID.String(), u.Email, u.Type, ttl, time.Now())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), token)
				return nil
			})
		},
	}
	issueCmd.Flags().String("email", "", "Account email")
	issueCmd.Flags().String("password", "", "Account password")
	issueCmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to TOKEN_TTL)")
	_ = issueCmd.MarkFlagRequired("email")
	_ = issueCmd.MarkFlagRequired("password")
	cmd.AddCommand(issueCmd)

	return cmd
}
