package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"lockdesk/internal/config"
	"lockdesk/internal/database"
	"lockdesk/internal/repository"
	"lockdesk/internal/tools/common"
	"lockdesk/internal/tools/ui"
)

type options struct {
	envFile          string
	bootstrapAdminID string
	ci               bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.bootstrapAdminID, "bootstrap-admin-id", "", "override bootstrap admin user id")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Ensure the admin role exists and grant it to the bootstrap admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed apply", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				adminID := cfg.BootstrapAdminID
				if opts.bootstrapAdminID != "" {
					adminID = strings.TrimSpace(opts.bootstrapAdminID)
				}
				report, err := database.Seed(db, cfg.AdminRoleName, adminID)
				if err != nil {
					return nil, err
				}
				details := []string{
					fmt.Sprintf("ensured role: %s", cfg.AdminRoleName),
					fmt.Sprintf("roles created: %d, admins granted: %d", report.CreatedRoles, report.GrantedAdmins),
				}
				if adminID != "" {
					users := repository.NewUserRepository(db)
					if _, err := users.FindByID(adminID); errors.Is(err, gorm.ErrRecordNotFound) {
						details = append(details, "bootstrap admin user not found yet, grant retried on next run: "+adminID)
					} else if err == nil {
						details = append(details, "bootstrap admin present: "+adminID)
					}
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed apply", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed dry-run", func(ctx context.Context) ([]string, error) {
				cfg, _, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				adminID := cfg.BootstrapAdminID
				if opts.bootstrapAdminID != "" {
					adminID = strings.TrimSpace(opts.bootstrapAdminID)
				}
				details := []string{
					"would ensure role: " + cfg.AdminRoleName,
				}
				if adminID != "" {
					details = append(details, "would grant "+cfg.AdminRoleName+" role to user if present: "+adminID)
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed dry-run", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
