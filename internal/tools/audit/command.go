package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"lockdesk/internal/config"
	"lockdesk/internal/database"
	"lockdesk/internal/observability"
	"lockdesk/internal/repository"
	"lockdesk/internal/storage"
	"lockdesk/internal/tools/common"
	"lockdesk/internal/tools/ui"
)

type options struct {
	envFile string
	ci      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "audit", Short: "Audit trail tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newVerifyCommand(opts), newExportCommand(opts), newListCommand(opts))
	return cmd
}

func newVerifyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute the audit hash chain and report tampering",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "audit verify", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				audits := repository.NewAuditRepository(db)
				count, err := audits.VerifyChain()
				if err != nil {
					return nil, err
				}
				observability.RecordAuditChainVerified(ctx, count)
				return []string{fmt.Sprintf("chain intact: %d records verified", count)}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "audit verify", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newExportCommand(opts *options) *cobra.Command {
	var afterSeq uint64
	var limit int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Archive audit records to object storage as JSONL",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "audit export", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				if cfg.AuditArchiveEndpoint == "" {
					return nil, fmt.Errorf("AUDIT_ARCHIVE_ENDPOINT is not configured")
				}
				audits := repository.NewAuditRepository(db)
				records, err := audits.List(afterSeq, limit)
				if err != nil {
					return nil, err
				}
				if len(records) == 0 {
					return []string{"no records after seq " + fmt.Sprint(afterSeq) + ", nothing exported"}, nil
				}
				archiver, err := storage.NewAuditArchiver(
					cfg.AuditArchiveEndpoint,
					cfg.AuditArchiveAccessKey,
					cfg.AuditArchiveSecretKey,
					cfg.AuditArchiveBucket,
					cfg.AuditArchiveUseSSL,
				)
				if err != nil {
					return nil, err
				}
				key, err := archiver.Export(ctx, records, time.Now().UTC())
				if err != nil {
					return nil, err
				}
				return []string{
					fmt.Sprintf("exported %d records", len(records)),
					fmt.Sprintf("seq range: %d..%d", records[0].Seq, records[len(records)-1].Seq),
					"object: " + key,
				}, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "audit export", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&afterSeq, "after-seq", 0, "export records with seq greater than this")
	cmd.Flags().IntVar(&limit, "limit", 0, "max records to export, 0 for all")
	return cmd
}

func newListCommand(opts *options) *cobra.Command {
	var afterSeq uint64
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print audit records after a sequence number, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "audit list", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				audits := repository.NewAuditRepository(db)
				records, err := audits.List(afterSeq, limit)
				if err != nil {
					return nil, err
				}
				if len(records) == 0 {
					return []string{"no records"}, nil
				}
				details := make([]string, 0, len(records))
				for _, rec := range records {
					details = append(details, fmt.Sprintf("seq=%d %s actor=%s target=%s at=%s",
						rec.Seq, rec.ActionType, rec.ActorID, rec.RecordID, rec.CreatedAt.Format(time.RFC3339)))
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "audit list", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&afterSeq, "after-seq", 0, "start after this seq")
	cmd.Flags().IntVar(&limit, "limit", 20, "max records to print")
	return cmd
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
