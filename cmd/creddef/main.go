// Command creddef is the local-first credential defense CLI: encrypted vault,
// breach triage, and the remediation action runner.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/credential-defense/creddef/internal/actions"
	"github.com/credential-defense/creddef/internal/automation"
	"github.com/credential-defense/creddef/internal/breach"
	"github.com/credential-defense/creddef/internal/config"
	"github.com/credential-defense/creddef/internal/errs"
	"github.com/credential-defense/creddef/internal/ingest"
	"github.com/credential-defense/creddef/internal/model"
	"github.com/credential-defense/creddef/internal/prompt"
	"github.com/credential-defense/creddef/internal/vault"
	"github.com/credential-defense/creddef/internal/workflow"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage() {
	fmt.Fprintf(os.Stderr, `creddef - local-first breach response workflow
Usage:
  creddef [-workspace dir] <cmd> [args]

Commands:
  version
  init         [-master-password-env VAR]                 initialize config files and encrypted vault
  import       [-imports-dir dir] [-master-password-env VAR]
  list         [-master-password-env VAR]                 list vault records (passwords not printed)
  session      [-online-password-check] [-online-email-check]
               [-hibp-api-key-env VAR] [-master-password-env VAR]
  run-actions  [-master-password-env VAR]                 run queued rotate/delete actions
`)
	os.Exit(2)
}

// main dispatches subcommands over one shared workspace configuration.
func main() {
	workspace := flag.String("workspace", ".", "workspace root directory")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)

	if cmd == "version" {
		fmt.Printf("creddef %s (%s)\n", version, buildDate)
		return
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*workspace)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	term := prompt.NewTerminal()
	engine := vault.NewEngine(cfg.VaultMetaPath(), cfg.VaultPath())

	switch cmd {
	case "init":
		cmdInit(engine, term)
	case "import":
		cmdImport(cfg, engine, term, logger)
	case "list":
		cmdList(engine, term)
	case "session":
		cmdSession(ctx, cfg, engine, term, logger)
	case "run-actions":
		cmdRunActions(ctx, cfg, engine, term, logger)
	default:
		usage()
	}
}

func cmdInit(engine *vault.Engine, term *prompt.Terminal) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	passwordEnv := fs.String("master-password-env", "", "read vault password from this environment variable")
	_ = fs.Parse(flag.Args()[1:])

	if engine.Exists() {
		fmt.Println("Vault already initialized.")
		return
	}
	master, err := masterPassword(term, *passwordEnv, true)
	if err != nil {
		fail(err)
	}
	if err := engine.Initialize(master); err != nil {
		fail(err)
	}
	fmt.Println("Initialized encrypted local vault.")
}

func cmdImport(cfg *config.Config, engine *vault.Engine, term *prompt.Terminal, logger *zap.Logger) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	importsDir := fs.String("imports-dir", cfg.ImportsDir(), "directory containing exported CSV files")
	passwordEnv := fs.String("master-password-env", "", "read vault password from this environment variable")
	_ = fs.Parse(flag.Args()[1:])

	records, summary, err := ingest.NewImporter(cfg, logger).ImportDir(*importsDir)
	if err != nil {
		fail(err)
	}
	if len(records) == 0 {
		fmt.Println("No records parsed from CSV exports.")
		return
	}
	master, err := masterPassword(term, *passwordEnv, false)
	if err != nil {
		fail(err)
	}
	added, err := engine.Upsert(master, records)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Import complete: files=%d, rows=%d, imported=%d, skipped=%d, new=%d\n",
		summary.TotalFiles, summary.ParsedRows, summary.ImportedRecords, summary.SkippedRows, added)
}

func cmdList(engine *vault.Engine, term *prompt.Terminal) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	passwordEnv := fs.String("master-password-env", "", "read vault password from this environment variable")
	_ = fs.Parse(flag.Args()[1:])

	master, err := masterPassword(term, *passwordEnv, false)
	if err != nil {
		fail(err)
	}
	records, err := engine.Load(master)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Vault records: %d\n", len(records))
	for _, rec := range records {
		fmt.Printf("- owner=%s category=%s service=%s username=%s state=%s compromised=%v pending_rotation=%v\n",
			rec.Owner, rec.Category, rec.Service, rec.Username, rec.LifecycleState, rec.Compromised, rec.PendingPassword != "")
	}
}

func cmdSession(ctx context.Context, cfg *config.Config, engine *vault.Engine, term *prompt.Terminal, logger *zap.Logger) {
	fs := flag.NewFlagSet("session", flag.ExitOnError)
	onlinePassword := fs.Bool("online-password-check", false, "check passwords against the breach range API")
	onlineEmail := fs.Bool("online-email-check", false, "check email breaches (needs API key)")
	apiKeyEnv := fs.String("hibp-api-key-env", "HIBP_API_KEY", "environment variable containing the breach API key")
	passwordEnv := fs.String("master-password-env", "", "read vault password from this environment variable")
	_ = fs.Parse(flag.Args()[1:])

	master, err := masterPassword(term, *passwordEnv, false)
	if err != nil {
		fail(err)
	}
	records, err := engine.Load(master)
	if err != nil {
		fail(err)
	}
	if len(records) == 0 {
		fmt.Println("Vault is empty. Import browser exports first.")
		return
	}

	opts := breach.Options{
		OnlinePasswordCheck: *onlinePassword && cfg.Settings.AllowOnlineBreachChecks,
	}
	if *onlineEmail && cfg.Settings.AllowOnlineBreachChecks {
		opts.APIKey = os.Getenv(*apiKeyEnv)
		if opts.APIKey == "" {
			fmt.Printf("%s is not set; email breach checks will be skipped for this run.\n", *apiKeyEnv)
		}
		opts.OnlineEmailCheck = opts.APIKey != ""
	}

	queue, err := actions.LoadQueue(cfg.ActionQueuePath())
	if err != nil {
		fail(err)
	}
	client := breach.NewClient(cfg.PwnedRangeEndpoint, cfg.BreachedAccountEndpoint, cfg.HTTPTimeout)
	assessor := breach.NewAssessor(client, breach.NewCache(cfg.BreachCachePath()), logger)
	session := workflow.NewSession(assessor, queue, term, cfg.Settings.PriorityCategories, logger)

	updated, err := session.Run(ctx, records, opts)
	if err != nil {
		fail(err)
	}
	if _, err := engine.Upsert(master, updated); err != nil {
		fail(err)
	}
	pending := len(queue.Pending())
	fmt.Printf("Session complete. Pending actions: %d\n", pending)
}

func cmdRunActions(ctx context.Context, cfg *config.Config, engine *vault.Engine, term *prompt.Terminal, logger *zap.Logger) {
	fs := flag.NewFlagSet("run-actions", flag.ExitOnError)
	passwordEnv := fs.String("master-password-env", "", "read vault password from this environment variable")
	_ = fs.Parse(flag.Args()[1:])

	master, err := masterPassword(term, *passwordEnv, false)
	if err != nil {
		fail(err)
	}
	records, err := engine.Load(master)
	if err != nil {
		fail(err)
	}
	queue, err := actions.LoadQueue(cfg.ActionQueuePath())
	if err != nil {
		fail(err)
	}
	if queue.Len() == 0 {
		fmt.Println("Action queue is empty.")
		return
	}
	profiles, err := cfg.LoadSiteProfiles()
	if err != nil {
		fail(err)
	}

	byID := make(map[string]*model.CredentialRecord, len(records))
	for i := range records {
		byID[records[i].RecordID] = &records[i]
	}

	executor := actions.NewExecutor(queue, actions.NewJournal(cfg.JournalPath()), term,
		automation.NewChromeDriver(), profiles, logger)
	if err := executor.Run(ctx, byID); err != nil {
		fail(err)
	}
	if _, err := engine.Upsert(master, records); err != nil {
		fail(err)
	}
	fmt.Println("Action runner finished.")
}

// masterPassword resolves the vault password from the named environment
// variable, falling back to a hidden prompt (double entry when confirming).
func masterPassword(term *prompt.Terminal, envVar string, confirm bool) (string, error) {
	if envVar != "" {
		if value := os.Getenv(envVar); value != "" {
			return value, nil
		}
	}
	first, err := term.ReadSecret("Vault master password: ")
	if err != nil {
		return "", err
	}
	if confirm {
		second, err := term.ReadSecret("Confirm master password: ")
		if err != nil {
			return "", err
		}
		if first != second {
			return "", errors.New("password confirmation mismatch")
		}
	}
	return first, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if errors.Is(err, errs.ErrVaultNotInitialized) || errors.Is(err, errs.ErrInvalidVaultPassword) || errors.Is(err, errs.ErrVaultExists) {
		os.Exit(2)
	}
	os.Exit(1)
}
