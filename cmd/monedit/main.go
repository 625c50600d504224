// monedit edits the monster data files of an LTP-style game server:
// Monster.txt, MonsterList.xml and MonsterSpawn.xml.
//
// Usage:
//
//	monedit [flags] <folder>            open the folder in the terminal UI
//	monedit [flags] validate <folder>   dry-run reference/range checks
//	monedit [flags] regen <folder>      regenerate MonsterList.xml (with backup)
//	monedit [flags] diff <folder>       preview the MonsterList.xml diff
//	monedit [flags] sync <folder>       cross-check MonsterSetBase files
//
// The folder must contain all three data files.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/config"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/editor"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/session"
	"github.com/CParaschivDev/Phantasm-LTP-Monster-Editor/internal/validate"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("monedit", flag.ContinueOnError)
	cfgPath := fs.String("config", "", "editor config TOML (defaults apply when omitted)")
	write := fs.Bool("write", false, "sync: also write MonsterSetBase.suggestions.txt")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	args := fs.Args()
	cmd := "edit"
	switch {
	case len(args) == 2:
		cmd = args[0]
		args = args[1:]
	case len(args) != 1:
		fs.Usage()
		return fmt.Errorf("expected [command] <folder>")
	}
	folder := args[0]

	cfg := config.Default()
	if *cfgPath == "" {
		*cfgPath = os.Getenv("MONEDIT_CONFIG")
	}
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log, err := newLogger(cfg.Logging, cmd == "edit")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	sess, err := session.New(cfg, log)
	if err != nil {
		return err
	}
	if err := sess.LoadFolder(folder); err != nil {
		return err
	}

	switch cmd {
	case "edit":
		return editor.Run(sess)
	case "validate":
		findings := sess.Validate()
		for _, f := range findings {
			fmt.Println(f)
		}
		if n := validate.Errors(findings); n > 0 {
			return fmt.Errorf("%d unresolved reference(s)", n)
		}
		fmt.Printf("ok: %d warning(s), 0 errors\n", len(findings))
		return nil
	case "regen":
		sess.RegenerateDisplayList()
		return report(sess.SaveAll())
	case "diff":
		d, err := sess.PreviewListDiff()
		if err != nil {
			return err
		}
		if d == "" {
			fmt.Println("no differences: the display list matches the monster table")
			return nil
		}
		fmt.Print(d)
		return nil
	case "sync":
		rep, err := sess.SetBaseReport()
		if err != nil {
			return err
		}
		for _, f := range rep {
			switch {
			case !f.Present:
				fmt.Printf("%s: file missing\n", f.Name)
			default:
				fmt.Printf("%s: %d missing entries\n", f.Name, len(f.Missing))
			}
		}
		if *write {
			path, err := sess.WriteSetBaseSuggestions(rep)
			if err != nil {
				return err
			}
			fmt.Printf("suggestions written to %s\n", path)
		}
		return nil
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func report(results []session.FileResult) error {
	var failed int
	for _, r := range results {
		switch r.Status {
		case session.StatusSaved:
			fmt.Printf("%s: saved (backup: %s)\n", r.Name, orNone(r.BackupPath))
		case session.StatusFailed:
			failed++
			fmt.Printf("%s: FAILED: %v\n", r.Name, r.Err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed to save", failed)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none, new file"
	}
	return s
}

// newLogger builds the zap logger from config. In TUI mode the terminal
// belongs to tcell, so log output goes to monedit.log instead.
func newLogger(cfg config.LoggingConfig, tui bool) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if tui {
		zapCfg.OutputPaths = []string{"monedit.log"}
		zapCfg.ErrorOutputPaths = []string{"monedit.log"}
	}
	return zapCfg.Build()
}
