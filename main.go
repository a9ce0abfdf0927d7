// LexiMind Knowledge Hub - terminal client for the banking knowledge
// assistant.
//
// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/cli"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/nlsql"
	"github.com/luke-chia/leximind-knowledge-hub/internal/security"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
	"github.com/luke-chia/leximind-knowledge-hub/internal/ui"
	"github.com/luke-chia/leximind-knowledge-hub/internal/upload"
)

// Version information, set at build time.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		cli.Fatal(err)
	}

	switch args.Command {
	case cli.CmdHelp:
		cli.PrintHelp()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	}

	cfgPath := args.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cli.Fatal(fmt.Errorf("configuración inválida: %w", err))
	}
	config.SetGlobal(cfg)

	bc := backend.NewClient(cfg.API.SupabaseURL, cfg.API.SupabaseAnonKey)

	switch args.Command {
	case cli.CmdAsk:
		session := cli.RestoreSession(cfg, bc)
		userID := chat.DefaultUserID
		if session != nil {
			userID = session.User.ID
		}
		if err := cli.RunAsk(cfg, args, userID); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdChat:
		session := cli.RestoreSession(cfg, bc)
		userID := chat.DefaultUserID
		if session != nil {
			userID = session.User.ID
		}
		if err := cli.RunChat(cfg, userID); err != nil {
			cli.Fatal(err)
		}

	case cli.Cmd360:
		if err := cli.Run360(cfg, args); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdOpinions:
		if err := cli.RunOpinions(cfg, args, bc); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdLogin:
		if err := cli.RunLogin(cfg, bc); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdLogout:
		if err := cli.RunLogout(cfg, bc); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdLock:
		if err := cli.RunLock(cfg, args, bc); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdHealth:
		if err := cli.RunHealth(cfg, args); err != nil {
			cli.Fatal(err)
		}

	case cli.CmdTUI:
		if err := runTUI(cfg, bc); err != nil {
			cli.Fatal(err)
		}
	}
}

// runTUI assembles the full application and hands control to Bubble Tea.
// Optional local facilities degrade to nil instead of blocking startup.
func runTUI(cfg *config.Config, bc *backend.Client) error {
	deps := ui.Deps{
		Config:   cfg,
		Backend:  bc,
		Chat:     chat.NewClient(cfg.API.ChatBaseURL),
		NLSQL:    nlsql.NewClient(cfg.API.NLSQLBaseURL),
		Pipeline: upload.NewPipeline(bc, cfg.API.ChatBaseURL, cfg.Upload.BucketName, cfg.Upload.MaxSizeMB,
			upload.WithSavePDF(cfg.Upload.SavePDF)),
		Vault:    security.NewVault(cfg.Storage.DataDir),
		VaultKey: cli.SessionKey(cfg),
		Lock:     security.NewAppLock(cfg.Storage.DataDir),
		Session:  cli.RestoreSession(cfg, bc),
	}

	if store, err := storage.NewConversationStore(cfg.Storage.DataDir, cfg.Storage.MaxConversations); err == nil {
		deps.Conversations = store
	}
	if cache, err := storage.OpenDocumentCache(cfg.Storage.DataDir); err == nil {
		deps.Cache = cache
		defer cache.Close()
	}
	if cfg.Upload.WatchDir != "" {
		if watcher, err := upload.NewWatcher(cfg.Upload.WatchDir, upload.DefaultDebounce); err == nil {
			if err := watcher.Watch(); err == nil {
				deps.Watcher = watcher
				defer watcher.Close()
			}
		}
	}

	return ui.Run(deps)
}
