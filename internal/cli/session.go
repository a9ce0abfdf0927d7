// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/backend"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/security"
)

// SessionKey derives the passphrase that seals the local session vault.
// It ties the vault to this machine and project, which keeps tokens out of
// plain sight without pretending to be a password manager.
func SessionKey(cfg *config.Config) []byte {
	host, _ := os.Hostname()
	return []byte(cfg.API.SupabaseAnonKey + "|leximind|" + host)
}

// RestoreSession opens the vault and installs the stored session, renewing
// it when expired. Returns nil when there is nothing usable.
func RestoreSession(cfg *config.Config, client *backend.Client) *backend.Session {
	vault := security.NewVault(cfg.Storage.DataDir)
	if !vault.Exists() {
		return nil
	}
	var session backend.Session
	if err := vault.OpenJSON(SessionKey(cfg), &session); err != nil {
		return nil
	}
	client.RestoreSession(&session)
	if !session.Expired() {
		return &session
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	renewed, err := client.Refresh(ctx)
	if err != nil {
		return nil
	}
	vault.SealJSON(SessionKey(cfg), renewed)
	return renewed
}

// RunLogin prompts for credentials, signs in and seals the session.
func RunLogin(cfg *config.Config, client *backend.Client) error {
	if !IsTTY() {
		return fmt.Errorf("login requiere una terminal interactiva")
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Correo: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)

	password, err := ReadPassword("Contraseña: ")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	session, err := client.SignIn(ctx, email, password)
	if err != nil {
		te := api.Classify(err)
		if te.Code == 400 || te.Code == 401 {
			return fmt.Errorf("correo o contraseña incorrectos")
		}
		return fmt.Errorf("%s", te.Message)
	}

	vault := security.NewVault(cfg.Storage.DataDir)
	if err := vault.SealJSON(SessionKey(cfg), session); err != nil {
		return fmt.Errorf("no se pudo guardar la sesión: %w", err)
	}
	fmt.Println("Sesión iniciada como", session.User.Email)
	return nil
}

// RunLogout revokes the remote session and destroys the vault.
func RunLogout(cfg *config.Config, client *backend.Client) error {
	if session := RestoreSession(cfg, client); session != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		client.SignOut(ctx)
	}
	vault := security.NewVault(cfg.Storage.DataDir)
	if err := vault.Destroy(); err != nil {
		return err
	}
	fmt.Println("Sesión cerrada.")
	return nil
}

// RunLock manages the TOTP app lock: enroll prints the otpauth URL,
// disable removes the secret.
func RunLock(cfg *config.Config, args *Args, client *backend.Client) error {
	lock := security.NewAppLock(cfg.Storage.DataDir)

	switch args.Subcommand {
	case "enroll":
		account := "leximind"
		if session := RestoreSession(cfg, client); session != nil {
			account = session.User.Email
		}
		uri, err := lock.Enroll(account)
		if err != nil {
			return err
		}
		fmt.Println("Agrega esta URL a tu aplicación de autenticación:")
		fmt.Println(uri)
		fmt.Println("Activa security.app_lock en la configuración para exigir el código al abrir.")
		return nil

	case "disable":
		if err := lock.Disable(); err != nil {
			return err
		}
		fmt.Println("Bloqueo desactivado.")
		return nil

	default:
		return fmt.Errorf("uso: leximind lock <enroll|disable>")
	}
}
