// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

// Package cli implements the non-TUI entrypoints: one-shot questions, a
// plain REPL, session management and service health checks.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information, overridable at build time.
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	Cmd360
	CmdOpinions
	CmdLogin
	CmdLogout
	CmdLock
	CmdHealth
	CmdVersion
	CmdHelp
)

// Args holds the parsed command line.
type Args struct {
	Command    Command
	Query      string
	ConfigPath string
	JSON       bool

	// Facet filters for ask, repeatable.
	Areas      []string
	Categories []string
	Sources    []string
	Tags       []string

	Subcommand string
}

// ParseArgs interprets os.Args[1:].
func ParseArgs(argv []string) (*Args, error) {
	args := &Args{Command: CmdTUI}
	var positional []string

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch {
		case arg == "--json":
			args.JSON = true
		case arg == "--config" || arg == "-c":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("%s requiere una ruta", arg)
			}
			i++
			args.ConfigPath = argv[i]
		case arg == "--area" || arg == "--category" || arg == "--source" || arg == "--tag":
			if i+1 >= len(argv) {
				return nil, fmt.Errorf("%s requiere un valor", arg)
			}
			i++
			switch arg {
			case "--area":
				args.Areas = append(args.Areas, argv[i])
			case "--category":
				args.Categories = append(args.Categories, argv[i])
			case "--source":
				args.Sources = append(args.Sources, argv[i])
			case "--tag":
				args.Tags = append(args.Tags, argv[i])
			}
		case arg == "--help" || arg == "-h":
			args.Command = CmdHelp
			return args, nil
		case arg == "--version":
			args.Command = CmdVersion
			return args, nil
		case strings.HasPrefix(arg, "-"):
			return nil, fmt.Errorf("opción desconocida: %s", arg)
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return args, nil
	}

	switch positional[0] {
	case "ask":
		args.Command = CmdAsk
		args.Query = strings.Join(positional[1:], " ")
	case "chat":
		args.Command = CmdChat
	case "360":
		args.Command = Cmd360
		args.Query = strings.Join(positional[1:], " ")
	case "opiniones":
		args.Command = CmdOpinions
		if len(positional) > 1 {
			args.Query = positional[1]
		}
	case "login":
		args.Command = CmdLogin
	case "logout":
		args.Command = CmdLogout
	case "lock":
		args.Command = CmdLock
		if len(positional) > 1 {
			args.Subcommand = positional[1]
		}
	case "health":
		args.Command = CmdHealth
	case "version":
		args.Command = CmdVersion
	case "help":
		args.Command = CmdHelp
	default:
		return nil, fmt.Errorf("comando desconocido: %s", positional[0])
	}
	return args, nil
}

// PrintHelp writes the usage text.
func PrintHelp() {
	fmt.Print(`leximind - asistente de conocimiento bancario

Uso:
  leximind                 Abre la interfaz de terminal
  leximind ask <pregunta>  Hace una pregunta y muestra la respuesta
  leximind chat            Abre el chat en modo consola
  leximind 360 <pregunta>  Consulta Cliente 360 en lenguaje natural
  leximind opiniones <id>  Lista las opiniones de expertos de un mensaje
  leximind login           Inicia sesión y guarda el token local
  leximind logout          Cierra la sesión local
  leximind lock <enroll|disable>  Administra el bloqueo con TOTP
  leximind health          Verifica los servicios
  leximind version         Muestra la versión

Opciones:
  --area, --category, --source, --tag   Filtros para ask (repetibles)
  --config RUTA                          Archivo de configuración
  --json                                 Salida en JSON (ask, 360, opiniones, health)
`)
}

// PrintVersion writes the version line.
func PrintVersion() {
	fmt.Printf("leximind %s (%s, %s)\n", Version, GitCommit, BuildDate)
}

// Fatal prints an error to stderr and exits.
func Fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
