// Copyright (c) 2025 Luke Chia / LexiMind Labs
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/luke-chia/leximind-knowledge-hub/internal/api"
	"github.com/luke-chia/leximind-knowledge-hub/internal/chat"
	"github.com/luke-chia/leximind-knowledge-hub/internal/config"
	"github.com/luke-chia/leximind-knowledge-hub/internal/model"
	"github.com/luke-chia/leximind-knowledge-hub/internal/storage"
)

const historyFile = "cli_history"

var facetNames = map[string]model.Facet{
	"area":      model.FacetArea,
	"category":  model.FacetCategory,
	"categoria": model.FacetCategory,
	"source":    model.FacetSource,
	"fuente":    model.FacetSource,
	"tag":       model.FacetTag,
	"etiqueta":  model.FacetTag,
}

// RunChat starts the console REPL: every line is a question, slash
// commands manage filters and the conversation.
func RunChat(cfg *config.Config, userID string) error {
	client := chat.NewClient(cfg.API.ChatBaseURL)
	transcript := model.NewTranscript(cfg.UI.Greeting)
	filters := model.NewFilterState()

	var store *storage.ConversationStore
	if s, err := storage.NewConversationStore(cfg.Storage.DataDir, cfg.Storage.MaxConversations); err == nil {
		store = s
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	histPath := filepath.Join(cfg.Storage.DataDir, historyFile)
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Println(cfg.UI.Greeting)
	fmt.Println("Escribe /help para ver los comandos.")

	for {
		input, err := line.Prompt("❯ ")
		if err == liner.ErrPromptAborted || err != nil {
			fmt.Println()
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := handleChatCommand(input, transcript, filters, store); quit {
				return nil
			}
			continue
		}

		answer, sources, err := sendQuestion(client, userID, input, filters, transcript)
		if err != nil {
			fmt.Println("✗", err)
			continue
		}
		printAnswer(answer, sources)
	}
}

func sendQuestion(client *chat.Client, userID, question string, filters *model.FilterState, transcript *model.Transcript) (string, []model.SourceReference, error) {
	turnID, ok := transcript.BeginExchange(question)
	if !ok {
		return "", nil, fmt.Errorf("hay una pregunta en curso")
	}
	gen := transcript.Generation()

	resp, err := client.Send(context.Background(), chat.NewRequest(userID, question, filters))
	if err != nil {
		te := api.Classify(err)
		transcript.Fail(turnID, gen, &model.TurnError{Message: te.Message, Code: te.Code})
		return "", nil, fmt.Errorf("%s", te.Message)
	}

	// The console prints answers whole, so the typing animation collapses
	// to a single resolve-and-finish.
	transcript.Resolve(turnID, gen, resp.Response, resp.Sources)
	for {
		done, ok := transcript.TypeNextWord(turnID, gen)
		if !ok || done {
			break
		}
	}
	return resp.Response, resp.Sources, nil
}

func printAnswer(answer string, sources []model.SourceReference) {
	resp := &chat.Response{Response: answer, Sources: sources}
	if out, err := renderMarkdown(answerMarkdown(resp)); err == nil {
		fmt.Print(out)
		return
	}
	fmt.Println(answer)
	for _, s := range sources {
		fmt.Printf("  • %s, pág. %s\n", s.Source, s.Page)
	}
}

// handleChatCommand processes a slash command; returns true to quit.
func handleChatCommand(input string, transcript *model.Transcript, filters *model.FilterState, store *storage.ConversationStore) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/?":
		fmt.Println(`Comandos:
  /filter <faceta> <valor>   Activa o desactiva un filtro (area, category, source, tag)
  /filters                   Muestra los filtros activos
  /clear                     Quita todos los filtros
  /reset                     Empieza una conversación nueva
  /save                      Guarda la conversación
  /quit                      Sale del chat`)

	case "/filters":
		if filters.IsEmpty() {
			fmt.Println("Sin filtros activos.")
			break
		}
		for name, facet := range map[string]model.Facet{
			"area": model.FacetArea, "category": model.FacetCategory,
			"source": model.FacetSource, "tag": model.FacetTag,
		} {
			if values := filters.Values(facet); len(values) > 0 {
				fmt.Printf("  %s: %s\n", name, strings.Join(values, ", "))
			}
		}

	case "/filter":
		if len(fields) < 3 {
			fmt.Println("Uso: /filter <faceta> <valor>")
			break
		}
		facet, ok := facetNames[strings.ToLower(fields[1])]
		if !ok {
			fmt.Println("Faceta desconocida:", fields[1])
			break
		}
		value := strings.Join(fields[2:], " ")
		filters.Toggle(facet, value)
		if filters.Selected(facet, value) {
			fmt.Println("Filtro activado:", value)
		} else {
			fmt.Println("Filtro desactivado:", value)
		}

	case "/clear":
		filters.Clear()
		fmt.Println("Filtros eliminados.")

	case "/reset":
		transcript.Reset()
		fmt.Println("Conversación nueva.")

	case "/save":
		if store == nil {
			fmt.Println("El almacenamiento local no está disponible.")
			break
		}
		if transcript.Len() <= 1 {
			fmt.Println("No hay nada que guardar.")
			break
		}
		id, err := store.Save(storage.SnapshotTranscript(transcript, filters))
		if err != nil {
			fmt.Println("✗ No se pudo guardar:", err)
			break
		}
		fmt.Println("Conversación guardada:", id)

	default:
		fmt.Println("Comando desconocido:", fields[0])
	}
	return false
}
