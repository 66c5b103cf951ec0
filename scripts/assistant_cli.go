//go:build ignore

// Interactive console for the study assistant.
//
//	go run scripts/assistant_cli.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"studynotes/internal/config"
	wsmodels "studynotes/internal/domain/models/workspace"
	"studynotes/internal/domain/services"
	"studynotes/internal/service/assistant"
	llmService "studynotes/internal/service/llm"

	"github.com/joho/godotenv"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorBlue   = "\033[34m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	ctx     context.Context
	svc     *assistant.Service
	scanner *bufio.Scanner
	note    *wsmodels.Note
	history []assistant.Message
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logFile, err := config.SetupLogFile("logs", config.MaxLogFiles, time.Now())
	if err != nil {
		fmt.Printf("%sFailed to setup logging: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var completer services.Completer
	if cfg.AIProvider != config.BackendNone {
		c, err := llmService.NewCompleterFromConfig(cfg, logger)
		if err != nil {
			fmt.Printf("%sFailed to setup AI provider: %v%s\n", colorRed, err, colorReset)
			os.Exit(1)
		}
		completer = c
	}

	svc, err := assistant.NewService(completer, logger)
	if err != nil {
		fmt.Printf("%sFailed to load prompts: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}

	cli := &CLI{
		ctx:     context.Background(),
		svc:     svc,
		scanner: bufio.NewScanner(os.Stdin),
	}
	fmt.Printf("%sLogging to %s%s\n", colorYellow, logFile.Name(), colorReset)
	cli.run()
}

func (c *CLI) run() {
	c.printHelp()
	fmt.Printf("%s%s%s\n", colorCyan, c.svc.Intro().Text, colorReset)

	for {
		fmt.Printf("%s> %s", colorBlue, colorReset)
		if !c.scanner.Scan() {
			return
		}
		line := strings.TrimSpace(c.scanner.Text())
		switch {
		case line == "":
		case line == "/quit":
			return
		case line == "/help":
			c.printHelp()
		case line == "/clear":
			c.note = nil
			c.history = nil
			fmt.Printf("%sNote and history cleared%s\n", colorGreen, colorReset)
		case strings.HasPrefix(line, "/note "):
			c.setNote(strings.TrimPrefix(line, "/note "))
		case strings.HasPrefix(line, "/chat "):
			c.chat(strings.TrimPrefix(line, "/chat "))
		default:
			c.review(line)
		}
	}
}

func (c *CLI) printHelp() {
	fmt.Printf("%sCommands:%s\n", colorYellow, colorReset)
	fmt.Println("  /note <question> | <answer>   set the note under review")
	fmt.Println("  /chat <message>               one-off question without note context")
	fmt.Println("  /clear                        drop the note and history")
	fmt.Println("  /quit")
	fmt.Println("Anything else is sent as a review message.")
}

func (c *CLI) setNote(raw string) {
	question, answer, ok := strings.Cut(raw, "|")
	if !ok {
		fmt.Printf("%sUsage: /note <question> | <answer>%s\n", colorRed, colorReset)
		return
	}
	c.note = &wsmodels.Note{
		ID:       "cli",
		Question: strings.TrimSpace(question),
		Answer:   strings.TrimSpace(answer),
	}
	c.history = nil
	fmt.Printf("%sReviewing: %s%s\n", colorGreen, c.note.Question, colorReset)
}

func (c *CLI) review(input string) {
	start := time.Now()
	reply, err := c.svc.Review(c.ctx, c.note, c.history, input)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	c.history = append(c.history,
		assistant.Message{Role: assistant.RoleUser, Text: input},
		reply,
	)
	c.printReply(reply, time.Since(start))
}

func (c *CLI) chat(input string) {
	start := time.Now()
	reply, err := c.svc.Chat(c.ctx, input)
	if err != nil {
		fmt.Printf("%s%v%s\n", colorRed, err, colorReset)
		return
	}
	c.printReply(reply, time.Since(start))
}

func (c *CLI) printReply(reply assistant.Message, took time.Duration) {
	fmt.Printf("%s%s%s\n", colorCyan, reply.Text, colorReset)
	fmt.Printf("%s(%s)%s\n", colorYellow, took.Round(time.Millisecond), colorReset)
}
