package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"VisionTalk/internal/ai"
	"VisionTalk/internal/app/session"
	"VisionTalk/internal/config"
	"VisionTalk/internal/service/conversation"
	"VisionTalk/internal/service/image"
	"VisionTalk/internal/service/turn"

	"go.uber.org/zap"
)

const help = `Commands:
  /image <path>  attach a JPEG/PNG image to the session
  /noimage       detach the current image
  /clear         clear chat history
  /history       print chat history
  /quit          exit
Any other line is sent as a message.`

func main() {
	cfg := config.NewConfig(os.Args[1:])

	// создаём предустановленный регистратор zap; в обычном режиме логи только с warn
	var logger *zap.Logger
	var err error
	if cfg.DebugMode {
		logger, err = zap.NewDevelopment()
	} else {
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		logger, err = zc.Build()
	}
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	client, err := ai.NewClient(ctx, cfg, sugar)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	images := image.NewProcessor(cfg.Image.MaxWidth, cfg.Image.MaxBytes, cfg.Image.Quality)
	sess := session.New(client, images, sugar)

	fmt.Println("Chat with VisionTalk. Type /help for commands.")
	if err := run(ctx, sess, os.Stdin, os.Stdout); err != nil {
		sugar.Errorw("input error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch cmd {
		case "/quit", "/exit":
			return nil
		case "/help":
			fmt.Fprintln(out, help)
		case "/image":
			attachImage(sess, strings.TrimSpace(arg), out)
		case "/noimage":
			sess.RemoveImage()
			fmt.Fprintln(out, "image detached")
		case "/clear":
			sess.ClearHistory()
			fmt.Fprintln(out, "history cleared")
		case "/history":
			for t := range sess.History() {
				printTurn(out, t)
			}
		default:
			answer, err := sess.Send(ctx, line)
			if err != nil {
				printError(out, err)
				continue
			}
			printTurn(out, answer)
		}
	}
}

func attachImage(sess *session.Session, path string, out io.Writer) {
	if path == "" {
		fmt.Fprintln(out, "usage: /image <path>")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(out, "cannot open image: %v\n", err)
		return
	}
	defer f.Close()

	img, err := sess.UploadImage(f)
	if err != nil {
		fmt.Fprintf(out, "cannot use image: %v\n", err)
		return
	}
	fmt.Fprintf(out, "image attached: %dx%d, %d bytes\n", img.Width, img.Height, img.SizeBytes)
}

func printTurn(out io.Writer, t conversation.Turn) {
	prefix := "you"
	if t.Role == conversation.RoleAssistant {
		prefix = "VisionTalk"
	}
	if t.Image != nil {
		fmt.Fprintf(out, "%s: [image %dx%d]\n", prefix, t.Image.Width, t.Image.Height)
	}
	if t.Text != "" {
		fmt.Fprintf(out, "%s: %s\n", prefix, t.Text)
	}
}

func printError(out io.Writer, err error) {
	var report *turn.ErrorReport
	if errors.As(err, &report) {
		fmt.Fprintln(out, report.Message)
		return
	}
	fmt.Fprintf(out, "error: %v\n", err)
}
