package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/angeloszaimis/health-assistant/internal/api"
	"github.com/angeloszaimis/health-assistant/internal/client"
)

const prompt = "> "

type chatClient interface {
	Chat(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
	Next(ctx context.Context, sessionID, lang string) (*api.ChatResponse, error)
}

// runChat reads one message per line until EOF or "quit". The session id
// from the first reply is sent with every later message.
func runChat(ctx context.Context, c chatClient, in io.Reader, out io.Writer, lang string) error {
	var sessionID string

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, prompt)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			fmt.Fprint(out, prompt)
			continue
		case line == "quit" || line == "exit":
			return nil
		}

		var (
			res *api.ChatResponse
			err error
		)
		if strings.EqualFold(line, api.ActionNext) && sessionID != "" {
			res, err = c.Next(ctx, sessionID, lang)
		} else {
			req := api.ChatRequest{Message: line, Lang: lang}
			if sessionID != "" {
				req.SessionID = &sessionID
			}
			res, err = c.Chat(ctx, req)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			printError(out, err)
			fmt.Fprint(out, prompt)
			continue
		}

		sessionID = res.SessionID
		printResponse(out, res)
		fmt.Fprint(out, prompt)
	}

	return scanner.Err()
}

func printResponse(out io.Writer, res *api.ChatResponse) {
	fmt.Fprintln(out, res.Text)

	switch {
	case res.Awaiting && res.FollowupQuestion != "":
		fmt.Fprintf(out, "? %s (yes/no)\n", res.FollowupQuestion)
	case res.HasNext:
		fmt.Fprintln(out, "(type \"next\" to continue)")
	}
}

func printError(out io.Writer, err error) {
	var se *client.StatusError
	switch {
	case errors.Is(err, client.ErrCircuitOpen):
		fmt.Fprintln(out, "! backend unavailable, try again in a few seconds")
	case errors.As(err, &se):
		fmt.Fprintf(out, "! backend rejected the message: %s\n", se.Message)
	default:
		fmt.Fprintf(out, "! %v\n", err)
	}
}
