// Package main demonstrates one-shot prompts with the console library.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/nao1215/console"
)

func main() {
	s, err := console.New(console.WithPrefix("name?"))
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Serve(ctx)

	s.WriteLine("Basic Prompt Example")
	s.WriteLine("Press Ctrl+C to skip a question")

	// The handler result becomes the prompt value
	name, err := s.Prompt(ctx, console.HandleWith(console.Transform(strings.TrimSpace))).Wait(ctx)
	if errors.Is(err, console.ErrInterrupted) {
		name = "stranger"
	} else if err != nil {
		log.Fatal(err)
	}

	color, err := s.Prompt(ctx,
		console.Message("favorite color?"),
		console.EchoInput(false),
		console.HandleWith(console.Transform(strings.ToLower)),
	).Wait(ctx)
	if errors.Is(err, console.ErrInterrupted) {
		color = "surprises"
	} else if err != nil {
		log.Fatal(err)
	}

	s.WriteLine(fmt.Sprintf("Nice to meet you, %s! You like %s.", name, color))
}
