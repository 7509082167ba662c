package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/grantmcd/prisoners-royale/internal/author"
	"github.com/grantmcd/prisoners-royale/internal/compiler"
	"github.com/grantmcd/prisoners-royale/internal/config"
	"github.com/grantmcd/prisoners-royale/internal/engine"
	"github.com/grantmcd/prisoners-royale/internal/game"
)

const contenders = 3

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.RequireGemini(); err != nil {
		log.Fatal(err)
	}

	// The author turns descriptions into graphs.
	graphAuthor, err := author.NewAuthor(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create author: %v", err)
	}
	defer graphAuthor.Close()

	// A second model plays the contestant and invents the descriptions.
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create contestant client: %v", err)
	}
	defer client.Close()
	contestant := client.GenerativeModel(author.DefaultModel)

	fmt.Println("--- Step 1: Inventing strategies ---")
	registry := game.NewRegistry(nil)
	participants := []game.Strategy{}
	for _, name := range registry.Names() {
		s, _ := registry.Lookup(name)
		participants = append(participants, s)
	}

	var taken []string
	for i := 1; i <= contenders; i++ {
		description := describeStrategy(ctx, contestant, taken)
		fmt.Printf("Contender %d idea: %s\n", i, description)

		saved, err := graphAuthor.Generate(ctx, description)
		if err != nil {
			fmt.Printf("Contender %d could not be drawn: %v\n\n", i, err)
			continue
		}
		s, err := compiler.Compile(saved.Name, saved.Graph)
		if err != nil {
			fmt.Printf("Contender %d does not compile: %v\n\n", i, err)
			continue
		}
		fmt.Printf("Contender %d drawn as %q with %d nodes\n\n", i, saved.Name, len(saved.Graph.Nodes))
		participants = append(participants, s)
		taken = append(taken, description)
	}

	fmt.Println("--- Step 2: Royale ---")
	eng := engine.NewEngine(cfg.EngineOptions()...)
	result, err := eng.Run(participants)
	if err != nil {
		log.Fatalf("Tournament failed: %v", err)
	}
	for _, round := range result.Log {
		fallen := make([]string, len(round.Eliminated))
		for i, e := range round.Eliminated {
			fallen[i] = fmt.Sprintf("%s (%d)", e.StrategyName, e.Score)
		}
		fmt.Printf("Cycle %d: out %s, %d left\n", round.Round, strings.Join(fallen, ", "), round.SurvivorCount)
	}
	fmt.Printf("Winner: %s\n", result.Winner)
}

func describeStrategy(ctx context.Context, model *genai.GenerativeModel, taken []string) string {
	prompt := `You are entering an iterated Prisoner's Dilemma elimination tournament.
Each round you see only your own last move and your opponent's last move.
Describe, in one or two sentences, a strategy you think will outlast
AlwaysCooperate, AlwaysDefect, TitForTat, Random, Grudger and Pavlov.`
	if len(taken) > 0 {
		prompt += "\nDo not repeat these ideas:\n- " + strings.Join(taken, "\n- ")
	}
	prompt += "\nReturn ONLY the description."

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "defect once after each opponent defection, otherwise cooperate"
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "cooperate unless I defected last round"
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
