// Command simulate_game lets a Gemini "player" iterate on a tactic: the
// assistant writes a first program, the engine plays it on fixed seeds,
// and the player rewrites it after reading the results.
package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tatianab/tactics-game/internal/board"
	"github.com/tatianab/tactics-game/internal/config"
	"github.com/tatianab/tactics-game/internal/engine"
	"github.com/tatianab/tactics-game/internal/replay"
	"github.com/tatianab/tactics-game/internal/share"
)

const (
	maxIterations = 5
	seedsPerRound = 3
)

type outcome struct {
	score int
	won   int
	tail  []string
}

func main() {
	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required for self-play")
	}

	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	playerClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Fatalf("Failed to create player client: %v", err)
	}
	defer playerClient.Close()
	playerModel := playerClient.GenerativeModel("gemini-2.5-flash")

	fmt.Println("--- Step 1: Requesting a strategy from the Player LLM ---")
	strategyPrompt := "You are about to play a card game against a series of monsters by writing a program. Describe, in one sentence, the strategy you want to try. Return ONLY the sentence."
	strategy := ask(ctx, playerModel, strategyPrompt, "fight weak creeps, retreat from strong ones")
	fmt.Printf("Player strategy: %s\n\n", strategy)

	fmt.Println("--- Step 2: Writing the first tactic ---")
	program, err := eng.SuggestTactic(ctx, strategy)
	if err != nil {
		log.Fatalf("Failed to suggest tactic: %v", err)
	}

	best, bestProgram := outcome{score: -1}, program
	for iter := 1; iter <= maxIterations; iter++ {
		fmt.Printf("--- Iteration %d ---\n", iter)
		res := evaluate(cfg, program)
		fmt.Printf("Average score %d, won %d/%d\n", res.score, res.won, seedsPerRound)
		for _, line := range res.tail {
			fmt.Printf("  %s\n", line)
		}
		if res.score > best.score {
			best, bestProgram = res, program
		}
		if iter == maxIterations {
			break
		}
		program = improve(ctx, playerModel, program, res)
	}

	fmt.Printf("\nBest average score: %d\n", best.score)
	token, err := share.Encode(bestProgram)
	if err != nil {
		fmt.Printf("Best program cannot be shared: %v\n", err)
		fmt.Println(bestProgram)
		return
	}
	link, err := share.Link(cfg.ShareURL, token, 0)
	if err != nil {
		log.Fatalf("Failed to build link: %v", err)
	}
	fmt.Printf("Share link: %s\n", link)
}

// evaluate plays program on fixed seeds and averages the results.
func evaluate(cfg *config.Config, program string) outcome {
	var out outcome
	for seed := int64(1); seed <= seedsPerRound; seed++ {
		runCfg := cfg.RunConfig()
		runCfg.Seed = &seed

		b := board.New(runCfg)
		clock := replay.NewManualClock()
		s, err := replay.New(engine.RunSimulation(runCfg, program), b, clock, 0)
		if err != nil {
			log.Fatalf("Engine produced an unplayable log: %v", err)
		}
		s.Start()
		for s.State() != replay.Finished {
			clock.Advance()
		}

		out.score += b.Score
		if b.Won {
			out.won++
		}
		if seed == seedsPerRound {
			for _, l := range b.Lines[max(len(b.Lines)-8, 0):] {
				out.tail = append(out.tail, l.Text)
			}
		}
	}
	out.score /= seedsPerRound
	return out
}

func improve(ctx context.Context, model *genai.GenerativeModel, program string, res outcome) string {
	prompt := fmt.Sprintf(`You are improving a Go program for a card game.
Current program:

%s

It averaged %d points and won %d of %d games. The last log lines of one game were:
%s

Return an improved complete program with the same ChooseCard signature. Return ONLY Go source, no commentary.`,
		program, res.score, res.won, seedsPerRound, strings.Join(res.tail, "\n"))

	reply := ask(ctx, model, prompt, program)
	reply = strings.TrimSpace(reply)
	reply = strings.TrimPrefix(reply, "```go")
	reply = strings.TrimPrefix(reply, "```")
	reply = strings.TrimSuffix(reply, "```")
	if pretty, err := share.Format(reply); err == nil {
		return pretty
	}
	return reply
}

func ask(ctx context.Context, model *genai.GenerativeModel, prompt, fallback string) string {
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return fallback
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return fallback
	}
	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
}
