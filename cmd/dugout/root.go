package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dugoutai/dugout"
	"github.com/dugoutai/dugout/classify"
	"github.com/dugoutai/dugout/compose"
	"github.com/dugoutai/dugout/config"
	"github.com/dugoutai/dugout/grounding"
	"github.com/dugoutai/dugout/logging"
	"github.com/dugoutai/dugout/mlb"
	anthropicmodel "github.com/dugoutai/dugout/model/anthropic"
	openaimodel "github.com/dugoutai/dugout/model/openai"
	"github.com/dugoutai/dugout/planner"
	"github.com/dugoutai/dugout/player"
	"github.com/dugoutai/dugout/router"

	"github.com/anthropics/anthropic-sdk-go"
	"google.golang.org/genai"

	"github.com/dugoutai/dugout/model"
)

var rootCmd = &cobra.Command{
	Use:   "dugout",
	Short: "Dugout is an LLM-routed MLB assistant",
	Long: `Dugout answers MLB questions by routing each query to the right backend:
live player statistics from the MLB Stats API or grounded answers from a
document knowledge base.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildAssistant wires the full pipeline from configuration: chat model,
// MLB Stats API client, grounded generator and optionally the multi-domain
// planner.
func buildAssistant(ctx context.Context, cfg *config.Config, logger logging.Logger) (*dugout.Assistant, error) {
	chatModel, err := buildChatModel(cfg)
	if err != nil {
		return nil, err
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend:  genai.BackendVertexAI,
		Project:  cfg.GoogleProject,
		Location: cfg.GoogleLocation,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	mlbClient := mlb.NewClient(func(o *mlb.Options) {
		if cfg.MLBBaseURL != "" {
			o.BaseURL = cfg.MLBBaseURL
		}
	})

	classifier := classify.NewClassifier(chatModel, func(o *classify.Options) {
		o.EnableMultiDomain = cfg.EnablePlanner
		o.Logger = logger
	})
	resolver := player.NewResolver(mlbClient, func(o *player.ResolverOptions) {
		o.ActiveOnly = true
		o.Logger = logger
	})
	fetcher := player.NewFetcher(mlbClient, func(o *player.FetcherOptions) {
		o.Logger = logger
	})
	composer := compose.NewComposer(chatModel, func(o *compose.Options) {
		o.Logger = logger
	})
	documents := grounding.NewGenerator(genaiClient.Models, func(o *grounding.Options) {
		o.Model = cfg.GeminiModel
		o.RAGCorpus = cfg.RAGCorpus
		o.Logger = logger
	})

	engine := router.New(classifier, resolver, fetcher, composer, documents,
		func(o *router.Options) {
			o.Logger = logger
			if cfg.EnablePlanner {
				o.Planner = planner.New(chatModel, []planner.Tool{
					planner.NewPlayerSearchTool(resolver),
					planner.NewPlayerStatsTool(fetcher),
					planner.NewDocumentQueryTool(documents),
				}, func(po *planner.Options) { po.Logger = logger })
			}
		})

	return dugout.New(engine, func(o *dugout.Options) {
		o.Logger = logger
	}), nil
}

func buildChatModel(cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropicmodel.NewModel(func(o *anthropicmodel.Options) {
			if cfg.ChatModel != "" {
				o.Model = anthropic.Model(cfg.ChatModel)
			}
		}), nil
	case config.ProviderOpenAI:
		return openaimodel.NewModel(func(o *openaimodel.Options) {
			if cfg.ChatModel != "" {
				o.Model = cfg.ChatModel
			}
		}), nil
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
}

func buildLogger(cfg *config.Config) logging.Logger {
	return logging.NewSlogLogger(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, os.Stderr)
}
