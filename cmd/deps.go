package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/agent"
	"github.com/spigell/talent-matcher/internal/ai"
	"github.com/spigell/talent-matcher/internal/ai/gemini"
	"github.com/spigell/talent-matcher/internal/backend"
	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/readiness"
	"github.com/spigell/talent-matcher/internal/scoring"
	"github.com/spigell/talent-matcher/internal/search"
	"github.com/spigell/talent-matcher/internal/secrets"
	"github.com/spigell/talent-matcher/internal/skills"
	"github.com/spigell/talent-matcher/internal/store"
	"github.com/spigell/talent-matcher/internal/vocab"
)

var errNoSource = errors.New("no data source configured")

// components is everything a command may need, built once from the config.
type components struct {
	config   *Config
	logger   *zap.Logger
	tracks   *vocab.Tracks
	synonyms *vocab.Synonyms
	matcher  skills.Matcher
	engine   *matching.Engine
	analyzer *readiness.Analyzer
	searcher *search.Searcher
}

// setup builds the logger and the core components. Any failure is fatal.
func setup() *components {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting the talent-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	c, err := newComponents(config, logger)
	if err != nil {
		logger.Fatal("building components", zap.Error(err))
	}
	return c
}

func newComponents(config *Config, logger *zap.Logger) (*components, error) {
	tracks, synonyms, err := vocabularies(config.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}

	matcher := skills.Matcher{MinOverlapLength: config.Matching.MinOverlapLength}

	opts := []matching.Option{
		matching.WithCalculator(scoring.Calculator{Skills: matcher}),
		matching.WithLogger(logger),
	}
	if w := config.Matching.Weights; w != nil {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("matching weights: %w", err)
		}
		opts = append(opts, matching.WithWeights(*w))
	}

	logger.Debug("vocabulary ready",
		zap.Strings("tracks", tracks.Names()),
		zap.Int("synonym_groups", synonyms.Len()),
		zap.Strings("synonym_keys", synonyms.Keys()),
	)

	searchWeights := search.DefaultWeights()
	if w := config.Search.Weights; w != nil {
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("search weights: %w", err)
		}
		searchWeights = *w
	}

	return &components{
		config:   config,
		logger:   logger,
		tracks:   tracks,
		synonyms: synonyms,
		matcher:  matcher,
		engine:   matching.NewEngine(opts...),
		analyzer: readiness.NewAnalyzer(tracks, matcher),
		searcher: &search.Searcher{Weights: searchWeights, Synonyms: synonyms, Matcher: matcher},
	}, nil
}

func vocabularies(cfg *VocabularyConfig) (*vocab.Tracks, *vocab.Synonyms, error) {
	tracks, synonyms := vocab.DefaultTracks(), vocab.DefaultSynonyms()
	if cfg == nil {
		return tracks, synonyms, nil
	}

	if len(cfg.Tracks) > 0 {
		fallback := cfg.DefaultTrack
		if fallback == "" {
			fallback = vocab.DefaultTrack
		}
		custom, err := vocab.NewTracks(cfg.Tracks, fallback)
		if err != nil {
			return nil, nil, err
		}
		tracks = custom
	}
	if len(cfg.Synonyms) > 0 {
		synonyms = vocab.NewSynonyms(cfg.Synonyms)
	}

	return tracks, synonyms, nil
}

func (c *components) readyThreshold() int {
	if t := c.config.Matching.ReadyThreshold; t > 0 {
		return t
	}
	return readiness.DefaultJobReadyThreshold
}

// source returns the backend when a url is configured, otherwise the snapshot file.
func (c *components) source() (store.Source, error) {
	if b := c.config.Backend; b != nil && strings.TrimSpace(b.URL) != "" {
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "backend api key",
			File:  b.APIKeyFile,
			Env:   "BACKEND_API_KEY",
			Value: b.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set backend.api-key-file, BACKEND_API_KEY_FILE or BACKEND_API_KEY)", err)
		}

		client, err := backend.New(c.logger, b.URL, apiKey)
		if err != nil {
			return nil, err
		}
		if b.UserAgent != "" {
			client.UserAgent = b.UserAgent
		}
		if b.PageSize > 0 {
			client.PageSize = b.PageSize
		}

		c.logger.Debug("using backend", zap.String("url", client.APIURL))
		return client, nil
	}

	if path := strings.TrimSpace(c.config.Snapshot); path != "" {
		snapshot, err := store.LoadSnapshot(path)
		if err != nil {
			return nil, err
		}
		c.logger.Debug("using snapshot", zap.String("path", path))
		return snapshot, nil
	}

	return nil, errNoSource
}

// load reads all talents and jobs from the configured source.
func (c *components) load(ctx context.Context) (*model.Talents, *model.Jobs, error) {
	src, err := c.source()
	if err != nil {
		return nil, nil, err
	}

	talents, err := src.Talents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getting talents: %w", err)
	}
	jobs, err := src.Jobs(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getting jobs: %w", err)
	}

	c.logger.Info("loaded records", zap.Int("talents", len(talents)), zap.Int("jobs", len(jobs)))

	return model.NewTalents(talents...), model.NewJobs(jobs...), nil
}

// newAgent builds the hiring agent, with a narrator when ai is enabled.
// A narrator that cannot be built is skipped with a warning.
func (c *components) newAgent(ctx context.Context) *agent.HiringAgent {
	opts := []agent.Option{
		agent.WithMatcher(c.matcher),
		agent.WithLogger(c.logger),
	}

	if c.config.AI.Enabled {
		narrator, err := newNarrator(ctx, c.config.AI, c.logger)
		if err != nil {
			c.logger.Warn("skipping ai narrative", zap.Error(err))
		} else {
			opts = append(opts, agent.WithNarrator(narrator))
		}
	}

	return agent.New(c.tracks, opts...)
}

func newNarrator(ctx context.Context, cfg *AIConfig, base *zap.Logger) (ai.Narrator, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := cfg.Gemini
	if gcfg == nil {
		gcfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  gcfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: gcfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	genLogger := logger.WithFields(base, logger.AIFields("gemini", gcfg.Model)...).With(
		zap.Int("ai_retry_attempts", gcfg.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Model, gcfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	narratorLogger := logger.WithFields(base, logger.AIFields("gemini", generator.Model())...)

	return gemini.NewNarrator(generator, cfg.Language, gcfg.MaxLogLength, narratorLogger), nil
}

// redacted returns a copy of the config safe to log.
func redacted(config *Config) *Config {
	cp := *config
	if config.Backend != nil {
		b := *config.Backend
		if b.APIKey != "" {
			b.APIKey = "***"
		}
		cp.Backend = &b
	}
	if config.AI != nil && config.AI.Gemini != nil {
		a := *config.AI
		g := *config.AI.Gemini
		if g.APIKey != "" {
			g.APIKey = "***"
		}
		a.Gemini = &g
		cp.AI = &a
	}
	return &cp
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
