package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/cv-screener/internal/ai/gemini"
	"github.com/spigell/cv-screener/internal/document"
	"github.com/spigell/cv-screener/internal/filtering"
	"github.com/spigell/cv-screener/internal/headhunter"
	"github.com/spigell/cv-screener/internal/logger"
	"github.com/spigell/cv-screener/internal/metrics"
	"github.com/spigell/cv-screener/internal/screening"
	"github.com/spigell/cv-screener/internal/secrets"
	"github.com/spigell/cv-screener/internal/source"
)

const (
	PromptRanking   = "Show ranking"
	PromptCandidate = "Show candidate report"
	PromptErrors    = "Show failed files"
	PromptDump      = "Dump report to file"
	PromptExit      = "Exit"
	PromptBack      = "back"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRanking, PromptCandidate, PromptErrors, PromptDump, PromptExit},
}

var screenCmd = &cobra.Command{
	Use:   "screen [files, directories or s3://bucket/prefix...]",
	Short: "Score and rank resumes against a job description",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		screen(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(screenCmd)

	screenCmd.Flags().StringP("vacancy", "v", "", "hh.ru vacancy id used as the job description")
	screenCmd.Flags().StringP("title", "t", "", "job title (overrides job.title)")
	screenCmd.Flags().StringP("description-file", "f", "", "file with the job description (overrides job.description-file)")
	screenCmd.Flags().BoolP("yes", "y", false, "do not open the interactive menu, print the ranking and exit")
	screenCmd.Flags().StringP("output", "o", "", "write the full report as JSON to this file")
	screenCmd.Flags().IntP("concurrency", "c", screening.DefaultConcurrency, "resumes processed at the same time")
	screenCmd.Flags().StringSlice("skip-filter", nil, "shortlist filters to disable by name (domain_mismatch, min_score, min_years, exclude_file, top)")

	viper.BindPFlag("job.title", screenCmd.Flags().Lookup("title"))
	viper.BindPFlag("job.description-file", screenCmd.Flags().Lookup("description-file"))
	viper.BindPFlag("concurrency", screenCmd.Flags().Lookup("concurrency"))
}

// screen is the main command for the cli.
func screen(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync() //nolint:errcheck

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the cv-screener", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	job, err := resolveJob(ctx, cmd, config, logger)
	if err != nil {
		logger.Fatal("resolving the job description", zap.Error(err))
	}

	loader, err := newLoader(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing resume sources", zap.Error(err))
	}

	files, err := loader.Load(ctx, args)
	if err != nil {
		logger.Fatal("loading resumes", zap.Error(err))
	}
	if len(files) == 0 {
		logger.Info("exiting", zap.String("reason", "no resume files found"))
		return
	}
	logger.Info("resumes loaded", zap.Int("count", len(files)))

	registry := prometheus.NewRegistry()
	engine, err := newEngine(ctx, config, logger, metrics.New(registry))
	if err != nil {
		logger.Fatal("building the screening engine", zap.Error(err))
	}

	gate := screening.NewGate(config.Concurrency)
	report, err := engine.Screen(ctx, gate, job, files)
	if err != nil {
		logger.Fatal("screening failed", zap.Error(err))
	}

	if config.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(config.MetricsFile, registry); err != nil {
			logger.Warn("writing metrics", zap.String("filename", config.MetricsFile), zap.Error(err))
		}
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := writeReport(report, output); err != nil {
			logger.Fatal("writing the report", zap.Error(err))
		}
		logger.Info("report written", zap.String("filename", output))
	}

	filters := filtering.Default()
	skipped, _ := cmd.Flags().GetStringSlice("skip-filter")
	for _, name := range skipped {
		filtering.DisableByName(filters, strings.TrimSpace(name), "disabled via --skip-filter")
	}

	shortlist, err := filtering.Run(ctx, &config.Shortlist, filtering.Deps{Logger: logger}, filters, report.Candidates)
	if err != nil {
		logger.Fatal("building the shortlist", zap.Error(err))
	}

	for _, status := range filtering.Describe(filters) {
		logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		printJSON(logger, "ranking", ranking(shortlist), zap.Int("candidates", len(shortlist)))
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, report, shortlist); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, report *screening.Report, shortlist []screening.Candidate) error {
	switch action {
	case PromptRanking:
		printJSON(logger, "ranking", ranking(shortlist), zap.Int("candidates", len(shortlist)))
		return nil
	case PromptCandidate:
		return showCandidate(logger, report, shortlist)
	case PromptErrors:
		printJSON(logger, "failed files", report.Errors, zap.Int("count", len(report.Errors)))
		return nil
	case PromptDump:
		file, err := os.CreateTemp("", "screening_*.json")
		if err != nil {
			return err
		}
		file.Close()
		if err := writeReport(report, file.Name()); err != nil {
			return fmt.Errorf("dump report to file: %w", err)
		}
		logger.Info("dumping report to file", zap.String("filename", file.Name()))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func showCandidate(logger *zap.Logger, report *screening.Report, shortlist []screening.Candidate) error {
	items := make([]string, 0, len(shortlist)+1)
	for _, c := range shortlist {
		items = append(items, c.File)
	}

	candidatePrompt := promptui.Select{
		Label: "Choose a resume and press ENTER",
		Items: append(items, PromptBack),
		Size:  15,
	}

	_, selected, err := candidatePrompt.Run()
	if err != nil {
		return err
	}
	if selected == PromptBack {
		return nil
	}

	c, ok := report.Find(selected)
	if !ok {
		return fmt.Errorf("there is no such resume %s", selected)
	}
	printJSON(logger, "candidate", c, zap.String("file", c.File), zap.Int("match_score", c.MatchScore))
	return nil
}

type rankingEntry struct {
	File           string   `json:"file"`
	Name           string   `json:"name,omitempty"`
	MatchScore     int      `json:"match_score"`
	Evidence       int      `json:"skills_evidence_pct"`
	Years          float64  `json:"years_experience"`
	Education      string   `json:"education"`
	DomainMismatch bool     `json:"domain_mismatch,omitempty"`
	Missing        []string `json:"missing,omitempty"`
}

func ranking(candidates []screening.Candidate) []rankingEntry {
	out := make([]rankingEntry, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, rankingEntry{
			File:           c.File,
			Name:           c.Name,
			MatchScore:     c.MatchScore,
			Evidence:       c.SkillsEvidencePct,
			Years:          c.YearsExperience,
			Education:      c.EducationLabel,
			DomainMismatch: c.DomainMismatch,
			Missing:        c.Missing,
		})
	}
	return out
}

func printJSON(logger *zap.Logger, what string, v any, fields ...zap.Field) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Warn("rendering "+what, zap.Error(err))
		return
	}
	logger.Info(string(pretty), fields...)
}

func writeReport(report *screening.Report, path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func resolveJob(ctx context.Context, cmd *cobra.Command, config *Config, logger *zap.Logger) (screening.Job, error) {
	if id, _ := cmd.Flags().GetString("vacancy"); strings.TrimSpace(id) != "" {
		return vacancyJob(ctx, id, config.Headhunter, logger)
	}

	jc := config.Job
	if jc == nil {
		return screening.Job{}, errors.New("a job description is required: set the job section or pass --vacancy")
	}

	description := jc.Description
	if path := strings.TrimSpace(jc.DescriptionFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return screening.Job{}, fmt.Errorf("reading job description: %w", err)
		}
		description = string(data)
	}

	return screening.Job{
		Title:              jc.Title,
		Description:        description,
		MinYearsExperience: jc.MinYearsExperience,
		EducationLevel:     jc.EducationLevel,
	}, nil
}

func vacancyJob(ctx context.Context, id string, cfg *HHConfig, logger *zap.Logger) (screening.Job, error) {
	var token string
	if cfg != nil && strings.TrimSpace(cfg.TokenFile) != "" {
		var err error
		token, err = secrets.Load(secrets.Source{Name: "headhunter token", File: cfg.TokenFile})
		if err != nil {
			return screening.Job{}, err
		}
	}

	hh := headhunter.New(logger, token)
	if cfg != nil && cfg.UserAgent != "" {
		hh.UserAgent = cfg.UserAgent
	}

	vacancy, err := hh.GetVacancy(ctx, id)
	if err != nil {
		return screening.Job{}, fmt.Errorf("getting vacancy %s: %w", id, err)
	}

	logger.Info("vacancy loaded",
		zap.String("vacancy_id", vacancy.ID),
		zap.String("name", vacancy.Name),
		zap.String("employer", vacancy.Employer.Name),
		zap.String("experience", vacancy.Experience.Name),
	)
	return vacancy.Job()
}

func newLoader(ctx context.Context, config *Config, logger *zap.Logger) (*source.Loader, error) {
	loader := &source.Loader{}
	if config.S3 == nil {
		return loader, nil
	}

	s3cfg := config.S3.S3Config
	if s3cfg.AccessKeyID != "" {
		secret, err := secrets.Load(secrets.Source{
			Name: "s3 secret access key",
			Env:  "S3_SECRET_ACCESS_KEY",
			File: config.S3.SecretAccessKeyFile,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set s3.secret-access-key-file or S3_SECRET_ACCESS_KEY)", err)
		}
		s3cfg.SecretAccessKey = secret
	}

	bucket, err := source.NewBucket(ctx, s3cfg, logger)
	if err != nil {
		return nil, err
	}
	loader.Bucket = bucket
	return loader, nil
}

func newEngine(ctx context.Context, config *Config, logger *zap.Logger, m *metrics.Metrics) (*screening.Engine, error) {
	maxBytes := 0
	if config.Document != nil {
		maxBytes = config.Document.MaxBytes
	}

	deps := screening.Deps{
		Extractor: document.NewExtractor(maxBytes, logger),
		Logger:    logger,
		Metrics:   m,
	}

	assistant, err := newAssistant(ctx, config.AI, logger)
	switch {
	case err != nil:
		logger.Warn("model features disabled", zap.Error(err))
	case assistant != nil:
		deps.Profiles = assistant
		deps.Grader = assistant
		deps.Suggester = assistant
	}

	return screening.New(config.Screening, deps)
}

func newAssistant(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (*gemini.Assistant, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	gcfg := GeminiConfig{}
	if cfg.Gemini != nil {
		gcfg = *cfg.Gemini
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: gcfg.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, gcfg.Config, logger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAssistant(generator, logger, gcfg.MaxLogLength), nil
}
