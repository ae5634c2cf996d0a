package cli

import (
	"context"

	logger "github.com/sirupsen/logrus"

	"github.com/sprite-ai/staticreview/internal/analysis"
	"github.com/sprite-ai/staticreview/internal/cache"
	"github.com/sprite-ai/staticreview/internal/config"
	"github.com/sprite-ai/staticreview/internal/diff"
	"github.com/sprite-ai/staticreview/internal/file"
	"github.com/sprite-ai/staticreview/internal/model"
	"github.com/sprite-ai/staticreview/internal/review"
	"github.com/sprite-ai/staticreview/internal/vcs"
)

// session is the repository and configuration a command works against.
type session struct {
	repo *vcs.Repository
	cfg  *config.Config
	log  logger.FieldLogger
}

func openSession() (*session, error) {
	log := logger.StandardLogger()
	repo, err := vcs.Open(workDir, log)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(repo.Root())
	if err != nil {
		return nil, err
	}
	return &session{repo: repo, cfg: cfg, log: log}, nil
}

// loadConfig reads --config when given, otherwise the file in root.
func loadConfig(root string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cfg, _, err := config.Find(root)
	return cfg, err
}

// configForWorkDir loads the configuration without requiring a
// repository; outside one the defaults apply.
func configForWorkDir() (*config.Config, error) {
	root := workDir
	if repo, err := vcs.Open(workDir, nil); err == nil {
		root = repo.Root()
	}
	return loadConfig(root)
}

// buildEngine returns an engine running the configured rules minus skip.
func buildEngine(cfg *config.Config, skip []string, log logger.FieldLogger) (*review.Engine, error) {
	opts := analysis.Options{
		MaxFileSize:  cfg.MaxFileSize,
		SkipVendored: cfg.SkipVendored,
	}
	rules, err := analysis.Build(opts, append(append([]string{}, cfg.Skip...), skip...))
	if err != nil {
		return nil, err
	}
	log.WithField("rules", rules.Count()).Debug("rules loaded")
	return review.NewEngine(rules, log), nil
}

// reviewRun is the outcome of reviewing a working copy.
type reviewRun struct {
	Files   *file.Collection
	Changes []diff.Change
	Report  *review.Reporter
}

// reviewWorkingCopy reviews the staged files, plus unstaged ones when all
// is set. Staged content is read from a cache of the index so that what is
// checked is what will be committed.
func (s *session) reviewWorkingCopy(ctx context.Context, all bool, skip []string) (*reviewRun, error) {
	changes, err := s.repo.StagedChanges(ctx)
	if err != nil {
		return nil, err
	}
	files, err := vcs.NewFiles(s.repo.Root(), changes)
	if err != nil {
		return nil, err
	}

	if all {
		if files, err = s.withUnstaged(files); err != nil {
			return nil, err
		}
	}

	if files, err = s.cfg.Filter(files); err != nil {
		return nil, err
	}
	s.log.WithField("files", files.Count()).Debug("files selected")

	store, err := cache.New(s.cfg.CacheDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := store.Clear(); err != nil {
			s.log.WithError(err).Warn("could not clear cache")
		}
	}()

	cached, err := vcs.CacheStaged(ctx, s.repo, files, store)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(s.cfg, skip, s.log)
	if err != nil {
		return nil, err
	}
	report, err := engine.Review(ctx, review.Items(cached.Values()))
	if err != nil {
		return nil, err
	}
	return &reviewRun{Files: files, Changes: changes, Report: report}, nil
}

// withUnstaged adds the unstaged files not already staged.
func (s *session) withUnstaged(staged *file.Collection) (*file.Collection, error) {
	unstaged, err := s.repo.UnstagedFiles()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, staged.Count())
	for f := range staged.Values() {
		seen[f.Name()] = true
	}

	merged, err := file.NewCollection(staged.Slice()...)
	if err != nil {
		return nil, err
	}
	for f := range unstaged.Values() {
		if seen[f.Name()] {
			continue
		}
		if err := merged.Append(f); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

// exitCode maps the most severe issue to the process exit code.
func exitCode(report *review.Reporter, cfg *config.Config) (int, error) {
	worst, ok := report.MaxLevel()
	if !ok {
		return ExitClean, nil
	}
	failLevel, fail, err := cfg.FailLevel()
	if err != nil {
		return ExitError, err
	}
	switch {
	case fail && worst >= failLevel:
		return ExitFailed, nil
	case worst >= model.LevelWarning:
		return ExitWarnings, nil
	default:
		return ExitClean, nil
	}
}

// finish turns a report into the command's result.
func finish(report *review.Reporter, cfg *config.Config) error {
	code, err := exitCode(report, cfg)
	if err != nil {
		return err
	}
	if code != ExitClean {
		return &exitError{code: code}
	}
	return nil
}
