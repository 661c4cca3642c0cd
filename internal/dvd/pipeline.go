package dvd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"ripkit/internal/config"
	"ripkit/internal/encode"
	"ripkit/internal/fileutil"
	"ripkit/internal/journal"
	"ripkit/internal/logging"
	"ripkit/internal/probe"
	"ripkit/internal/scan"
	"ripkit/internal/toolexec"
	"ripkit/internal/tvdb"
)

// ErrAlreadyRunning is returned when another processing run holds the
// staging lock.
var ErrAlreadyRunning = errors.New("another processing run is active")

// ErrNoEpisodes is returned when metadata lookup yields no episodes for
// the requested season.
var ErrNoEpisodes = errors.New("no episodes found for season")

// EpisodeLookup resolves series and episode metadata.
type EpisodeLookup interface {
	SearchSeries(ctx context.Context, query string) (*tvdb.Series, error)
	SeasonEpisodes(ctx context.Context, seriesID int64, season int) ([]tvdb.Episode, error)
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithRunner overrides the process runner.
func WithRunner(runner toolexec.Runner) Option {
	return func(p *Pipeline) { p.runner = runner }
}

// WithJournal enables run history recording.
func WithJournal(store *journal.Store) Option {
	return func(p *Pipeline) { p.journal = store }
}

// Pipeline sequences the DVD processing phases.
type Pipeline struct {
	cfg     *config.Config
	lookup  EpisodeLookup
	runner  toolexec.Runner
	files   *scan.FileFilter
	journal *journal.Store
	logger  *slog.Logger
}

// New constructs a pipeline.
func New(cfg *config.Config, lookup EpisodeLookup, logger *slog.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if lookup == nil {
		return nil, errors.New("episode lookup required")
	}
	p := &Pipeline{
		cfg:    cfg,
		lookup: lookup,
		runner: toolexec.NewCommandRunner(logger),
		files:  scan.NewFileFilter(logger),
		logger: logging.NewComponentLogger(logger, "dvd"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

type runState struct {
	req      Request
	workDir  string
	dirs     DirectoryStructure
	episodes []tvdb.Episode
	copied   []string
}

type phase struct {
	name    string
	enabled bool
	run     func(ctx context.Context, st *runState) error
}

// Process executes the pipeline for one request. Phases run in order
// and the first failure aborts the run; there is no retry and no
// rollback of completed phases.
func (p *Pipeline) Process(ctx context.Context, req Request) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := p.cfg.EnsureDirectories(); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(p.cfg.Paths.StagingDir, "ripkit.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	defer lock.Unlock() //nolint:errcheck

	st := &runState{
		req:     req,
		workDir: filepath.Join(p.cfg.Paths.StagingDir, "run-"+uuid.NewString()),
	}
	if err := os.MkdirAll(st.workDir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	defer os.RemoveAll(st.workDir)

	store := p.journal
	var runID int64
	if store != nil {
		runID, err = store.BeginRun(ctx, req.Source, req.DestinationDir)
		if err != nil {
			p.logger.Warn("journal unavailable", logging.Error(err))
			store = nil
		}
	}

	phases := []phase{
		{name: "create-directories", enabled: true, run: p.createDirectories},
		{name: "resolve-episodes", enabled: true, run: p.resolveEpisodes},
		{name: "copy-files", enabled: true, run: p.copyAndRename},
		{name: "extract-chapters", enabled: req.ExtractChapters, run: p.extractChapters},
		{name: "extract-captions", enabled: req.ExtractCaptions, run: p.extractCaptions},
		{name: "convert", enabled: req.Convert, run: p.convert},
	}

	runErr := p.runPhases(ctx, store, runID, st, phases)
	if store != nil {
		if err := store.FinishRun(ctx, runID, runErr); err != nil {
			p.logger.Warn("record run outcome", logging.Error(err))
		}
	}
	return runErr
}

func (p *Pipeline) runPhases(ctx context.Context, store *journal.Store, runID int64, st *runState, phases []phase) error {
	for _, ph := range phases {
		if !ph.enabled {
			continue
		}
		started := time.Now()
		p.logger.Info("phase started", logging.String("phase", ph.name))
		err := ph.run(ctx, st)
		if store != nil {
			if recordErr := store.RecordPhase(ctx, runID, ph.name, started, err); recordErr != nil {
				p.logger.Warn("record phase", logging.Error(recordErr))
			}
		}
		if err != nil {
			p.logger.Error("phase failed",
				logging.String("phase", ph.name),
				logging.Error(err),
			)
			return fmt.Errorf("%s: %w", ph.name, err)
		}
		p.logger.Info("phase completed",
			logging.String("phase", ph.name),
			logging.Duration("elapsed", time.Since(started)),
		)
	}
	return nil
}

func (p *Pipeline) createDirectories(_ context.Context, st *runState) error {
	show := ShowTitle(st.req.Show)
	st.dirs.RootDir = filepath.Join(st.req.DestinationDir, fileutil.SanitizeFileName(show))
	st.dirs.SeasonDir = filepath.Join(st.dirs.RootDir, fmt.Sprintf("Season %02d", st.req.Season))

	dirs := []string{st.dirs.SeasonDir}
	if st.req.ExtractChapters {
		st.dirs.ChaptersDir = filepath.Join(st.dirs.SeasonDir, "chapters")
		dirs = append(dirs, st.dirs.ChaptersDir)
	}
	if st.req.ExtractCaptions {
		st.dirs.CaptionsDir = filepath.Join(st.dirs.SeasonDir, "captions")
		dirs = append(dirs, st.dirs.CaptionsDir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func (p *Pipeline) resolveEpisodes(ctx context.Context, st *runState) error {
	series, err := p.lookup.SearchSeries(ctx, st.req.Show)
	if err != nil {
		return fmt.Errorf("search series: %w", err)
	}

	episodes, err := p.lookup.SeasonEpisodes(ctx, series.ID, st.req.Season)
	if err != nil {
		return fmt.Errorf("list episodes: %w", err)
	}
	if len(episodes) == 0 {
		return fmt.Errorf("%w: %s season %d", ErrNoEpisodes, series.Name, st.req.Season)
	}

	st.episodes = episodes
	p.logger.Info("episode metadata resolved",
		logging.String("series", series.Name),
		logging.Int("season", st.req.Season),
		logging.Int("episodes", len(episodes)),
	)
	return nil
}

func (p *Pipeline) copyAndRename(_ context.Context, st *runState) error {
	patterns := st.req.FilePatterns
	if len(patterns) == 0 {
		patterns = p.cfg.Scan.FilePatterns
	}
	minSize := st.req.MinFileSize
	if minSize == 0 {
		minSize = p.cfg.MinFileSizeBytes()
	}

	files, err := p.files.FilterVideoFiles([]string{st.req.Source}, patterns, minSize)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no video files found in %s", st.req.Source)
	}
	if len(files) > len(st.episodes) {
		return fmt.Errorf("found %d files but only %d episodes", len(files), len(st.episodes))
	}
	sort.Strings(files)

	show := ShowTitle(st.req.Show)
	for i, src := range files {
		name := EpisodeFileName(show, st.episodes[i], filepath.Ext(src))
		// Never clobber an episode already in the library.
		dst := fileutil.UniquePath(filepath.Join(st.dirs.SeasonDir, name))
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
		}
		st.copied = append(st.copied, dst)
		p.logger.Info("file renamed",
			logging.String("source", filepath.Base(src)),
			logging.String("destination", filepath.Base(dst)),
		)
	}
	return nil
}

func (p *Pipeline) extractChapters(ctx context.Context, st *runState) error {
	for _, file := range st.copied {
		if !strings.EqualFold(filepath.Ext(file), ".mkv") {
			continue
		}
		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		out := filepath.Join(st.dirs.ChaptersDir, base+".chapters.xml")
		if _, err := p.runner.Run(ctx, p.cfg.Tools.MKVExtract, file, "chapters", out); err != nil {
			return fmt.Errorf("extract chapters from %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

func (p *Pipeline) extractCaptions(ctx context.Context, st *runState) error {
	prober, err := probe.New(p.cfg.Tools.FFprobe, p.runner, p.logger)
	if err != nil {
		return err
	}

	for _, file := range st.copied {
		result, err := prober.Probe(ctx, file)
		if err != nil {
			return fmt.Errorf("probe %s: %w", filepath.Base(file), err)
		}
		if len(result.SubtitleStreams()) == 0 {
			p.logger.Info("no caption streams", logging.String("file", filepath.Base(file)))
			continue
		}

		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		out := filepath.Join(st.dirs.CaptionsDir, base+".srt")
		args := []string{"-hide_banner", "-nostdin", "-y", "-i", file, "-map", "0:s:0", out}
		if _, err := p.runner.Run(ctx, p.cfg.Tools.FFmpeg, args...); err != nil {
			return fmt.Errorf("extract captions from %s: %w", filepath.Base(file), err)
		}
	}
	return nil
}

func (p *Pipeline) convert(ctx context.Context, st *runState) error {
	rate, err := encode.ParseRateControl(p.cfg.Encoding.Mode, p.cfg.Encoding.Quality, p.cfg.Encoding.Bitrate)
	if err != nil {
		return err
	}
	video, err := encode.NewEncodingConfig(p.cfg.Encoding.Codec, rate, p.cfg.Encoding.Preset)
	if err != nil {
		return err
	}

	// HandBrake has no constant-QP mode; those conversions go through
	// ffmpeg instead.
	useFFmpeg := rate.Mode() == encode.ModeCQP

	for _, file := range st.copied {
		out := filepath.Join(st.workDir, filepath.Base(file))

		var binary string
		var args []string
		if useFFmpeg {
			binary = p.cfg.Tools.FFmpeg
			args, err = encode.ConvertArgs(file, out, video, nil)
		} else {
			binary = p.cfg.Tools.HandBrake
			args, err = encode.HandBrakeArgs(file, out, video, nil)
		}
		if err != nil {
			return err
		}

		if _, err := p.runner.Run(ctx, binary, args...); err != nil {
			return fmt.Errorf("convert %s: %w", filepath.Base(file), err)
		}
		if err := replaceFile(out, file); err != nil {
			return fmt.Errorf("replace %s: %w", filepath.Base(file), err)
		}
		p.logger.Info("file converted",
			logging.String("file", filepath.Base(file)),
			logging.String("settings", video.String()),
		)
	}
	return nil
}

// replaceFile moves the converted output over the original, falling
// back to copy when staging and library are on different filesystems.
func replaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
