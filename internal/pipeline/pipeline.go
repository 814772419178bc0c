// Package pipeline orchestrates extraction, deduplication, loyalty
// filtering, and export over a directory of planning documents.
package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/radiance-crm/loyalty-cli/internal/config"
	"github.com/radiance-crm/loyalty-cli/internal/dedupe"
	"github.com/radiance-crm/loyalty-cli/internal/docsource"
	"github.com/radiance-crm/loyalty-cli/internal/extract"
	"github.com/radiance-crm/loyalty-cli/internal/model"
	"github.com/radiance-crm/loyalty-cli/internal/store"
)

var (
	// ErrNoDocuments means the input directory holds no readable
	// planning documents.
	ErrNoDocuments = eris.New("pipeline: no documents found")

	// ErrNoRecords means the documents were read but no client mention
	// survived extraction.
	ErrNoRecords = eris.New("pipeline: no client records extracted")

	// ErrNoneQualify means clients were extracted but none reached the
	// loyalty threshold.
	ErrNoneQualify = eris.New("pipeline: no client meets the session threshold")
)

// Result is the outcome of one extraction run. Records are sorted for
// export.
type Result struct {
	RunID   string
	Records []model.MergedClientRecord
	Stats   model.RunStats
	Report  string
}

// Pipeline runs the extraction batch. The store may be nil when run
// history is disabled.
type Pipeline struct {
	cfg   *config.Config
	store store.Store
}

// New creates a Pipeline.
func New(cfg *config.Config, st store.Store) *Pipeline {
	return &Pipeline{cfg: cfg, store: st}
}

// Run processes every document in inputDir sequentially. A document that
// fails to parse is logged and counted, never fatal; cancellation is
// honored between documents only, so a run never ends with a half-read
// file in its counts.
func (p *Pipeline) Run(ctx context.Context, inputDir string) (*Result, error) {
	log := zap.L().With(zap.String("input_dir", inputDir))
	log.Info("pipeline: starting extraction")

	result := &Result{}
	stats := &result.Stats

	runID := p.createRun(ctx, inputDir, log)
	result.RunID = runID

	paths, err := docsource.ListDocuments(inputDir)
	if err != nil {
		p.completeRun(ctx, runID, model.RunStatusFailed, *stats, err, log)
		return result, eris.Wrap(err, "pipeline: list documents")
	}
	stats.FilesFound = len(paths)
	if len(paths) == 0 {
		p.completeRun(ctx, runID, model.RunStatusEmpty, *stats, ErrNoDocuments, log)
		return result, ErrNoDocuments
	}

	opts := extract.WalkerOptions{
		HeaderDetect: p.cfg.Extract.HeaderDetection,
		Profile:      p.loadProfile(log),
		Now:          time.Now(),
	}

	var raw []model.RawClientRecord
	for _, path := range paths {
		if ctxErr := ctx.Err(); ctxErr != nil {
			p.completeRun(context.WithoutCancel(ctx), runID, model.RunStatusFailed, *stats, ctxErr, log)
			return result, eris.Wrap(ctxErr, "pipeline: canceled")
		}

		doc, readErr := docsource.ReadDocument(path)
		if readErr != nil {
			stats.FilesFailed++
			log.Warn("pipeline: document skipped",
				zap.String("file", filepath.Base(path)),
				zap.Error(readErr),
			)
			continue
		}

		records := extract.WalkDocument(doc, opts)
		raw = append(raw, records...)
		log.Info("pipeline: document extracted",
			zap.String("file", filepath.Base(path)),
			zap.Int("records", len(records)),
		)
	}
	stats.RawRecords = len(raw)

	if len(raw) == 0 {
		p.completeRun(ctx, runID, model.RunStatusEmpty, *stats, ErrNoRecords, log)
		return result, ErrNoRecords
	}

	merged := dedupe.Merge(raw, p.cfg.Extract.FuzzyThreshold)
	stats.MergedRecords = len(merged)
	log.Info("pipeline: deduplication complete",
		zap.Int("raw", len(raw)),
		zap.Int("merged", len(merged)),
	)

	loyal := Filter(merged, p.cfg.Extract.MinSessions)
	stats.LoyalRecords = len(loyal)
	for _, m := range loyal {
		if m.Phone != "" {
			stats.WithPhone++
		}
	}

	if len(loyal) == 0 {
		p.completeRun(ctx, runID, model.RunStatusNoLoyal, *stats, ErrNoneQualify, log)
		return result, ErrNoneQualify
	}

	SortForExport(loyal)
	result.Records = loyal
	result.Report = FormatReport(inputDir, *stats, loyal)

	p.completeRun(ctx, runID, model.RunStatusComplete, *stats, nil, log)

	log.Info("pipeline: extraction complete",
		zap.Int("files", stats.FilesFound),
		zap.Int("failed", stats.FilesFailed),
		zap.Int("raw", stats.RawRecords),
		zap.Int("merged", stats.MergedRecords),
		zap.Int("loyal", stats.LoyalRecords),
	)

	return result, nil
}

// loadProfile resolves the column-keyword profile, falling back to the
// defaults when no file is configured or the file fails to load.
func (p *Pipeline) loadProfile(log *zap.Logger) extract.ColumnProfile {
	if p.cfg.Extract.ProfilePath == "" {
		return extract.DefaultProfile()
	}
	profile, err := extract.LoadProfile(p.cfg.Extract.ProfilePath)
	if err != nil {
		log.Warn("pipeline: profile load failed, using defaults",
			zap.String("path", p.cfg.Extract.ProfilePath),
			zap.Error(err),
		)
		return extract.DefaultProfile()
	}
	return profile
}

// createRun records the run start. Store failures are warnings, never
// fatal.
func (p *Pipeline) createRun(ctx context.Context, inputDir string, log *zap.Logger) string {
	if p.store == nil {
		return ""
	}
	run, err := p.store.CreateRun(ctx, inputDir)
	if err != nil {
		log.Warn("pipeline: failed to create run record", zap.Error(err))
		return ""
	}
	return run.ID
}

func (p *Pipeline) completeRun(ctx context.Context, runID string, status model.RunStatus, stats model.RunStats, runErr error, log *zap.Logger) {
	if p.store == nil || runID == "" {
		return
	}
	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	if err := p.store.CompleteRun(ctx, runID, status, stats, msg); err != nil {
		log.Warn("pipeline: failed to complete run record", zap.Error(err))
	}
}
