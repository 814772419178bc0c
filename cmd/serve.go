package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/radiance-crm/loyalty-cli/internal/model"
	"github.com/radiance-crm/loyalty-cli/internal/pipeline"
	"github.com/radiance-crm/loyalty-cli/internal/store"
)

var servePort int

// job tracks one asynchronous extraction with an append-only log, the
// way the desktop tools in this space surface progress to the operator.
type job struct {
	ID        string         `json:"id"`
	InputDir  string         `json:"input_dir"`
	Status    string         `json:"status"`
	Log       []string       `json:"log"`
	Stats     model.RunStats `json:"stats"`
	Report    string         `json:"report,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

const (
	jobStatusRunning  = "running"
	jobStatusComplete = "complete"
	jobStatusFailed   = "failed"
)

// jobRegistry is the in-memory job table. Jobs live for the lifetime of
// the process.
type jobRegistry struct {
	mu   sync.Mutex
	jobs map[string]*job
}

func newJobRegistry() *jobRegistry {
	return &jobRegistry{jobs: make(map[string]*job)}
}

func (r *jobRegistry) create(inputDir string) *job {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	j := &job{
		ID:        uuid.New().String(),
		InputDir:  inputDir,
		Status:    jobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.jobs[j.ID] = j
	return j
}

func (r *jobRegistry) appendLog(id, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Log = append(j.Log, line)
		j.UpdatedAt = time.Now().UTC()
	}
}

func (r *jobRegistry) finish(id, status string, stats model.RunStats, report, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if j, ok := r.jobs[id]; ok {
		j.Status = status
		j.Stats = stats
		j.Report = report
		j.Error = errMsg
		j.UpdatedAt = time.Now().UTC()
	}
}

// snapshot copies the job so handlers can marshal it without holding the
// lock.
func (r *jobRegistry) snapshot(id string) (job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return job{}, false
	}
	cp := *j
	cp.Log = append([]string(nil), j.Log...)
	return cp, true
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction job server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st := openStore(ctx, false)
		if st != nil {
			defer st.Close() //nolint:errcheck
		}

		registry := newJobRegistry()
		limiter := rate.NewLimiter(
			rate.Every(time.Minute/time.Duration(max(cfg.Server.JobsPerMinute, 1))),
			max(cfg.Server.JobBurst, 1),
		)

		r := buildRouter(registry, limiter, st, func(jobID, inputDir string) {
			go runJob(ctx, registry, jobID, inputDir, st)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			zap.L().Info("serve: listening", zap.Int("port", port))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return eris.Wrap(err, "serve: listen")
			}
			return nil
		})
		g.Go(func() error {
			<-gCtx.Done()
			zap.L().Info("serve: shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})

		return g.Wait()
	},
}

// buildRouter assembles the HTTP surface. start launches the extraction
// for a freshly created job; tests inject a stub.
func buildRouter(registry *jobRegistry, limiter *rate.Limiter, st store.Store, start func(jobID, inputDir string)) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/extract", func(w http.ResponseWriter, req *http.Request) {
		if !limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many extraction jobs"})
			return
		}

		var body struct {
			InputDir string `json:"input_dir"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.InputDir == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "input_dir is required"})
			return
		}

		j := registry.create(body.InputDir)
		registry.appendLog(j.ID, "Extraction démarrée: "+body.InputDir)

		start(j.ID, body.InputDir)

		writeJSON(w, http.StatusAccepted, map[string]string{
			"job_id": j.ID,
			"status": jobStatusRunning,
		})
	})

	r.Get("/jobs/{id}", func(w http.ResponseWriter, req *http.Request) {
		j, ok := registry.snapshot(chi.URLParam(req, "id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "job not found"})
			return
		}
		writeJSON(w, http.StatusOK, j)
	})

	r.Get("/runs", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "run history unavailable"})
			return
		}
		runs, err := st.ListRuns(req.Context(), store.RunFilter{Limit: 50})
		if err != nil {
			zap.L().Error("serve: list runs", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list runs failed"})
			return
		}
		writeJSON(w, http.StatusOK, runs)
	})

	return r
}

// runJob executes one extraction on its own goroutine. The pipeline
// itself stays synchronous.
func runJob(ctx context.Context, registry *jobRegistry, jobID, inputDir string, st store.Store) {
	p := pipeline.New(cfg, st)
	result, err := p.Run(ctx, inputDir)

	if err != nil {
		registry.appendLog(jobID, "Échec: "+err.Error())
		registry.finish(jobID, jobStatusFailed, result.Stats, "", err.Error())
		zap.L().Error("serve: job failed", zap.String("job_id", jobID), zap.Error(err))
		return
	}

	registry.appendLog(jobID, fmt.Sprintf("Terminé: %d clients fidèles", len(result.Records)))
	registry.finish(jobID, jobStatusComplete, result.Stats, result.Report, "")
	zap.L().Info("serve: job complete",
		zap.String("job_id", jobID),
		zap.Int("loyal", len(result.Records)),
	)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
