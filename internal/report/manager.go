// Package report runs asynchronous report-generation jobs: one job fetches
// the series of every panel in a dashboard over a fixed window and writes a
// CSV artifact under the data directory.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/chart"
	"github.com/waterwatch/dashboard/internal/models"
)

// Status represents the report job status.
type Status string

const (
	StatusPending   Status = "pending"
	StatusFetching  Status = "fetching"
	StatusRendering Status = "rendering"
	StatusComplete  Status = "complete"
	StatusError     Status = "error"
)

// Job represents one async report generation run.
type Job struct {
	ID          string     `json:"id"`
	DashboardID string     `json:"dashboardId"`
	Title       string     `json:"title"`
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"` // 0-100
	Stage       string     `json:"stage"`
	FilePath    string     `json:"-"`
	FileName    string     `json:"fileName,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Listener receives a snapshot of a job every time it changes. Used by the
// websocket progress channel.
type Listener func(job Job)

// Manager handles async report jobs.
type Manager struct {
	mu        sync.RWMutex
	jobs      map[string]*Job
	reportDir string
	api       backend.API
	listeners []Listener
}

// NewManager creates a report manager writing artifacts under reportDir.
func NewManager(reportDir string, api backend.API) (*Manager, error) {
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}
	return &Manager{
		jobs:      make(map[string]*Job),
		reportDir: reportDir,
		api:       api,
	}, nil
}

// Subscribe registers a listener for job updates.
func (m *Manager) Subscribe(l Listener) {
	m.mu.Lock()
	m.listeners = append(m.listeners, l)
	m.mu.Unlock()
}

// StartJob begins async generation of a report over the given draft and
// returns the pending job.
func (m *Manager) StartJob(token, title string, draft models.LayoutConfiguration) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		Title:     title,
		Status:    StatusPending,
		Stage:     "queued",
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.run(job.ID, token, title, draft)

	snapshot := *job
	return &snapshot
}

// GetJob returns a snapshot of a job.
func (m *Manager) GetJob(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// ArtifactPath returns the path of a completed job's CSV file.
func (m *Manager) ArtifactPath(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok || job.Status != StatusComplete {
		return "", false
	}
	return job.FilePath, true
}

func (m *Manager) run(jobID, token, title string, draft models.LayoutConfiguration) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Report %s] PANIC recovered: %v\n", jobID[:8], r)
			m.fail(jobID, fmt.Sprintf("report generation panicked: %v", r))
		}
	}()

	start := time.Now()
	fmt.Printf("[Report %s] Starting report %q (%d panels)\n", jobID[:8], title, len(draft.Panels))

	m.update(jobID, func(j *Job) {
		j.Status = StatusFetching
		j.Stage = "fetching series"
	})

	type panelData struct {
		panel    models.Panel
		datasets []models.Dataset
	}
	var collected []panelData

	total := len(draft.Panels)
	for i, panel := range draft.Panels {
		if !panel.Type.Supported() {
			// Unsupported chart types appear in the report as an explicit
			// placeholder row, mirroring the dashboard fallback.
			collected = append(collected, panelData{panel: panel})
			continue
		}

		req, err := chart.BuildSeriesRequest(&panel, draft.TimeRange, 0, draft.Options, time.Now())
		if err != nil {
			fmt.Printf("[Report %s] skipping panel %s: %v\n", jobID[:8], panel.ID, err)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		resp, err := m.api.QuerySeries(ctx, token, req)
		cancel()
		if err != nil {
			m.fail(jobID, err.Error())
			return
		}

		collected = append(collected, panelData{
			panel:    panel,
			datasets: chart.BindResponse(&panel, resp),
		})

		progress := float64(i+1) * 80.0 / float64(total)
		m.update(jobID, func(j *Job) { j.Progress = progress })
	}

	m.update(jobID, func(j *Job) {
		j.Status = StatusRendering
		j.Stage = "writing csv"
		j.Progress = 85
	})

	fileName := fmt.Sprintf("report_%s_%s.csv", sanitize(title), time.Now().Format("20060102_150405"))
	path := filepath.Join(m.reportDir, fileName)

	f, err := os.Create(path)
	if err != nil {
		m.fail(jobID, fmt.Sprintf("creating report file: %v", err))
		return
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Write([]string{"panel", "series", "timestamp", "value", "anomaly", "forecast"})
	for _, pd := range collected {
		if !pd.panel.Type.Supported() {
			w.Write([]string{pd.panel.Title, fmt.Sprintf("unsupported chart type: %s", pd.panel.Type), "", "", "", ""})
			continue
		}
		for _, ds := range pd.datasets {
			writeDatasetRows(w, pd.panel.Title, ds)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		m.fail(jobID, fmt.Sprintf("writing report: %v", err))
		return
	}

	now := time.Now()
	m.update(jobID, func(j *Job) {
		j.Status = StatusComplete
		j.Stage = "done"
		j.Progress = 100
		j.FilePath = path
		j.FileName = fileName
		j.CompletedAt = &now
	})

	fmt.Printf("[Report %s] Completed in %s -> %s\n", jobID[:8], time.Since(start).Round(time.Millisecond), fileName)
}

func writeDatasetRows(w *csv.Writer, panelTitle string, ds models.Dataset) {
	for _, p := range ds.Actual {
		w.Write([]string{
			panelTitle, ds.Label,
			p.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			strconv.FormatBool(p.Anomaly),
			"false",
		})
	}
	for _, p := range ds.Forecast {
		w.Write([]string{
			panelTitle, ds.Label,
			p.Timestamp.UTC().Format(time.RFC3339),
			strconv.FormatFloat(p.Value, 'f', -1, 64),
			strconv.FormatBool(p.Anomaly),
			"true",
		})
	}
}

func (m *Manager) update(jobID string, fn func(*Job)) {
	m.mu.Lock()
	job, ok := m.jobs[jobID]
	if !ok {
		m.mu.Unlock()
		return
	}
	fn(job)
	snapshot := *job
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (m *Manager) fail(jobID, msg string) {
	m.update(jobID, func(j *Job) {
		j.Status = StatusError
		j.Stage = "failed"
		j.Error = msg
	})
}

func sanitize(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "dashboard"
	}
	return string(out)
}
