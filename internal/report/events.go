package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType represents the type of event
type EventType string

const (
	EventScan    EventType = "scan"
	EventMatch   EventType = "match"
	EventEnrich  EventType = "enrich"
	EventEdit    EventType = "edit"
	EventSidecar EventType = "sidecar"
	EventImport  EventType = "import"
	EventImage   EventType = "image"
	EventSkip    EventType = "skip"
	EventError   EventType = "error"
)

// EventLevel represents the severity level
type EventLevel string

const (
	LevelDebug   EventLevel = "debug"
	LevelInfo    EventLevel = "info"
	LevelWarning EventLevel = "warning"
	LevelError   EventLevel = "error"
)

// levelPriority maps event levels to numeric priorities for comparison
var levelPriority = map[EventLevel]int{
	LevelDebug:   0,
	LevelInfo:    1,
	LevelWarning: 2,
	LevelError:   3,
}

// Event represents a single event in the pipeline
type Event struct {
	Timestamp  time.Time         `json:"ts"`
	Level      EventLevel        `json:"level"`
	Event      EventType         `json:"event"`
	FolderPath string            `json:"folder_path,omitempty"`
	Title      string            `json:"title,omitempty"`
	CatalogID  int64             `json:"catalog_id,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Status     string            `json:"status,omitempty"`
	Action     string            `json:"action,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Duration   int64             `json:"duration_ms,omitempty"` // in milliseconds
	Error      string            `json:"error,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// EventLogger writes events to a JSONL file
type EventLogger struct {
	file     *os.File
	encoder  *json.Encoder
	mu       sync.Mutex
	path     string
	minLevel EventLevel
}

// NewEventLogger creates a new event logger with a minimum log level
// minLevel determines which events are written (e.g., LevelInfo skips LevelDebug)
func NewEventLogger(outputDir string, minLevel EventLevel) (*EventLogger, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("events-%s.jsonl", timestamp)
	path := filepath.Join(outputDir, filename)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create event log: %w", err)
	}

	return &EventLogger{
		file:     file,
		encoder:  json.NewEncoder(file),
		path:     path,
		minLevel: minLevel,
	}, nil
}

// Log writes an event to the JSONL file
func (l *EventLogger) Log(event *Event) error {
	if l == nil || l.file == nil {
		return nil // Silently ignore if logger not initialized
	}

	if levelPriority[event.Level] < levelPriority[l.minLevel] {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := l.encoder.Encode(event); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	return nil
}

// LogScan logs a folder discovery event
func (l *EventLogger) LogScan(folderPath, title string, sizeBytes int64) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventScan,
		FolderPath: folderPath,
		Title:      title,
		Extra: map[string]string{
			"size_bytes": fmt.Sprintf("%d", sizeBytes),
		},
	})
}

// LogMatch logs the outcome of resolving a title against the catalog
func (l *EventLogger) LogMatch(folderPath, title string, catalogID int64, confidence float64, status string) error {
	level := LevelInfo
	if status == "failed" {
		level = LevelWarning
	}

	return l.Log(&Event{
		Level:      level,
		Event:      EventMatch,
		FolderPath: folderPath,
		Title:      title,
		CatalogID:  catalogID,
		Confidence: confidence,
		Status:     status,
	})
}

// LogEnrich logs a completed enrichment for one entry
func (l *EventLogger) LogEnrich(folderPath, title string, catalogID int64, duration time.Duration, err error) error {
	level := LevelInfo
	errMsg := ""
	if err != nil {
		level = LevelError
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:      level,
		Event:      EventEnrich,
		FolderPath: folderPath,
		Title:      title,
		CatalogID:  catalogID,
		Duration:   duration.Milliseconds(),
		Error:      errMsg,
	})
}

// LogEdit logs a manual metadata edit
func (l *EventLogger) LogEdit(folderPath, title, action string) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventEdit,
		FolderPath: folderPath,
		Title:      title,
		Action:     action,
	})
}

// LogSidecar logs a sidecar write. Sidecar failures are warnings, never
// errors: the database remains the source of truth.
func (l *EventLogger) LogSidecar(folderPath string, err error) error {
	level := LevelDebug
	errMsg := ""
	if err != nil {
		level = LevelWarning
		errMsg = err.Error()
	}

	return l.Log(&Event{
		Level:      level,
		Event:      EventSidecar,
		FolderPath: folderPath,
		Error:      errMsg,
	})
}

// LogImport logs a sidecar import decision
func (l *EventLogger) LogImport(folderPath, title, action, reason string) error {
	return l.Log(&Event{
		Level:      LevelInfo,
		Event:      EventImport,
		FolderPath: folderPath,
		Title:      title,
		Action:     action,
		Reason:     reason,
	})
}

// LogSkip logs a folder excluded from scanning
func (l *EventLogger) LogSkip(folderPath, reason string) error {
	return l.Log(&Event{
		Level:      LevelDebug,
		Event:      EventSkip,
		FolderPath: folderPath,
		Reason:     reason,
	})
}

// LogError logs an error event
func (l *EventLogger) LogError(event EventType, folderPath string, err error) error {
	return l.Log(&Event{
		Level:      LevelError,
		Event:      event,
		FolderPath: folderPath,
		Error:      err.Error(),
	})
}

// Close closes the event log file
func (l *EventLogger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	return l.file.Close()
}

// Path returns the path to the event log file
func (l *EventLogger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// NullLogger returns a no-op event logger
func NullLogger() *EventLogger {
	return nil
}
