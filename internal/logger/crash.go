// Package logger provides structured logging setup plus crash logging and
// recovery for tasksage.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"sync"
	"time"
)

// MaxCrashLogs is the maximum number of crash logs to keep
const MaxCrashLogs = 10

const (
	crashPrefix = "crash_"
	crashSuffix = ".json"
)

type crashContext struct {
	mu        sync.RWMutex
	dir       string
	version   string
	command   string
	inputFile string
	taskCount int
}

var globalContext = &crashContext{}

// SetCrashDir sets the directory crash logs are written to.
func SetCrashDir(dir string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.dir = dir
}

// SetVersion sets the application version for crash logs.
func SetVersion(version string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.version = version
}

// SetCommand sets the current command being executed.
func SetCommand(cmd string) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.command = cmd
}

// SetInput records which task batch was being processed.
func SetInput(path string, taskCount int) {
	globalContext.mu.Lock()
	defer globalContext.mu.Unlock()
	globalContext.inputFile = strings.TrimSpace(path)
	globalContext.taskCount = taskCount
}

// CrashLog represents a crash log entry.
type CrashLog struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	InputFile  string    `json:"input_file,omitempty"`
	TaskCount  int       `json:"task_count,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic is a deferred function that recovers from panics, logs them and exits.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		log := createCrashLog(r)
		path, err := writeCrashLog(log)
		reportCrash(os.Stderr, r, path, err)
		os.Exit(1)
	}
}

func reportCrash(w io.Writer, r any, path string, err error) {
	if err != nil {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash log: %v\n", err)
		fmt.Fprintf(w, "[CRASH] Panic: %v\n%s\n", r, debug.Stack())
		return
	}
	fmt.Fprintf(w, "\ntasksage encountered an unexpected error.\n")
	fmt.Fprintf(w, "A crash log has been saved to:\n  %s\n\n", path)
}

func createCrashLog(panicValue any) CrashLog {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()

	return CrashLog{
		Timestamp:  time.Now(),
		Version:    globalContext.version,
		Command:    globalContext.command,
		InputFile:  globalContext.inputFile,
		TaskCount:  globalContext.taskCount,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// writeCrashLog writes a crash log to disk and returns its path.
func writeCrashLog(log CrashLog) (string, error) {
	dir := crashLogDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}

	// Keep room for the new file
	if err := pruneCrashLogs(dir, MaxCrashLogs-1); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to clean old crash logs: %v\n", err)
	}

	content, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash log: %w", err)
	}

	path := filepath.Join(dir, crashPrefix+log.Timestamp.Format("20060102_150405.000")+crashSuffix)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("write crash log: %w", err)
	}
	return path, nil
}

func crashLogDir() string {
	globalContext.mu.RLock()
	defer globalContext.mu.RUnlock()
	if globalContext.dir == "" {
		return filepath.Join(os.TempDir(), "tasksage", "crash_logs")
	}
	return globalContext.dir
}

// pruneCrashLogs removes the oldest crash logs so at most keep remain.
func pruneCrashLogs(dir string, keep int) error {
	logs, err := listCrashLogs(dir)
	if err != nil {
		return err
	}
	if len(logs) <= keep {
		return nil
	}
	// os.ReadDir returns entries sorted by name, and names embed the timestamp
	for _, path := range logs[:len(logs)-keep] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash log %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func listCrashLogs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var logs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), crashPrefix) && strings.HasSuffix(e.Name(), crashSuffix) {
			logs = append(logs, filepath.Join(dir, e.Name()))
		}
	}
	return logs, nil
}

// ListCrashLogs returns all crash logs, oldest first.
func ListCrashLogs() ([]string, error) {
	return listCrashLogs(crashLogDir())
}

// ReadCrashLog decodes a crash log file.
func ReadCrashLog(path string) (CrashLog, error) {
	var log CrashLog
	content, err := os.ReadFile(path)
	if err != nil {
		return log, err
	}
	if err := json.Unmarshal(content, &log); err != nil {
		return log, fmt.Errorf("decode crash log %s: %w", path, err)
	}
	return log, nil
}
