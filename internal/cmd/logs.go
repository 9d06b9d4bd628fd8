package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/Iron-Ham/scanform/internal/config"
	"github.com/Iron-Ham/scanform/internal/logging"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View scan logs",
	Long: `View and filter the scanform log file.

Logging must be enabled (logging.enabled: true) for scans to be recorded.
Use flags to filter and format the output.

Examples:
  # Show the last 50 lines
  scanform logs

  # Follow logs in real-time
  scanform logs -f

  # Only warnings and errors from the last hour
  scanform logs --level warn --since 1h

  # Everything about one barcode
  scanform logs --grep 8412345678900 -n 0`,
	RunE: runLogs,
}

var (
	logsTail   int
	logsFollow bool
	logsLevel  string
	logsSince  string
	logsGrep   string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of lines to show (0 for all)")
	logsCmd.Flags().BoolVarP(&logsFollow, "follow", "f", false, "Follow log output (like tail -f)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show logs since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Filter logs matching pattern (regex)")
}

// logEntry represents a parsed JSON log line
type logEntry struct {
	Time      time.Time      `json:"time"`
	Level     string         `json:"level"`
	Msg       string         `json:"msg"`
	Component string         `json:"component,omitempty"`
	Token     string         `json:"token,omitempty"`
	Extra     map[string]any `json:"-"` // Captures additional fields
}

// UnmarshalJSON implements custom unmarshaling to capture extra fields
func (e *logEntry) UnmarshalJSON(data []byte) error {
	// First, unmarshal known fields using a type alias to avoid recursion
	type Alias logEntry
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(e),
	}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	// Then unmarshal all fields to capture extras
	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	// Remove known fields, keep the rest as extra
	for _, key := range []string{"time", "level", "msg", "component", "token"} {
		delete(all, key)
	}

	if len(all) > 0 {
		e.Extra = all
	}

	return nil
}

// logFilter selects the entries shown.
type logFilter struct {
	minLevel int
	since    time.Time
	grep     *regexp.Regexp
}

var (
	logTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	logFieldStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	logLevelStyle = map[string]lipgloss.Style{
		logging.LevelDebug: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		logging.LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		logging.LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		logging.LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
)

// levelPriority returns the priority of a log level for filtering
func levelPriority(level string) int {
	switch strings.ToUpper(level) {
	case logging.LevelDebug:
		return 0
	case logging.LevelInfo:
		return 1
	case logging.LevelWarn:
		return 2
	case logging.LevelError:
		return 3
	default:
		return -1
	}
}

// formatLogEntry formats a log entry for terminal output
func formatLogEntry(entry *logEntry) string {
	var sb strings.Builder

	level := strings.ToUpper(entry.Level)
	sb.WriteString(logTimeStyle.Render("[" + entry.Time.Format("15:04:05.000") + "]"))
	sb.WriteString(" ")
	sb.WriteString(logLevelStyle[level].Render("[" + level + "]"))
	sb.WriteString(" ")
	sb.WriteString(entry.Msg)

	if entry.Component != "" {
		sb.WriteString(" " + logFieldStyle.Render("component=") + entry.Component)
	}
	if entry.Token != "" {
		sb.WriteString(" " + logFieldStyle.Render("token=") + entry.Token)
	}

	// Extra fields, in a stable order
	keys := make([]string, 0, len(entry.Extra))
	for key := range entry.Extra {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(" " + logFieldStyle.Render(key+"=") + fmt.Sprintf("%v", entry.Extra[key]))
	}

	return sb.String()
}

func runLogs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	logPath := filepath.Join(logDir(config.Get()), logging.FileName)

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Fprintln(out, "No logs found.")
		fmt.Fprintln(out, "Logs are stored at:", logPath)
		return nil
	}

	filter, err := newLogFilter(logsLevel, logsSince, logsGrep, time.Now())
	if err != nil {
		return err
	}

	if logsFollow {
		return followLogs(cmd, logPath, filter)
	}
	return displayLogs(out, logPath, logsTail, filter)
}

func newLogFilter(level, since, grep string, now time.Time) (logFilter, error) {
	filter := logFilter{minLevel: -1}
	if level != "" {
		filter.minLevel = levelPriority(logging.ParseLevel(level))
	}
	if since != "" {
		duration, err := time.ParseDuration(since)
		if err != nil {
			return filter, fmt.Errorf("invalid duration format: %w", err)
		}
		filter.since = now.Add(-duration)
	}
	if grep != "" {
		re, err := regexp.Compile(grep)
		if err != nil {
			return filter, fmt.Errorf("invalid grep pattern: %w", err)
		}
		filter.grep = re
	}
	return filter, nil
}

// formatLine returns the display form of a raw log line and whether it
// passes filter. Lines that are not JSON are shown unfiltered.
func formatLine(line string, filter logFilter) (string, bool) {
	var entry logEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return line, true
	}
	if !filter.passes(&entry) {
		return "", false
	}
	return formatLogEntry(&entry), true
}

// displayLogs reads the log file and displays filtered entries
func displayLogs(w io.Writer, logPath string, tail int, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	var entries []string
	scanner := bufio.NewScanner(file)

	// Increase buffer size for potentially long log lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if formatted, ok := formatLine(line, filter); ok {
			entries = append(entries, formatted)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading log file: %w", err)
	}

	// Apply tail limit
	if tail > 0 && len(entries) > tail {
		entries = entries[len(entries)-tail:]
	}

	for _, entry := range entries {
		fmt.Fprintln(w, entry)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No matching log entries found.")
	}

	return nil
}

// followLogs implements tail -f behavior for the log file, reading new
// lines whenever the file is written.
func followLogs(cmd *cobra.Command, logPath string, filter logFilter) error {
	file, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer file.Close()

	// Seek to end of file
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("failed to seek to end: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(logPath); err != nil {
		return fmt.Errorf("failed to watch log file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Following logs... (Ctrl+C to stop)\n\n")

	reader := bufio.NewReader(file)
	var partial string
	drain := func() error {
		for {
			line, err := reader.ReadString('\n')
			if err == io.EOF {
				partial += line
				return nil
			}
			if err != nil {
				return fmt.Errorf("error reading log file: %w", err)
			}
			line = strings.TrimSpace(partial + line)
			partial = ""
			if line == "" {
				continue
			}
			if formatted, ok := formatLine(line, filter); ok {
				fmt.Fprintln(out, formatted)
			}
		}
	}

	done := cmd.Context()
	if done == nil {
		done = context.Background()
	}
	for {
		select {
		case <-done.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) {
				if err := drain(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("error watching log file: %w", err)
		}
	}
}

// passes checks if a log entry passes all filter criteria
func (f logFilter) passes(entry *logEntry) bool {
	// Level filter
	if f.minLevel >= 0 && levelPriority(entry.Level) < f.minLevel {
		return false
	}

	// Time filter
	if !f.since.IsZero() && entry.Time.Before(f.since) {
		return false
	}

	// Grep filter - search in message and context fields
	if f.grep != nil {
		searchText := entry.Msg + " " + entry.Component + " " + entry.Token
		for _, v := range entry.Extra {
			searchText += " " + fmt.Sprintf("%v", v)
		}
		if !f.grep.MatchString(searchText) {
			return false
		}
	}

	return true
}
