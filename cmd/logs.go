package cmd

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/hpcloud/tail"
	"github.com/spf13/cobra"

	"github.com/grovetools/refactor/logging"
)

// NewLogsCmd creates the `logs` command.
func NewLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs [component...]",
		Short: "Display logs written by the review commands",
		Long: `Streams log files from the project's .grove/logs directory. Without
arguments, all components are shown; pass component names to filter.

Examples:
  # Follow all refactor logs
  refactor logs -f

  # Only the serve loop
  refactor logs refactor-serve -f

  # Last 50 lines
  refactor logs --tail 50
`,
		RunE: runLogsE,
	}

	cmd.Flags().BoolP("follow", "f", false, "Follow log output")
	cmd.Flags().Int("tail", -1, "Number of lines to show from the end of each log (default: all)")

	return cmd
}

func runLogsE(cmd *cobra.Command, args []string) error {
	logsDir := logging.LogDir()
	if logsDir == "" {
		return fmt.Errorf("could not determine log directory")
	}

	files, err := findLogFiles(logsDir, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No log files found in %s\n", logsDir)
		return nil
	}

	follow, _ := cmd.Flags().GetBool("follow")
	tailLines, _ := cmd.Flags().GetInt("tail")

	lineChan := make(chan string, 100)
	var wg sync.WaitGroup

	for _, path := range files {
		wg.Add(1)
		go tailFile(path, lineChan, &wg, follow, tailLines)
	}

	go func() {
		wg.Wait()
		close(lineChan)
	}()

	for line := range lineChan {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

// findLogFiles lists log files in dir, optionally filtered by component
// name prefixes, newest last.
func findLogFiles(dir string, components []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not read log directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		if len(components) > 0 {
			matched := false
			for _, c := range components {
				if strings.HasPrefix(entry.Name(), c) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// tailFile streams a log file's lines into lineChan.
func tailFile(path string, lineChan chan<- string, wg *sync.WaitGroup, follow bool, tailLines int) {
	defer wg.Done()

	cfg := tail.Config{
		Follow:   follow,
		ReOpen:   follow,
		Location: &tail.SeekInfo{Offset: 0, Whence: io.SeekStart},
		Logger:   stdlog.New(io.Discard, "", 0),
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return
	}

	if tailLines >= 0 && !follow {
		// Buffer everything and keep the last N lines.
		var lines []string
		for line := range t.Lines {
			if line.Err != nil {
				continue
			}
			lines = append(lines, line.Text)
		}
		start := len(lines) - tailLines
		if start < 0 {
			start = 0
		}
		for _, l := range lines[start:] {
			lineChan <- l
		}
		return
	}

	for line := range t.Lines {
		if line.Err != nil {
			continue
		}
		lineChan <- line.Text
	}
}
