// Command liveline-demo animates a handful of concurrent fake tasks to
// show the console's in-place line updates.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/liveline/liveline/internal/mirror"
	"github.com/liveline/liveline/internal/observability"
	"github.com/liveline/liveline/internal/term"
	"github.com/liveline/liveline/pkg/console"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	maxFPS := flag.Int("fps", 4,
		"Maximum redraws per second.")
	width := flag.Int("width", 0,
		"Clip rows to this many display cells. 0 uses the terminal width.")
	workers := flag.Int("workers", 3,
		"Number of concurrent tasks to simulate.")
	logPath := flag.String("log", "",
		"Write internal diagnostics to this file.")
	mirrorPath := flag.String("mirror", "",
		"Keep a copy of the console's final rows in this file.")
	flag.Parse()

	if !term.IsTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "liveline-demo: stdout is not a terminal")
		return 1
	}

	logger := observability.NewNoOpLogger()
	if *logPath != "" {
		file, err := os.OpenFile(*logPath,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "liveline-demo: failed to open log: %v\n", err)
			return 1
		}
		defer func() { _ = file.Close() }()

		gate, err := observability.NewRepeatGate(64, 30*time.Second)
		if err != nil {
			fmt.Fprintf(os.Stderr, "liveline-demo: %v\n", err)
			return 1
		}

		logger = observability.NewCoreLogger(
			slog.New(slog.NewJSONHandler(file, nil)),
			&observability.CoreLoggerParams{
				Gate: gate,
				Tags: observability.Tags{"component": "liveline-demo"},
			},
		)
	}

	params := console.Params{
		Logger:       logger,
		MaxFPS:       *maxFPS,
		MaxLineWidth: *width,
	}

	if *mirrorPath != "" {
		writer, err := mirror.NewWriter(mirror.WriterParams{
			Path:   *mirrorPath,
			Logger: logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "liveline-demo: %v\n", err)
			return 1
		}
		params.Mirror = writer
	}

	c := console.New(params)
	defer c.Close()

	c.Printf("starting %d tasks", *workers)

	group := &errgroup.Group{}
	group.SetLimit(*workers)

	for i := range *workers {
		group.Go(func() error {
			runTask(c, i)
			return nil
		})
	}
	_ = group.Wait()

	c.PrintLine("all tasks complete")
	return 0
}

// runTask animates one task's entry from zero to done.
func runTask(c *console.Console, id int) {
	name := fmt.Sprintf("task %d:", id)
	entry := c.PrintDynamic(name, "0%")

	for percent := 5; percent <= 100; percent += 5 {
		time.Sleep(time.Duration(50+rand.IntN(150)) * time.Millisecond)
		entry.Update(name, fmt.Sprintf("%d%%", percent))
	}

	entry.Update(name, "done").Close()
}
