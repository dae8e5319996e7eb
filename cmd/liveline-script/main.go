// Command liveline-script plays a YAML-described scenario of live
// console lines, useful for eyeballing redraw behavior.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/wandb/parallel"
	"gopkg.in/yaml.v3"

	"github.com/liveline/liveline/internal/mirror"
	"github.com/liveline/liveline/internal/term"
	"github.com/liveline/liveline/pkg/console"
)

// scriptConfig is the top-level structure of a scenario file.
type scriptConfig struct {
	// Parallelism caps how many tasks animate at once. Defaults to
	// running all tasks together.
	Parallelism int `yaml:"parallelism"`

	// MaxFPS caps console redraws per second.
	MaxFPS int `yaml:"maxFps"`

	// Mirror is a file to copy the console's rows into.
	Mirror string `yaml:"mirror"`

	// Notes are static lines printed before the tasks start.
	Notes []string `yaml:"notes"`

	Tasks []scriptTask `yaml:"tasks"`
}

// scriptTask is one animated line.
type scriptTask struct {
	Name string `yaml:"name"`

	// Frames are shown one after another as the task's content.
	Frames []string `yaml:"frames"`

	// FrameMs is how long each frame stays up, in milliseconds.
	FrameMs int `yaml:"frameMs"`
}

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "liveline-script - play a scripted console scenario\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  liveline-script <scenario.yaml>\n\n")
		fmt.Fprintf(os.Stderr, "Scenario file:\n")
		fmt.Fprintf(os.Stderr, "  parallelism: 2\n")
		fmt.Fprintf(os.Stderr, "  maxFps: 10\n")
		fmt.Fprintf(os.Stderr, "  notes: [\"build started\"]\n")
		fmt.Fprintf(os.Stderr, "  tasks:\n")
		fmt.Fprintf(os.Stderr, "    - name: \"compile:\"\n")
		fmt.Fprintf(os.Stderr, "      frames: [\".\", \"..\", \"...\", \"ok\"]\n")
		fmt.Fprintf(os.Stderr, "      frameMs: 200\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}

	if !term.IsTerminal(os.Stdout) {
		fmt.Fprintln(os.Stderr, "liveline-script: stdout is not a terminal")
		return 1
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "liveline-script: %v\n", err)
		return 1
	}

	var config scriptConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		fmt.Fprintf(os.Stderr, "liveline-script: failed to parse scenario: %v\n", err)
		return 1
	}

	if err := play(config); err != nil {
		fmt.Fprintf(os.Stderr, "liveline-script: %v\n", err)
		return 1
	}
	return 0
}

func play(config scriptConfig) error {
	params := console.Params{MaxFPS: config.MaxFPS}

	if config.Mirror != "" {
		writer, err := mirror.NewWriter(mirror.WriterParams{Path: config.Mirror})
		if err != nil {
			return err
		}
		params.Mirror = writer
	}

	c := console.New(params)
	defer c.Close()

	for _, note := range config.Notes {
		c.PrintLine(note)
	}

	ctx := context.Background()
	executor := parallel.Unlimited(ctx)
	if config.Parallelism > 0 {
		executor = parallel.Limited(ctx, config.Parallelism)
	}

	for _, task := range config.Tasks {
		executor.Go(func(ctx context.Context) {
			playTask(ctx, c, task)
		})
	}
	executor.Wait()

	return nil
}

func playTask(ctx context.Context, c *console.Console, task scriptTask) {
	frameTime := time.Duration(task.FrameMs) * time.Millisecond
	if frameTime <= 0 {
		frameTime = 100 * time.Millisecond
	}

	entry := c.PrintDynamic(task.Name)
	defer entry.Close()

	for _, frame := range task.Frames {
		entry.Update(task.Name, frame)

		select {
		case <-ctx.Done():
			return
		case <-time.After(frameTime):
		}
	}
}
