// Command numline is a CLI tool for working with operation-tracking
// number line scenarios.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/zijianstudio/numline-toolkit/pkg/numline"
	"github.com/zijianstudio/numline-toolkit/pkg/numrender"
)

const usage = `numline - number line operations toolkit

Usage:
  numline <command> [options]

Commands:
  info       Show the operation chain of a scenario
  render     Render a scenario to SVG or PNG
  step       Simulate expiration over time
  validate   Validate a scenario file

Examples:
  numline info scenario.json
  numline render scenario.json -o out.svg
  numline render scenario.json -o out.png --width 1024 --height 512
  numline render scenario.json -o out.svg --proportion 0.5
  numline step scenario.json --seconds 6 --dt 0.25
  numline validate scenario.json

Use "numline <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "info":
		cmdInfo(args)
	case "render":
		cmdRender(args)
	case "step":
		cmdStep(args)
	case "validate":
		cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func loadModel(path string) (*numline.Scenario, *numline.NumberLine) {
	scenario, err := numline.LoadScenario(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	nl, err := scenario.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return scenario, nl
}

func cmdInfo(args []string) {
	if len(args) < 1 || args[0] == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: numline info <scenario.json>")
		os.Exit(1)
	}

	scenario, nl := loadModel(args[0])

	if scenario.Name != "" {
		fmt.Printf("Scenario: %s\n", scenario.Name)
	}
	r := nl.DisplayedRange.Get()
	fmt.Printf("Starting value: %g\n", nl.StartingValue.Get())
	fmt.Printf("Displayed range: [%g, %g]\n", r.Min, r.Max)

	for i, op := range nl.Operations {
		fmt.Printf("Operation %d: %s\n", i, op)
		if !op.IsActive.Get() {
			continue
		}
		fmt.Printf("  start:  %g\n", nl.OperationStartValue(op))
		fmt.Printf("  result: %g\n", nl.OperationResult(op))
		fmt.Printf("  range:  %s\n", rangeRelationship(nl, op))
	}
	fmt.Printf("End value: %g\n", nl.CurrentEndValue())
}

func rangeRelationship(nl *numline.NumberLine, op *numline.Operation) string {
	switch {
	case nl.IsOperationCompletelyOutOfDisplayedRange(op):
		return "completely out of range"
	case nl.IsOperationAtEdgeOfDisplayedRange(op):
		return "at edge of range"
	case nl.IsOperationPartiallyInDisplayedRange(op):
		return "partially in range"
	}
	return "in range"
}

func cmdRender(args []string) {
	if len(args) < 1 || args[0] == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: numline render <scenario.json> [-o output] [--width N] [--height N] [--proportion P] [--title T]")
		os.Exit(1)
	}

	input := args[0]
	output := ""
	width, height := 0, 0
	proportion := 0.0
	title := ""

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				i++
				output = args[i]
			}
		case "--width":
			if i+1 < len(args) {
				i++
				width = atoiOrDie(args[i], "--width")
			}
		case "--height":
			if i+1 < len(args) {
				i++
				height = atoiOrDie(args[i], "--height")
			}
		case "--proportion":
			if i+1 < len(args) {
				i++
				p, err := strconv.ParseFloat(args[i], 64)
				if err != nil || p < 0 || p > 1 {
					fmt.Fprintln(os.Stderr, "Error: --proportion must be a number in [0, 1]")
					os.Exit(1)
				}
				proportion = p
			}
		case "--title":
			if i+1 < len(args) {
				i++
				title = args[i]
			}
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}

	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".svg"
	}

	_, nl := loadModel(input)

	switch {
	case strings.HasSuffix(output, ".svg"):
		opts := numrender.DefaultSVGOptions()
		if width > 0 {
			opts.Width = width
		}
		if height > 0 {
			opts.Height = height
		}
		opts.Proportion = proportion
		opts.Title = title
		if err := os.WriteFile(output, []byte(numrender.RenderSVG(nl, opts)), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case strings.HasSuffix(output, ".png"):
		opts := numrender.DefaultPNGOptions()
		if width > 0 {
			opts.Width = width
		}
		if height > 0 {
			opts.Height = height
		}
		opts.Proportion = proportion
		opts.Title = title
		f, err := os.Create(output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := numrender.RenderPNG(nl, f, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: output must end in .svg or .png, got %s\n", output)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s\n", output)
}

func cmdStep(args []string) {
	if len(args) < 1 || args[0] == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: numline step <scenario.json> [--seconds S] [--dt D]")
		os.Exit(1)
	}

	seconds := 10.0
	dt := 0.5
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "--seconds":
			if i+1 < len(args) {
				i++
				seconds = atofOrDie(args[i], "--seconds")
			}
		case "--dt":
			if i+1 < len(args) {
				i++
				dt = atofOrDie(args[i], "--dt")
			}
		default:
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n", args[i])
			os.Exit(1)
		}
	}
	if dt <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --dt must be positive")
		os.Exit(1)
	}

	_, nl := loadModel(args[0])

	lastOpacity := nl.StartPoint.Opacity.Get()
	lastActive := len(nl.ActiveOperations())
	fmt.Printf("t=%-6s start=%g end=%g active=%d\n", "0.0s",
		nl.StartingValue.Get(), nl.CurrentEndValue(), lastActive)

	for t := dt; t <= seconds+1e-9; t += dt {
		nl.Step(dt)
		opacity := nl.StartPoint.Opacity.Get()
		active := len(nl.ActiveOperations())
		if opacity != lastOpacity || active != lastActive {
			fmt.Printf("t=%-6s start=%g end=%g active=%d opacity=%.2f\n",
				fmt.Sprintf("%.1fs", t), nl.StartingValue.Get(), nl.CurrentEndValue(), active, opacity)
			lastOpacity, lastActive = opacity, active
		}
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 || args[0] == "-h" {
		fmt.Fprintln(os.Stderr, "Usage: numline validate <scenario.json>")
		os.Exit(1)
	}

	if _, err := numline.LoadScenario(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")
}

func atoiOrDie(s, flag string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s needs an integer, got %q\n", flag, s)
		os.Exit(1)
	}
	return v
}

func atofOrDie(s, flag string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s needs a number, got %q\n", flag, s)
		os.Exit(1)
	}
	return v
}
