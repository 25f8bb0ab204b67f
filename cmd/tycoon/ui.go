package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/talgya/tycoon/internal/session"
)

var (
	stdinReader = bufio.NewReader(os.Stdin)
	accent      = color.New(color.FgCyan, color.Bold)
	success     = color.New(color.FgGreen, color.Bold)
	warn        = color.New(color.FgYellow, color.Bold)
	danger      = color.New(color.FgRed, color.Bold)
	neutral     = color.New(color.FgHiWhite)
)

func printSuccess(msg string) { success.Println(msg) }
func printWarn(msg string)    { warn.Println(msg) }
func printError(msg string)   { danger.Println(msg) }
func printInfo(msg string)    { neutral.Println(msg) }

func money(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

// bar renders a 1-10 level as a fixed-width gauge.
func bar(level, max int) string {
	if level < 0 {
		level = 0
	}
	if level > max {
		level = max
	}
	return strings.Repeat("█", level) + strings.Repeat("░", max-level)
}

func promptChoice(label string, options []string, defaultValue string) (string, error) {
	normalized := make(map[string]struct{}, len(options))
	for _, opt := range options {
		normalized[strings.ToLower(strings.TrimSpace(opt))] = struct{}{}
	}
	for {
		fmt.Printf("%s (%s) [%s]: ", label, strings.Join(options, "/"), defaultValue)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return "", err
		}
		text = strings.ToLower(strings.TrimSpace(text))
		if text == "" {
			text = strings.ToLower(strings.TrimSpace(defaultValue))
		}
		if _, ok := normalized[text]; ok {
			return text, nil
		}
		printWarn("Invalid option. Please pick one of the listed values.")
	}
}

// promptIntRange reads a whole number in [min, max], using def when the
// player just presses enter.
func promptIntRange(label string, min, max, def int) (int, error) {
	for {
		fmt.Printf("%s [%d-%d, default %d]: ", label, min, max, def)
		text, err := stdinReader.ReadString('\n')
		if err != nil {
			return 0, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return def, nil
		}
		v, err := strconv.Atoi(text)
		if err != nil {
			printWarn("Enter a whole number.")
			continue
		}
		if v < min || v > max {
			printWarn(fmt.Sprintf("Value must be between %d and %d.", min, max))
			continue
		}
		return v, nil
	}
}

func promptYesNo(label string, def bool) (bool, error) {
	defStr := "n"
	if def {
		defStr = "y"
	}
	choice, err := promptChoice(label, []string{"y", "n"}, defStr)
	if err != nil {
		return false, err
	}
	return choice == "y", nil
}

func renderEvents(events []session.Event, limit int) {
	if len(events) == 0 {
		printInfo("No events yet.")
		return
	}
	start := 0
	if len(events) > limit {
		start = len(events) - limit
	}
	accent.Println("── Event log ──")
	for _, e := range events[start:] {
		tag := neutral
		switch e.Category {
		case "bankruptcy":
			tag = danger
		case "entry":
			tag = success
		}
		tag.Printf("  turn %3d  %s\n", e.Turn, e.Description)
	}
}
