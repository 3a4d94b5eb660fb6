package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/wireflow/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// kvFlag collects repeated "key=value" flags in order.
type kvFlag struct {
	pairs [][2]string
}

func (f *kvFlag) String() string {
	parts := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		parts[i] = p[0] + "=" + p[1]
	}
	return strings.Join(parts, ",")
}

func (f *kvFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got '%s'", value)
	}
	f.pairs = append(f.pairs, [2]string{key, val})
	return nil
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("wireflow", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
Wireflow - A behavior-graph workflow engine.

Usage:
  wireflow [options] [WORKFLOW_PATH]

Arguments:
  WORKFLOW_PATH
    Path to a workflow definition (.hcl, .json or .yaml).

Options:
`)
		flagSet.PrintDefaults()
	}

	workflowFlag := flagSet.String("workflow", "", "Path to the workflow definition file.")
	wFlag := flagSet.String("w", "", "Path to the workflow definition file (shorthand).")
	workflowsDirFlag := flagSet.String("workflows-dir", "", "Directory of definitions resolvable by composition nodes.")
	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	seedFlag := flagSet.String("seed", "", "Fixed seed for the run's random source.")
	var paramFlags, envFlags kvFlag
	flagSet.Var(&paramFlags, "param", "Run input parameter as key=value. Repeatable.")
	flagSet.Var(&envFlags, "env", "Run environment value as key=value. Repeatable.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	path := ""
	if *workflowFlag != "" {
		path = *workflowFlag
	} else if *wFlag != "" {
		path = *wFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}

	if path == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	var seed uint64
	if *seedFlag != "" {
		parsed, err := strconv.ParseUint(*seedFlag, 10, 64)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: "invalid seed: must be an unsigned integer"}
		}
		seed = parsed
	}

	params := make(map[string]any, len(paramFlags.pairs))
	for _, p := range paramFlags.pairs {
		params[p[0]] = parseParamValue(p[1])
	}
	env := make(map[string]string, len(envFlags.pairs))
	for _, p := range envFlags.pairs {
		env[p[0]] = p[1]
	}

	config, err := app.NewConfig(app.Config{
		WorkflowPath: path,
		WorkflowsDir: *workflowsDirFlag,
		Params:       params,
		Env:          env,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
		RandSeed:     seed,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}

// parseParamValue gives -param values a useful type: numbers and booleans
// parse to themselves, everything else stays a string.
func parseParamValue(raw string) any {
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	return raw
}
