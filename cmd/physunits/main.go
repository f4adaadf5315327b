/*
Physunits starts an interactive unit-expression evaluator session.

It reads a unit catalog configuration and then accepts expressions on stdin,
printing the dimensioned value each evaluates to. Input is read until EOF or
the "QUIT" command is given.

Usage:

	physunits [flags]

The flags are:

	-v, --version
		Give the current version of physunits and then exit.

	-c, --config FILE
		Use the provided unit catalog JSON configuration. Defaults to the
		config_path set in the preferences file, or "config.json" if unset.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading input even if launched in a tty
		with stdin and stdout.

	-e, --eval EXPRESSIONS
		Immediately evaluate the given expression(s) at start. Can be
		multiple expressions separated by the ";" character.

	--dump-tables
		Print the SLR(1) action/goto table and exit, for debugging the
		grammar.

Once a session has started, each line of input is parsed as an expression
and its value printed. "UNITS OF <expr> IN <units>" re-expresses a value in
different units. To exit, type "QUIT".
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/physunits"
	"github.com/dekarrin/physunits/internal/input"
	"github.com/dekarrin/physunits/internal/tqw"
	"github.com/dekarrin/physunits/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitEvalError
	ExitInitError
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	flagConfig     = pflag.StringP("config", "c", "", "The unit catalog JSON configuration to load")
	flagDirect     = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	flagEval       = pflag.StringP("eval", "e", "", "Evaluate the given expression(s) immediately at start and leave the interpreter open")
	flagDumpTables = pflag.Bool("dump-tables", false, "Print the SLR(1) action/goto table and exit")
)

func main() {
	returnCode := ExitSuccess
	defer func() { os.Exit(returnCode) }()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	prefsPath := "physunits.toml"
	prefs, err := tqw.Load(prefsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading preferences: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}

	configPath := prefs.ConfigPath
	if *flagConfig != "" {
		configPath = *flagConfig
	}

	f, err := physunits.New(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: loading %s: %s\n", configPath, err.Error())
		returnCode = ExitInitError
		return
	}

	if *flagDumpTables {
		fmt.Println(f.DumpTables())
		return
	}

	var startExprs []string
	if *flagEval != "" {
		startExprs = strings.Split(*flagEval, ";")
	}

	if err := runREPL(f, prefs, *flagDirect, startExprs); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitEvalError
		return
	}
}

func runREPL(f *physunits.Facade, prefs tqw.Preferences, direct bool, startExprs []string) error {
	var reader interface {
		ReadCommand() (string, error)
		AllowBlank(bool)
		Close() error
	}

	if direct {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		icr, err := input.NewInteractiveReader()
		if err != nil {
			return fmt.Errorf("create input reader: %w", err)
		}
		if prefs.Prompt != "" {
			icr.SetPrompt(prefs.Prompt)
		}
		reader = icr
	}
	defer reader.Close()

	for _, expr := range startExprs {
		evalAndPrint(f, expr)
	}

	for {
		line, err := reader.ReadCommand()
		if err != nil {
			return nil
		}

		if strings.EqualFold(strings.TrimSpace(line), "QUIT") {
			return nil
		}

		evalAndPrint(f, line)
	}
}

func evalAndPrint(f *physunits.Facade, line string) {
	if unitsExpr, valueExpr, ok := parseUnitsOf(line); ok {
		v, err := f.Parse(valueExpr)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return
		}
		r, err := f.Parse(unitsExpr)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return
		}
		ratio, err := f.InUnitsOf(v, r)
		if err != nil {
			fmt.Printf("ERROR: %s\n", err.Error())
			return
		}
		fmt.Printf("%g\n", ratio)
		return
	}

	v, err := f.Parse(line)
	if err != nil {
		fmt.Printf("ERROR: %s\n", err.Error())
		return
	}
	fmt.Println(v.String())
}

// parseUnitsOf recognizes "UNITS OF <expr> IN <units>" and splits it into
// the value expression and the units expression.
func parseUnitsOf(line string) (unitsExpr, valueExpr string, ok bool) {
	upper := strings.ToUpper(line)
	if !strings.HasPrefix(upper, "UNITS OF ") {
		return "", "", false
	}
	rest := line[len("UNITS OF "):]
	idx := strings.LastIndex(strings.ToUpper(rest), " IN ")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(rest[idx+len(" IN "):]), strings.TrimSpace(rest[:idx]), true
}
