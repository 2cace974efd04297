package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spicery/nutmeg-template/pkg/template"
	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

const version = "0.1.0"

// errTemplateProblems marks output that was written in full for a template
// that has problems. --exit0 turns it into a normal exit.
var errTemplateProblems = errors.New("template has problems")

// Output formats for structured results.
const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// options holds the persistent flags and what is loaded from them.
type options struct {
	input   string
	output  string
	rules   string
	grammar string
	format  string
	locale  string
	exit0   bool
	verbose bool
	pretty  bool

	registry *template.Registry
	loc      *template.Locale
}

func main() {
	root, opts := newRootCmd()
	os.Exit(exitCode(root.Execute(), opts, os.Stderr))
}

func exitCode(err error, opts *options, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if opts.exit0 && errors.Is(err, errTemplateProblems) {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd() (*cobra.Command, *options) {
	opts := &options{}
	root := &cobra.Command{
		Use:   "nutmeg-template",
		Short: "Parse, convert and print text templates",
		Long: `nutmeg-template works with text templates in several placeholder syntaxes:

  Brace          {0} or {name}, with optional {0,10:N2} alignment and format
  Percent        %1, one-based, with %% for a literal percent
  Dash           #name#, with optional #name,10:N2#
  Parameterless  no placeholders at all
  Detect         whichever of the above fits best

The template is read from --input, or stdin when no file is given. One
trailing newline is dropped. Custom syntaxes can be added with --rules;
see make-rules for the file format.

Examples:
  echo 'Today is {0}. Welcome, {1}' | nutmeg-template parse
  echo 'Today is %2. Welcome, %1' | nutmeg-template assemble --grammar Percent --to Brace
  echo 'Hello {name}, you have {count,4:N0} messages' | nutmeg-template print Ada 12345
  echo 'Hello {name}!' | nutmeg-template extract 'Hello Ada!'
  nutmeg-template make-rules > rules.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.input, "input", "", "Input file (defaults to stdin)")
	flags.StringVar(&opts.output, "output", "", "Output file (defaults to stdout)")
	flags.StringVar(&opts.rules, "rules", "", "YAML rules file adding template grammars (optional)")
	flags.StringVarP(&opts.grammar, "grammar", "g", "Detect", "Grammar the template is written in")
	flags.StringVarP(&opts.format, "format", "f", formatJSON, "Structured output format (json|yaml)")
	flags.StringVar(&opts.locale, "locale", "", "Locale for format specifiers, such as de-CH (defaults to invariant)")
	flags.BoolVar(&opts.exit0, "exit0", false, "Exit with code 0 even when the template has malformed parts")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVar(&opts.pretty, "pretty", false, "Write parts as coloured text instead of structured output")

	root.AddCommand(
		newParseCmd(opts),
		newTokensCmd(opts),
		newAssembleCmd(opts),
		newDetectCmd(opts),
		newPrintCmd(opts),
		newExtractCmd(opts),
		newEmplaceCmd(opts),
		newGrammarsCmd(opts),
		newMakeRulesCmd(opts),
		newVersionCmd(),
	)
	return root, opts
}

// load applies the persistent flags: logging, the grammar registry and the locale.
func (o *options) load(cmd *cobra.Command) error {
	if o.verbose {
		template.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	switch o.format {
	case formatJSON, formatYAML:
	default:
		return fmt.Errorf("unknown output format '%s', expected json or yaml", o.format)
	}

	o.registry = template.DefaultRegistry()
	if o.rules != "" {
		rules, err := tokenizer.LoadRulesFile(o.rules)
		if err != nil {
			return err
		}
		if o.registry, err = template.ApplyRulesToDefaults(rules); err != nil {
			return fmt.Errorf("applying rules file '%s': %w", o.rules, err)
		}
	}

	if o.locale != "" {
		l, err := template.ParseLocale(o.locale)
		if err != nil {
			return fmt.Errorf("invalid locale '%s': %w", o.locale, err)
		}
		o.loc = l
	}
	return nil
}

// readTemplate reads the template text from --input or stdin.
func (o *options) readTemplate(cmd *cobra.Command) (string, error) {
	var text string
	var err error
	if o.input == "" {
		text, err = readFrom(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading from stdin: %w", err)
		}
	} else {
		text, err = readFromFile(o.input)
		if err != nil {
			return "", fmt.Errorf("reading file '%s': %w", o.input, err)
		}
	}
	if strings.HasSuffix(text, "\r\n") {
		return text[:len(text)-2], nil
	}
	return strings.TrimSuffix(text, "\n"), nil
}

// parse reads the template and parses it with the --grammar grammar.
func (o *options) parse(cmd *cobra.Command) (*template.Breakdown, error) {
	text, err := o.readTemplate(cmd)
	if err != nil {
		return nil, err
	}
	g, err := o.registry.ByName(o.grammar)
	if err != nil {
		return nil, err
	}
	return g.Parse(text)
}

// withOutput runs write against --output or stdout.
func (o *options) withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	if o.output == "" {
		return write(cmd.OutOrStdout())
	}
	file, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("creating output file '%s': %w", o.output, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing output file '%s': %w", o.output, err)
	}
	return nil
}

// readFrom reads all input from r.
func readFrom(r io.Reader) (string, error) {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// readFromFile reads the contents of a file.
func readFromFile(filename string) (string, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
