package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spicery/nutmeg-template/pkg/template"
)

func newParseCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse",
		Short: "Break a template into parts",
		Long: `Break a template into text, placeholder and malformed parts, written as one
JSON object per line (or a YAML list). The parts are written even when some
of them are malformed; the command then fails unless --exit0 is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.parse(cmd)
			if err != nil {
				return err
			}
			err = o.withOutput(cmd, func(w io.Writer) error {
				if o.pretty {
					return writePretty(w, b)
				}
				return emitAll(w, o.format, template.Describe(b))
			})
			if err != nil {
				return err
			}
			return checkMalformed(b)
		},
	}
}

func newTokensCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens",
		Short: "Show the raw tokens of a template",
		Long: `Tokenize a template with the rules of its grammar and write one JSON token
per line. Detect and Brace use the rules of the grammar they settle on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.parse(cmd)
			if err != nil {
				return err
			}
			rg, ok := b.Grammar().(*template.RuleGrammar)
			if !ok {
				return fmt.Errorf("grammar '%s' has no tokenizer rules", b.Grammar().Name())
			}
			tokens, tokenizeErr := rg.Tokenize(b.Text())
			err = o.withOutput(cmd, func(w io.Writer) error {
				return emitAll(w, formatJSON, tokens)
			})
			if err != nil {
				return err
			}
			if tokenizeErr != nil {
				return fmt.Errorf("%w: %w", errTemplateProblems, tokenizeErr)
			}
			return nil
		},
	}
}

func newAssembleCmd(o *options) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:     "assemble",
		Aliases: []string{"convert"},
		Short:   "Rewrite a template in another grammar",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.parse(cmd)
			if err != nil {
				return err
			}
			target, err := o.registry.ByName(to)
			if err != nil {
				return err
			}
			text, err := target.Assemble(b)
			if err != nil {
				return err
			}
			err = o.withOutput(cmd, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, text)
				return err
			})
			if err != nil {
				return err
			}
			return checkMalformed(b)
		},
	}
	cmd.Flags().StringVar(&to, "to", "Brace", "Grammar to write the template in")
	return cmd
}

// detectResult is the score of one detection candidate.
type detectResult struct {
	Grammar      string `json:"grammar" yaml:"grammar"`
	Score        int    `json:"score" yaml:"score"`
	Placeholders int    `json:"placeholders" yaml:"placeholders"`
	Malformed    int    `json:"malformed" yaml:"malformed"`
	Chosen       bool   `json:"chosen,omitempty" yaml:"chosen,omitempty"`
}

func newDetectCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Score every detection candidate against a template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := o.readTemplate(cmd)
			if err != nil {
				return err
			}
			detect := o.registry.Detect()
			best, err := detect.Parse(text)
			if err != nil {
				return err
			}

			var results []detectResult
			for _, g := range detect.Candidates() {
				b, err := g.Parse(text)
				if err != nil {
					continue
				}
				results = append(results, detectResult{
					Grammar:      g.Name(),
					Score:        template.Score(b),
					Placeholders: len(b.Placeholders()),
					Malformed:    len(b.MalformedParts()),
				})
			}
			// The winner is the first candidate reaching the best score.
			for i := range results {
				if results[i].Score == template.Score(best) {
					results[i].Chosen = true
					break
				}
			}
			return o.withOutput(cmd, func(w io.Writer) error {
				return emitAll(w, o.format, results)
			})
		},
	}
}

func newPrintCmd(o *options) *cobra.Command {
	var named bool
	cmd := &cobra.Command{
		Use:   "print [args...]",
		Short: "Print a template with arguments",
		Long: `Print a template with positional arguments, or with name=value pairs when
--named is given. Arguments that look like numbers are passed as numbers, so
format specifiers such as N2 or X4 apply to them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.parse(cmd)
			if err != nil {
				return err
			}
			var out string
			if named {
				values := make(map[string]any, len(args))
				for _, arg := range args {
					name, value, ok := strings.Cut(arg, "=")
					if !ok {
						return fmt.Errorf("argument '%s' is not a name=value pair", arg)
					}
					values[name] = parseArg(value)
				}
				out = b.PrintMap(o.loc, values)
			} else {
				values := make([]any, len(args))
				for i, arg := range args {
					values[i] = parseArg(arg)
				}
				out = b.Print(o.loc, values...)
			}
			err = o.withOutput(cmd, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, out)
				return err
			})
			if err != nil {
				return err
			}
			return checkMalformed(b)
		},
	}
	cmd.Flags().BoolVar(&named, "named", false, "Arguments are name=value pairs")
	return cmd
}

// parseArg turns a command line argument into an integer, a float or a string.
func parseArg(s string) any {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func newExtractCmd(o *options) *cobra.Command {
	var pattern bool
	cmd := &cobra.Command{
		Use:   "extract <printed text>",
		Short: "Recover the arguments that printed a text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.parse(cmd)
			if err != nil {
				return err
			}
			if pattern {
				return o.withOutput(cmd, func(w io.Writer) error {
					_, err := fmt.Fprintln(w, b.PatternString())
					return err
				})
			}
			values, err := b.ExtractArguments(args[0])
			if err != nil {
				return err
			}
			return o.withOutput(cmd, func(w io.Writer) error {
				return emitOne(w, o.format, values)
			})
		},
	}
	cmd.Flags().BoolVar(&pattern, "pattern", false, "Show the regular expression instead of extracting")
	return cmd
}

// emplaceResult describes the template built by emplace.
type emplaceResult struct {
	Text       string   `json:"text" yaml:"text"`
	Grammar    string   `json:"grammar" yaml:"grammar"`
	Parameters []string `json:"parameters" yaml:"parameters"`
}

func newEmplaceCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "emplace name=template...",
		Short: "Substitute templates into the placeholders of a template",
		Long: `Substitute templates into the placeholders of the input template. Each
argument names a parameter of the input and gives the template to put in
its place, in the same grammar. Parameters of the substituted templates
are renamed <parameter>_<name>.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := o.parse(cmd)
			if err != nil {
				return err
			}
			g, err := o.registry.ByName(o.grammar)
			if err != nil {
				return err
			}
			emplacements := make([]template.Emplacement, 0, len(args))
			for _, arg := range args {
				name, text, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("argument '%s' is not a name=template pair", arg)
				}
				sub, err := g.Parse(text)
				if err != nil {
					return err
				}
				emplacements = append(emplacements, template.Emplacement{Name: name, Template: sub})
			}
			out, err := template.EmplaceWith(g, base, emplacements...)
			if err != nil {
				return err
			}
			return o.withOutput(cmd, func(w io.Writer) error {
				if o.pretty {
					return writePretty(w, out)
				}
				return emitOne(w, o.format, emplaceResult{
					Text:       out.Text(),
					Grammar:    out.Grammar().Name(),
					Parameters: out.ParameterNames(),
				})
			})
		},
	}
}

// grammarInfo lists a registered grammar.
type grammarInfo struct {
	Name   string `json:"name" yaml:"name"`
	Detect bool   `json:"detect" yaml:"detect"`
	Rule   bool   `json:"rule" yaml:"rule"`
}

func newGrammarsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "grammars",
		Short: "List the registered grammars",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates := make(map[string]bool)
			for _, g := range o.registry.Detect().Candidates() {
				candidates[g.Name()] = true
			}
			var infos []grammarInfo
			for _, g := range o.registry.All() {
				_, rule := g.(*template.RuleGrammar)
				infos = append(infos, grammarInfo{Name: g.Name(), Detect: candidates[g.Name()], Rule: rule})
			}
			return o.withOutput(cmd, func(w io.Writer) error {
				return emitAll(w, o.format, infos)
			})
		},
	}
}

func newMakeRulesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "make-rules",
		Short: "Write the rules file of the registered grammars as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			yamlBytes, err := yaml.Marshal(o.registry.RulesFile())
			if err != nil {
				return fmt.Errorf("failed to marshal rules to YAML: %w", err)
			}
			return o.withOutput(cmd, func(w io.Writer) error {
				_, err := w.Write(yamlBytes)
				return err
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "nutmeg-template version %s\n", version)
			return err
		},
	}
}
