package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across invocations.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// serviceFlags holds remote-service override flags. Tokens come from
// config or environment only, never from flags (visible in ps).
type serviceFlags struct {
	imageURL     string
	translateURL string
	formulaURL   string
}

// buildFlags holds document assembly flags.
type buildFlags struct {
	topic     string
	workType  string
	year      int
	style     string
	assetPath string
	fanout    int
}

// cliFlags holds all flags for the tgbotq command.
type cliFlags struct {
	common   commonFlags
	services serviceFlags
	build    buildFlags

	input   string
	output  string
	pdf     bool
	timeout string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addServiceFlags adds remote-service flags to a FlagSet.
func addServiceFlags(fs *flag.FlagSet, f *serviceFlags) {
	fs.StringVar(&f.imageURL, "image-url", "", "image generation API base URL")
	fs.StringVar(&f.translateURL, "translate-url", "", "translation API base URL")
	fs.StringVar(&f.formulaURL, "formula-url", "", "formula renderer base URL")
}

// addBuildFlags adds document assembly flags to a FlagSet.
func addBuildFlags(fs *flag.FlagSet, f *buildFlags) {
	fs.StringVarP(&f.topic, "topic", "T", "", "document topic (required)")
	fs.StringVar(&f.workType, "work-type", "", "work type shown on the cover (default: Referat)")
	fs.IntVar(&f.year, "year", 0, "cover year (0 = current)")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
	fs.IntVar(&f.fanout, "marker-concurrency", 0, "concurrent marker resolutions (0 = default)")
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("tgbotq", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.input, "input", "i", "", "prose input file (- or empty = stdin)")
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.BoolVar(&f.pdf, "pdf", false, "also render a PDF next to the .doc output")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "build timeout (e.g., 2m, 90s)")

	addCommonFlags(fs, &f.common)
	addServiceFlags(fs, &f.services)
	addBuildFlags(fs, &f.build)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// printUsage writes the command usage text.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: tgbotq --topic TOPIC [--input FILE] [flags]

Assembles AI-generated prose into a print-ready Word document.

Flags:
  -T, --topic string          document topic (required)
      --work-type string      work type shown on the cover (default: Referat)
      --year int              cover year (0 = current)
  -i, --input string          prose input file (- or empty = stdin)
  -o, --output string         output file or directory
      --pdf                   also render a PDF next to the .doc output
  -t, --timeout string        build timeout (e.g., 2m, 90s)
      --style string          CSS style name or file path
      --asset-path string     custom asset directory
      --marker-concurrency    concurrent marker resolutions (0 = default)
      --image-url string      image generation API base URL
      --translate-url string  translation API base URL
      --formula-url string    formula renderer base URL
  -c, --config string         config file name or path
  -q, --quiet                 only show errors
  -v, --verbose               show detailed progress

Service tokens are read from config or the TGBOTQ_IMAGE_TOKEN and
TGBOTQ_TRANSLATE_TOKEN environment variables, never from flags.
`)
}
