/*
 * This file is subject to the terms and conditions defined in
 * file 'LICENSE.md', which is part of this source code package.
 */

// Command fontshuffle obfuscates text with a TrueType font. The codepoints of a range are
// moved to random decoys, the text is translated and the font is subset to the text.
//
//	fontshuffle --font NotoSansSC.ttf --text 这是一段测试文本 --out shuffled.ttf
//	fontshuffle --font NotoSansSC.ttf --html page.html --selector .custom-font --text-out out.html
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/speedata/optionparser"

	"github.com/unidoc/fontshuffle"
	"github.com/unidoc/fontshuffle/common"
	"github.com/unidoc/fontshuffle/internal/shuffle"
)

type config struct {
	font           string
	text           string
	textFile       string
	rangeSpec      string
	seed           int
	full           bool
	keepNotdef     bool
	keepNonUnicode bool
	verify         bool
	out            string
	textOut        string
	html           string
	selector       string
	base64         bool
	loglevel       string
}

func defaultConfig() *config {
	return &config{
		rangeSpec:  "U+4E00-U+9FFF",
		keepNotdef: true,
		selector:   ".custom-font",
		loglevel:   "error",
	}
}

func parseArgs() (*config, *optionparser.OptionParser, error) {
	cfg := defaultConfig()
	op := optionparser.NewOptionParser()
	op.Banner = "fontshuffle: obfuscate text with a shuffled TrueType font\n\nUsage: fontshuffle [options]"
	op.On("--font FILE", "TrueType font to shuffle (required)", &cfg.font)
	op.On("--text TEXT", "Text to obfuscate", &cfg.text)
	op.On("--text-file FILE", "Read the text to obfuscate from FILE", &cfg.textFile)
	op.On("--range RANGE", "Codepoint range to shuffle, e.g. U+4E00-U+9FFF or 19968-40959", &cfg.rangeSpec)
	op.On("--seed N", "Seed of the decoy permutation (0: random)", &cfg.seed)
	op.On("--full", "Keep all glyphs instead of subsetting to the text", &cfg.full)
	op.On("--keep-notdef", "Keep the .notdef glyph in subsets (default, --no-keep-notdef drops it)", &cfg.keepNotdef)
	op.On("--keep-non-unicode", "Keep cmap subtables other than formats 4 and 12", &cfg.keepNonUnicode)
	op.On("--verify", "Check the output font with an independent parser", &cfg.verify)
	op.On("--out FILE", "Write the obfuscated font to FILE", &cfg.out)
	op.On("--text-out FILE", "Write the obfuscated text (or HTML document) to FILE instead of stdout", &cfg.textOut)
	op.On("--html FILE", "Obfuscate the elements of an HTML document and embed the font", &cfg.html)
	op.On("--selector SEL", "CSS selector of the elements to obfuscate in --html mode", &cfg.selector)
	op.On("--base64", "Write the font base64 encoded", &cfg.base64)
	op.On("--loglevel LEVEL", "error, warning, notice, info, debug or trace", &cfg.loglevel)
	op.Command("help", "Show usage")

	if err := op.Parse(); err != nil {
		return nil, op, err
	}
	return cfg, op, nil
}

func (cfg *config) options() (fontshuffle.Options, error) {
	rng, err := shuffle.ParseRange(cfg.rangeSpec)
	if err != nil {
		return fontshuffle.Options{}, err
	}
	opts := fontshuffle.DefaultOptions()
	opts.Range = rng
	opts.Seed = int64(cfg.seed)
	opts.Subset = !cfg.full
	opts.KeepNotdef = cfg.keepNotdef
	opts.KeepNonUnicode = cfg.keepNonUnicode
	opts.Verify = cfg.verify
	return opts, nil
}

func setupLogging(name string) (*common.ZapLogger, error) {
	level, ok := common.ParseLogLevel(name)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", name)
	}
	logger, err := common.NewZapLogger(level, true)
	if err != nil {
		return nil, err
	}
	common.SetLogger(logger)
	return logger, nil
}

func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func dothings() error {
	cfg, op, err := parseArgs()
	if err != nil {
		return err
	}
	if len(op.Extra) > 0 && op.Extra[0] == "help" {
		op.Help()
		return nil
	}
	if cfg.font == "" {
		op.Help()
		return errors.New("--font is required")
	}
	return run(cfg, os.Stdout)
}

func run(cfg *config, stdout io.Writer) error {
	logger, err := setupLogging(cfg.loglevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	opts, err := cfg.options()
	if err != nil {
		return err
	}
	font, err := fontshuffle.LoadFont(cfg.font)
	if err != nil {
		return err
	}

	var output string
	var res *fontshuffle.Result
	if cfg.html != "" {
		doc, err := os.ReadFile(cfg.html)
		if err != nil {
			return err
		}
		output, res, err = fontshuffle.ObfuscateHTML(font, string(doc), cfg.selector, opts)
		if err != nil {
			return err
		}
	} else {
		text := cfg.text
		if cfg.textFile != "" {
			data, err := os.ReadFile(cfg.textFile)
			if err != nil {
				return err
			}
			text = string(data)
		}
		res, err = fontshuffle.Obfuscate(font, text, opts)
		if err != nil {
			return err
		}
		output = res.Text
		if cfg.textOut == "" {
			output += "\n"
		}
	}
	common.Log.Info("%d codepoints remapped, font %d bytes", len(res.Remap), len(res.Font))

	if cfg.out != "" {
		data := res.Font
		if cfg.base64 {
			data = []byte(res.Base64())
		}
		if err := os.WriteFile(cfg.out, data, 0644); err != nil {
			return err
		}
	} else if cfg.base64 && cfg.html == "" {
		output += res.Base64() + "\n"
	}

	return writeOutput(cfg.textOut, []byte(output), stdout)
}

func main() {
	if err := dothings(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}
