package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/summarizerd/internal/config"
	"github.com/standardbeagle/summarizerd/internal/engine"
	"github.com/standardbeagle/summarizerd/internal/langdoc"
	"github.com/standardbeagle/summarizerd/internal/langpack"
	"github.com/standardbeagle/summarizerd/internal/stream"
	"github.com/standardbeagle/summarizerd/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "summarize",
		Usage:                  "summarize a single article from the command line",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true, Usage: "input article path"},
			&cli.Float64Flag{Name: "ratio", Aliases: []string{"r"}, Required: true, Usage: "selection ratio percentage, nonzero"},
			&cli.StringFlag{Name: "dictionary", Aliases: []string{"d"}, Usage: "dictionary XML path"},
			&cli.StringFlag{Name: "dict-glob", Usage: "glob pattern for pack.toml manifests"},
			&cli.StringFlag{Name: "lang", Aliases: []string{"L"}, Usage: "pack name to select via --dict-glob"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	ratio := c.Float64("ratio")
	if ratio == 0 {
		return fmt.Errorf("summarize: -r/--ratio must be nonzero")
	}

	dictPath, err := resolveDictionaryPath(c)
	if err != nil {
		return err
	}

	df, err := os.Open(dictPath)
	if err != nil {
		return fmt.Errorf("summarize: open dictionary %s: %w", dictPath, err)
	}
	defer df.Close()

	lang, err := langdoc.Load(df)
	if err != nil {
		return fmt.Errorf("summarize: load dictionary: %w", err)
	}

	s, err := stream.Open(c.String("input"))
	if err != nil {
		return fmt.Errorf("summarize: open input: %w", err)
	}
	defer s.Close()

	article, err := engine.ParseArticle(s.Slice(0, s.Len()), lang)
	if err != nil {
		return fmt.Errorf("summarize: parse article: %w", err)
	}

	if err := engine.Grade(article, lang, ratio/100.0, engine.Options{}); err != nil {
		return fmt.Errorf("summarize: grade article: %w", err)
	}

	fmt.Print(engine.Summary(article))
	return nil
}

func resolveDictionaryPath(c *cli.Context) (string, error) {
	if p := c.String("dictionary"); p != "" {
		return p, nil
	}
	if glob := c.String("dict-glob"); glob != "" {
		name := c.String("lang")
		if name == "" {
			return "", fmt.Errorf("summarize: --dict-glob requires -L/--lang")
		}
		pack, err := langpack.Find(glob, name)
		if err != nil {
			return "", err
		}
		return pack.DictionaryPath(), nil
	}
	return config.Defaults().Language.DictionaryPath, nil
}
