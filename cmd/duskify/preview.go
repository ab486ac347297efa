package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pkg/browser"
)

// previewCmd transforms the input into a temporary file and opens it in
// the default browser.
func previewCmd(args []string) {
	cfg, err := parseTransformArgs(args, detectLang())
	if err != nil {
		fmt.Fprintf(os.Stderr, "duskify preview: %v\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}
	if cfg.showHelp {
		fmt.Print(helpText(cfg.helpLang))
		return
	}
	settings, _, err := resolveSettings(cfg)
	if err != nil {
		log.Fatalf("duskify preview: %v", err)
	}
	doc, res, err := runTransform(cfg, settings)
	if err != nil {
		log.Fatalf("duskify preview: %v", err)
	}

	f, err := os.CreateTemp("", "duskify-*.html")
	if err != nil {
		log.Fatalf("duskify preview: %v", err)
	}
	if err := doc.Render(f); err != nil {
		_ = f.Close()
		log.Fatalf("duskify preview: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("duskify preview: %v", err)
	}
	if err := browser.OpenURL("file://" + f.Name()); err != nil {
		log.Fatalf("duskify preview: %v", err)
	}
	fmt.Printf("Opened %s (%d change(s))\n", f.Name(), res.Total)
	if res.ErrorCount > 0 && cfg.verbose {
		reportErrors(res)
	}
}
