package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/phyten/duskify/internal/color"
	"github.com/phyten/duskify/internal/config"
	"github.com/phyten/duskify/internal/darken"
	"github.com/phyten/duskify/internal/engine"
	engineopts "github.com/phyten/duskify/internal/engine/opts"
	"github.com/phyten/duskify/internal/htmldoc"
	"github.com/phyten/duskify/internal/output"
	"github.com/phyten/duskify/internal/progress"
	"github.com/phyten/duskify/internal/termcolor"
	"github.com/phyten/duskify/internal/textutil"
)

func main() {
	log.SetFlags(0)
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "serve":
			serveCmd(args[1:])
			return
		case "audit":
			auditCmd(args[1:])
			return
		case "preview":
			previewCmd(args[1:])
			return
		}
	}
	transformCmd(args)
}

// cliConfig holds everything parseTransformArgs extracts from the command
// line. Engine and UI values explicitly set by flags land in the flags /
// uiFlags layers so the config merge can tell them apart from defaults.
type cliConfig struct {
	flags      config.EngineConfig
	uiFlags    config.UIConfig
	configPath string
	input      string
	outPath    string
	report     string
	withPath   bool
	verbose    bool
	timeout    time.Duration
	progress   bool
	noProgress bool
	showHelp   bool
	helpLang   string
}

func transformCmd(args []string) {
	cfg, err := parseTransformArgs(args, detectLang())
	if err != nil {
		fmt.Fprintf(os.Stderr, "duskify: %v\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}
	if cfg.showHelp {
		fmt.Print(helpText(cfg.helpLang))
		return
	}
	settings, ui, err := resolveSettings(cfg)
	if err != nil {
		log.Fatalf("duskify: %v", err)
	}
	doc, res, err := runTransform(cfg, settings)
	if err != nil {
		log.Fatalf("duskify: %v", err)
	}

	out := os.Stdout
	if cfg.outPath != "" && cfg.outPath != "-" {
		f, err := os.Create(cfg.outPath)
		if err != nil {
			log.Fatalf("duskify: %v", err)
		}
		out = f
	}
	if err := doc.Render(out); err != nil {
		log.Fatalf("duskify: %v", err)
	}
	if out != os.Stdout {
		if err := out.Close(); err != nil {
			log.Fatalf("duskify: %v", err)
		}
	}

	fmt.Fprintf(os.Stderr, "duskify: %d change(s) across %d element(s) in %d ms\n", res.Total, res.Visited, res.ElapsedMS)
	if res.Capped {
		fmt.Fprintln(os.Stderr, "duskify: element cap reached, document truncated")
	}
	if res.ErrorCount > 0 {
		if cfg.verbose {
			reportErrors(res)
		} else {
			fmt.Fprintf(os.Stderr, "duskify: %d error(s), re-run with -verbose for details\n", res.ErrorCount)
		}
	}
	if cfg.report != "" {
		// The report shares stderr with the summary; it is meant for
		// capture (2>report.json), so it renders without colors.
		st := tableStyle{minContrast: settings.Contrast}
		if err := emitReport(os.Stderr, res, cfg.report, ui, cfg, st); err != nil {
			log.Fatalf("duskify: %v", err)
		}
	}
}

func auditCmd(args []string) {
	cfg, err := parseTransformArgs(args, detectLang())
	if err != nil {
		fmt.Fprintf(os.Stderr, "duskify audit: %v\n", err)
		usage(os.Stderr)
		os.Exit(2)
	}
	if cfg.showHelp {
		fmt.Print(helpText(cfg.helpLang))
		return
	}
	settings, ui, err := resolveSettings(cfg)
	if err != nil {
		log.Fatalf("duskify audit: %v", err)
	}
	_, res, err := runTransform(cfg, settings)
	if err != nil {
		log.Fatalf("duskify audit: %v", err)
	}
	if res.ErrorCount > 0 && cfg.verbose {
		reportErrors(res)
	}
	if err := emitReport(os.Stdout, res, settings.Output, ui, cfg, stdoutTableStyle(settings)); err != nil {
		log.Fatalf("duskify audit: %v", err)
	}
}

func parseTransformArgs(args []string, lang string) (*cliConfig, error) {
	prepared := make([]string, 0, len(args))
	for _, arg := range args {
		// A bare --help would otherwise fail parsing because -help
		// takes an optional language value.
		if arg == "--help" || arg == "-help" {
			prepared = append(prepared, "-h")
			continue
		}
		prepared = append(prepared, arg)
	}

	fs := flag.NewFlagSet("duskify", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	var (
		configPath     = fs.String("config", "", "config file path (overrides discovery)")
		maxElements    = fs.Int("max-elements", engine.DefaultMaxElements, "cap on processed elements")
		batchSize      = fs.Int("batch-size", engine.DefaultBatchSize, "elements per batch")
		contrast       = fs.Float64("contrast", darken.MinContrast, "minimum text contrast ratio")
		lightThreshold = fs.Float64("light-threshold", darken.LightThreshold, "brightness above which a background counts as light")
		batchDelayMS   = fs.Int("batch-delay-ms", 0, "fixed delay between batches in milliseconds")
		skipTags       = fs.String("skip-tags", "", "comma separated tags to exclude (-skip-tags= disables skipping)")
		noBaseline     = fs.Bool("no-baseline", false, "do not inject the dark baseline stylesheet")
		outPath        = fs.String("out", "", "write transformed HTML to FILE instead of stdout")
		timeout        = fs.Duration("timeout", 30*time.Second, "fetch timeout for URL inputs")
		report         = fs.String("report", "", "emit a change report on stderr (table|tsv|json|csv|markdown|ndjson)")
		verbose        = fs.Bool("verbose", false, "print per-element errors")
		forceProg      = fs.Bool("progress", false, "force progress/ETA even when piped")
		noProgress     = fs.Bool("no-progress", false, "disable progress/ETA")
		withPath       = fs.Bool("with-path", false, "include the PATH column in reports")
		helpVal        = fs.String("help", "", "show help (en|ja)")
		helpJa         = fs.Bool("help-ja", false, "show Japanese help")
		langFlag       = fs.String("lang", "", "help language (en|ja)")
	)
	var outputVal, fieldsVal, sortVal, colorVal string
	fs.StringVar(&outputVal, "output", "", "report format: table|tsv|json|csv|markdown|ndjson")
	fs.StringVar(&outputVal, "o", "", "alias for -output")
	fs.StringVar(&fieldsVal, "fields", "", "comma separated report columns")
	fs.StringVar(&sortVal, "sort", "", "sort keys, e.g. -sort=-contrast,tag")
	fs.StringVar(&colorVal, "color", "", "color mode: auto|always|never")

	cfg := &cliConfig{}
	if err := fs.Parse(prepared); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cfg.showHelp = true
			cfg.helpLang = pickHelpLang(*helpVal, *helpJa, *langFlag, lang)
			return cfg, nil
		}
		return nil, err
	}

	rest := fs.Args()
	switch len(rest) {
	case 0:
	case 1:
		cfg.input = rest[0]
	default:
		return nil, fmt.Errorf("too many arguments: %s", strings.Join(rest[1:], " "))
	}

	cfg.configPath = *configPath
	cfg.outPath = *outPath
	cfg.withPath = *withPath
	cfg.verbose = *verbose
	cfg.timeout = *timeout
	cfg.progress = *forceProg
	cfg.noProgress = *noProgress
	if *helpVal != "" || *helpJa {
		cfg.showHelp = true
	}
	cfg.helpLang = pickHelpLang(*helpVal, *helpJa, *langFlag, lang)

	if *report != "" {
		norm, err := engineopts.NormalizeOutput(*report)
		if err != nil {
			return nil, fmt.Errorf("invalid -report: %s", *report)
		}
		cfg.report = norm
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "max-elements":
			v := *maxElements
			cfg.flags.MaxElements = &v
		case "batch-size":
			v := *batchSize
			cfg.flags.BatchSize = &v
		case "contrast":
			v := *contrast
			cfg.flags.Contrast = &v
		case "light-threshold":
			v := *lightThreshold
			cfg.flags.LightThreshold = &v
		case "batch-delay-ms":
			v := *batchDelayMS
			cfg.flags.BatchDelayMS = &v
		case "skip-tags":
			list := engineopts.SplitMulti([]string{*skipTags})
			if list == nil {
				list = make([]string, 0)
			}
			cfg.flags.SkipTags = &list
		case "no-baseline":
			v := !*noBaseline
			cfg.flags.Baseline = &v
		case "output", "o":
			v := outputVal
			cfg.flags.Output = &v
		case "color":
			v := colorVal
			cfg.flags.Color = &v
		case "fields":
			v := fieldsVal
			cfg.uiFlags.Fields = &v
		case "sort":
			v := sortVal
			cfg.uiFlags.Sort = &v
		}
	})

	return cfg, nil
}

func pickHelpLang(helpVal string, helpJa bool, langFlag, ambient string) string {
	if helpJa {
		return "ja"
	}
	if l := normalizeLang(helpVal); l != "" {
		return l
	}
	if l := normalizeLang(langFlag); l != "" {
		return l
	}
	if l := normalizeLang(ambient); l != "" {
		return l
	}
	return "en"
}

func normalizeLang(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return ""
	}
	if strings.HasPrefix(v, "ja") {
		return "ja"
	}
	return "en"
}

func detectLang() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			return normalizeLang(v)
		}
	}
	return "en"
}

// resolveSettings merges the configuration layers in precedence order:
// built-in defaults, config file, DUSKIFY_* environment, flags.
func resolveSettings(cfg *cliConfig) (config.EngineSettings, config.UISettings, error) {
	var zeroE config.EngineSettings
	var zeroU config.UISettings

	explicit := cfg.configPath
	if explicit == "" {
		explicit = os.Getenv("DUSKIFY_CONFIG")
	}
	path, _, err := config.Find(".", explicit, os.Getenv("XDG_CONFIG_HOME"), os.Getenv("HOME"))
	if err != nil {
		return zeroE, zeroU, err
	}

	engineLayers := make([]config.EngineConfig, 0, 3)
	uiLayers := make([]config.UIConfig, 0, 3)
	if path != "" {
		fileCfg, err := config.Load(path)
		if err != nil {
			return zeroE, zeroU, err
		}
		engineLayers = append(engineLayers, fileCfg.Engine)
		uiLayers = append(uiLayers, fileCfg.UI)
	}
	envCfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		return zeroE, zeroU, err
	}
	engineLayers = append(engineLayers, envCfg.Engine)
	uiLayers = append(uiLayers, envCfg.UI)
	engineLayers = append(engineLayers, cfg.flags)
	uiLayers = append(uiLayers, cfg.uiFlags)

	settings := config.MergeEngine(config.EngineSettingsFromOptions(engineopts.Defaults()), engineLayers...)
	mode, err := config.CanonicalizeColor(settings.Color)
	if err != nil {
		return zeroE, zeroU, err
	}
	settings.Color = mode
	if _, err := engineopts.NormalizeOutput(settings.Output); err != nil {
		return zeroE, zeroU, err
	}
	ui := config.NormalizeUI(config.MergeUI(config.DefaultUISettings(), uiLayers...))
	return settings, ui, nil
}

// runTransform loads the input, injects the baseline stylesheet when
// enabled and runs the engine once over the document.
func runTransform(cfg *cliConfig, settings config.EngineSettings) (*htmldoc.Document, *engine.Result, error) {
	raw, err := readInput(cfg.input, cfg.timeout)
	if err != nil {
		return nil, nil, err
	}
	doc, err := htmldoc.ParseString(string(raw))
	if err != nil {
		return nil, nil, err
	}
	if settings.Baseline {
		doc.InjectStylesheet(htmldoc.BaselineCSS)
	}
	var o engine.Options
	settings.ApplyToOptions(&o)
	if err := engineopts.NormalizeAndValidate(&o); err != nil {
		return nil, nil, err
	}
	o.Progress = progress.ShouldShowProgress(cfg.progress, cfg.noProgress)
	res, err := engine.Run(o, doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, res, nil
}

// readInput loads the document from a file, stdin ("-" or empty) or an
// http(s) URL.
func readInput(input string, timeout time.Duration) ([]byte, error) {
	switch {
	case input == "" || input == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://"):
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, input, nil)
		if err != nil {
			return nil, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: %s", input, resp.Status)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", input, err)
		}
		return data, nil
	default:
		return os.ReadFile(input)
	}
}

type tableStyle struct {
	enabled     bool
	profile     termcolor.Profile
	scheme      termcolor.Scheme
	minContrast float64
}

func stdoutTableStyle(settings config.EngineSettings) tableStyle {
	mode, err := termcolor.ParseMode(settings.Color)
	if err != nil {
		mode = termcolor.ModeAuto
	}
	env := termcolor.EnvMap(os.Environ())
	if mode == termcolor.ModeAuto {
		mode = termcolor.DetectMode(os.Stdout, env)
	}
	return tableStyle{
		enabled:     termcolor.Enabled(mode, os.Stdout),
		profile:     termcolor.DetectProfile(env),
		scheme:      termcolor.DetectScheme(env),
		minContrast: settings.Contrast,
	}
}

// emitReport renders the change report in the requested format. Sorting
// happens on a copy so Result.Changes keeps document order for callers
// that serialize it afterwards.
func emitReport(w io.Writer, res *engine.Result, format string, ui config.UISettings, cfg *cliConfig, st tableStyle) error {
	norm, err := engineopts.NormalizeOutput(format)
	if err != nil {
		return err
	}
	changes := make([]engine.Change, len(res.Changes))
	copy(changes, res.Changes)
	if err := applySort(changes, ui.Sort); err != nil {
		return err
	}
	sel, err := output.ResolveFields(ui.Fields, cfg.withPath)
	if err != nil {
		return err
	}
	switch norm {
	case "json":
		view := *res
		view.Changes = changes
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&view)
	case "ndjson":
		return output.WriteNDJSON(w, changes)
	case "csv":
		return output.WriteCSV(w, changes, sel)
	case "markdown":
		return output.WriteMarkdownTable(w, changes, sel)
	case "tsv":
		return printTSV(w, changes, sel)
	default:
		return printTable(w, changes, sel, st)
	}
}

func printTSV(w io.Writer, changes []engine.Change, sel output.FieldSelection) error {
	tw := tabwriter.NewWriter(w, 0, 8, 0, '\t', 0) // tabs only
	if _, err := fmt.Fprintln(tw, strings.Join(output.Headers(sel.Fields), "\t")); err != nil {
		return err
	}
	for _, c := range changes {
		row := output.RowValues(c, sel.Fields)
		for i := range row {
			row[i] = sanitizeCell(row[i])
		}
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Raw style values can be arbitrarily long; PATH cells grow with nesting.
const maxCellWidth = 60

// printTable renders an aligned table. Widths are computed on the plain
// cells and styling is applied after fitting, because escape sequences
// have no display width.
func printTable(w io.Writer, changes []engine.Change, sel output.FieldSelection, st tableStyle) error {
	header := output.Headers(sel.Fields)
	rows := make([][]string, 0, len(changes))
	for _, c := range changes {
		row := output.RowValues(c, sel.Fields)
		for i := range row {
			row[i] = sanitizeCell(row[i])
		}
		rows = append(rows, row)
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = textutil.VisibleWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			vw := textutil.VisibleWidth(cell)
			if vw > maxCellWidth {
				vw = maxCellWidth
			}
			if vw > widths[i] {
				widths[i] = vw
			}
		}
	}

	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = termcolor.Apply(termcolor.HeaderStyle(), textutil.FitCell(h, widths[i]), st.enabled)
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
		return err
	}
	for ri, row := range rows {
		for i, cell := range row {
			style := cellStyle(sel.Fields[i].Key, changes[ri], st)
			cells[i] = termcolor.Apply(style, textutil.FitCell(cell, widths[i]), st.enabled)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func cellStyle(key string, c engine.Change, st tableStyle) termcolor.Style {
	switch key {
	case "property", "prop":
		return termcolor.PropertyStyle(c.Property, st.scheme, st.profile)
	case "contrast", "ratio":
		return termcolor.SeverityStyle(c.Contrast, st.minContrast, st.profile)
	case "from":
		if rgb, ok := color.Parse(c.From); ok {
			return termcolor.SwatchStyle(rgb, st.profile)
		}
	case "to":
		if rgb, ok := color.Parse(c.To); ok {
			return termcolor.SwatchStyle(rgb, st.profile)
		}
	}
	return termcolor.Style{}
}

// sanitizeCell flattens control whitespace so multi-line style values
// cannot break the one-row-per-change framing.
func sanitizeCell(s string) string {
	if !strings.ContainsAny(s, "\t\n\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// reportErrors prints the per-element failures collected during a run.
func reportErrors(res *engine.Result) {
	fmt.Fprintf(os.Stderr, "duskify: %d error(s)\n", res.ErrorCount)
	for _, e := range res.Errors {
		loc := e.Path
		if loc == "" {
			loc = e.Tag
		}
		if loc == "" {
			loc = "(unknown location)"
		}
		stage := e.Stage
		if stage == "" {
			stage = "element"
		}
		fmt.Fprintf(os.Stderr, "  %s [%s] %s\n", loc, stage, e.Message)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: duskify [flags] [input] | duskify <audit|serve|preview> ... (duskify -h for details)")
}

func helpText(lang string) string {
	if lang == "ja" {
		return helpJA
	}
	return helpEN
}

const helpEN = `duskify — Turn light pages dark

Usage:
  duskify [flags] [input]            transform a page and print the HTML
  duskify audit [flags] [input]      print only the change report
  duskify serve [flags]              run the web preview UI
  duskify preview [flags] [input]    transform into a temp file and open it

Input is a file path, "-" (or nothing) for stdin, or an http(s) URL.

Engine flags:
  -max-elements N      cap on processed elements (default 3000)
  -batch-size N        elements per batch (default 50)
  -contrast R          minimum text contrast ratio (default 4.5)
  -light-threshold B   brightness above which a background counts as light (default 200)
  -batch-delay-ms MS   fixed delay between batches (default 0: cooperative yield)
  -skip-tags LIST      comma separated tags to exclude; -skip-tags= disables skipping
  -no-baseline         do not inject the dark baseline stylesheet

Report flags (audit and -report):
  -output FORMAT, -o FORMAT
                       table|tsv|json|csv|markdown|ndjson (default table)
  -fields LIST         columns: index,tag,path,property,from,to,
                       from_brightness,to_brightness,contrast
  -with-path           include the PATH column in the default selection
  -sort KEYS           e.g. -sort=-contrast,tag; '-' reverses a key,
                       severity orders by contrast worst-last
  -color MODE          auto|always|never (default auto)

Other flags:
  -config PATH         config file (default: discovery, see below)
  -out FILE            write transformed HTML to FILE instead of stdout
  -report FORMAT       also emit the change report on stderr
  -timeout D           fetch timeout for URL inputs (default 30s)
  -progress            force progress/ETA even when piped
  -no-progress         disable progress/ETA
  -verbose             print per-element errors
  -h, --help[=ja]      show this help (--help-ja for Japanese)

Configuration layers, lowest to highest precedence: built-in defaults,
config file, DUSKIFY_* environment variables, flags. The config file is
.duskify.{yaml,yml,toml,json} found upward from the working directory,
then $XDG_CONFIG_HOME/duskify/config.*, then $HOME. DUSKIFY_CONFIG or
-config selects one explicitly.
`

const helpJA = `duskify — 明るいページをダークテーマへ変換する

使い方:
  duskify [flags] [input]            変換した HTML を標準出力へ書き出す
  duskify audit [flags] [input]      変更レポートのみを出力する
  duskify serve [flags]              Web プレビュー UI を起動する
  duskify preview [flags] [input]    一時ファイルへ変換してブラウザで開く

input はファイルパス、"-"(または省略)で標準入力、http(s) URL のいずれか。

エンジン系フラグ:
  -max-elements N      処理する要素数の上限 (既定 3000)
  -batch-size N        1 バッチあたりの要素数 (既定 50)
  -contrast R          本文テキストに要求する最小コントラスト比 (既定 4.5)
  -light-threshold B   「明るい背景」とみなす輝度のしきい値 (既定 200)
  -batch-delay-ms MS   バッチ間の待機ミリ秒 (既定 0: 協調的 yield)
  -skip-tags LIST      除外タグのカンマ区切り。-skip-tags= で除外なし
  -no-baseline         ダーク基調のベースライン CSS を注入しない

レポート系フラグ (audit と -report):
  -output FORMAT, -o FORMAT
                       table|tsv|json|csv|markdown|ndjson (既定 table)
  -fields LIST         列の選択: index,tag,path,property,from,to,
                       from_brightness,to_brightness,contrast
  -with-path           既定の列に PATH を加える
  -sort KEYS           例: -sort=-contrast,tag。'-' で降順
  -color MODE          auto|always|never (既定 auto)

その他:
  -config PATH         設定ファイル (既定: 自動探索)
  -out FILE            変換した HTML を FILE へ書き出す
  -report FORMAT       変更レポートを標準エラーにも出力する
  -timeout D           URL 入力の取得タイムアウト (既定 30s)
  -progress            パイプ時でも進捗/ETA を表示する
  -no-progress         進捗/ETA を表示しない
  -verbose             要素単位のエラーを表示する
  -h, --help[=ja]      このヘルプ (--help-ja で日本語)

設定は 既定値 < 設定ファイル < 環境変数 DUSKIFY_* < フラグ の順で
上書きされます。設定ファイルは .duskify.{yaml,yml,toml,json} を作業
ディレクトリから上方向に探索し、次に $XDG_CONFIG_HOME/duskify/config.*、
最後に $HOME を見ます。DUSKIFY_CONFIG か -config で明示指定できます。
`
