package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/phyten/duskify/internal/engine"
	"github.com/phyten/duskify/internal/output"
	"github.com/phyten/duskify/internal/termcolor"
)

func defaultSelection(t *testing.T) output.FieldSelection {
	t.Helper()
	sel, err := output.ResolveFields("", false)
	if err != nil {
		t.Fatalf("ResolveFields failed: %v", err)
	}
	return sel
}

func TestPrintTSVはヘッダーを出力する(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.Change{
		{Index: 0, Tag: "body", Property: "background-color", From: "rgb(255, 255, 255)", To: "rgb(10, 10, 10)", FromBrightness: 255, ToBrightness: 10},
	}

	if err := printTSV(&buf, changes, defaultSelection(t)); err != nil {
		t.Fatalf("printTSV failed: %v", err)
	}

	if !strings.Contains(buf.String(), "INDEX\tTAG\tPROPERTY") {
		t.Fatalf("TSVヘッダーが出力されていません: %q", buf.String())
	}
}

func TestPrintTSVはセル内の改行とタブを空白へ変換する(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.Change{
		{Index: 0, Tag: "p", Property: "color", From: "white\nsmoke", To: "rgb(227, 227, 227)"},
		{Index: 1, Tag: "p", Property: "color", From: "ivory\tmist", To: "rgb(227, 227, 227)"},
	}

	if err := printTSV(&buf, changes, defaultSelection(t)); err != nil {
		t.Fatalf("printTSV failed: %v", err)
	}

	text := buf.String()
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("改行が期待より多いです: %q", text)
	}
	if !strings.Contains(lines[1], "white smoke") {
		t.Fatalf("改行が空白に置換されていません: %q", lines[1])
	}
	if !strings.Contains(lines[2], "ivory mist") {
		t.Fatalf("タブが空白に置換されていません: %q", lines[2])
	}
}

func TestPrintTableは色なしで列を揃える(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.Change{
		{Index: 0, Tag: "body", Property: "background-color", From: "rgb(255, 255, 255)", To: "rgb(10, 10, 10)", FromBrightness: 255, ToBrightness: 10},
		{Index: 1, Tag: "p", Property: "color", From: "rgb(51, 51, 51)", To: "rgb(204, 204, 204)", FromBrightness: 51, ToBrightness: 204, Contrast: 11.71},
	}

	st := tableStyle{minContrast: 4.5}
	if err := printTable(&buf, changes, defaultSelection(t), st); err != nil {
		t.Fatalf("printTable failed: %v", err)
	}

	text := buf.String()
	if strings.Contains(text, "\x1b[") {
		t.Fatalf("色が無効なのにエスケープシーケンスが含まれています: %q", text)
	}
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("行数が期待と異なります: %q", text)
	}
	if !strings.HasPrefix(lines[0], "INDEX  TAG") {
		t.Fatalf("ヘッダーが期待通りではありません: %q", lines[0])
	}
	if !strings.Contains(lines[1], "body  background-color") {
		t.Fatalf("データ行の整列が期待通りではありません: %q", lines[1])
	}
}

func TestPrintTableは色が有効ならSGRを含む(t *testing.T) {
	var buf bytes.Buffer
	changes := []engine.Change{
		{Index: 0, Tag: "p", Property: "color", From: "rgb(51, 51, 51)", To: "rgb(204, 204, 204)", FromBrightness: 51, ToBrightness: 204, Contrast: 11.71},
	}

	st := tableStyle{enabled: true, profile: termcolor.ProfileTrueColor, scheme: termcolor.SchemeDark, minContrast: 4.5}
	if err := printTable(&buf, changes, defaultSelection(t), st); err != nil {
		t.Fatalf("printTable failed: %v", err)
	}

	text := buf.String()
	if !strings.Contains(text, "\x1b[1;4m") {
		t.Fatalf("ヘッダーのスタイルが出力されていません: %q", text)
	}
	if !strings.Contains(text, "\x1b[38;2;") {
		t.Fatalf("トゥルーカラーのスタイルが出力されていません: %q", text)
	}
}

func TestReportErrorsは標準エラーに概要を出力する(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("パイプの作成に失敗しました: %v", err)
	}
	oldStderr := os.Stderr
	os.Stderr = w
	t.Cleanup(func() { os.Stderr = oldStderr })

	res := &engine.Result{
		ErrorCount: 2,
		Errors: []engine.ElementError{
			{Index: 4, Tag: "div", Path: "html > body > div", Stage: "background", Message: "boom"},
			{Message: "mystery"},
		},
	}

	reportErrors(res)
	_ = w.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("出力の読み込みに失敗しました: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "2 error(s)") {
		t.Fatalf("エラー件数が出力されていません: %q", text)
	}
	if !strings.Contains(text, "html > body > div [background] boom") {
		t.Fatalf("詳細行が出力されていません: %q", text)
	}
	if !strings.Contains(text, "(unknown location) [element] mystery") {
		t.Fatalf("不明位置の行が期待通りではありません: %q", text)
	}
}

func TestParseBoolParamは受け入れ値を解釈する(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		value   string
		want    bool
		wantErr bool
	}{
		"未指定は偽":    {want: false},
		"空文字は偽":    {value: "", want: false},
		"1は真":      {value: "1", want: true},
		"trueは真":   {value: "true", want: true},
		"TRUEは真":   {value: "TRUE", want: true},
		"yesは真":    {value: "yes", want: true},
		"onは真":     {value: "on", want: true},
		"0は偽":      {value: "0", want: false},
		"falseは偽":  {value: "false", want: false},
		"noは偽":     {value: "no", want: false},
		"offは偽":    {value: "off", want: false},
		"無効値はエラー":  {value: "maybe", wantErr: true},
		"前後空白はトリム": {value: "  true  ", want: true},
	}

	for name, tc := range cases {
		name, tc := name, tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			q := map[string][]string{}
			if tc.value != "" || name == "空文字は偽" {
				q["flag"] = []string{tc.value}
			}

			got, err := parseBoolParam(q, "flag")
			if tc.wantErr {
				if err == nil {
					t.Fatalf("エラーを期待しましたが nil でした")
				}
				return
			}
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if got != tc.want {
				t.Fatalf("結果が一致しません: got=%v want=%v", got, tc.want)
			}
		})
	}
}
