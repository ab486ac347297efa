//go:build e2e

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/phyten/duskify/internal/engine"
	engineopts "github.com/phyten/duskify/internal/engine/opts"
	"github.com/phyten/duskify/internal/htmldoc"
)

func TestE2E変換後のページは計算スタイルがダークになる(t *testing.T) {
	t.Parallel()

	if !hasBrowser() {
		t.Skip("Chrome/Chromiumが見つからないためスキップします")
	}

	page := `<!doctype html><html><head><title>fixture</title></head><body style="background-color: rgb(255, 255, 255)"><p style="color: rgb(51, 51, 51)">hello</p></body></html>`

	doc, err := htmldoc.ParseString(page)
	if err != nil {
		t.Fatalf("パースに失敗しました: %v", err)
	}
	doc.InjectStylesheet(htmldoc.BaselineCSS)
	if _, err := engine.Run(engineopts.Defaults(), doc); err != nil {
		t.Fatalf("変換に失敗しました: %v", err)
	}
	out, err := doc.HTML()
	if err != nil {
		t.Fatalf("シリアライズに失敗しました: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	// chromedp navigation can take some time in CI environments.
	ctx, cancel = context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var bodyBG, pColor, htmlBG string
	err = chromedp.Run(ctx,
		chromedp.Navigate(srv.URL),
		chromedp.WaitVisible(`p`, chromedp.ByQuery),
		chromedp.Evaluate(`getComputedStyle(document.body).backgroundColor`, &bodyBG),
		chromedp.Evaluate(`getComputedStyle(document.querySelector('p')).color`, &pColor),
		chromedp.Evaluate(`getComputedStyle(document.documentElement).backgroundColor`, &htmlBG),
	)
	if err != nil {
		t.Fatalf("ブラウザ操作に失敗しました: %v", err)
	}

	if bodyBG != "rgb(10, 10, 10)" {
		t.Fatalf("bodyの背景色 = %q, want rgb(10, 10, 10)", bodyBG)
	}
	if pColor != "rgb(204, 204, 204)" {
		t.Fatalf("pの文字色 = %q, want rgb(204, 204, 204)", pColor)
	}
	if htmlBG != "rgb(18, 18, 18)" {
		t.Fatalf("htmlの背景色 = %q, want rgb(18, 18, 18)", htmlBG)
	}
}

func hasBrowser() bool {
	candidates := []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}
	for _, name := range candidates {
		if _, err := exec.LookPath(name); err == nil {
			return true
		}
	}
	return false
}
