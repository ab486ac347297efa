package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

// The transform API is consumed as JSON and re-parsed by the client, so
// markup must come back byte for byte rather than as <script>.
func TestAPITransformHandlerはHTMLをエスケープせずJSONに載せる(t *testing.T) {
	t.Parallel()

	page := `<!doctype html><html><body style="background-color: rgb(255, 255, 255)"><script>alert('xss & <>')</script><p>hi</p></body></html>`

	handler := apiTransformHandler()
	rr := postTransform(t, handler, "", page)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body=%s)", rr.Code, rr.Body.String())
	}

	raw := rr.Body.String()
	if !strings.Contains(raw, `alert('xss & <>')`) {
		t.Fatalf("スクリプト本文がエスケープされています: %s", raw)
	}
	if strings.Contains(raw, `<script>`) {
		t.Fatalf("タグが \\u003c へエスケープされています: %s", raw)
	}

	var payload transformPayload
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("JSONの解釈に失敗しました: %v", err)
	}
	if !strings.Contains(payload.HTML, `<script>alert('xss & <>')</script>`) {
		t.Fatalf("復元したHTMLにスクリプトが見つかりません: %s", payload.HTML)
	}
}
