package opts

import (
	"net/url"
	"testing"
	"time"

	"github.com/phyten/duskify/internal/engine"
)

func TestParseBoolVariants(t *testing.T) {
	trueVals := []string{"1", "true", "TRUE", "yes", "On"}
	falseVals := []string{"0", "false", "FALSE", "no", "OFF"}

	for _, tc := range trueVals {
		t.Run("true/"+tc, func(t *testing.T) {
			got, err := ParseBool(tc, "flag")
			if err != nil {
				t.Fatalf("ParseBool(%q) error: %v", tc, err)
			}
			if !got {
				t.Fatalf("ParseBool(%q) = false, want true", tc)
			}
		})
	}

	for _, tc := range falseVals {
		t.Run("false/"+tc, func(t *testing.T) {
			got, err := ParseBool(tc, "flag")
			if err != nil {
				t.Fatalf("ParseBool(%q) error: %v", tc, err)
			}
			if got {
				t.Fatalf("ParseBool(%q) = true, want false", tc)
			}
		})
	}

	if _, err := ParseBool("maybe", "flag"); err == nil {
		t.Fatal("ParseBool should reject unknown values")
	}
}

func TestParseIntInRange(t *testing.T) {
	got, err := ParseIntInRange("42", "batch_size", 1, MaxBatchSize)
	if err != nil {
		t.Fatalf("ParseIntInRange error: %v", err)
	}
	if got != 42 {
		t.Fatalf("ParseIntInRange = %d, want 42", got)
	}

	if _, err := ParseIntInRange("0", "batch_size", 1, MaxBatchSize); err == nil {
		t.Fatal("ParseIntInRange should reject values below min")
	}

	if _, err := ParseIntInRange("1001", "batch_size", 1, MaxBatchSize); err == nil {
		t.Fatal("ParseIntInRange should reject values above max")
	}
}

func TestParseFloatInRange(t *testing.T) {
	got, err := ParseFloatInRange("4.5", "contrast", 1, 21)
	if err != nil {
		t.Fatalf("ParseFloatInRange error: %v", err)
	}
	if got != 4.5 {
		t.Fatalf("ParseFloatInRange = %g, want 4.5", got)
	}

	if _, err := ParseFloatInRange("0.5", "contrast", 1, 21); err == nil {
		t.Fatal("ParseFloatInRange should reject values below min")
	}
	if _, err := ParseFloatInRange("22", "contrast", 1, 21); err == nil {
		t.Fatal("ParseFloatInRange should reject values above max")
	}
	if _, err := ParseFloatInRange("many", "contrast", 1, 21); err == nil {
		t.Fatal("ParseFloatInRange should reject non-numeric input")
	}
}

func TestNormalizeAndValidate(t *testing.T) {
	o := Defaults()
	if err := NormalizeAndValidate(&o); err != nil {
		t.Fatalf("NormalizeAndValidate error: %v", err)
	}
	if o.MaxElements != engine.DefaultMaxElements {
		t.Fatalf("MaxElements mismatch: %d", o.MaxElements)
	}
	if o.BatchSize != engine.DefaultBatchSize {
		t.Fatalf("BatchSize mismatch: %d", o.BatchSize)
	}

	zero := engine.Options{}
	if err := NormalizeAndValidate(&zero); err != nil {
		t.Fatalf("zero options should normalize, got: %v", err)
	}
	if zero.MaxElements != engine.DefaultMaxElements || zero.MinContrast != 4.5 {
		t.Fatalf("zero options not filled with defaults: %+v", zero)
	}
	if zero.SkipTags == nil {
		t.Fatal("zero options should receive the default skip set")
	}

	bad := Defaults()
	bad.MaxElements = MaxElementsLimit + 1
	if err := NormalizeAndValidate(&bad); err == nil {
		t.Fatal("NormalizeAndValidate should fail for excessive max_elements")
	}

	bad = Defaults()
	bad.MinContrast = 30
	if err := NormalizeAndValidate(&bad); err == nil {
		t.Fatal("NormalizeAndValidate should fail for contrast above 21")
	}

	bad = Defaults()
	bad.BatchDelay = -time.Millisecond
	if err := NormalizeAndValidate(&bad); err == nil {
		t.Fatal("NormalizeAndValidate should fail for negative batch delay")
	}
}

func TestNormalizeAndValidateCanonicalizesSkipTags(t *testing.T) {
	o := Defaults()
	o.SkipTags = []string{" Script ", "IMG", "script", "", "svg"}
	if err := NormalizeAndValidate(&o); err != nil {
		t.Fatalf("NormalizeAndValidate error: %v", err)
	}
	want := []string{"script", "img", "svg"}
	if len(o.SkipTags) != len(want) {
		t.Fatalf("skip tags mismatch: %v", o.SkipTags)
	}
	for i := range want {
		if o.SkipTags[i] != want[i] {
			t.Fatalf("skip tag %d mismatch: got=%q want=%q", i, o.SkipTags[i], want[i])
		}
	}
}

func TestApplyWebQueryToOptions(t *testing.T) {
	def := Defaults()
	q := url.Values{}
	q.Set("max_elements", "500")
	q.Set("batch_size", "25")
	q.Set("contrast", "7")
	q.Set("light_threshold", "180")
	q.Set("batch_delay_ms", "5")
	q.Set("skip_tags", "script,img")
	q.Set("progress", "no")

	got, err := ApplyWebQueryToOptions(def, q)
	if err != nil {
		t.Fatalf("ApplyWebQueryToOptions error: %v", err)
	}
	if got.MaxElements != 500 {
		t.Fatalf("MaxElements mismatch: %d", got.MaxElements)
	}
	if got.BatchSize != 25 {
		t.Fatalf("BatchSize mismatch: %d", got.BatchSize)
	}
	if got.MinContrast != 7 {
		t.Fatalf("MinContrast mismatch: %g", got.MinContrast)
	}
	if got.LightThreshold != 180 {
		t.Fatalf("LightThreshold mismatch: %g", got.LightThreshold)
	}
	if got.BatchDelay != 5*time.Millisecond {
		t.Fatalf("BatchDelay mismatch: %s", got.BatchDelay)
	}
	if len(got.SkipTags) != 2 || got.SkipTags[0] != "script" || got.SkipTags[1] != "img" {
		t.Fatalf("SkipTags mismatch: %v", got.SkipTags)
	}
	if got.Progress {
		t.Fatal("Progress should be false")
	}
}

func TestApplyWebQueryToOptionsは最後の値を採用する(t *testing.T) {
	def := Defaults()
	q := url.Values{"batch_size": {"10", "20"}}
	got, err := ApplyWebQueryToOptions(def, q)
	if err != nil {
		t.Fatalf("ApplyWebQueryToOptions error: %v", err)
	}
	if got.BatchSize != 20 {
		t.Fatalf("繰り返しパラメータは最後の値を使うべきです: got=%d", got.BatchSize)
	}
}

func TestApplyWebQueryToOptionsRejectsBadValues(t *testing.T) {
	def := Defaults()
	cases := []url.Values{
		{"max_elements": {"many"}},
		{"contrast": {"0"}},
		{"light_threshold": {"300"}},
		{"batch_delay_ms": {"-1"}},
		{"progress": {"maybe"}},
	}
	for _, q := range cases {
		if _, err := ApplyWebQueryToOptions(def, q); err == nil {
			t.Fatalf("expected error for query %v", q)
		}
	}
}

func TestNormalizeOutput(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "table"},
		{"table", "table"},
		{"TSV", "tsv"},
		{"json", "json"},
		{"csv", "csv"},
		{"md", "markdown"},
		{"markdown", "markdown"},
		{"jsonl", "ndjson"},
		{"ndjson", "ndjson"},
	}
	for _, tc := range cases {
		got, err := NormalizeOutput(tc.in)
		if err != nil {
			t.Fatalf("NormalizeOutput(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeOutput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
	if _, err := NormalizeOutput("xml"); err == nil {
		t.Fatal("NormalizeOutput should reject unknown formats")
	}
}

func TestSplitMulti(t *testing.T) {
	vals := []string{"a,b", " c ", "", ",d"}
	got := SplitMulti(vals)
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("SplitMulti length mismatch: got=%d want=%d", len(got), len(want))
	}
	for i, v := range want {
		if got[i] != v {
			t.Fatalf("SplitMulti mismatch at %d: got=%q want=%q", i, got[i], v)
		}
	}
}
