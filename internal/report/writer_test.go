package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/webdoctor/webdoctor/internal/model"
)

func sampleReport() *model.AuditReport {
	report := model.NewAuditReport("https://example.com")
	report.DateAudited = time.Date(2026, 2, 14, 10, 30, 0, 0, time.UTC)
	report.Pages = []*model.Page{
		{URL: "https://example.com/", StatusCode: 200, Title: "Home"},
		{URL: "https://example.com/about", StatusCode: 200, Title: "About"},
	}
	report.FailedURLs = []string{"https://example.com/broken"}
	report.AddIssue("missing_description", "Page has no meta description", "", "https://example.com/")
	report.AddIssue("error_status", "Page returns HTTP 500", "", "https://example.com/err")
	report.Score = 81
	return report
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes all sections", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		n, err := w.Write(sampleReport())
		if err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"WEBDOCTOR REPORT",
			"https://example.com",
			"Pages Crawled: 2",
			"Health Score:  81/100",
			"SEVERITY SUMMARY",
			"CRITICAL: 1",
			"MEDIUM:   1",
			"UNREACHABLE PAGES",
			"https://example.com/broken",
			"Missing Description",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("verbose adds recommendations", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf, WithVerbose(true))

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "Fix:") {
			t.Error("expected recommendations in verbose output")
		}
	})

	t.Run("cancelled audits are marked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := sampleReport()
		report.Cancelled = true

		if _, err := NewSimpleWriter(&buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "CANCELLED") {
			t.Error("expected cancelled status in output")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("emits valid JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var decoded model.AuditReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded.SeedURL != "https://example.com" {
			t.Errorf("unexpected seed URL: %q", decoded.SeedURL)
		}
		if decoded.Score != 81 {
			t.Errorf("unexpected score: %d", decoded.Score)
		}
		if len(decoded.Issues) != 2 {
			t.Errorf("expected 2 issues, got %d", len(decoded.Issues))
		}
	})

	t.Run("serializes fatal errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := sampleReport()
		report.Error = errors.New("seed unreachable")

		if _, err := NewJSONWriter(&buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "seed unreachable") {
			t.Error("expected error message serialized")
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint())

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  ") {
			t.Error("expected indented output")
		}
	})

	t.Run("full writer wraps with version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewFullJSONWriter(&buf, "1.2.3")

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if wrapped.Version != "1.2.3" {
			t.Errorf("unexpected version: %q", wrapped.Version)
		}
		if wrapped.Report == nil || wrapped.Report.SeedURL != "https://example.com" {
			t.Error("expected wrapped report")
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes structured markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewMarkdownWriter(&buf)

		if _, err := w.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Webdoctor Report",
			"## Severity Summary",
			"## Unreachable Pages",
			"## Issues",
			"mermaid",
			"https://example.com/broken",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("healthy report gets a tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		report := model.NewAuditReport("https://example.com")

		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "TIP") {
			t.Error("expected a tip alert for a clean report")
		}
	})
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	total, err := mw.Write(sampleReport())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if total != text.Len()+js.Len() {
		t.Errorf("expected total %d, got %d", text.Len()+js.Len(), total)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("expected passthrough, got %q", got)
	}
	if got := truncateString("a long string that gets cut", 10); got != "a long ..." {
		t.Errorf("unexpected truncation: %q", got)
	}
	if len(truncateString("abcdef", 3)) != 3 {
		t.Error("expected hard cut at tiny limits")
	}
}
