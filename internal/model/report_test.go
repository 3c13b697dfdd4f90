package model

import "testing"

func TestNewAuditReport(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("https://example.com")

	if report.SeedURL != "https://example.com" {
		t.Errorf("unexpected seed URL: %q", report.SeedURL)
	}
	if report.Score != 100 {
		t.Errorf("expected initial score 100, got %d", report.Score)
	}
	if report.DateAudited.IsZero() {
		t.Error("expected DateAudited to be set")
	}
	if report.HasIssues() {
		t.Error("new report should have no issues")
	}
}

func TestAddIssueFillsMetadata(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("https://example.com")
	report.AddIssue("missing_title", "Missing Title", "no <title> found", "https://example.com/a")

	if len(report.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(report.Issues))
	}

	issue := report.Issues[0]
	if issue.Severity != SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", issue.Severity)
	}
	if issue.SeverityText != "HIGH" {
		t.Errorf("expected severity text HIGH, got %q", issue.SeverityText)
	}
	if issue.Impact == "" || issue.Recommendation == "" {
		t.Error("expected impact and recommendation from rule metadata")
	}
	if issue.PageURL != "https://example.com/a" {
		t.Errorf("unexpected page URL: %q", issue.PageURL)
	}
}

func TestCountBySeverity(t *testing.T) {
	t.Parallel()

	report := NewAuditReport("https://example.com")
	report.AddIssue("missing_title", "t", "", "u")
	report.AddIssue("missing_h1", "t", "", "u")
	report.AddIssue("thin_content", "t", "", "u")

	counts := report.CountBySeverity()
	if counts[SeverityHigh] != 2 {
		t.Errorf("expected 2 HIGH issues, got %d", counts[SeverityHigh])
	}
	if counts[SeverityLow] != 1 {
		t.Errorf("expected 1 LOW issue, got %d", counts[SeverityLow])
	}

	high := report.IssuesBySeverity(SeverityHigh)
	if len(high) != 2 {
		t.Errorf("IssuesBySeverity(HIGH) returned %d issues", len(high))
	}
}

func TestSeverityStringAndWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		text     string
		weight   int
	}{
		{SeverityInfo, "INFO", 0},
		{SeverityLow, "LOW", 2},
		{SeverityMedium, "MEDIUM", 4},
		{SeverityHigh, "HIGH", 8},
		{SeverityCritical, "CRITICAL", 15},
		{Severity(99), "UNKNOWN", 0},
	}

	for _, tt := range tests {
		if got := tt.severity.String(); got != tt.text {
			t.Errorf("Severity(%d).String() = %q, want %q", tt.severity, got, tt.text)
		}
		if got := tt.severity.Weight(); got != tt.weight {
			t.Errorf("Severity(%d).Weight() = %d, want %d", tt.severity, got, tt.weight)
		}
	}
}

func TestGetRuleInfoUnknownType(t *testing.T) {
	t.Parallel()

	info := GetRuleInfo("no_such_rule")
	if info.Severity != SeverityInfo {
		t.Errorf("unknown rule should default to INFO, got %s", info.Severity)
	}
}
