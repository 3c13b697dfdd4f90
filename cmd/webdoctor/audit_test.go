package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/webdoctor/webdoctor/internal/config"
	"github.com/webdoctor/webdoctor/internal/model"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("parse flags failed: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}

		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("unexpected max pages: %d", cfg.MaxPages)
		}
		if !cfg.FollowSitemap || !cfg.RespectRobots {
			t.Error("expected sitemap and robots enabled by default")
		}
		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://example.com" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		err := cmd.ParseFlags([]string{
			"--max-pages", "10",
			"--delay", "2s",
			"--no-sitemap",
			"--ignore-robots",
			"--json",
		})
		if err != nil {
			t.Fatalf("parse flags failed: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}

		if cfg.MaxPages != 10 {
			t.Errorf("unexpected max pages: %d", cfg.MaxPages)
		}
		if cfg.CrawlDelay != 2*time.Second {
			t.Errorf("unexpected delay: %v", cfg.CrawlDelay)
		}
		if cfg.FollowSitemap {
			t.Error("expected sitemap disabled")
		}
		if cfg.RespectRobots {
			t.Error("expected robots ignored")
		}
		if !cfg.JSONReport {
			t.Error("expected JSON report enabled")
		}
	})

	t.Run("loads explicit config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := "sites:\n  example.com:\n    maxPages: 7\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"--config", path}); err != nil {
			t.Fatalf("parse flags failed: %v", err)
		}

		cfg, err := buildConfig(cmd, []string{"https://example.com"})
		if err != nil {
			t.Fatalf("build config failed: %v", err)
		}

		site := cfg.SiteConfigs.GetSiteConfig("example.com")
		if site.MaxPages != 7 {
			t.Errorf("expected site override loaded, got %+v", site)
		}
	})

	t.Run("missing explicit config file fails", func(t *testing.T) {
		t.Parallel()

		cmd := NewAuditCmd()
		if err := cmd.ParseFlags([]string{"--config", "/nonexistent/webdoctor.yaml"}); err != nil {
			t.Fatalf("parse flags failed: %v", err)
		}

		if _, err := buildConfig(cmd, []string{"https://example.com"}); err == nil {
			t.Error("expected error for missing explicit config file")
		}
	})
}

func TestAuditCmdValidation(t *testing.T) {
	t.Parallel()

	t.Run("no targets", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit"})
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))

		err := cmd.Execute()
		if !errors.Is(err, config.ErrNoTarget) {
			t.Errorf("expected ErrNoTarget, got %v", err)
		}
	})

	t.Run("invalid seed URL", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit", "not-a-url"})
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))

		err := cmd.Execute()
		if !errors.Is(err, config.ErrInvalidSeedURL) {
			t.Errorf("expected ErrInvalidSeedURL, got %v", err)
		}
	})

	t.Run("conflicting report formats", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"audit", "--json", "--markdown", "https://example.com"})
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))

		err := cmd.Execute()
		if !errors.Is(err, config.ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})
}

func TestNewReportWriter(t *testing.T) {
	t.Parallel()

	report := model.NewAuditReport("https://example.com")

	t.Run("json format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.JSONReport = true

		if _, err := newReportWriter(cfg, &buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), `"seed_url"`) {
			t.Errorf("expected JSON output, got %q", buf.String())
		}
	})

	t.Run("markdown format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()
		cfg.MarkdownReport = true

		if _, err := newReportWriter(cfg, &buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "# Webdoctor Report") {
			t.Errorf("expected markdown output, got %q", buf.String())
		}
	})

	t.Run("default human-readable format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		cfg := config.NewConfig()

		if _, err := newReportWriter(cfg, &buf).Write(report); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if !strings.Contains(buf.String(), "WEBDOCTOR REPORT") {
			t.Errorf("expected text output, got %q", buf.String())
		}
	})
}
