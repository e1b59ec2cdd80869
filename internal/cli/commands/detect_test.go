package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/journeylog/journeylog/pkg/detector"
)

func TestGenerateStarterConfig(t *testing.T) {
	result := &detector.DetectionResult{
		Categories: map[string]int{
			"analytics": 5,
			"main":      1,
		},
	}

	content := generateStarterConfig(result)

	if !strings.Contains(content, "allowed_categories:") {
		t.Errorf("starter config missing allowed_categories:\n%s", content)
	}
	if !strings.Contains(content, "- analytics") {
		t.Errorf("starter config missing detected category:\n%s", content)
	}
	if !strings.Contains(content, "- main") {
		t.Errorf("starter config missing detected category:\n%s", content)
	}
}

func TestGenerateStarterConfigNoCategories(t *testing.T) {
	content := generateStarterConfig(&detector.DetectionResult{})
	if !strings.Contains(content, "- analytics") {
		t.Errorf("starter config should fall back to analytics:\n%s", content)
	}
}

func TestWriteStarterConfigRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	err := writeStarterConfig(&detector.DetectionResult{}, path)
	if err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "existing" {
		t.Error("existing config was modified")
	}
}

func TestWriteStarterConfigCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := writeStarterConfig(&detector.DetectionResult{}, path); err != nil {
		t.Fatalf("writeStarterConfig() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("starter config not written: %v", err)
	}
}
