package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultEnablesEverything(t *testing.T) {
	fs := Default()
	if !fs.IsEnabled("math/add") {
		t.Error("Default() should enable every feature name")
	}
	if !fs.IsEnabled("anything-unnamed") {
		t.Error("Default() should enable names it has never heard of")
	}
}

func TestNilFeatureSetBehavesLikeDefault(t *testing.T) {
	var fs *FeatureSet
	if !fs.IsEnabled("math/add") {
		t.Error("nil *FeatureSet should behave like Default()")
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	fs, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if !fs.IsEnabled("stats/sum/row") {
		t.Error("Load(\"\") should behave like Default()")
	}
}

func TestLoadParsesYAMLAndDisablesNamedFeatures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features.yaml")
	yamlSrc := "enabled:\n  math/add: true\n  stats/sum/row: false\n"
	if err := os.WriteFile(path, []byte(yamlSrc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !fs.IsEnabled("math/add") {
		t.Error("math/add explicitly set true should be enabled")
	}
	if fs.IsEnabled("stats/sum/row") {
		t.Error("stats/sum/row explicitly set false should be disabled")
	}
	if !fs.IsEnabled("matrix/matmul") {
		t.Error("a feature absent from the file should default to enabled")
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error loading a config file that does not exist")
	}
}
