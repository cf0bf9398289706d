package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestExportSRTToStdout(t *testing.T) {
	env := setupCLITestEnv(t, "")
	importSample(t, env)

	out := mustRunCLI(t, env, "export", "talk", "--out", "-")
	requireContains(t, out, "1\n00:00:00,000 --> 00:00:00,900\nHello there.\n\n")
	requireContains(t, out, "3\n00:00:03,000 --> 00:00:03,400\nBye\n")
}

func TestExportDefaultsToExportDir(t *testing.T) {
	env := setupCLITestEnv(t, "")
	importSample(t, env)

	_, stderr, err := runCLI(t, []string{"export", "talk", "--format", "json"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	path := filepath.Join(env.cfg.Paths.ExportDir, "talk.json")
	requireContains(t, stderr, path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var payload struct {
		Text     string `json:"text"`
		Language string `json:"language"`
		Segments []struct {
			Words []struct {
				Word string `json:"word"`
			} `json:"words"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if payload.Language != "en" || len(payload.Segments) != 3 {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Text != "Hello there. General Kenobi! Bye" {
		t.Fatalf("text = %q", payload.Text)
	}
	if len(payload.Segments[1].Words) != 2 {
		t.Fatalf("segment 2 words = %+v", payload.Segments[1].Words)
	}
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t, "")
	importSample(t, env)
	if _, _, err := runCLI(t, []string{"export", "talk", "--format", "vtt"}, env.configPath); err == nil {
		t.Fatal("expected unknown format error")
	}
}

func TestCheckSRTCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.srt", "1\n00:00:01,000 --> 00:00:02,000\nHi\n\n2\n00:00:03,000 --> 00:00:04,500\nBye\n")
	out, _, err := runCLI(t, []string{"check-srt", good}, "")
	if err != nil {
		t.Fatalf("check-srt: %v", err)
	}
	requireContains(t, out, "Cues: 2")
	requireContains(t, out, "Span: 00:00:01,000 --> 00:00:04,500")
	requireContains(t, out, "SRT valid")

	bad := writeFile(t, dir, "bad.srt", "1\n00:00:05,000 --> 00:00:04,000\nBackwards\n")
	out, _, err = runCLI(t, []string{"check-srt", bad}, "")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	requireContains(t, out, "end before start")
}
