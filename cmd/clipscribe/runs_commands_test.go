package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clipscribe/internal/segment"
	"clipscribe/internal/store"
)

func seedRun(t *testing.T, env *cliTestEnv, id string) {
	t.Helper()

	s, err := store.Open(env.cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer s.Close()

	run := &store.Run{
		ID:                  id,
		MediaPath:           "/media/in.mkv",
		Language:            "en",
		FullText:            "hello there",
		AggregateConfidence: 0.91,
		ImprovementsApplied: 1,
	}
	segments := []segment.Segment{
		{ID: 0, Start: 0, End: 2.5, Text: "hello there", Confidence: 0.91, Tier: segment.TierPrimary},
	}
	if err := s.SaveRun(context.Background(), run, segments); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
}

func TestRunsListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "11111111-2222-3333-4444-555555555555")

	out, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "11111111")
	requireContains(t, out, "in.mkv")

	out, _, err = runCLI(t, []string{"runs", "show", "11111111"}, env.configPath)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, out, "hello there")
	requireContains(t, out, "primary")
	requireContains(t, out, "en (English)")
}

func TestRunsListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestRunsExportWritesSRT(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	target := filepath.Join(t.TempDir(), "out.srt")
	out, _, err := runCLI(t, []string{"runs", "export", "aaaaaaaa", "--srt", target}, env.configPath)
	if err != nil {
		t.Fatalf("runs export: %v", err)
	}
	requireContains(t, out, "Wrote subtitles")

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read srt: %v", err)
	}
	requireContains(t, string(data), "00:00:00,000 --> 00:00:02,500")
	requireContains(t, string(data), "hello there")
}

func TestRunsDeleteByPrefix(t *testing.T) {
	env := setupCLITestEnv(t)
	seedRun(t, env, "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	out, _, err := runCLI(t, []string{"runs", "delete", "aaaa"}, env.configPath)
	if err != nil {
		t.Fatalf("runs delete: %v", err)
	}
	requireContains(t, out, "deleted")

	out, _, err = runCLI(t, []string{"runs", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}
