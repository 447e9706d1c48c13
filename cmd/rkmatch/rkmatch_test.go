package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/command"
	"github.com/creachadair/rkmatch/cmd/rkmatch/config"
	"github.com/google/go-cmp/cmp"
	yaml "gopkg.in/yaml.v3"
)

func runRoot(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("RKMATCH_CONFIG", "")
	env := newRoot().NewEnv(nil)
	env.Log = io.Discard
	return command.Run(env, append([]string{"-config", filepath.Join(t.TempDir(), "none.yml")}, args...))
}

func TestMatchCommand(t *testing.T) {
	dir := t.TempDir()
	q, r := filepath.Join(dir, "query"), filepath.Join(dir, "ref")
	for path, text := range map[string]string{q: "ABdc\n", r: " dabdc "} {
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			t.Fatalf("Writing %q: %v", path, err)
		}
	}
	rpath := filepath.Join(dir, "report.yml")

	if err := runRoot(t, "match", "-t", "2", "-report", rpath, "2", q, r); err != nil {
		t.Fatalf("Run match: unexpected error: %v", err)
	}
	data, err := os.ReadFile(rpath)
	if err != nil {
		t.Fatalf("Reading report: %v", err)
	}
	var rep config.Report
	if err := yaml.Unmarshal(data, &rep); err != nil {
		t.Fatalf("Parsing report: %v", err)
	}
	if rep.Mode != "batched-bloom" || rep.ChunkSize != 2 || len(rep.References) != 1 {
		t.Fatalf("Report: got %+v", rep)
	}
	got := rep.References[0]
	if diff := cmp.Diff([]int{2, 2}, []int{got.Matched, got.Total}); diff != "" {
		t.Errorf("Matched, Total (-want, +got):\n%s", diff)
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := runRoot(t, "nonesuch"); !errors.Is(err, command.ErrUsage) {
		t.Errorf("Run nonesuch: got error %v, want %v", err, command.ErrUsage)
	}
}
