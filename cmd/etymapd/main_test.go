package main

import (
	"path/filepath"
	"testing"

	"etymap/internal/logging"
	"etymap/internal/testsupport"
)

func TestDaemonStore(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	st, err := daemonStore(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("daemonStore: %v", err)
	}
	defer st.Close()

	want := filepath.Join(cfg.Paths.DataDir, "etymap.db")
	if st.Path() != want {
		t.Errorf("store path = %q, want %q", st.Path(), want)
	}
}
