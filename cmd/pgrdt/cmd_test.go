package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Horusiath/pgrdt/pkg/store"
)

// newTestApp returns an app backed by a store in a temp directory.
func newTestApp(t *testing.T) *app {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%q): %v", dbPath, err)
	}
	t.Cleanup(func() { s.Close() })
	return &app{store: s}
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()
	w.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("read captured stdout: %v", err)
	}
	return buf.String()
}

// --- envOr tests ---

func TestEnvOr_EnvSet(t *testing.T) {
	t.Setenv("TEST_PGRDT_ENV", "hello")
	if got := envOr("TEST_PGRDT_ENV", "default"); got != "hello" {
		t.Fatalf("envOr with set env: got %q, want %q", got, "hello")
	}
}

func TestEnvOr_EnvUnset(t *testing.T) {
	if got := envOr("TEST_PGRDT_UNSET_KEY_XYZ", "fallback"); got != "fallback" {
		t.Fatalf("envOr with unset env: got %q, want %q", got, "fallback")
	}
}

func TestEnvOr_EmptyEnv(t *testing.T) {
	t.Setenv("TEST_PGRDT_EMPTY", "")
	if got := envOr("TEST_PGRDT_EMPTY", "default"); got != "default" {
		t.Fatalf("envOr with empty env: got %q, want %q", got, "default")
	}
}

// --- resolveReplica tests ---

func TestResolveReplica_FlagWins(t *testing.T) {
	a := &app{replicaID: "from-env"}
	got, err := a.resolveReplica("from-flag")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from-flag" {
		t.Fatalf("got %q, want from-flag", got)
	}
}

func TestResolveReplica_EnvFallback(t *testing.T) {
	a := &app{replicaID: "from-env"}
	got, err := a.resolveReplica("")
	if err != nil {
		t.Fatal(err)
	}
	if got != "from-env" {
		t.Fatalf("got %q, want from-env", got)
	}
}

func TestResolveReplica_Missing(t *testing.T) {
	a := &app{}
	if _, err := a.resolveReplica(""); err == nil {
		t.Fatal("expected error when no replica ID is available")
	}
}

// --- counter command tests ---

func TestCmdIncrAndValue(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.store.RegisterReplica("r1"); err != nil {
		t.Fatal(err)
	}

	if code := a.cmdIncr([]string{"--replica", "r1", "hits", "5"}); code != 0 {
		t.Fatalf("incr exit code = %d, want 0", code)
	}
	out := captureStdout(t, func() {
		if code := a.cmdValue([]string{"hits"}); code != 0 {
			t.Errorf("value exit code = %d, want 0", code)
		}
	})
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("value output = %q, want 5", out)
	}
}

func TestCmdIncr_DefaultDelta(t *testing.T) {
	a := newTestApp(t)
	a.store.RegisterReplica("r1")
	a.replicaID = "r1"

	if code := a.cmdIncr([]string{"hits"}); code != 0 {
		t.Fatalf("incr exit code = %d, want 0", code)
	}
	v, err := a.store.Value("hits")
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("value = %d, want 1", v)
	}
}

func TestCmdIncr_NoReplica(t *testing.T) {
	a := newTestApp(t)
	if code := a.cmdIncr([]string{"hits"}); code != 1 {
		t.Fatalf("incr without replica: exit code = %d, want 1", code)
	}
}

func TestCmdIncr_BadAmount(t *testing.T) {
	a := newTestApp(t)
	a.replicaID = "r1"
	if code := a.cmdIncr([]string{"hits", "many"}); code != 1 {
		t.Fatalf("incr with bad amount: exit code = %d, want 1", code)
	}
	if code := a.cmdIncr([]string{"hits", "-3"}); code != 1 {
		t.Fatalf("incr with negative amount: exit code = %d, want 1", code)
	}
}

func TestCmdDecr(t *testing.T) {
	a := newTestApp(t)
	a.store.RegisterReplica("r1")
	a.replicaID = "r1"

	a.cmdIncr([]string{"stock", "10"})
	if code := a.cmdDecr([]string{"stock", "4"}); code != 0 {
		t.Fatalf("decr exit code = %d, want 0", code)
	}
	v, err := a.store.Value("stock")
	if err != nil {
		t.Fatal(err)
	}
	if v != 6 {
		t.Fatalf("value = %d, want 6", v)
	}
}

// --- pure algebra command tests ---

func TestCmdMerge(t *testing.T) {
	out := captureStdout(t, func() {
		if code := cmdMerge([]string{`{"A":1}`, `{"B":1}`}); code != 0 {
			t.Errorf("merge exit code = %d, want 0", code)
		}
	})
	if strings.TrimSpace(out) != `{"A":1,"B":1}` {
		t.Fatalf("merge output = %q", out)
	}
}

func TestCmdMerge_Overlapping(t *testing.T) {
	out := captureStdout(t, func() {
		cmdMerge([]string{`{"A":1,"B":2}`, `{"A":3,"C":1}`})
	})
	if strings.TrimSpace(out) != `{"A":3,"B":2,"C":1}` {
		t.Fatalf("merge output = %q", out)
	}
}

func TestCmdMerge_BadLiteral(t *testing.T) {
	if code := cmdMerge([]string{`{"A":1}`, `{oops}`}); code != 1 {
		t.Fatalf("merge with bad literal: exit code = %d, want 1", code)
	}
}

func TestCmdCompare_ExitCodes(t *testing.T) {
	if code := cmdCompare([]string{`{"A":1}`, `{"A":1,"B":1}`}); code != 0 {
		t.Fatalf("compare before: exit code = %d, want 0", code)
	}
	if code := cmdCompare([]string{`{"A":1}`, `{"B":1}`}); code != 2 {
		t.Fatalf("compare concurrent: exit code = %d, want 2", code)
	}
}

func TestCmdCompare_Output(t *testing.T) {
	out := captureStdout(t, func() {
		cmdCompare([]string{`{"A":1}`, `{"A":1,"B":1}`})
	})
	if strings.TrimSpace(out) != "before" {
		t.Fatalf("compare output = %q, want before", out)
	}
}

func TestCmdValueOf(t *testing.T) {
	out := captureStdout(t, func() {
		if code := cmdValueOf([]string{`{"A":2,"B":3}`}); code != 0 {
			t.Errorf("valueof exit code = %d, want 0", code)
		}
	})
	if strings.TrimSpace(out) != "5" {
		t.Fatalf("valueof output = %q, want 5", out)
	}
}

func TestCmdFmt_Canonicalizes(t *testing.T) {
	out := captureStdout(t, func() {
		if code := cmdFmt([]string{` { "B" : 2 , "A" : 1 } `}); code != 0 {
			t.Errorf("fmt exit code = %d, want 0", code)
		}
	})
	if strings.TrimSpace(out) != `{"A":1,"B":2}` {
		t.Fatalf("fmt output = %q", out)
	}
}

func TestCmdFmt_RejectsGarbage(t *testing.T) {
	if code := cmdFmt([]string{`{"A":1} trailing`}); code != 1 {
		t.Fatalf("fmt with trailing garbage: exit code = %d, want 1", code)
	}
}
