package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	err := app.Run(append([]string{"jsondict"}, args...))
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("jsondict %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	flags := []string{"--db", db, "--key", "k"}
	cmd := func(args ...string) []string {
		return append(append([]string{}, flags...), args...)
	}

	if out := mustRun(t, cmd("dump")...); out != "{}\n" {
		t.Errorf("dump on empty = %q", out)
	}
	mustRun(t, cmd("set", "proposal", `{"runs":[]}`)...)
	mustRun(t, cmd("append", "proposal.runs", `{"id":1}`)...)
	mustRun(t, cmd("append", "proposal.runs", `{"id":2}`)...)
	mustRun(t, cmd("set", "proposal.runs[0].ok", `true`)...)
	mustRun(t, cmd("set", "proposal.runs[-1]", `"replaced"`)...)

	if out := mustRun(t, cmd("get", "proposal.runs[0]")...); out != "{\n  \"id\": 1,\n  \"ok\": true\n}\n" {
		t.Errorf("get = %q", out)
	}
	if out := mustRun(t, cmd("get", "proposal.runs[1]")...); out != "\"replaced\"\n" {
		t.Errorf("get = %q", out)
	}

	mustRun(t, cmd("del", "proposal.runs[0]")...)
	mustRun(t, cmd("set", "note", `1.5`)...)
	mustRun(t, cmd("del", "note")...)
	if out := mustRun(t, cmd("get")...); out != "{\n  \"proposal\": {\n    \"runs\": [\n      \"replaced\"\n    ]\n  }\n}\n" {
		t.Errorf("get root = %q", out)
	}
}

func TestCommands_errors(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	mustRun(t, "--db", db, "set", "a", `{"b":[1]}`)

	for _, args := range [][]string{
		{"get", "missing"},
		{"get", "a..b"},
		{"set", "a.b.c", "1"},
		{"set", "a[0]", "1"},
		{"set", "a.b[5]", "1"},
		{"set", "a.c", "{bad"},
		{"set", "a.c"},
		{"set", "", "1"},
		{"del", "a.zzz"},
		{"append", "a", "1"},
		{"--encoding", "xml", "dump"},
		{"--store", "carrier-pigeon", "dump"},
	} {
		if out, err := run(t, append([]string{"--db", db}, args...)...); err == nil {
			t.Errorf("jsondict %s succeeded: %q", strings.Join(args, " "), out)
		}
	}
	if _, err := run(t, "dump"); err == nil {
		t.Errorf("dump without --db succeeded")
	}
}

func TestCommands_redis(t *testing.T) {
	mr := miniredis.RunT(t)
	flags := []string{"--store", "redis", "--db", mr.Addr(), "--encoding", "msgpack"}
	mustRun(t, append(flags, "set", "a", `[1,2]`)...)
	if out := mustRun(t, append(flags, "get", "a[1]")...); out != "2\n" {
		t.Errorf("get = %q", out)
	}
	if !mr.Exists("doc") {
		t.Errorf("no record under the default key")
	}
}
