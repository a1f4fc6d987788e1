package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lanrat/recsort"
)

func executeCommand(args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestSortCommand(t *testing.T) {
	in := writeFile(t, "in.jsonl",
		`{"name":"Alice","age":30}
{"name":"Bob","age":25}
{"name":"Charlie"}
`)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := executeCommand("sort", "-k", "age", "-i", in, "-o", out, "--algo", "stream"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := `{"name":"Charlie"}
{"age":25,"name":"Bob"}
{"age":30,"name":"Alice"}
`
	if got := readFile(t, out); got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestSortCommandStable(t *testing.T) {
	in := writeFile(t, "in.jsonl",
		`{"id":2,"pos":1}
{"id":1,"pos":2}
{"id":2,"pos":3}
`)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := executeCommand("sort", "-k", "id", "-i", in, "-o", out, "--algo", "stable"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := `{"id":1,"pos":2}
{"id":2,"pos":1}
{"id":2,"pos":3}
`
	if got := readFile(t, out); got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestSortCommandCSV(t *testing.T) {
	in := writeFile(t, "in.csv", "name,age\nAlice,30\nBob,25\n")
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := executeCommand("sort", "-k", "age", "-i", in, "-o", out, "--algo", "stream"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := "age,name\n25,Bob\n30,Alice\n"
	if got := readFile(t, out); got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestSortCommandUnknownAlgo(t *testing.T) {
	in := writeFile(t, "in.jsonl", `{"id":1}`+"\n")
	out := filepath.Join(t.TempDir(), "out.jsonl")

	err := executeCommand("sort", "-k", "id", "-i", in, "-o", out, "--algo", "quick")
	if err == nil || !strings.Contains(err.Error(), "unknown algorithm") {
		t.Fatalf("got %v, expected unknown algorithm error", err)
	}
}

func TestSortCommandTypeMismatch(t *testing.T) {
	in := writeFile(t, "in.jsonl",
		`{"v":1}
{"v":"one"}
`)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	err := executeCommand("sort", "-k", "v", "-i", in, "-o", out, "--algo", "stream")
	var mismatch *recsort.TypeMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, expected *TypeMismatchError", err)
	}
}

func TestSortCommandInMemory(t *testing.T) {
	in := writeFile(t, "in.jsonl",
		`{"id":3}
{"id":1}
{"id":2}
`)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := executeCommand("sort", "-k", "id", "-i", in, "-o", out, "--algo", "stream", "--in-memory"); err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := `{"id":1}
{"id":2}
{"id":3}
`
	if got := readFile(t, out); got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestUniqCommand(t *testing.T) {
	in := writeFile(t, "in.jsonl",
		`{"id":2}
{"id":1}
{"id":2}
{"id":3}
{"id":1}
`)
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := executeCommand("uniq", "-k", "id", "-i", in, "-o", out); err != nil {
		t.Fatalf("execute: %v", err)
	}

	expected := `{"id":1}
{"id":2}
{"id":3}
`
	if got := readFile(t, out); got != expected {
		t.Fatalf("got %q, expected %q", got, expected)
	}
}

func TestDiffCommand(t *testing.T) {
	a := writeFile(t, "a.jsonl",
		`{"id":1}
{"id":2}
{"id":3}
`)
	b := writeFile(t, "b.jsonl",
		`{"id":2}
{"id":3}
{"id":4}
`)

	if err := executeCommand("diff", "-k", "id", a, b); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestDiffCommandMissingFile(t *testing.T) {
	a := writeFile(t, "a.jsonl", `{"id":1}`+"\n")
	missing := filepath.Join(t.TempDir(), "missing.jsonl")

	if err := executeCommand("diff", "-k", "id", a, missing); err == nil {
		t.Fatal("expected error for missing input file")
	}
}
