package main

import (
	"bytes"
	"testing"
)

func TestRootCmdHelpListsSubcommands(t *testing.T) {
	root := NewRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"merge", "partial-merge", "cleanse", "rehydrate", "doctor"} {
		if !bytes.Contains(out.Bytes(), []byte(name)) {
			t.Errorf("expected help output to mention %q, got %s", name, out.String())
		}
	}
}
