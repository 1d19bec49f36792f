package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPartialMergeCmdRequiresAnchorFlag(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# A\n"),
		"dest": []byte("# A\n"),
	})
	c := NewPartialMergeCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"tmpl", "dest"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error when --anchor is missing")
	}
}

func TestPartialMergeCmdMergesAnchoredSection(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# Requirements\n\nNew requirement.\n"),
		"dest": []byte("# Intro\n\nIntro text.\n\n# Requirements\n\nOld requirement.\n"),
	})
	c := NewPartialMergeCmd(io)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"tmpl", "dest", "--anchor", "^Requirements$"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Intro text.") {
		t.Errorf("expected untouched intro section preserved, got %q", out.String())
	}
	if !strings.Contains(out.String(), "New requirement.") {
		t.Errorf("expected template content merged in, got %q", out.String())
	}
}
