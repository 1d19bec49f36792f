package main

import (
	"bytes"
	"testing"
)

func TestCleanseCmdInsertsBlankLinesAroundHeadings(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"doc.md": []byte("Text.\n# Heading\nMore.\n"),
	})
	c := NewCleanseCmd(io)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"doc.md"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	want := "Text.\n\n# Heading\n\nMore.\n"
	if out.String() != want {
		t.Errorf("got %q, want %q", out.String(), want)
	}
}

func TestCleanseCmdInPlaceWritesViaIO(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"doc.md": []byte("Text.\n# Heading\n"),
	})
	c := NewCleanseCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"doc.md", "--in-place"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if _, ok := io.written["doc.md"]; !ok {
		t.Error("expected doc.md to be overwritten in place")
	}
}
