package main

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeFileIO implements FileIO over an in-memory map, so commands are
// tested against injected content instead of the real filesystem.
type fakeFileIO struct {
	files   map[string][]byte
	written map[string][]byte
}

func newFakeFileIO(files map[string][]byte) *fakeFileIO {
	return &fakeFileIO{files: files, written: map[string][]byte{}}
}

func (f *fakeFileIO) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such file: " + path)
	}
	return data, nil
}

func (f *fakeFileIO) WriteFile(path string, data []byte, _ os.FileMode) error {
	f.written[path] = data
	return nil
}

func TestMergeCmdDestinationWinsByDefault(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# A\n\nOld\n"),
		"dest": []byte("# A\n\nNew\n"),
	})
	c := NewMergeCmd(io)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"tmpl", "dest"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "# A\n\nNew\n" {
		t.Errorf("got %q", out.String())
	}
}

func TestMergeCmdMissingTemplateFile(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{"dest": []byte("# A\n")})
	c := NewMergeCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"missing", "dest"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error for a missing template file")
	}
}

func TestMergeCmdOutputFlagWritesViaIO(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# A\n"),
		"dest": []byte("# A\n"),
	})
	c := NewMergeCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"tmpl", "dest", "-o", "out.md"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if string(io.written["out.md"]) != "# A\n" {
		t.Errorf("got %q", io.written["out.md"])
	}
}

func TestMergeCmdJSONOutputContainsContent(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# A\n"),
		"dest": []byte("# A\n"),
	})
	c := NewMergeCmd(io)
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"tmpl", "dest", "--json"})

	if err := c.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"content"`) {
		t.Errorf("expected JSON content field, got %s", out.String())
	}
}

func TestMergeCmdUnknownPreferenceIsConfigError(t *testing.T) {
	io := newFakeFileIO(map[string][]byte{
		"tmpl": []byte("# A\n"),
		"dest": []byte("# A\n"),
	})
	c := NewMergeCmd(io)
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{"tmpl", "dest", "--preference", "nonsense"})

	if err := c.Execute(); err == nil {
		t.Error("expected an error for an unknown --preference value")
	}
}
