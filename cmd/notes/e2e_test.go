package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesync/internal/fakeapi"
	"github.com/aretw0/notesync/pkg/core"
)

// buildNotesBinary builds the notes binary into dir and returns its path.
func buildNotesBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "notes.exe")
	buildCmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build notes: %v\n%s", err, string(out))
	}
	return bin
}

// cli runs the built binary against one API server with its own credential file.
type cli struct {
	t         *testing.T
	bin       string
	dir       string
	host      string
	tokenFile string
}

func (c *cli) run(args ...string) (stdout, stderr string, err error) {
	c.t.Helper()
	full := append([]string{
		"--host", c.host,
		"--token-file", c.tokenFile,
		"--env-file", filepath.Join(c.dir, "none.env"),
	}, args...)

	cmd := exec.Command(c.bin, full...)
	cmd.Dir = c.dir
	cmd.Env = cleanEnv()
	var out, errOut bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), errOut.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, errOut, err := c.run(args...)
	if err != nil {
		c.t.Fatalf("notes %v failed: %v\nstdout:\n%s\nstderr:\n%s", args, err, out, errOut)
	}
	return out
}

func (c *cli) listJSON() []core.Note {
	c.t.Helper()
	var notes []core.Note
	require.NoError(c.t, json.Unmarshal([]byte(c.mustRun("list", "--json")), &notes))
	return notes
}

// cleanEnv drops NOTES_* variables so the caller's shell cannot redirect the run.
func cleanEnv() []string {
	var env []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "NOTES_") {
			env = append(env, kv)
		}
	}
	return env
}

func addedID(t *testing.T, out string) string {
	t.Helper()
	id, ok := strings.CutPrefix(strings.TrimSpace(out), "Note added: ")
	require.True(t, ok, "unexpected add output: %q", out)
	return id
}

func findNote(notes []core.Note, id string) (core.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the notes binary")
	}

	dir := t.TempDir()
	bin := buildNotesBinary(t, dir)

	api := fakeapi.New(fakeapi.Config{})
	srv := httptest.NewServer(api)
	defer srv.Close()

	userID, err := api.AddUser("ada@example.test", "pw")
	require.NoError(t, err)
	token, err := api.IssueToken(userID)
	require.NoError(t, err)

	c := &cli{
		t:         t,
		bin:       bin,
		dir:       dir,
		host:      srv.URL,
		tokenFile: filepath.Join(dir, "credentials.yaml"),
	}

	var groceriesID, reportID string

	t.Run("token set and show", func(t *testing.T) {
		out := c.mustRun("token", "set", token)
		assert.Contains(t, out, c.tokenFile)

		out = c.mustRun("token", "show")
		assert.Contains(t, out, "token:   present")
		assert.Contains(t, out, "subject: "+userID)
		assert.Contains(t, out, "expires: ")
	})

	t.Run("add", func(t *testing.T) {
		groceriesID = addedID(t, c.mustRun("add", "Groceries", "-d", "milk", "-t", "home"))
		reportID = addedID(t, c.mustRun("add", "Report", "--description", "q3", "--tag", "work/finance"))
		assert.Equal(t, 2, api.Count())
	})

	t.Run("list json", func(t *testing.T) {
		notes := c.listJSON()
		require.Len(t, notes, 2)

		n, ok := findNote(notes, groceriesID)
		require.True(t, ok)
		assert.Equal(t, "Groceries", n.Title)
		assert.Equal(t, "milk", n.Description)
		assert.Equal(t, "home", n.Tag)
		assert.Contains(t, n.Extra, "user")
	})

	t.Run("list by tag", func(t *testing.T) {
		out := c.mustRun("list", "--tag", "work/**")
		assert.Contains(t, out, reportID)
		assert.Contains(t, out, "Report")
		assert.NotContains(t, out, groceriesID)

		_, _, err := c.run("list", "--tag", "[")
		assert.Error(t, err, "malformed pattern is rejected")
	})

	t.Run("edit keeps fields not given", func(t *testing.T) {
		out := c.mustRun("edit", groceriesID, "-d", "milk, eggs")
		assert.Contains(t, out, "Note updated: "+groceriesID)

		n, ok := findNote(c.listJSON(), groceriesID)
		require.True(t, ok)
		assert.Equal(t, "Groceries", n.Title)
		assert.Equal(t, "milk, eggs", n.Description)
		assert.Equal(t, "home", n.Tag)
	})

	t.Run("edit of unknown note needs every field", func(t *testing.T) {
		_, errOut, err := c.run("edit", "missing", "--title", "only title")
		require.Error(t, err)
		assert.Contains(t, errOut, "not found locally")

		n, ok := findNote(c.listJSON(), groceriesID)
		require.True(t, ok)
		assert.Equal(t, "Groceries", n.Title, "nothing was sent")
	})

	t.Run("writes proceed when the initial list fails", func(t *testing.T) {
		api.SetFault("list", fakeapi.Fault{Status: http.StatusOK, Body: `{}`})
		defer api.ClearFaults()

		_, _, err := c.run("list")
		assert.Error(t, err, "list still treats a failed fetch as fatal")

		out, errOut, err := c.run("add", "Offline", "-t", "misc")
		require.NoError(t, err, "stderr:\n%s", errOut)
		assert.Contains(t, out, "Note added: ")
		assert.Contains(t, errOut, "initial fetch failed")
		assert.Equal(t, 3, api.Count())

		// Edit falls back to the flags when the note cannot be read back.
		_, _, err = c.run("edit", reportID, "-d", "q4")
		require.Error(t, err)
		out, errOut, err = c.run("edit", reportID, "--title", "Report", "-d", "q4", "-t", "work/finance")
		require.NoError(t, err, "stderr:\n%s", errOut)
		assert.Contains(t, out, "Note updated: "+reportID)

		out, errOut, err = c.run("remove", addedID(t, c.mustRun("add", "Scratch")))
		require.NoError(t, err, "stderr:\n%s", errOut)
		assert.Contains(t, out, "Note removed: ")
		assert.Equal(t, 3, api.Count())
	})

	t.Run("remove", func(t *testing.T) {
		out := c.mustRun("rm", groceriesID)
		assert.Contains(t, out, "Note removed: "+groceriesID)
		assert.Equal(t, 2, api.Count())

		n, ok := findNote(c.listJSON(), reportID)
		require.True(t, ok)
		assert.Equal(t, "q4", n.Description)
		_, ok = findNote(c.listJSON(), groceriesID)
		assert.False(t, ok)
	})

	t.Run("token clear", func(t *testing.T) {
		assert.Contains(t, c.mustRun("token", "clear"), "Token cleared")
		assert.Contains(t, c.mustRun("token", "show"), "token:   (none)")

		_, errOut, err := c.run("list")
		require.Error(t, err)
		assert.Contains(t, errOut, "401")
	})
}
