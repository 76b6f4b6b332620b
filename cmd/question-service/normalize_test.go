package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeNormalize(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := normalizeCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeCommand(t *testing.T) {
	t.Run("config flag", func(t *testing.T) {
		out, err := executeNormalize(t, "",
			"--type", "multiple_choice",
			"--config", `{"type":"multiple_choice","options":["a",2],"correct_index":"1"}`)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"multiple_choice","options":["a","2"],"correct_index":1}`, out)
	})

	t.Run("stdin", func(t *testing.T) {
		out, err := executeNormalize(t, `{"type":"fill_blank","accepted_answers":["Yes"," yes ","no"]}`, "-")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"fill_blank","accepted_answers":["Yes","no"]}`, out)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"type":"essay","rubric":"ignored"}`), 0o600))

		out, err := executeNormalize(t, "", "--type", "essay", path)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"essay"}`, out)
	})

	t.Run("legacy columns", func(t *testing.T) {
		out, err := executeNormalize(t, "",
			"--type", "multiple_choice",
			"--options", `["Red","Green","Blue"]`,
			"--correct-answer", "Blue")
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"multiple_choice","options":["Red","Green","Blue"],"correct_index":2}`, out)
	})

	t.Run("nothing to normalize", func(t *testing.T) {
		out, err := executeNormalize(t, "")
		require.NoError(t, err)
		assert.Equal(t, "null\n", out)
	})

	t.Run("rejected config", func(t *testing.T) {
		_, err := executeNormalize(t, "",
			"--type", "essay",
			"--config", `{"type":"fill_blank","accepted_answers":["x"]}`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type_mismatch")
	})
}
