package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecipients(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "recipients.json")

	data := `[
		{"secret_key": "abc", "amount": "0.1"},
		{"secret_key": "def", "amount": "0.2"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	wallets, err := loadRecipients(path)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	assert.Equal(t, "abc", wallets[0].SecretKey)
	assert.Equal(t, "0.2", wallets[1].Amount)
}

func TestLoadRecipients_Errors(t *testing.T) {
	_, err := loadRecipients("/nonexistent/recipients.json")
	require.Error(t, err)

	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, []byte(`[]`), 0o600))
	_, err = loadRecipients(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`not-json`), 0o600))
	_, err = loadRecipients(bad)
	require.Error(t, err)
}

func TestPrintFiltered(t *testing.T) {
	v := map[string]any{
		"results":           []map[string]any{{"bundle_id": "b-1"}},
		"completed_through": 0,
	}

	require.NoError(t, printFiltered(v, `.results[].bundle_id`))

	err := printFiltered(v, `.results[`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")

	err = printFiltered(v, `.results | fromjson`)
	require.Error(t, err)
}
