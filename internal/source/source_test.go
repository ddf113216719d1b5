package source

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airtable-graphql/internal/airtable"
)

const baseJSON = `{
  "id": "appTest",
  "tables": [
    {
      "name": "Tasks",
      "columns": [
        {"name": "Name", "type": "text", "options": {}},
        {"name": "Owner", "type": "foreignKey", "options": {"relationship": "one", "table": "People"}}
      ]
    },
    {"name": "People", "columns": []}
  ]
}`

const baseYAML = `
id: appTest
tables:
  - name: Tasks
    columns:
      - name: Name
        type: text
      - name: Owner
        type: foreignKey
        options:
          relation: one
          table: People
  - name: People
    columns: []
`

func assertTestBase(t *testing.T, base airtable.Base) {
	t.Helper()
	require.Len(t, base.Tables, 2)
	assert.Equal(t, "appTest", base.ID)
	assert.Equal(t, "Tasks", base.Tables[0].Name)
	require.Len(t, base.Tables[0].Columns, 2)
	owner := base.Tables[0].Columns[1]
	assert.Equal(t, airtable.TypeForeignKey, owner.Type)
	assert.Equal(t, airtable.RelationOne, owner.Options.Relation)
	assert.Equal(t, "People", owner.Options.Table)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatAuto},
		{"auto", FormatAuto},
		{"JSON", FormatJSON},
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		base, err := Decode([]byte(baseJSON), FormatJSON)
		require.NoError(t, err)
		assertTestBase(t, base)
	})

	t.Run("yaml", func(t *testing.T) {
		base, err := Decode([]byte(baseYAML), FormatYAML)
		require.NoError(t, err)
		assertTestBase(t, base)
	})

	t.Run("auto sniffs both", func(t *testing.T) {
		base, err := Decode([]byte("\n  "+baseJSON), FormatAuto)
		require.NoError(t, err)
		assertTestBase(t, base)

		base, err = Decode([]byte(baseYAML), FormatAuto)
		require.NoError(t, err)
		assertTestBase(t, base)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Decode([]byte(" \n\t"), FormatAuto)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := Decode([]byte(baseJSON), Format("xml"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Decode([]byte(`{"tables": [`), FormatJSON)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode json")
	})
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "base.json")
	yamlPath := filepath.Join(dir, "base.yml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(baseJSON), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte(baseYAML), 0o600))

	base, err := Load(jsonPath, FormatAuto)
	require.NoError(t, err)
	assertTestBase(t, base)

	base, err = Load(yamlPath, FormatAuto)
	require.NoError(t, err)
	assertTestBase(t, base)

	_, err = Load(filepath.Join(dir, "missing.json"), FormatAuto)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_FileErrorNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := Load(path, FormatAuto)
	require.ErrorIs(t, err, ErrEmptyInput)
	assert.Contains(t, err.Error(), path)
}

func TestLoad_Stdin(t *testing.T) {
	original := stdin
	t.Cleanup(func() { stdin = original })

	for _, path := range []string{"-", "@-"} {
		stdin = strings.NewReader(baseYAML)
		base, err := Load(path, FormatAuto)
		require.NoError(t, err, path)
		assertTestBase(t, base)
	}
}

func TestWrite(t *testing.T) {
	base, err := Decode([]byte(baseJSON), FormatJSON)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, base))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"id\": \"appTest\""), out)
	assert.True(t, strings.HasSuffix(out, "}\n"))
	assert.Contains(t, out, `"relation": "one"`)

	var roundTrip airtable.Base
	require.NoError(t, json.Unmarshal(buf.Bytes(), &roundTrip))
	assert.Equal(t, base, roundTrip)
}

func TestIsStdin(t *testing.T) {
	assert.True(t, IsStdin("-"))
	assert.True(t, IsStdin("@-"))
	assert.False(t, IsStdin("base.json"))
}
