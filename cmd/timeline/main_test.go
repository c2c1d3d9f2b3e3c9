package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHistory = `{
  "periods": [
    {"employer_name": "Альфа", "start_date": "2018-03-01", "end_date": "2020-12-31"},
    {"employer_name": "Бета", "start_date": "2021-07-03", "end_date": "2023-01-31", "worked_with_vulnerable_people": true},
    {"employer_name": "Гамма", "start_date": "2023-02-01", "is_current": true}
  ],
  "explanations": [
    {"start_date": "2021-01-01", "end_date": "2021-07-03", "explanation": "Учёба"}
  ]
}`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleHistory), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGapsCommand_JSON(t *testing.T) {
	out, err := run(t, "gaps", "-f", writeSample(t), "--json")
	require.NoError(t, err)

	var result struct {
		Gaps []struct {
			StartDate    string `json:"start_date"`
			EndDate      string `json:"end_date"`
			LengthInDays int    `json:"length_in_days"`
			Explained    bool   `json:"explained"`
		} `json:"gaps"`
		AllGapsExplained bool `json:"all_gaps_explained"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	require.Len(t, result.Gaps, 1)
	assert.Equal(t, "2021-01-01", result.Gaps[0].StartDate)
	assert.Equal(t, "2021-07-03", result.Gaps[0].EndDate)
	assert.Equal(t, 183, result.Gaps[0].LengthInDays)
	assert.True(t, result.Gaps[0].Explained)
	assert.True(t, result.AllGapsExplained)
}

func TestReferencesCommand_Text(t *testing.T) {
	out, err := run(t, "references", "-f", writeSample(t))
	require.NoError(t, err)

	assert.Contains(t, out, "Гамма (текущий)")
	assert.Contains(t, out, "Бета (уязвимые группы)")
	assert.NotContains(t, strings.SplitN(out, "Последние работодатели:", 2)[0], "Альфа")
}

func TestReferencesCommand_NoCurrentTakesTwoPrevious(t *testing.T) {
	out, err := run(t, "references", "-f", writeSample(t), "--no-current", "--json")
	require.NoError(t, err)

	var result struct {
		Required []struct {
			EmployerName string `json:"employer_name"`
		} `json:"required"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	names := make([]string, 0, len(result.Required))
	for _, r := range result.Required {
		names = append(names, r.EmployerName)
	}
	assert.Equal(t, []string{"Бета", "Альфа"}, names)
}

func TestRootCommand_RequiresFile(t *testing.T) {
	_, err := run(t, "gaps")
	assert.Error(t, err)
}
