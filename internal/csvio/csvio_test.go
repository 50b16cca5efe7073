package csvio

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/todue/internal/models"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []models.Task{
		{Title: "pay rent", Deadline: "01-04-2026", Priority: models.PriorityHigh},
		{Title: "call, then email", Deadline: "02-04-2026", Priority: models.PriorityLow, Completed: true},
	})
	require.NoError(t, err)

	want := "Title,Deadline,Priority,Completed\n" +
		"pay rent,01-04-2026,High,0\n" +
		"\"call, then email\",02-04-2026,Low,1\n"
	assert.Equal(t, want, buf.String())
}

func TestRead(t *testing.T) {
	input := "Title,Deadline,Priority,Completed\n" +
		"a,01-04-2026,High,1\n" +
		"b,not a date,Medium,False\n" +
		"c,02-04-2026,Low,TRUE\n" +
		"d,03-04-2026,Low,0\n"

	tasks, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, models.Task{Title: "a", Deadline: "01-04-2026", Priority: models.PriorityHigh, Completed: true}, tasks[0])
	assert.Equal(t, "not a date", tasks[1].Deadline)
	assert.False(t, tasks[1].Completed)
	assert.True(t, tasks[2].Completed)
	assert.False(t, tasks[3].Completed)
}

func TestReadWithoutHeader(t *testing.T) {
	tasks, err := Read(strings.NewReader("x,01-04-2026,Low,0\n"))
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "x", tasks[0].Title)
}

func TestReadRejectsWholeFileOnBadRow(t *testing.T) {
	input := "Title,Deadline,Priority,Completed\n" +
		"ok,01-04-2026,High,1\n" +
		"bad,01-04-2026,High,maybe\n"

	tasks, err := Read(strings.NewReader(input))
	assert.Error(t, err)
	assert.Nil(t, tasks)

	_, err = Read(strings.NewReader("short,row\n"))
	assert.Error(t, err)
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.csv")
	in := []models.Task{{Title: "one", Deadline: "01-04-2026", Priority: models.PriorityMedium, Completed: true}}

	require.NoError(t, WriteFile(path, in))
	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
