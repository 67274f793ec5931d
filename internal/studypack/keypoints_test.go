package studypack

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKeyPoints_TimestampedTranscript(t *testing.T) {
	var lines []string
	for _, l := range []string{
		"0:05 - Welcome to the lecture",
		"1:10 - Cells are the unit of life",
		"2:15 - Setting up the microscope",
		"3:20 - Mitochondria produce energy",
		"4:25 - Review of the chapter",
		"5:30 - Homework",
		"6:35 - Closing remarks",
		"7:40 - Questions",
	} {
		lines = append(lines, l, "")
	}

	got := DeriveKeyPoints(strings.Join(lines, "\n"), "ignored", 4)
	assert.Equal(t, []string{
		"0:05 - Welcome to the lecture",
		"2:15 - Setting up the microscope",
		"4:25 - Review of the chapter",
		"6:35 - Closing remarks",
	}, got)
}

func TestDeriveKeyPoints_FewerLinesThanMax(t *testing.T) {
	got := DeriveKeyPoints("0:05 - Only line", "", 4)
	assert.Equal(t, []string{"0:05 - Only line"}, got)
}

func TestDeriveKeyPoints_SummarySentences(t *testing.T) {
	summary := "Cells are small. They divide often.\n\nEnergy comes from mitochondria. Membranes protect cells. Extra sentence."
	got := DeriveKeyPoints("plain prose transcript", summary, 4)
	assert.Equal(t, []string{
		"Cells are small",
		"They divide often",
		"Energy comes from mitochondria",
		"Membranes protect cells",
	}, got)
}

func TestDeriveKeyPoints_ClipsLongLines(t *testing.T) {
	long := "0:01 - " + strings.Repeat("word ", 40)
	got := DeriveKeyPoints(long, "", 1)
	if assert.Len(t, got, 1) {
		assert.True(t, strings.HasSuffix(got[0], "..."))
		assert.LessOrEqual(t, len(got[0]), len("0:01 - ")+maxKeyPointLen+3)
	}
}

func TestDeriveKeyPoints_ZeroMax(t *testing.T) {
	assert.Nil(t, DeriveKeyPoints("0:01 - a", "b", 0))
}

func TestDeriveKeyPoints_ClipsUnspacedTextOnRuneBoundary(t *testing.T) {
	got := DeriveKeyPoints("0:10 - a"+strings.Repeat("光合作用", 20), "", 4)
	if assert.Len(t, got, 1) {
		assert.True(t, utf8.ValidString(got[0]), "invalid UTF-8: %q", got[0])
		assert.True(t, strings.HasSuffix(got[0], "光..."), got[0])
	}

	got = DeriveKeyPoints("", strings.Repeat("细胞", 50), 1)
	if assert.Len(t, got, 1) {
		assert.True(t, utf8.ValidString(got[0]), "invalid UTF-8: %q", got[0])
	}
}

func TestDeriveKeyPoints_LecturesPastNinetyNineMinutes(t *testing.T) {
	content := "98:40 - Recap\n\n100:05 - Later topic\n\n101:30 - Final words"
	got := DeriveKeyPoints(content, "summary fallback", 4)
	assert.Equal(t, []string{"98:40 - Recap", "100:05 - Later topic", "101:30 - Final words"}, got)
}
