package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("  alice \nnext\n")), "Username", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Equal(t, "Username\n> ", out.String())
}

func TestGetSimpleText_PartialLineAtEOF(t *testing.T) {
	got, err := GetSimpleText(bufio.NewReader(strings.NewReader("bob")), "Username", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "bob", got)

	_, err = GetSimpleText(bufio.NewReader(strings.NewReader("")), "Username", &bytes.Buffer{})
	assert.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte("secret1"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret1"), pw)
	assert.Equal(t, "Password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = GetPassword("Password", &bytes.Buffer{})
	assert.EqualError(t, err, "no tty")
}

func TestGetMultiline(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("<p>one</p>\r\n<p>two</p>\n\nafter\n"))
	got, err := GetMultiline(r, "Content", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "<p>one</p>\n<p>two</p>", got)

	rest, err := readLine(r)
	require.NoError(t, err)
	assert.Equal(t, "after", rest)
}

func TestGetMultiline_EOF(t *testing.T) {
	got, err := GetMultiline(bufio.NewReader(strings.NewReader("last line")), "Content", &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "last line", got)
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "y\n", want: true},
		{in: "YES\n", want: true},
		{in: "n\n", want: false},
		{in: "\n", want: false},
		{in: "", want: false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := Confirm(bufio.NewReader(strings.NewReader(tt.in)), "Delete?", &out)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, "Delete? [y/N] ", out.String())
	}
}
