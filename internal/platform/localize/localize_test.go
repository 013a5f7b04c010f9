package localize_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigitunlu/heroject/internal/platform/localize"
)

func TestPassthrough(t *testing.T) {
	t.Parallel()

	got := localize.Passthrough{}.Translate(context.Background(), "alice has created Website")
	assert.Equal(t, "alice has created Website", got)
}

func TestCatalog_Translate(t *testing.T) {
	t.Parallel()

	c := localize.NewCatalog(map[string]string{
		"alice has created Website": "alice a créé Website",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "known", in: "alice has created Website", want: "alice a créé Website"},
		{name: "surrounding space", in: "  alice has created Website ", want: "alice a créé Website"},
		{name: "unknown", in: "bob has deleted Website", want: "bob has deleted Website"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Translate(context.Background(), tt.in))
		})
	}
}

func TestCatalog_TranslateTemplates(t *testing.T) {
	t.Parallel()

	c := localize.NewCatalog(map[string]string{
		"{user} has commented on {object}":                  "{user} a commenté {object}",
		"{user} has assigned {object} to {target}":          "{user} a assigné {object} à {target}",
		"{user} has assigned {object} to the {target} team": "{target}: {object} ({user})",
		"{user} has created {object}":                       "{object} créé par {user} {missing}",
		"alice has commented on Fix login":                  "alice a laissé un commentaire",
	})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "template", in: "bob has commented on Fix login", want: "bob a commenté Fix login"},
		{name: "exact wins over template", in: "alice has commented on Fix login", want: "alice a laissé un commentaire"},
		{name: "three slots", in: "alice has assigned bob to Fix login", want: "alice a assigné bob à Fix login"},
		{name: "longest key first", in: "alice has assigned bob to the web team", want: "web: bob (alice)"},
		{name: "undefined slot kept", in: "alice has created Website", want: "Website créé par alice {missing}"},
		{name: "no match", in: "alice has deleted Website", want: "alice has deleted Website"},
		{name: "regexp characters are literal", in: "someone has commented on [deleted]", want: "someone a commenté [deleted]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, c.Translate(context.Background(), tt.in))
		})
	}
	assert.Equal(t, 5, c.Len())
}

func TestCatalog_NilTranslatesNothing(t *testing.T) {
	t.Parallel()

	var c *localize.Catalog
	assert.Equal(t, "x", c.Translate(context.Background(), "x"))
	assert.Equal(t, 0, c.Len())
}

func TestParse(t *testing.T) {
	t.Parallel()

	c, err := localize.Parse([]byte("messages:\n  \"a has created b\": \"a a créé b\"\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, "a a créé b", c.Translate(context.Background(), "a has created b"))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "malformed yaml", data: "messages: [unterminated"},
		{name: "empty translation", data: "messages:\n  \"a has created b\": \"  \"\n"},
		{name: "undefined placeholder", data: "messages:\n  \"{user} has created {object}\": \"{actor} a créé {object}\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := localize.Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestFromPath(t *testing.T) {
	t.Parallel()

	l, err := localize.FromPath("")
	require.NoError(t, err)
	assert.IsType(t, localize.Passthrough{}, l)

	path := filepath.Join(t.TempDir(), "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte("messages:\n  hello: hi\n"), 0o600))

	l, err = localize.FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", l.Translate(context.Background(), "hello"))

	_, err = localize.FromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
