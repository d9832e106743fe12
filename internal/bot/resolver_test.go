package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eldtechnologies/keywordbot/internal/models"
)

type memKeywords struct {
	data      map[string]string
	insertErr error
	lookupErr error
	inserts   int
}

func newMemKeywords() *memKeywords {
	return &memKeywords{data: make(map[string]string)}
}

func (m *memKeywords) Lookup(_ context.Context, keyword string) (string, bool, error) {
	if m.lookupErr != nil {
		return "", false, m.lookupErr
	}
	resp, ok := m.data[keyword]
	return resp, ok, nil
}

func (m *memKeywords) Insert(_ context.Context, keyword, response string) error {
	m.inserts++
	if m.insertErr != nil {
		return m.insertErr
	}
	m.data[keyword] = response
	return nil
}

func resolveText(t *testing.T, r *Resolver, text string) string {
	t.Helper()
	reply, err := r.Resolve(context.Background(), text)
	require.NoError(t, err)
	require.False(t, reply.IsMenu(), "unexpected menu for %q", text)
	return reply.Text
}

func TestResolveStoredKeyword(t *testing.T) {
	kw := newMemKeywords()
	kw.data["hours"] = "9am - 6pm"
	kw.data["地址"] = "台北市"
	r := NewResolver(kw)

	for k, v := range kw.data {
		assert.Equal(t, v, resolveText(t, r, k))
	}
}

func TestResolveEcho(t *testing.T) {
	r := NewResolver(newMemKeywords())

	for _, text := range []string{"hello", "  spaced  ", "a,b,c", "structure", "新增"} {
		assert.Equal(t, text, resolveText(t, r, text), "echo for %q", text)
	}
}

func TestResolveArea(t *testing.T) {
	r := NewResolver(newMemKeywords())

	tests := []struct {
		in   string
		want string
	}{
		{"3,4", "12"},
		{" 2.5 , 4 ", "10"},
		{"3，4", "12"},
		{"0.5,0.5", "0.25"},
	}
	for _, tt := range tests {
		got := resolveText(t, r, tt.in)
		assert.Contains(t, got, tt.want, "input %q", tt.in)
		assert.NotEqual(t, MsgAreaFormatError, got)
	}
}

func TestResolveAreaFormatError(t *testing.T) {
	r := NewResolver(newMemKeywords())

	for _, in := range []string{"3,abc", "abc,3", ",", "3,", "-1,2", "inf,2", "NaN,1", "hello, world", "1e200,1e200"} {
		assert.Equal(t, MsgAreaFormatError, resolveText(t, r, in), "input %q", in)
	}
}

func TestResolveAddThenLookup(t *testing.T) {
	kw := newMemKeywords()
	r := NewResolver(kw)

	confirm := resolveText(t, r, "新增功能;foo;bar")
	assert.Contains(t, confirm, "foo")
	assert.Contains(t, confirm, "bar")

	assert.Equal(t, "bar", resolveText(t, r, "foo"))
}

func TestResolveAddOverwrites(t *testing.T) {
	kw := newMemKeywords()
	r := NewResolver(kw)

	resolveText(t, r, "新增功能;foo;bar")
	resolveText(t, r, "新增功能;foo;baz")
	assert.Equal(t, "baz", resolveText(t, r, "foo"))
}

func TestResolveAddWrongArity(t *testing.T) {
	for _, in := range []string{"新增功能;foo", "新增功能", "新增功能;a;b;c", "新增功能; ;bar", "新增功能;foo; ", "新增功能x;a;b"} {
		kw := newMemKeywords()
		r := NewResolver(kw)

		assert.Equal(t, MsgAddFormatError, resolveText(t, r, in), "input %q", in)
		assert.Zero(t, kw.inserts, "store touched for %q", in)
		assert.Empty(t, kw.data)
	}
}

func TestResolveAddStoreFailure(t *testing.T) {
	kw := newMemKeywords()
	kw.insertErr = errors.New("disk full")
	r := NewResolver(kw)

	got := resolveText(t, r, "新增功能;foo;bar")
	assert.Contains(t, got, "disk full")
	assert.Empty(t, kw.data)

	// Falls through to echo since nothing was stored.
	assert.Equal(t, "foo", resolveText(t, r, "foo"))
}

func TestResolveLookupError(t *testing.T) {
	kw := newMemKeywords()
	kw.lookupErr = errors.New("connection reset")
	r := NewResolver(kw)

	_, err := r.Resolve(context.Background(), "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, kw.lookupErr)
}

func TestResolveMenu(t *testing.T) {
	kw := newMemKeywords()
	// The trigger wins over a keyword with the same text.
	kw.data[DefaultMenuTrigger] = "shadowed"
	r := NewResolver(kw)

	reply, err := r.Resolve(context.Background(), DefaultMenuTrigger)
	require.NoError(t, err)
	require.True(t, reply.IsMenu())

	menu := reply.Menu
	assert.NotEmpty(t, menu.Title)
	assert.NotEmpty(t, menu.AltText)
	require.Len(t, menu.Options, 3)

	var data []string
	for _, opt := range menu.Options {
		data = append(data, opt.Data)
	}
	assert.Equal(t, []string{PostbackWall, PostbackFloor, PostbackRoof}, data)
}

func TestResolveCustomTrigger(t *testing.T) {
	r := NewResolver(newMemKeywords(), WithMenuTrigger("報價"))

	reply, err := r.Resolve(context.Background(), "報價")
	require.NoError(t, err)
	assert.True(t, reply.IsMenu())

	assert.Equal(t, DefaultMenuTrigger, resolveText(t, r, DefaultMenuTrigger))
}

func TestResolveKeywordBeatsArea(t *testing.T) {
	kw := newMemKeywords()
	kw.data["3,4"] = "stored"
	r := NewResolver(kw)

	assert.Equal(t, "stored", resolveText(t, r, "3,4"))
}

func TestResolvePostback(t *testing.T) {
	r := NewResolver(newMemKeywords())

	for _, item := range PricingMenu().Items {
		got := r.ResolvePostback(item.Data)
		assert.Equal(t, models.TextReply(item.Prompt), got)
		assert.Contains(t, got.Text, ",")
	}

	assert.Equal(t, MsgUnknownOption, r.ResolvePostback("structure_basement").Text)
	assert.Equal(t, MsgUnknownOption, r.ResolvePostback("").Text)
}

func TestResolveCustomMenu(t *testing.T) {
	menu := MenuSpec{
		Title: "t", Text: "x", AltText: "alt",
		Items: []MenuItem{{Label: "A", Data: "a", Prompt: "enter a"}},
	}
	r := NewResolver(newMemKeywords(), WithMenu(menu))

	reply, err := r.Resolve(context.Background(), DefaultMenuTrigger)
	require.NoError(t, err)
	require.Len(t, reply.Menu.Options, 1)
	assert.Equal(t, "enter a", r.ResolvePostback("a").Text)
	assert.Equal(t, MsgUnknownOption, r.ResolvePostback(PostbackWall).Text)
}
