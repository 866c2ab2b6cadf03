package lipsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/fsguard"
)

const cues007 = `{"metadata":{"duration":0.5},"mouthCues":[{"start":0.00,"end":0.12,"value":"X"},{"start":0.12,"end":0.5,"value":"B"}]}`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testLayout(t *testing.T) config.Layout {
	root := t.TempDir()
	l := config.DefaultLayout()
	l.SourceRoot = filepath.Join(root, "data-src")
	l.OutputRoot = filepath.Join(root, "data")
	return l
}

func TestResolver(t *testing.T) {
	r := NewResolver(config.Default().LipSync)
	cases := []struct {
		name    string
		raw     string
		present bool
		want    string
		skip    bool
	}{
		{"absent is primary", "", false, "joy", false},
		{"player", "char_player", true, "joy", false},
		{"dog", "char_dog", true, "dog", false},
		{"unknown passes through", "char_cat", true, "char_cat", false},
		{"skipped", "marc", true, "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, skip := r.Resolve(tc.raw, tc.present)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.skip, skip)
		})
	}
}

func TestPadID(t *testing.T) {
	assert.Equal(t, "007", PadID("7"))
	assert.Equal(t, "042", PadID("42"))
	assert.Equal(t, "1234", PadID("1234"))
}

func TestDiscover(t *testing.T) {
	l := testLayout(t)
	dialogDir := l.OutputDir(config.CategoryDialog)
	write(t, filepath.Join(dialogDir, "intro.schnack"), `{"dialogs":[{"nodes":[
		{"id": 7, "character": "char_dog", "text": "Woof"},
		{"id": 3, "text": "Hello"},
		{"id": 4, "character": "marc", "text": "Hi"},
		{"id": 5, "character": "char_player"},
		{"id": 9, "character": "char_player", "text": "No audio"}
	]}]}`)
	write(t, filepath.Join(dialogDir, "notes.txt"), "ignored")
	for _, id := range []string{"003", "004", "007"} {
		write(t, l.AudioFile(id), "ogg")
	}

	nodes, skipped, err := Discover(dialogDir, l, NewResolver(config.Default().LipSync))
	require.NoError(t, err)

	src := filepath.Join(dialogDir, "intro.schnack")
	assert.Equal(t, []Node{
		{ID: "003", Character: "joy", Source: src},
		{ID: "007", Character: "dog", Source: src},
	}, nodes)
	assert.Equal(t, []string{"003", "007"}, IDs(nodes))
	require.Len(t, skipped, 2)
	assert.Equal(t, "004", skipped[0].ID)
	assert.Equal(t, "009", skipped[1].ID)
}

func TestDiscover_MissingDir(t *testing.T) {
	l := testLayout(t)
	nodes, skipped, err := Discover(filepath.Join(l.OutputRoot, "nope"), l, NewResolver(config.Default().LipSync))
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Empty(t, skipped)
}

func TestSplice_KeepsOtherAnimations(t *testing.T) {
	doc := `{"skeleton":{"hash":"abc"},"animations":{"idle":{"bones":{}},"say_003":{"slots":{"mouth":{"attachment":[{"time":0,"name":"front-mouth-a"}]}}},"walk":{}}}`

	out, err := Splice([]byte(doc), "007", []byte(cues007))
	require.NoError(t, err)

	before := gjson.Get(doc, "animations.say_003").Raw
	assert.Equal(t, before, gjson.GetBytes(out, "animations.say_003").Raw)

	var order []string
	gjson.GetBytes(out, "animations").ForEach(func(k, _ gjson.Result) bool {
		order = append(order, k.String())
		return true
	})
	assert.Equal(t, []string{"idle", "say_003", "walk", "say_007"}, order)

	keys := gjson.GetBytes(out, "animations.say_007.slots.mouth.attachment").Array()
	require.Len(t, keys, 2)
	assert.Equal(t, "front-mouth-x", keys[0].Get("name").String())
	assert.Equal(t, 0.12, keys[1].Get("time").Float())
	assert.Equal(t, "front-mouth-b", keys[1].Get("name").String())
}

func TestSplice_ReplacesExistingAnimation(t *testing.T) {
	doc := `{"animations":{"say_007":{"slots":{"mouth":{"attachment":[]}},"stale":true},"idle":{}}}`
	out, err := Splice([]byte(doc), "007", []byte(cues007))
	require.NoError(t, err)
	assert.False(t, gjson.GetBytes(out, "animations.say_007.stale").Exists())
	assert.Len(t, gjson.GetBytes(out, "animations.say_007.slots.mouth.attachment").Array(), 2)
	assert.True(t, gjson.GetBytes(out, "animations.idle").Exists())
}

func TestSplice_InvalidInput(t *testing.T) {
	_, err := Splice([]byte(`{`), "007", []byte(cues007))
	assert.Error(t, err)
	_, err = Splice([]byte(`{}`), "007", []byte(`{"foo":1}`))
	assert.Error(t, err)
}

func TestSplicer_Apply(t *testing.T) {
	l := testLayout(t)
	s := NewSplicer(l, fsguard.New(true))
	write(t, l.LipSyncOutput("007"), cues007)

	err := s.Apply(Node{ID: "007", Character: "dog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can not write into")

	write(t, l.CharacterDocument("dog"), `{"animations":{"say_003":{}}}`)
	require.NoError(t, s.Apply(Node{ID: "007", Character: "dog"}))
	// the document is read-only afterwards and a second splice still works
	require.NoError(t, s.Apply(Node{ID: "007", Character: "dog"}))

	data, err := os.ReadFile(l.CharacterDocument("dog"))
	require.NoError(t, err)
	assert.True(t, gjson.GetBytes(data, "animations.say_003").Exists())
	assert.True(t, gjson.GetBytes(data, "animations.say_007").Exists())
}
