package lipsync

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
	"git.home.luguber.info/inful/assetbuilder/internal/fsguard"
)

// AnimationName is the animation a node's mouth track is stored under.
func AnimationName(nodeID string) string {
	return "say_" + nodeID
}

// MouthKey is one attachment keyframe of the mouth slot.
type MouthKey struct {
	Time json.RawMessage `json:"time"`
	Name string          `json:"name"`
}

type sayAnimation struct {
	Slots struct {
		Mouth struct {
			Attachment []MouthKey `json:"attachment"`
		} `json:"mouth"`
	} `json:"slots"`
}

// MouthKeys converts a cue document ({"mouthCues":[{"start","value"}]}) into
// attachment keyframes named front-mouth-<value>.
func MouthKeys(cues []byte) ([]MouthKey, error) {
	if !gjson.ValidBytes(cues) {
		return nil, errors.New("mouth cue document is not valid JSON")
	}
	list := gjson.GetBytes(cues, "mouthCues")
	if !list.IsArray() {
		return nil, errors.New("mouth cue document has no mouthCues list")
	}
	keys := make([]MouthKey, 0, len(list.Array()))
	for _, cue := range list.Array() {
		start := cue.Get("start")
		if !start.Exists() {
			return nil, errors.New("mouth cue without start")
		}
		keys = append(keys, MouthKey{
			Time: json.RawMessage(start.Raw),
			Name: "front-mouth-" + strings.ToLower(cue.Get("value").String()),
		})
	}
	return keys, nil
}

// Splice writes the say_<nodeID> animation into a character document. Every
// other entry of "animations" keeps its value and its position.
func Splice(doc []byte, nodeID string, cues []byte) ([]byte, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("character document is not valid JSON")
	}
	keys, err := MouthKeys(cues)
	if err != nil {
		return nil, err
	}
	var anim sayAnimation
	anim.Slots.Mouth.Attachment = keys
	raw, err := json.Marshal(anim)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(doc, "animations."+AnimationName(nodeID), raw)
}

// Splicer applies cue files to the character documents of a layout.
// Its methods must not run concurrently for the same character.
type Splicer struct {
	layout config.Layout
	guard  fsguard.Guard
}

// NewSplicer creates a Splicer.
func NewSplicer(layout config.Layout, guard fsguard.Guard) *Splicer {
	return &Splicer{layout: layout, guard: guard}
}

// Apply splices the exported cues of node into its character's document.
func (s *Splicer) Apply(node Node) error {
	doc := s.layout.CharacterDocument(node.Character)
	if _, err := os.Stat(doc); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("can not write into %s: character document missing", doc)
	}
	cues, err := os.ReadFile(s.layout.LipSyncOutput(node.ID))
	if err != nil {
		return err
	}
	data, err := os.ReadFile(doc)
	if err != nil {
		return err
	}
	updated, err := Splice(data, node.ID, cues)
	if err != nil {
		return fmt.Errorf("%s: %w", doc, err)
	}
	return s.guard.WriteFile(doc, updated)
}
