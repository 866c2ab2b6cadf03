// Package lipsync finds the dialogue lines that need mouth animation and
// splices extracted mouth cues into the character animation documents.
package lipsync

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"git.home.luguber.info/inful/assetbuilder/internal/config"
)

// DialogExt is the extension of dialogue documents.
const DialogExt = ".schnack"

// Node is one spoken dialogue line.
type Node struct {
	// ID is the zero-padded node id; audio and cue files are named after it.
	ID        string
	Character string
	// Source is the dialogue document the node was read from.
	Source string
}

// Skipped is a node that was found but cannot be exported.
type Skipped struct {
	ID     string
	Source string
	Reason string
}

// Resolver maps dialogue character ids to runtime character names.
type Resolver struct {
	Primary  string
	Speakers map[string]string
	Skip     []string
}

// NewResolver builds a Resolver from the lip-sync configuration.
func NewResolver(cfg config.LipSyncConfig) Resolver {
	return Resolver{Primary: cfg.PrimarySpeaker, Speakers: cfg.Speakers, Skip: cfg.Skip}
}

// Resolve returns the runtime character for a node. An absent character is
// the primary speaker; an unknown one is passed through unchanged. skip is
// true for characters that have no runtime document yet.
func (r Resolver) Resolve(raw string, present bool) (character string, skip bool) {
	if !present {
		return r.Primary, false
	}
	for _, s := range r.Skip {
		if s == raw {
			return "", true
		}
	}
	if mapped, ok := r.Speakers[raw]; ok {
		return mapped, false
	}
	return raw, false
}

// PadID zero-pads a node id to three digits.
func PadID(id string) string {
	if len(id) >= 3 {
		return id
	}
	return strings.Repeat("0", 3-len(id)) + id
}

// Discover reads every dialogue document below dir and returns the nodes
// that carry text and have a recorded audio file, sorted by id.
func Discover(dir string, layout config.Layout, resolver Resolver) ([]Node, []Skipped, error) {
	var nodes []Node
	var skipped []Skipped
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) && path == dir {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != DialogExt {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if !gjson.ValidBytes(data) {
			return fmt.Errorf("dialogue document %s is not valid JSON", path)
		}
		n, s := parseDialog(path, data, layout, resolver)
		nodes = append(nodes, n...)
		skipped = append(skipped, s...)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes, skipped, nil
}

func parseDialog(path string, data []byte, layout config.Layout, resolver Resolver) ([]Node, []Skipped) {
	var nodes []Node
	var skipped []Skipped
	gjson.GetBytes(data, "dialogs").ForEach(func(_, dialog gjson.Result) bool {
		dialog.Get("nodes").ForEach(func(_, node gjson.Result) bool {
			if !node.Get("text").Exists() {
				return true
			}
			id := PadID(node.Get("id").String())
			char := node.Get("character")
			character, skip := resolver.Resolve(char.String(), char.Exists())
			if skip {
				skipped = append(skipped, Skipped{ID: id, Source: path, Reason: "character " + char.String() + " is skipped"})
				return true
			}
			audio := layout.AudioFile(id)
			if _, err := os.Stat(audio); err != nil {
				skipped = append(skipped, Skipped{ID: id, Source: path, Reason: "can not load " + audio})
				return true
			}
			nodes = append(nodes, Node{ID: id, Character: character, Source: path})
			return true
		})
		return true
	})
	return nodes, skipped
}

// IDs returns the node ids in order.
func IDs(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
