package config

import "path/filepath"

// Layout describes the source tree and the runtime tree it is mirrored into.
type Layout struct {
	SourceRoot       string   `yaml:"source_root"`
	OutputRoot       string   `yaml:"output_root"`
	ExportTemplate   string   `yaml:"export_template"`
	StaticCategories []string `yaml:"static_categories"`
}

const (
	CategoryScripts = "scripts"
	CategoryScenes  = "scenes"
	CategoryConfig  = "config"
	CategoryDialog  = "dialog"
	CategoryAudio   = "audio"
	CategoryLipSync = "rhubarb"
)

// DefaultLayout mirrors data-src into data.
func DefaultLayout() Layout {
	return Layout{
		SourceRoot:       "data-src",
		OutputRoot:       "data",
		ExportTemplate:   filepath.Join("data-src", "spine_export_template.export.json"),
		StaticCategories: []string{"config", "fonts", "scenes", "audio", "icons", "dialog"},
	}
}

// SourceDir returns data-src/<category>.
func (l Layout) SourceDir(category string) string {
	return filepath.Join(l.SourceRoot, category)
}

// OutputDir returns data/<category>.
func (l Layout) OutputDir(category string) string {
	return filepath.Join(l.OutputRoot, category)
}

// SkeletonDir is the per-skeleton output folder data/<name>.
func (l Layout) SkeletonDir(name string) string {
	return filepath.Join(l.OutputRoot, name)
}

// SkeletonDocument is data/<name>/<name>.json.
func (l Layout) SkeletonDocument(name string) string {
	return filepath.Join(l.SkeletonDir(name), name+".json")
}

// SkeletonAtlas is data/<name>/<name>.atlas.
func (l Layout) SkeletonAtlas(name string) string {
	return filepath.Join(l.SkeletonDir(name), name+".atlas")
}

// CharacterDocument is the runtime animation document a lip-sync splice
// writes into. Characters are exported skeletons, so it shares their path.
func (l Layout) CharacterDocument(character string) string {
	return l.SkeletonDocument(character)
}

// ScriptSource is data-src/scripts/<name>.lua.
func (l Layout) ScriptSource(name string) string {
	return filepath.Join(l.SourceDir(CategoryScripts), name+".lua")
}

// AudioFile is data/audio/<nodeID>.ogg.
func (l Layout) AudioFile(nodeID string) string {
	return filepath.Join(l.OutputDir(CategoryAudio), nodeID+".ogg")
}

// LipSyncOutput is data/rhubarb/<nodeID>.json.
func (l Layout) LipSyncOutput(nodeID string) string {
	return filepath.Join(l.OutputDir(CategoryLipSync), nodeID+".json")
}
