package config

// Platform holds the host-specific external tool locations and the read-only
// guard setting. It is selected once at startup and passed by value; nothing
// in the pipeline reads it from global state.
type Platform struct {
	OS string

	// SpineTool is the skeletal animation exporter.
	SpineTool string
	// LipSyncTool is the phoneme extractor. Empty disables lip-sync export.
	LipSyncTool string
	// LuaCompiler is used in check-only mode.
	LuaCompiler string
	// ImageConverter converts rasters to the runtime image format.
	ImageConverter string

	// ReadOnlyOutputs marks generated files read-only after writing them.
	ReadOnlyOutputs bool
}

// DefaultPlatform returns the tool layout for the given GOOS value.
func DefaultPlatform(goos string) Platform {
	switch goos {
	case "darwin":
		return Platform{
			OS:              goos,
			SpineTool:       "/Applications/Spine.app/Contents/MacOS/Spine",
			LipSyncTool:     "/Applications/Rhubarb-Lip-Sync-1.13.0-macOS/rhubarb",
			LuaCompiler:     "luac",
			ImageConverter:  "convert",
			ReadOnlyOutputs: true,
		}
	case "windows":
		return Platform{
			OS:              goos,
			SpineTool:       `C:\Program Files\Spine\Spine.exe`,
			LipSyncTool:     `windows_bin\rhubarb.exe`,
			LuaCompiler:     `windows_bin\luac.exe`,
			ImageConverter:  `windows_bin\magick.exe`,
			ReadOnlyOutputs: false,
		}
	default:
		return Platform{
			OS:              goos,
			SpineTool:       "/usr/bin/spine",
			LipSyncTool:     "",
			LuaCompiler:     "luac",
			ImageConverter:  "convert",
			ReadOnlyOutputs: true,
		}
	}
}

// LipSyncEnabled reports whether a phoneme extractor is configured.
func (p Platform) LipSyncEnabled() bool {
	return p.LipSyncTool != ""
}

// ToolsConfig overrides individual entries of the default Platform.
// A nil pointer keeps the default; an empty string clears it.
type ToolsConfig struct {
	Spine           *string `yaml:"spine,omitempty"`
	LipSync         *string `yaml:"lipsync,omitempty"`
	LuaCompiler     *string `yaml:"lua_compiler,omitempty"`
	ImageConverter  *string `yaml:"image_converter,omitempty"`
	ReadOnlyOutputs *bool   `yaml:"read_only_outputs,omitempty"`
}

func (t ToolsConfig) apply(p Platform) Platform {
	if t.Spine != nil {
		p.SpineTool = *t.Spine
	}
	if t.LipSync != nil {
		p.LipSyncTool = *t.LipSync
	}
	if t.LuaCompiler != nil {
		p.LuaCompiler = *t.LuaCompiler
	}
	if t.ImageConverter != nil {
		p.ImageConverter = *t.ImageConverter
	}
	if t.ReadOnlyOutputs != nil {
		p.ReadOnlyOutputs = *t.ReadOnlyOutputs
	}
	return p
}
