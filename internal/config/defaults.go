package config

// Default returns the built-in configuration values applied before any
// file content is decoded on top.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: "~/.local/share/ripkit/staging",
			LogDir:     "~/.local/share/ripkit/logs",
			LibraryDir: "~/media",
		},
		Tools: Tools{
			FFmpeg:     "ffmpeg",
			FFprobe:    "ffprobe",
			HandBrake:  "HandBrakeCLI",
			MKVExtract: "mkvextract",
			Git:        "git",
			GitHub:     "gh",
		},
		TVDB: TVDB{
			BaseURL: "https://api4.thetvdb.com/v4",
		},
		Encoding: Encoding{
			Codec:   "libx265",
			Mode:    "crf",
			Quality: 20,
			Preset:  "medium",
		},
		Scan: Scan{
			MinFileSizeMB:          100,
			FilePatterns:           []string{"*.mkv", "*.mp4"},
			Languages:              []string{"eng"},
			MaxSameLanguageStreams: 2,
		},
		Journal: Journal{
			Enabled: true,
			Path:    "~/.local/share/ripkit/journal.db",
		},
		Disc: Disc{
			Device: "/dev/sr0",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
