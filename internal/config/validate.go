package config

import (
	"fmt"
	"strings"
)

var validRateModes = map[string]struct{}{
	"vbr": {},
	"crf": {},
	"cqp": {},
}

// normalize expands paths and trims string fields in place.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(strings.TrimSpace(c.Paths.StagingDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return err
	}
	if c.Journal.Path, err = expandPath(strings.TrimSpace(c.Journal.Path)); err != nil {
		return err
	}

	c.Plex.URL = strings.TrimRight(strings.TrimSpace(c.Plex.URL), "/")
	c.Plex.Token = strings.TrimSpace(c.Plex.Token)
	c.TVDB.APIKey = strings.TrimSpace(c.TVDB.APIKey)
	c.TVDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TVDB.BaseURL), "/")
	c.Encoding.Mode = strings.ToLower(strings.TrimSpace(c.Encoding.Mode))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate reports configuration values that would make a run fail later.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		return fmt.Errorf("config: paths.staging_dir must not be empty")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("config: paths.log_dir must not be empty")
	}
	if _, ok := validRateModes[c.Encoding.Mode]; !ok {
		return fmt.Errorf("config: encoding.mode must be one of vbr, crf, cqp; got %q", c.Encoding.Mode)
	}
	if c.Encoding.Mode == "vbr" && strings.TrimSpace(c.Encoding.Bitrate) == "" {
		return fmt.Errorf("config: encoding.bitrate is required when encoding.mode is vbr")
	}
	if c.Scan.MinFileSizeMB < 0 {
		return fmt.Errorf("config: scan.min_file_size_mb must not be negative")
	}
	if c.Scan.MaxSameLanguageStreams < 1 {
		return fmt.Errorf("config: scan.max_same_language_streams must be at least 1")
	}
	if c.Journal.Enabled && strings.TrimSpace(c.Journal.Path) == "" {
		return fmt.Errorf("config: journal.path is required when journal.enabled is true")
	}
	return nil
}
