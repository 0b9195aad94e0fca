package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	HomeDir     string
	DataDir     string
	LogFile     string
	HistoryFile string
}

// ConfigNames lists the supported rc file names, in order of preference.
var ConfigNames = []string{
	".shellyrc.yml",
	".shellyrc.yaml",
	".shellyrc.toml",
	".shellyrc.json",
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			panic(err)
		}

		defaultPaths = &Paths{
			HomeDir:     homeDir,
			DataDir:     filepath.Join(homeDir, ".shelly"),
			LogFile:     filepath.Join(homeDir, ".shelly", "shelly.log"),
			HistoryFile: filepath.Join(homeDir, ".shelly", "history.db"),
		}

		err = os.MkdirAll(defaultPaths.DataDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func HomeDir() string {
	ensureDefaultPaths()
	return defaultPaths.HomeDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

// ConfigFile returns the first rc file that exists in the home directory,
// or an empty string if there is none.
func ConfigFile() string {
	ensureDefaultPaths()
	for _, name := range ConfigNames {
		path := filepath.Join(defaultPaths.HomeDir, name)
		if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
			return path
		}
	}
	return ""
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
