package main

var appversion = "0.1.0"

// Mode selects which summary commands follow the tree snapshot.
type Mode int

const (
	ModeUsed Mode = iota
	ModeDF
	ModeSubs
)

func parseMode(s string) (Mode, bool) {
	switch s {
	case "used":
		return ModeUsed, true
	case "df":
		return ModeDF, true
	case "subs":
		return ModeSubs, true
	}
	return 0, false
}

// ScanDef is one [scan.<name>] entry from the config file.
type ScanDef struct {
	Mode     string `toml:"mode"`
	Disk     string `toml:"disk"`
	Desc     string `toml:"desc"`
	Header   string `toml:"header"`
	Enabled  *bool  `toml:"enabled"`
	Compress string `toml:"compress"`
}

// enabled treats an absent enabled key as true.
func (s ScanDef) enabled() bool { return s.Enabled == nil || *s.Enabled }

// Config is a loaded catalog config with the global table fully resolved.
type Config struct {
	Global    map[string]string
	Scans     map[string]ScanDef
	ScanOrder []string
}
