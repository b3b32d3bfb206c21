package cli

// Config stores CLI options for a single inspection run.
type Config struct {
	Module        string
	Classes       []string
	Members       []string
	IgnoreMembers []string
	Format        string
	Filename      string
	Script        string
	LogLevel      string
	LogFile       string
	NoColor       bool
	ListModules   bool
	ShowVersion   bool
}

// OutputFilename returns the report destination. Empty means standard output.
func (c *Config) OutputFilename() string {
	return c.Filename
}
