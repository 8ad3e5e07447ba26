package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Targets    string
	BatchFile  string
	Channel    string
	JSON       bool
	ListModels bool

	// Detection flags
	RulesOnly  bool
	DetectOnly bool

	// API flags
	Endpoint string
	Model    string

	// Gate flags
	MaxConcurrent int
	MinInterval   int

	GlossaryPath string
	StateDB      string
	LogLevel     string
	LogFormat    string
}

// NewFlags creates a new Flags instance. Defaults live in viper so config
// files and environment variables can override them.
func NewFlags() *Flags {
	return &Flags{}
}
