package flags

import (
	flag "github.com/spf13/pflag"
)

type GlobalFlags struct {
	LogOutput string

	Debug  bool
	Silent bool
}

// SetGlobalFlags applies the global flags
func SetGlobalFlags(flags *flag.FlagSet) *GlobalFlags {
	globalFlags := &GlobalFlags{}

	flags.StringVar(&globalFlags.LogOutput, "log-output", "plain", "The log format to use. Can be either plain, raw or json")
	flags.BoolVar(&globalFlags.Debug, "debug", false, "Prints debug output and the stack trace if an error occurs")
	flags.BoolVar(&globalFlags.Silent, "silent", false, "Run in silent mode and prevents any relsync log output except panics & fatals")

	return globalFlags
}
