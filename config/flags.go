package config

import (
	"github.com/spf13/pflag"
)

type CliConfig struct {
	ConfigFile string
	Version    bool
}

// ParseArgs parses the command line. --debug and --listen are only reachable
// through the returned FlagSet, which LoadConfig binds into viper so that flags
// given on the command line win over the config file.
func ParseArgs(name string, args []string) (*CliConfig, *pflag.FlagSet, error) {
	cli := &CliConfig{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to the config file")
	fs.BoolP("debug", "d", false, "Enable debug mode")
	fs.String("listen", "", "Address to listen on, overrides listen_address")
	fs.BoolVarP(&cli.Version, "version", "v", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return cli, fs, nil
}
