package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Flag names registered by [RegisterFlags].
const (
	FlagConfig            = "config"
	FlagAddress           = "address"
	FlagWSAddress         = "ws-address"
	FlagRequestTimeout    = "request-timeout"
	FlagHashKey           = "hash-key"
	FlagDSN               = "db"
	FlagStreamBaseDelay   = "stream-base-delay"
	FlagStreamMaxAttempts = "stream-max-attempts"
	FlagPollInterval      = "poll-interval"
	FlagLogLevel          = "log-level"
	FlagLogFile           = "log-file"
)

// RegisterFlags adds the configuration flags to fs. The command tree
// registers them as persistent flags on the root command.
//
// Flags:
//
//	-c/--config            JSON or YAML file path with configs
//	-a/--address           backend HTTP base URL
//	--ws-address           metrics stream URL
//	--request-timeout      outbound request timeout (e.g. "15s")
//	--hash-key             local sealing key
//	-d/--db                local database DSN
//	--stream-base-delay    first reconnect delay (e.g. "1s")
//	--stream-max-attempts  reconnect attempts before giving up
//	--poll-interval        job status poll interval (e.g. "2s")
//	--log-level            log level
//	--log-file             log file path
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(FlagConfig, "c", "", "JSON or YAML config file path")
	fs.StringP(FlagAddress, "a", "", "Backend HTTP base URL")
	fs.String(FlagWSAddress, "", "Metrics stream URL")
	fs.Duration(FlagRequestTimeout, 0, "Request timeout (e.g. 15s)")
	fs.String(FlagHashKey, "", "Key sealing the locally stored session")
	fs.StringP(FlagDSN, "d", "", "Local database DSN")
	fs.Duration(FlagStreamBaseDelay, 0, "Stream reconnect base delay (e.g. 1s)")
	fs.Int(FlagStreamMaxAttempts, 0, "Stream reconnect attempts before giving up")
	fs.Duration(FlagPollInterval, 0, "Job status poll interval (e.g. 2s)")
	fs.String(FlagLogLevel, "", "Log level (trace, debug, info, warn, error)")
	fs.String(FlagLogFile, "", "Log file path")
}

// parseFlags reads the flags registered by [RegisterFlags] from an already
// parsed fs. Flags that were not set explicitly stay zero so they do not
// override lower layers. Unregistered flags are ignored.
func parseFlags(fs *pflag.FlagSet) (*StructuredConfig, error) {
	cfg := &StructuredConfig{}
	var errs []error

	str := func(name string, dst *string) {
		if !fs.Changed(name) {
			return
		}
		v, err := fs.GetString(name)
		if err != nil {
			errs = append(errs, err)
			return
		}
		*dst = v
	}

	str(FlagConfig, &cfg.FilePath)
	str(FlagAddress, &cfg.Adapter.HTTPAddress)
	str(FlagWSAddress, &cfg.Adapter.WSAddress)
	str(FlagHashKey, &cfg.App.HashKey)
	str(FlagDSN, &cfg.Storage.DB.DSN)
	str(FlagLogLevel, &cfg.Log.Level)
	str(FlagLogFile, &cfg.Log.File)

	if fs.Changed(FlagRequestTimeout) {
		v, err := fs.GetDuration(FlagRequestTimeout)
		errs = append(errs, err)
		cfg.Adapter.RequestTimeout = v
	}
	if fs.Changed(FlagStreamBaseDelay) {
		v, err := fs.GetDuration(FlagStreamBaseDelay)
		errs = append(errs, err)
		cfg.Stream.BaseDelay = v
	}
	if fs.Changed(FlagStreamMaxAttempts) {
		v, err := fs.GetInt(FlagStreamMaxAttempts)
		errs = append(errs, err)
		cfg.Stream.MaxAttempts = v
	}
	if fs.Changed(FlagPollInterval) {
		v, err := fs.GetDuration(FlagPollInterval)
		errs = append(errs, err)
		cfg.Poller.Interval = v
	}

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("error reading flags: %w", err)
		}
	}

	return cfg, nil
}
