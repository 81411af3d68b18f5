package config

const (
	defaultDataDir        = "~/.local/share/convertx"
	defaultLogDir         = "~/.local/share/convertx/logs"
	defaultAPIBind        = "127.0.0.1:7733"
	defaultConvertTimeout = 600
	defaultFetchTimeout   = 60
	defaultMaxFetchMiB    = 512
	defaultMinFreeGiB     = 1
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Conversion: Conversion{
			ConvertTimeout: defaultConvertTimeout,
			FetchTimeout:   defaultFetchTimeout,
			MaxFetchMiB:    defaultMaxFetchMiB,
			MinFreeGiB:     defaultMinFreeGiB,
		},
		Tools: Tools{
			FFmpegBinary:  "ffmpeg",
			MagickBinary:  "magick",
			SofficeBinary: "soffice",
			PandocBinary:  "pandoc",
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
