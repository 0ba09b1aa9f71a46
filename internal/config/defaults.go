package config

const (
	defaultDownloadDir          = "~/.local/share/searchtube/downloaded_streams"
	defaultTranscriptDir        = "~/.local/share/searchtube/transcripts"
	defaultLogDir               = "~/.local/share/searchtube/logs"
	defaultAPIBind              = "127.0.0.1:5555"
	defaultMetadataBaseURL      = "https://www.youtube.com/oembed"
	defaultMetadataTimeout      = 15
	defaultDownloaderBinary     = "yt-dlp"
	defaultDownloaderTimeout    = 1800
	defaultTranscriberBinary    = "whisper"
	defaultTranscriberModel     = "base"
	defaultTranscriberTimeout   = 3600
	defaultQueuePollInterval    = 5
	defaultErrorRetryInterval   = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DownloadDir:   defaultDownloadDir,
			TranscriptDir: defaultTranscriptDir,
			LogDir:        defaultLogDir,
			APIBind:       defaultAPIBind,
		},
		Metadata: Metadata{
			BaseURL:        defaultMetadataBaseURL,
			RequestTimeout: defaultMetadataTimeout,
		},
		Downloader: Downloader{
			Binary:  defaultDownloaderBinary,
			Timeout: defaultDownloaderTimeout,
		},
		Transcriber: Transcriber{
			Binary:  defaultTranscriberBinary,
			Model:   defaultTranscriberModel,
			Timeout: defaultTranscriberTimeout,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
