package utils

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/PaulSonOfLars/gotgbot/v2"
)

var DefaultSendOptions = &gotgbot.SendMessageOpts{
	ReplyParameters: &gotgbot.ReplyParameters{
		AllowSendingWithoutReply: true,
	},
	LinkPreviewOptions: &gotgbot.LinkPreviewOptions{
		IsDisabled: true,
	},
	DisableNotification: true,
	ParseMode:           gotgbot.ParseModeHTML,
}

type VersionInfo struct {
	GoVersion  string
	GoOS       string
	GoArch     string
	Revision   string
	LastCommit time.Time
	DirtyBuild bool
}

func ReadVersionInfo() (VersionInfo, error) {
	buildInfo, ok := debug.ReadBuildInfo()

	if !ok {
		return VersionInfo{}, errors.New("could not read build info")
	}

	versionInfo := VersionInfo{
		GoVersion: buildInfo.GoVersion,
	}

	for _, kv := range buildInfo.Settings {
		switch kv.Key {
		case "GOOS":
			versionInfo.GoOS = kv.Value
		case "GOARCH":
			versionInfo.GoArch = kv.Value
		case "vcs.revision":
			versionInfo.Revision = kv.Value
		case "vcs.time":
			versionInfo.LastCommit, _ = time.Parse(time.RFC3339, kv.Value)
		case "vcs.modified":
			versionInfo.DirtyBuild = kv.Value == "true"
		}
	}

	return versionInfo, nil
}

func TimestampToTime(timestamp int64) time.Time {
	return time.Unix(timestamp, 0)
}
