package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	prebuilt "github.com/ZebulonRouseFrantzich/protoc-prebuilt"
)

// progressTo draws a byte progress bar on w for each download. An unknown
// content length (-1) renders as a spinner.
func progressTo(w io.Writer) prebuilt.ProgressFunc {
	return func(asset string, total int64) io.Writer {
		return progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(asset),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
	}
}
