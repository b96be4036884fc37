package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/megaloader/megaloader"
	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/downloader"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/style"
	"github.com/megaloader/megaloader/util"
	"github.com/megaloader/megaloader/where"
	"github.com/samber/lo"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().Bool("flat", false, "Write every file into the target directory, ignoring collections")
	lo.Must0(viper.BindPFlag(key.DownloadsFlat, downloadCmd.Flags().Lookup("flat")))

	downloadCmd.Flags().StringP("filter", "f", "", "Only download filenames matching this glob, e.g. '*.mp4'")
	lo.Must0(viper.BindPFlag(key.DownloadsFilter, downloadCmd.Flags().Lookup("filter")))

	downloadCmd.Flags().IntP("concurrency", "c", 0, "Number of parallel downloads")
	lo.Must0(viper.BindPFlag(key.DownloadsConcurrency, downloadCmd.Flags().Lookup("concurrency")))

	addOptionFlag(downloadCmd)
}

var downloadCmd = &cobra.Command{
	Use:     "download <url> [dir]",
	Aliases: []string{"dl", "get"},
	Short:   "Download every file behind a link",
	Example: "  megaloader download https://bunkr.si/a/abc123 ./out --filter '*.mp4' -c 8",
	Args:    cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		target := where.Downloads()
		if len(args) == 2 {
			target = args[1]
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cfg := downloader.ConfigFromViper()
		cfg.Verbose = lo.Must(cmd.Flags().GetBool("verbose"))

		var bar *progressbar.ProgressBar
		if util.IsTerminal() && !cfg.Verbose {
			bar = newProgressBar(os.Stderr)
			cfg.OnEvent = trackProgress(bar)
		}

		summary, err := megaloader.Download(ctx, args[0], target, parseOptions(cmd), cfg)
		if bar != nil {
			_ = bar.Finish()
		}

		if summary != nil {
			printSummary(cmd.OutOrStdout(), target, summary)
		}

		switch {
		case errors.Is(err, context.Canceled):
			handleErr(errors.New("interrupted"))
		case err != nil:
			handleErr(err)
		case !summary.OK():
			os.Exit(1)
		}
	},
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions64(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription(icon.Get(icon.Download)+" starting"),
	)
}

// trackProgress feeds downloader events into bar. Events arrive serialized.
func trackProgress(bar *progressbar.ProgressBar) func(downloader.Event) {
	var done, active int
	return func(e downloader.Event) {
		switch e.Kind {
		case downloader.EventStarted:
			active++
		case downloader.EventProgress:
			_ = bar.Add64(e.Bytes)
			return
		case downloader.EventDone:
			done++
			if e.Result.Status == downloader.StatusFetched || e.Result.Status == downloader.StatusFailed {
				active--
			}
		}

		bar.Describe(fmt.Sprintf("%s %d done, %d active", icon.Get(icon.Download), done, active))
	}
}

func printSummary(w io.Writer, target string, summary *downloader.Summary) {
	for _, failure := range summary.Failures {
		_, _ = fmt.Fprintf(w, "%s %s %s\n",
			style.Fg(color.Failure)(icon.Get(icon.Fail)),
			failure.Item.Filename,
			style.Faint(failure.Err.Error()),
		)
	}

	_, _ = fmt.Fprintf(w, "%s %s fetched (%s), %s skipped, %s filtered, %s failed %s\n",
		style.Fg(lo.Ternary(summary.OK(), color.Success, color.Failure))(icon.Get(lo.Ternary(summary.OK(), icon.Success, icon.Fail))),
		style.Fg(color.Success)(fmt.Sprint(summary.Fetched)),
		util.FormatBytes(summary.Bytes),
		fmt.Sprint(summary.Skipped),
		fmt.Sprint(summary.Filtered),
		fmt.Sprint(summary.Failed),
		style.Faint("→ "+target),
	)
}
