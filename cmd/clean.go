package cmd

import (
	"fmt"

	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/downloader"
	"github.com/megaloader/megaloader/filesystem"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/style"
	"github.com/megaloader/megaloader/util"
	"github.com/megaloader/megaloader/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().Bool("cache", false, "Also delete cached tokens and release checks")
}

var cleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove partial files left by interrupted downloads",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		dir := where.Downloads()
		if len(args) == 1 {
			dir = args[0]
		}

		if exists, _ := filesystem.API().DirExists(dir); exists {
			removed, err := downloader.CleanTemp(dir)
			handleErr(err)
			fmt.Printf("%s removed %s from %s\n",
				style.Fg(color.Success)(icon.Get(icon.Success)),
				util.Quantify(removed, "partial file", "partial files"),
				dir,
			)
		}

		if lo.Must(cmd.Flags().GetBool("cache")) {
			handleErr(util.Delete(where.Cache()))
			fmt.Printf("%s cache cleared\n", style.Fg(color.Success)(icon.Get(icon.Success)))
		}
	},
}
