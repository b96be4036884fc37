// Package cmd implements the megaloader command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/constant"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/key"
	"github.com/megaloader/megaloader/log"
	"github.com/megaloader/megaloader/provider"
	"github.com/megaloader/megaloader/source"
	"github.com/megaloader/megaloader/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant: "+strings.Join(icon.AvailableVariants(), ", "))
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("verbose", false, "Print debug logs to stderr")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("verbose")) {
			log.SetVerbose(os.Stderr)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   constant.Megaloader,
	Short: "Download albums and posts from file hosts and media platforms",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download albums and posts from file hosts and media platforms"),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("version")) {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute runs the command tree.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", style.Fg(color.Failure)(icon.Get(icon.Fail)), strings.Trim(err.Error(), " \n"))

	var unsupported *source.UnsupportedDomainError
	if errors.As(err, &unsupported) {
		if suggestion, ok := closest(unsupported.Host, provider.Default().Domains()); ok {
			_, _ = fmt.Fprintf(os.Stderr, "  did you mean %s?\n", style.Fg(color.Warning)(suggestion))
		}
	}

	os.Exit(1)
}

// closest returns the candidate with the smallest edit distance to input,
// provided it is near enough to be a plausible typo.
func closest(input string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	best := lo.MinBy(candidates, func(a, b string) bool {
		return levenshtein.Distance(input, a) < levenshtein.Distance(input, b)
	})

	if levenshtein.Distance(input, best) > max(len(input)/3, 2) {
		return "", false
	}
	return best, true
}

// parseOptions reads repeated -o key=value flags.
func parseOptions(cmd *cobra.Command) source.Options {
	opts, err := source.ParseOptions(lo.Must(cmd.Flags().GetStringArray("option")))
	handleErr(err)
	return opts
}

func addOptionFlag(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("option", "o", nil, "Extractor option as key=value, e.g. -o password=secret (repeatable)")
}
