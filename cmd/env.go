package cmd

import (
	"os"
	"slices"
	"strings"

	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/config"
	"github.com/megaloader/megaloader/style"
	"github.com/megaloader/megaloader/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are unset")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the environment variables megaloader reads",
	Long: `List the environment variables megaloader reads and their current values.
Credential variables also accept the names shown after "or".`,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		type variable struct {
			name    string
			aliases []string
		}

		variables := []variable{{name: where.EnvConfigPath}}
		for _, key := range config.EnvExposed {
			field := config.Default[key]
			variables = append(variables, variable{name: field.Env(), aliases: field.Aliases})
		}
		slices.SortFunc(variables, func(a, b variable) int {
			return strings.Compare(a.name, b.name)
		})

		for _, v := range variables {
			value, present := "", false
			for _, name := range append([]string{v.name}, v.aliases...) {
				if value = os.Getenv(name); value != "" {
					present = true
					break
				}
			}

			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(v.name))
			for _, alias := range v.aliases {
				cmd.Print(style.Faint(" or " + alias))
			}
			cmd.Print("=")

			if present {
				cmd.Println(style.Fg(color.Green)(value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
