package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/megaloader/megaloader"
	"github.com/megaloader/megaloader/inline"
	"github.com/megaloader/megaloader/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolP("json", "j", false, "Print items as JSON")
	extractCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output and exit")
	extractCmd.Flags().IntP("limit", "n", 0, "Stop after this many items")
	addOptionFlag(extractCmd)

	extractCmd.SetOut(os.Stdout)
}

var extractCmd = &cobra.Command{
	Use:     "extract <url>",
	Short:   "List the files behind a link without downloading them",
	Example: "  megaloader extract https://gofile.io/d/abc123 --json -o password=hunter2",
	Args: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			return nil
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(outputSchema()))
			return
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		items, p, err := megaloader.Extract(ctx, args[0], parseOptions(cmd))
		handleErr(err)

		options := &inline.Options{
			Out:    cmd.OutOrStdout(),
			Source: p.Name,
			URL:    args[0],
			Items:  items,
			Json:   lo.Must(cmd.Flags().GetBool("json")),
		}

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 {
			options.Limit = mo.Some(limit)
		}

		if width, _, err := util.TerminalSize(); err == nil {
			options.Width = width
		}

		handleErr(inline.Run(options))
	},
}

func outputSchema() *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return t.Name()
	}
	return reflector.Reflect(&inline.Output{})
}
