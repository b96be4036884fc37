package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/megaloader/megaloader/auth"
	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/provider"
	"github.com/megaloader/megaloader/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// credentials lists the secrets each platform understands.
var credentials = map[string][]string{
	"gofile":     {"password", "token"},
	"pixeldrain": {"api_key"},
	"pixiv":      {"session_id"},
	"fanbox":     {"session_id"},
}

func validateCredential(args []string) error {
	names, ok := credentials[args[0]]
	if !ok {
		if _, known := provider.Get(args[0]); known {
			return fmt.Errorf("%s takes no credentials", args[0])
		}
		return fmt.Errorf("unknown platform %s", args[0])
	}

	if !lo.Contains(names, args[1]) {
		return fmt.Errorf("%s credentials are: %v", args[0], names)
	}
	return nil
}

func completionCredentials(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	switch len(args) {
	case 0:
		return lo.Keys(credentials), cobra.ShellCompDirectiveNoFileComp
	case 1:
		return credentials[args[0]], cobra.ShellCompDirectiveNoFileComp
	default:
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authGetCmd, authRemoveCmd)

	authSetCmd.Flags().String("value", "", "Secret value; prompted for when omitted")
	authGetCmd.Flags().Bool("reveal", false, "Print the secret instead of masking it")
	authGetCmd.SetOut(os.Stdout)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store platform credentials in the system keyring",
	Long: `Store platform credentials in the system keyring.

Credentials are looked up in this order: -o key=value options, configuration
and environment (see "megaloader env"), then the keyring.`,
}

var authSetCmd = &cobra.Command{
	Use:               "set <platform> <name>",
	Short:             "Save a credential",
	Example:           "  megaloader auth set pixiv session_id",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(validateCredential(args))

		secret := lo.Must(cmd.Flags().GetString("value"))
		if secret == "" {
			prompt := &survey.Password{Message: fmt.Sprintf("%s %s:", args[0], args[1])}
			handleErr(survey.AskOne(prompt, &secret, survey.WithValidator(survey.Required)))
		}

		handleErr(auth.Set(args[0], args[1], secret))
		fmt.Printf("%s saved %s %s\n", style.Fg(color.Success)(icon.Get(icon.Lock)), args[0], style.Fg(color.Purple)(args[1]))
	},
}

var authGetCmd = &cobra.Command{
	Use:               "get <platform> <name>",
	Short:             "Show whether a credential is stored",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(validateCredential(args))

		secret, err := auth.Get(args[0], args[1])
		if errors.Is(err, auth.ErrNotFound) {
			handleErr(fmt.Errorf("no %s stored for %s", args[1], args[0]))
		}
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("reveal")) {
			cmd.Println(secret)
			return
		}
		cmd.Println(mask(secret))
	},
}

var authRemoveCmd = &cobra.Command{
	Use:               "remove <platform> <name>",
	Aliases:           []string{"delete", "rm"},
	Short:             "Delete a stored credential",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completionCredentials,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(validateCredential(args))
		handleErr(auth.Delete(args[0], args[1]))
		fmt.Printf("%s removed %s %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), args[0], args[1])
	},
}

// mask keeps the last four characters of secrets long enough to stay unguessable.
func mask(secret string) string {
	runes := []rune(secret)
	if len(runes) <= 8 {
		return "********"
	}
	return "****" + string(runes[len(runes)-4:])
}
