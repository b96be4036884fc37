package cmd

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/megaloader/megaloader/color"
	"github.com/megaloader/megaloader/icon"
	"github.com/megaloader/megaloader/provider"
	"github.com/megaloader/megaloader/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.Flags().StringP("search", "s", "", "Fuzzy-filter platforms and domains")
	domainsCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	domainsCmd.SetOut(os.Stdout)

	domainsCmd.AddCommand(domainsCheckCmd)
	domainsCheckCmd.SetOut(os.Stdout)
}

type domainsEntry struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Domains    []string `json:"domains"`
	Subdomains bool     `json:"subdomains"`
	Mirrors    []string `json:"mirrors,omitempty"`
}

var domainsCmd = &cobra.Command{
	Use:     "domains",
	Aliases: []string{"sites"},
	Short:   "List supported platforms and their domains",
	Run: func(cmd *cobra.Command, args []string) {
		query := strings.ToLower(lo.Must(cmd.Flags().GetString("search")))

		var entries []domainsEntry
		for _, p := range provider.Default().Providers() {
			domains := p.Domains
			if query != "" && !fuzzy.MatchFold(query, p.Name) {
				domains = fuzzy.FindFold(query, p.Domains)
				if len(domains) == 0 {
					continue
				}
			}

			entries = append(entries, domainsEntry{
				ID:         p.ID,
				Name:       p.Name,
				Domains:    domains,
				Subdomains: p.Subdomains,
				Mirrors:    p.Mirrors,
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		for i, entry := range entries {
			cmd.Println(style.Bold(style.Fg(color.Accent)(entry.Name)) + " " + style.Faint(entry.ID))
			for _, domain := range entry.Domains {
				if entry.Subdomains {
					domain += style.Faint(" (+ subdomains)")
				}
				cmd.Println("  " + domain)
			}
			if len(entry.Mirrors) > 0 {
				cmd.Println("  " + style.Faint("any host labelled "+strings.Join(entry.Mirrors, ", ")))
			}

			if i < len(entries)-1 {
				cmd.Println()
			}
		}
	},
}

var domainsCheckCmd = &cobra.Command{
	Use:   "check <url>",
	Short: "Report which platform handles a link",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		p, err := provider.Default().Resolve(args[0])
		handleErr(err)

		cmd.Printf("%s %s %s\n", style.Fg(color.Success)(icon.Get(icon.Success)), style.Bold(p.Name), style.Faint(p.ID))
	},
}
