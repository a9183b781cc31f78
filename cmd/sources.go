package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"forecastwatch/internal/registry"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List the source catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := registry.Default()
		if flagJSON {
			type entry struct {
				ID         string   `json:"id"`
				Name       string   `json:"name"`
				Kind       string   `json:"kind"`
				Tier       int      `json:"trust_tier"`
				Operations []string `json:"operations"`
			}
			var out []entry
			for _, s := range reg.All() {
				out = append(out, entry{
					ID: string(s.ID), Name: s.Name, Kind: string(s.Kind),
					Tier: s.Tier(), Operations: capabilityNames(s.Caps),
				})
			}
			return printJSON(out)
		}

		fmt.Println(titleStyle.Render("Source catalog"))
		for _, s := range reg.All() {
			fmt.Printf("  %-20s %-28s %s\n", s.ID, s.Name,
				dimStyle.Render(fmt.Sprintf("%s (tier %d) — %s",
					s.Kind, s.Tier(), strings.Join(capabilityNames(s.Caps), ", "))))
		}
		return nil
	},
}

func capabilityNames(c registry.Capabilities) []string {
	var out []string
	if c.Historical {
		out = append(out, "historical")
	}
	if c.Actuals {
		out = append(out, "actuals")
	}
	if c.Current {
		out = append(out, "current")
	}
	return out
}
