package main

import (
	"fmt"
	"strings"

	"github.com/Veraticus/the-stars-must-align/internal/cli"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/Veraticus/the-stars-must-align/internal/rules"
	"github.com/spf13/cobra"
)

func prioritiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "priorities",
		Short: "List the priorities a scan can favor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			criteria := rules.DefaultCriteria()

			if _, err := fmt.Fprintln(out, cli.FormatTitle("Priorities")); err != nil {
				return err
			}
			for _, p := range model.AllPriorities {
				c, ok := criteria.Lookup(p)
				if !ok {
					continue
				}
				planets := make([]string, len(c.Planets))
				for i, pl := range c.Planets {
					planets[i] = pl.Display()
				}
				houses := make([]string, len(c.Houses))
				for i, h := range c.Houses {
					houses[i] = fmt.Sprintf("%d", h)
				}
				line := fmt.Sprintf("%-14s %s  %s",
					string(p),
					strings.Join(planets, ", "),
					cli.SubtleStyle.Render("houses "+strings.Join(houses, ", ")))
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
