package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/reference"
)

func newReferencesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "references",
		Short: "Показать работодателей, от которых нужны рекомендации",
		RunE:  runReferences,
	}
	f := cmd.Flags()
	f.Bool("no-current", false, "не требовать рекомендацию текущего работодателя")
	f.Bool("no-previous", false, "не требовать рекомендацию предыдущего работодателя")
	f.Bool("no-vulnerable", false, "не требовать рекомендации за работу с уязвимыми группами")
	return cmd
}

func runReferences(cmd *cobra.Command, _ []string) error {
	h, err := readHistory(cmd)
	if err != nil {
		return err
	}
	periods, err := h.toPeriods()
	if err != nil {
		return err
	}

	noCurrent, _ := cmd.Flags().GetBool("no-current")
	noPrevious, _ := cmd.Flags().GetBool("no-previous")
	noVulnerable, _ := cmd.Flags().GetBool("no-vulnerable")

	resolver := reference.NewResolver(reference.DefaultPolicy())
	resolver.SetPeriods(periods)
	resolver.UpdatePolicy(reference.PolicyUpdate{
		RequireCurrentEmployer:         boolPtr(!noCurrent),
		RequirePreviousEmployer:        boolPtr(!noPrevious),
		RequireVulnerableWorkEmployers: boolPtr(!noVulnerable),
	})

	required := dto.NewRequiredReferences(resolver.Required())
	lastTwo := dto.NewEmploymentList(resolver.LastTwoEmployers())

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, map[string]any{
			"required":           required,
			"last_two_employers": lastTwo,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Требуются рекомендации:")
	if len(required) == 0 {
		fmt.Fprintln(out, "  нет")
	}
	for _, r := range required {
		fmt.Fprintf(out, "  %s", r.EmployerName)
		if r.IsCurrent {
			fmt.Fprint(out, " (текущий)")
		}
		if r.WorkedWithVulnerablePeople {
			fmt.Fprint(out, " (уязвимые группы)")
		}
		if !r.HasReferee {
			fmt.Fprint(out, " [нет контакта]")
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "Последние работодатели:")
	for _, p := range lastTwo {
		fmt.Fprintf(out, "  %s\n", p.EmployerName)
	}
	return nil
}

func boolPtr(v bool) *bool {
	return &v
}
