package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/dto"
	"github.com/ignatzorin/applicant-intake/internal/timeline"
)

func newGapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gaps",
		Short: "Показать перерывы в занятости и их объяснения",
		RunE:  runGaps,
	}
}

func runGaps(cmd *cobra.Command, _ []string) error {
	h, err := readHistory(cmd)
	if err != nil {
		return err
	}
	periods, err := h.toPeriods()
	if err != nil {
		return err
	}

	records := make([]entity.GapExplanation, 0, len(h.Explanations))
	for _, e := range h.Explanations {
		start, err := dto.MustDate("start_date", e.StartDate)
		if err != nil {
			return err
		}
		end, err := dto.MustDate("end_date", e.EndDate)
		if err != nil {
			return err
		}
		records = append(records, entity.GapExplanation{StartDate: start, EndDate: end, Explanation: e.Explanation})
	}
	store := timeline.NewExplanationStore()
	store.Seed(records)

	gaps := timeline.ComputeGaps(periods)
	result := make([]dto.GapResponse, 0, len(gaps))
	for _, g := range gaps {
		explained := store.AllExplained([]entity.EmploymentGap{g})
		result = append(result, dto.NewGapResponse(g, store.Explanation(g), explained))
	}
	allExplained := store.AllExplained(gaps)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return writeJSON(cmd, map[string]any{
			"gaps":               result,
			"all_gaps_explained": allExplained,
		})
	}

	out := cmd.OutOrStdout()
	if len(result) == 0 {
		fmt.Fprintln(out, "Перерывов нет")
		return nil
	}
	for _, g := range result {
		mark := " "
		if g.Explained {
			mark = "x"
		}
		fmt.Fprintf(out, "[%s] %s .. %s  %4d дн.  %s\n", mark, g.StartDate, g.EndDate, g.LengthInDays, g.Explanation)
	}
	fmt.Fprintf(out, "Все объяснены: %t\n", allExplained)
	return nil
}
