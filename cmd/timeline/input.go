package main

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ignatzorin/applicant-intake/internal/domain/entity"
	"github.com/ignatzorin/applicant-intake/internal/dto"
)

// history - формат входного файла.
type history struct {
	Periods      []dto.EmploymentRequest     `json:"periods"`
	Explanations []dto.GapExplanationRequest `json:"explanations"`
}

func readHistory(cmd *cobra.Command) (*history, error) {
	path, _ := cmd.Flags().GetString("file")

	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	var h history
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return &h, nil
}

// toPeriods переводит записи файла в периоды; идентификаторы выдаются по порядку записей.
func (h *history) toPeriods() ([]entity.EmploymentPeriod, error) {
	out := make([]entity.EmploymentPeriod, 0, len(h.Periods))
	for i, req := range h.Periods {
		start, err := dto.ParseDate("start_date", req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
		end, err := dto.ParseDate("end_date", req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
		p, err := entity.NewEmploymentPeriod(uuid.Nil, req.EmployerName, req.JobTitle, start, end, req.IsCurrent, req.WorkedWithVulnerablePeople)
		if err != nil {
			return nil, fmt.Errorf("period %d: %w", i+1, err)
		}
		if req.RefereeName != nil && req.RefereeEmail != nil {
			p.SetReferee(*req.RefereeName, *req.RefereeEmail)
		}
		out = append(out, *p)
	}
	return out, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return err
}
