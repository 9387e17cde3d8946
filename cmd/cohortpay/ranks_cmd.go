package main

import (
	"github.com/spf13/cobra"

	"cohortpay/internal/analysis"
	"cohortpay/internal/config"
	"cohortpay/internal/infrastructure"
	"cohortpay/internal/pipeline"
)

type rankEntry struct {
	Rank      string `json:"rank"`
	Cohort    int    `json:"cohort"`
	NonCohort int    `json:"non_cohort"`
}

type ranksOutput struct {
	Command     string         `json:"command"`
	TargetYear  int            `json:"target_year"`
	RankMinimum int            `json:"rank_minimum"`
	RowsRead    int            `json:"rows_read"`
	Records     int            `json:"records"`
	Dropped     map[string]int `json:"dropped"`
	AllRanks    []string       `json:"all_ranks"`
	Qualifying  []rankEntry    `json:"qualifying"`
}

func newRanksCmd(root *rootOptions) *cobra.Command {
	var targetYear int

	cmd := &cobra.Command{
		Use:   "ranks",
		Short: "Load the payroll files and list the ranks that qualify for the rank breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := root.setup(cmd, func(cfg *config.Config) {
				if cmd.Flags().Changed("target-year") {
					cfg.Analysis.TargetYear = targetYear
				}
			})
			if err != nil {
				return err
			}
			defer infrastructure.CloseLogFile()

			sources, err := pipeline.ResolveSources(e.cfg, e.paths)
			if err != nil {
				return err
			}
			loaded, err := pipeline.New(e.cfg, e.reader(), nil, nil, e.logger).Load(e.ctx, sources)
			if err != nil {
				return err
			}

			policy, err := analysis.ParseLeavePolicy(e.cfg.Analysis.LeavePolicy)
			if err != nil {
				return err
			}
			part := analysis.NewPartitioner(analysis.PartitionOptions{
				RankMinimum:      e.cfg.Analysis.RankMinimum,
				TenureBoundaries: e.cfg.Analysis.TenureBoundaries,
				TargetYear:       e.cfg.Analysis.TargetYear,
			}, e.logger).Partition(e.ctx, policy.Apply(loaded.Records), loaded.Ranks)

			out := ranksOutput{
				Command:     "ranks",
				TargetYear:  part.TargetYear,
				RankMinimum: e.cfg.Analysis.RankMinimum,
				RowsRead:    loaded.RowsRead,
				Records:     len(loaded.Records),
				Dropped:     droppedCounts(loaded),
				AllRanks:    loaded.Ranks,
				Qualifying:  make([]rankEntry, 0, len(part.ByRank)),
			}
			for _, g := range part.ByRank {
				out.Qualifying = append(out.Qualifying, rankEntry{Rank: g.Rank, Cohort: len(g.Cohort), NonCohort: len(g.NonCohort)})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().IntVar(&targetYear, "target-year", 0, "Fiscal year to check (0 = most recent in the data)")
	return cmd
}
