package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/readiness"
)

type gapReport struct {
	*readiness.Report
	JobReady        bool                  `json:"job_ready"`
	Status          model.PlacementStatus `json:"status,omitempty"`
	SuggestedStatus model.PlacementStatus `json:"suggested_status,omitempty"`
}

// talentFinder is implemented by sources able to fetch a single talent.
type talentFinder interface {
	Talent(ctx context.Context, id string) (*model.TalentProfile, error)
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Show the skill gap between talents and their SAP track",
	Run: func(cmd *cobra.Command, _ []string) {
		gap(cmd)
	},
}

func init() {
	rootCmd.AddCommand(gapCmd)

	gapCmd.Flags().String("talent", "", "report only the talent with this id")
	gapCmd.Flags().Bool("all", false, "report every talent")
	gapCmd.Flags().Bool("suggest-status", false, "add the placement status the readiness suggests")
	gapCmd.MarkFlagsMutuallyExclusive("talent", "all")
	gapCmd.MarkFlagsOneRequired("talent", "all")
}

func gap(cmd *cobra.Command) {
	ctx := context.Background()
	c := setup()

	talentID, _ := cmd.Flags().GetString("talent")
	suggest, _ := cmd.Flags().GetBool("suggest-status")

	talents, err := c.gapTalents(ctx, talentID)
	if err != nil {
		c.logger.Fatal("loading talents", zap.Error(err))
	}

	threshold := c.readyThreshold()
	reports := make([]gapReport, 0, len(talents))
	for _, talent := range talents {
		if talent == nil {
			continue
		}
		report := c.analyzer.AnalyzeSkillGap(talent)
		entry := gapReport{
			Report:   report,
			JobReady: report.JobReady(threshold),
			Status:   talent.PlacementStatus,
		}
		if suggest {
			entry.SuggestedStatus = readiness.SuggestStatus(talent, report, threshold)
			if entry.SuggestedStatus != talent.PlacementStatus {
				c.logger.Info("status change suggested",
					zap.String("talent_id", talent.ID),
					zap.String("from", string(talent.PlacementStatus)),
					zap.String("to", string(entry.SuggestedStatus)),
					zap.Int("readiness", report.Readiness),
				)
			}
		}
		reports = append(reports, entry)
	}

	if err := printJSON(cmd.OutOrStdout(), reports); err != nil {
		c.logger.Fatal("printing reports", zap.Error(err))
	}
}

// gapTalents returns either every talent or the one with the id, fetched directly when the source allows it.
func (c *components) gapTalents(ctx context.Context, talentID string) ([]*model.TalentProfile, error) {
	src, err := c.source()
	if err != nil {
		return nil, err
	}

	if talentID != "" {
		var talent *model.TalentProfile
		if finder, ok := src.(talentFinder); ok {
			talent, err = finder.Talent(ctx, talentID)
		} else {
			var all []*model.TalentProfile
			all, err = src.Talents(ctx)
			talent = model.NewTalents(all...).FindByID(talentID)
		}
		if err != nil {
			return nil, err
		}
		if talent == nil {
			return nil, fmt.Errorf("talent with id %s not found", talentID)
		}
		return []*model.TalentProfile{talent}, nil
	}

	return src.Talents(ctx)
}
