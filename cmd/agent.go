package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Analyze one talent for one job and recommend the next step",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(agentCmd)

	agentCmd.Flags().String("talent", "", "talent id")
	agentCmd.Flags().String("job", "", "job id")
	agentCmd.Flags().Bool("ai", false, "add an ai narrative even when ai.enabled is false")
	agentCmd.MarkFlagRequired("talent")
	agentCmd.MarkFlagRequired("job")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()
	c := setup()

	if withAI, _ := cmd.Flags().GetBool("ai"); withAI {
		c.config.AI.Enabled = true
	}

	talentID, _ := cmd.Flags().GetString("talent")
	jobID, _ := cmd.Flags().GetString("job")

	talents, jobs, err := c.load(ctx)
	if err != nil {
		c.logger.Fatal("loading records", zap.Error(err))
	}

	talent := talents.FindByID(talentID)
	if talent == nil {
		c.logger.Fatal("talent with given id not found", zap.String("talent_id", talentID))
	}
	job := jobs.FindByID(jobID)
	if job == nil {
		c.logger.Fatal("job with given id not found", zap.String("job_id", jobID))
	}

	insight, err := c.newAgent(ctx).Analyze(ctx, talent, job)
	if err != nil {
		c.logger.Fatal("analysis failed", zap.Error(err))
	}

	c.logger.Info("analysis finished",
		zap.String("insight_id", insight.ID),
		zap.Float64("score", insight.Score),
		zap.String("next_action", insight.NextAction),
	)

	if err := printJSON(cmd.OutOrStdout(), insight); err != nil {
		c.logger.Fatal("printing insight", zap.Error(err))
	}
}
