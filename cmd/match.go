package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/matching"
	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank talents for a job or jobs for a talent",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().String("job", "", "rank talents for the job with this id")
	matchCmd.Flags().String("talent", "", "rank open jobs for the talent with this id")
	matchCmd.Flags().IntP("top", "n", 10, "number of results to show, 0 shows all")
	matchCmd.MarkFlagsMutuallyExclusive("job", "talent")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	c := setup()

	talents, jobs, err := c.load(ctx)
	if err != nil {
		c.logger.Fatal("loading records", zap.Error(err))
	}

	jobID, _ := cmd.Flags().GetString("job")
	talentID, _ := cmd.Flags().GetString("talent")
	top, _ := cmd.Flags().GetInt("top")

	if jobID == "" && talentID == "" {
		jobID, err = selectJob(jobs)
		if err != nil {
			c.logger.Fatal("exiting", zap.Error(err))
		}
	}

	var results []matching.Result
	switch {
	case talentID != "":
		talent := talents.FindByID(talentID)
		if talent == nil {
			c.logger.Fatal("talent with given id not found", zap.String("talent_id", talentID))
		}
		c.logger.Info("matching jobs for talent", logger.TalentFields(talent)...)

		journal, err := store.OpenJournal(c.config.Journal)
		if err != nil {
			c.logger.Fatal("opening applications journal", zap.Error(err))
		}
		if applied := jobs.Exclude(model.JobIDField, appliedJobIDs(journal, talentID)); len(applied) > 0 {
			c.logger.Info("excluding jobs with an application", zap.Strings("excluded_jobs", applied))
		}

		results = c.engine.MatchJobsToTalent(talent, jobs.Items, top)
	default:
		job := jobs.FindByID(jobID)
		if job == nil {
			c.logger.Fatal("job with given id not found",
				zap.String("job_id", jobID),
				zap.Strings("existed job ids", jobs.IDs()),
				zap.Strings("existed job titles", jobs.Titles()),
			)
		}
		c.logger.Info("matching talents for job", logger.JobFields(job)...)
		results = c.engine.MatchTalentsToJob(talents.Items, job, top)
	}

	c.logger.Info("matching finished", zap.Int("results", len(results)))

	if err := printJSON(cmd.OutOrStdout(), results); err != nil {
		c.logger.Fatal("printing results", zap.Error(err))
	}
}

// appliedJobIDs lists jobs the talent already has an application for.
func appliedJobIDs(journal *store.Journal, talentID string) []string {
	var ids []string
	for _, app := range journal.Applications() {
		if app.TalentID == talentID {
			ids = append(ids, app.JobID)
		}
	}
	return ids
}

// selectJob asks for one of the open jobs.
func selectJob(jobs *model.Jobs) (string, error) {
	open := jobs.OpenOnly()
	if open.Len() == 0 {
		return "", fmt.Errorf("there are no open jobs to choose from")
	}

	items := make([]string, 0, open.Len())
	for _, job := range open.Items {
		label := fmt.Sprintf("%s %s", job.ID, job.Title)
		if location := job.LocationText(); location != "" {
			label += " / " + location
		}
		items = append(items, label)
	}

	jobPrompt := promptui.Select{
		Label: "Choose a job and press ENTER",
		Items: items,
		Size:  10,
	}

	_, selected, err := jobPrompt.Run()
	if err != nil {
		return "", err
	}

	return strings.Split(selected, " ")[0], nil
}
