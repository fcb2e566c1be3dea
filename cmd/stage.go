package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/model"
	"github.com/spigell/talent-matcher/internal/pipeline"
	"github.com/spigell/talent-matcher/internal/store"
)

const PromptCancel = "cancel"

var errCancelled = errors.New("cancelled from prompt")

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Move an application to the next stage of the hiring pipeline",
	Run: func(cmd *cobra.Command, _ []string) {
		stage(cmd)
	},
}

func init() {
	rootCmd.AddCommand(stageCmd)

	stageCmd.Flags().String("talent", "", "talent id")
	stageCmd.Flags().String("job", "", "job id")
	stageCmd.Flags().String("to", "", "target stage; without it the allowed stages are offered")
	stageCmd.MarkFlagRequired("talent")
	stageCmd.MarkFlagRequired("job")
}

func stage(cmd *cobra.Command) {
	c := setup()

	talentID, _ := cmd.Flags().GetString("talent")
	jobID, _ := cmd.Flags().GetString("job")
	target, _ := cmd.Flags().GetString("to")

	journal, err := store.OpenJournal(c.config.Journal)
	if err != nil {
		c.logger.Fatal("opening applications journal", zap.Error(err))
	}

	var to pipeline.Stage
	if target == "" {
		to, err = selectStage(journal, talentID, jobID)
		if errors.Is(err, errCancelled) {
			c.logger.Info("exiting", zap.String("reason", "got cancel from prompt"))
			return
		}
	} else {
		to, err = pipeline.ParseStage(target)
	}
	if err != nil {
		c.logger.Fatal("choosing a stage", zap.Error(err))
	}

	app, err := journal.Transition(talentID, jobID, to)
	if err != nil {
		fields := []zap.Field{zap.Error(err)}
		if current, findErr := journal.Find(talentID, jobID); findErr == nil {
			fields = append(fields, zap.Any("allowed", pipeline.Next(current.Stage)))
		}
		c.logger.Fatal("moving the application", fields...)
	}

	if err := journal.Save(); err != nil {
		c.logger.Fatal("saving applications journal", zap.Error(err))
	}

	c.logger.Info("application moved",
		zap.String("talent_id", talentID),
		zap.String("job_id", jobID),
		zap.String("stage", app.Stage.String()),
	)

	if app.Stage == pipeline.StageHired && c.config.ExcludeFile != "" {
		hired := model.NewTalents(&model.TalentProfile{ID: talentID})
		reason := fmt.Sprintf("hired for job %s", jobID)
		if err := appendToExcludeFile(c.config.ExcludeFile, hired, reason); err != nil {
			c.logger.Fatal("appending to exclude file", zap.Error(err))
		}
		c.logger.Info("appended to exclude file", zap.String("filename", c.config.ExcludeFile))
	}

	if err := printJSON(cmd.OutOrStdout(), app); err != nil {
		c.logger.Fatal("printing application", zap.Error(err))
	}
}

// selectStage offers the stages reachable from the current one, or shortlisting for a new pair.
func selectStage(journal *store.Journal, talentID, jobID string) (pipeline.Stage, error) {
	var items []string

	current, err := journal.Find(talentID, jobID)
	switch {
	case errors.Is(err, store.ErrApplicationNotFound):
		items = append(items, pipeline.StageShortlisted.String())
	case err != nil:
		return "", err
	case current.Closed():
		return "", fmt.Errorf("application is already %s", current.Stage)
	default:
		for _, next := range pipeline.Next(current.Stage) {
			items = append(items, next.String())
		}
	}

	label := "Choose the first stage"
	if current != nil {
		label = fmt.Sprintf("Currently %s, choose the next stage", current.Stage)
	}

	stagePrompt := promptui.Select{
		Label: label,
		Items: append(items, PromptCancel),
	}

	_, selected, err := stagePrompt.Run()
	if err != nil {
		return "", err
	}
	if selected == PromptCancel {
		return "", errCancelled
	}

	return pipeline.ParseStage(selected)
}

func appendToExcludeFile(path string, talents *model.Talents, reason string) error {
	excluded, err := store.ReadExcludeFile(path)
	if errors.Is(err, os.ErrNotExist) {
		excluded, err = &store.ExcludedTalents{}, nil
	}
	if err != nil {
		return err
	}

	excluded.Append(store.NewExcluded(talents, reason, time.Now()))

	return excluded.ToFile(path)
}
