package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/assist"
)

var assistCmd = &cobra.Command{
	Use:   "assist",
	Short: "Draft template bodies for a topic/skill pair and print them",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.Assist.APIKey == "" {
			return fmt.Errorf("assist is not configured: set SKILLFORGE_ASSIST_API_KEY or add an api_key to the config file")
		}

		helper, err := assist.New(assist.Config{
			APIKey:  cfg.Assist.APIKey,
			Model:   cfg.Assist.Model,
			BaseURL: cfg.Assist.BaseURL,
		})
		if err != nil {
			return err
		}

		topic, _ := cmd.Flags().GetString("topic")
		skill, _ := cmd.Flags().GetString("skill")
		grade, _ := cmd.Flags().GetInt("grade")
		qtype, _ := cmd.Flags().GetString("type")
		if topic == "" || skill == "" {
			return fmt.Errorf("--topic and --skill are required")
		}

		drafts, err := helper.GenerateTemplates(cmd.Context(), assist.Input{
			Topic: topic,
			Skill: skill,
			Grade: grade,
			Type:  qtype,
		})
		if err != nil {
			return err
		}

		fmt.Println("# Question template")
		fmt.Println(drafts.QuestionTemplate)
		fmt.Println()
		fmt.Println("# Answer template")
		fmt.Println(drafts.AnswerTemplate)
		return nil
	},
}

func init() {
	assistCmd.Flags().String("topic", "", "Topic the template belongs to")
	assistCmd.Flags().String("skill", "", "Skill the template teaches")
	assistCmd.Flags().Int("grade", 0, "Target grade level")
	assistCmd.Flags().String("type", "", "Question type (MCQ, MAQ, FIB, TF)")
}
