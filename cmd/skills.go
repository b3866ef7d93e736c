package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillforge/internal/api"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "List skills and template counts without entering the TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := api.New(api.Config{
			BaseURL: cfg.API.BaseURL,
			Timeout: api.DefaultConfig().Timeout,
		})

		skills, err := client.ListSkills(cmd.Context())
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}

		topic, _ := cmd.Flags().GetString("topic")
		if topic != "" {
			filtered := skills[:0]
			for _, s := range skills {
				if strings.EqualFold(s.Topic, topic) {
					filtered = append(filtered, s)
				}
			}
			skills = filtered
			if len(skills) == 0 {
				return fmt.Errorf("no skills found for topic %q", topic)
			}
		}

		// Header.
		fmt.Printf("%-40s  %-24s  %s\n", "Skill", "Topic", "Templates")
		fmt.Println(strings.Repeat("─", 78))

		total := 0
		for _, s := range skills {
			name := s.SkillName
			if len(name) > 40 {
				name = name[:37] + "..."
			}
			fmt.Printf("%-40s  %-24s  %9d\n", name, s.Topic, s.Count)
			total += s.Count
		}

		fmt.Printf("\n%d skills, %d templates\n", len(skills), total)
		return nil
	},
}

func init() {
	skillsCmd.Flags().String("topic", "", "Only show skills for this topic")
}
