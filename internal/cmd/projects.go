package cmd

import (
	"fmt"
	"io"

	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/service"
	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List Todoist projects and sections, and RTM lists",
	Long: `Print the ids needed to fill in the routing table: every Todoist project
with its sections and, with --lists, every Remember The Milk list.`,
	RunE: runProjects,
}

var projectsWithLists bool

func init() {
	rootCmd.AddCommand(projectsCmd)

	projectsCmd.Flags().BoolVar(&projectsWithLists, "lists", false, "Also list Remember The Milk lists")
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ctx := cmd.Context()

	todoistClient, err := newTodoistClient(ctx, cfg)
	if err != nil {
		return err
	}
	dir := service.NewDirectoryService(nil, todoistClient)
	if projectsWithLists {
		rtmClient, err := newRTMClient(cfg)
		if err != nil {
			return err
		}
		dir = service.NewDirectoryService(rtmClient, todoistClient)
	}

	tree, err := dir.GetProjectTree(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printProjectTree(out, tree)

	if projectsWithLists {
		lists, err := dir.GetSourceLists(ctx)
		if err != nil {
			return err
		}
		printSourceLists(out, lists)
	}
	return nil
}

func printProjectTree(w io.Writer, tree []service.ProjectTree) {
	fmt.Fprintln(w, "--- Projects ---")
	for _, p := range tree {
		fmt.Fprintf(w, "%s  %s\n", p.Project.ID, p.Project.Name)
		for _, s := range p.Sections {
			fmt.Fprintf(w, "    %s  %s\n", s.ID, s.Name)
		}
	}
}

func printSourceLists(w io.Writer, lists []models.SourceList) {
	fmt.Fprintln(w, "--- Lists ---")
	for _, l := range lists {
		var flags string
		switch {
		case l.Smart:
			flags = " (smart)"
		case l.Archived:
			flags = " (archived)"
		}
		fmt.Fprintf(w, "%s  %s%s\n", l.ID, l.Name, flags)
	}
}
