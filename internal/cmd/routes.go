package cmd

import (
	"bytes"
	"fmt"

	"github.com/TWRT/rtm2todoist/internal/config"
	"github.com/TWRT/rtm2todoist/internal/routing"
	"github.com/TWRT/rtm2todoist/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print a routing table skeleton for the config file",
	Long: `Print a "routing:" block covering every Remember The Milk list. Lists that
are already routed keep their project and section; new lists get zeros to be
replaced with ids from "rtm2todoist projects". Smart lists are left out.`,
	RunE: runRoutes,
}

var routesIncludeArchived bool

func init() {
	rootCmd.AddCommand(routesCmd)

	routesCmd.Flags().BoolVar(&routesIncludeArchived, "archived", false, "Include archived lists")
}

func runRoutes(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rtmClient, err := newRTMClient(cfg)
	if err != nil {
		return err
	}

	dir := service.NewDirectoryService(rtmClient, nil)
	lists, err := dir.GetSourceLists(cmd.Context())
	if err != nil {
		return err
	}
	table, missing, err := dir.RouteSkeleton(cmd.Context(), cfg.RoutingTable(), routesIncludeArchived)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(lists))
	for _, l := range lists {
		names[l.ID] = l.Name
	}

	doc, err := renderRoutes(table, names)
	if err != nil {
		return err
	}
	if _, err := cmd.OutOrStdout().Write(doc); err != nil {
		return err
	}
	if len(missing) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d lists need a project id\n", len(missing))
	}
	return nil
}

// renderRoutes writes the table as a YAML "routing:" block with each list's
// name as a comment above its key.
func renderRoutes(table routing.Table, names map[string]string) ([]byte, error) {
	entries := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range table.ListIDs() {
		key := &yaml.Node{
			Kind:        yaml.ScalarNode,
			Tag:         "!!str",
			Value:       id,
			Style:       yaml.DoubleQuotedStyle,
			HeadComment: names[id],
		}
		value := &yaml.Node{}
		if err := value.Encode(table[id]); err != nil {
			return nil, fmt.Errorf("encode route %s: %w", id, err)
		}
		entries.Content = append(entries.Content, key, value)
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: "routing"}, entries)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode routing: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
