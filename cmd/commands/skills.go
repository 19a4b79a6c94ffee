package commands

import (
	"context"
	"fmt"
	"strings"

	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/zeon-ai/zeon/internal/composition"
)

// Tier colors match the DAG export metadata.
var (
	tierStyles = map[string]lipgloss.Style{
		"T0": lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b")),
		"T1": lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4")),
		"T2": lipgloss.NewStyle().Foreground(lipgloss.Color("#45b7d1")),
	}
	nameStyle     = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	circularStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Bold(true)
)

func tierBadge(tier string) string {
	if style, ok := tierStyles[tier]; ok {
		return style.Render("[" + tier + "]")
	}
	return mutedStyle.Render("[" + tier + "]")
}

// NewSkillsCommand returns the skills subcommand tree.
func NewSkillsCommand() *cli.Command {
	return &cli.Command{
		Name:  "skills",
		Usage: "Inspect the skill catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "tier",
				Usage: "Filter by tier (T0/T1/T2)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List skills in the catalog",
				Action: runSkillsList,
			},
			{
				Name:      "show",
				Usage:     "Show a skill's full definition",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    runSkillsShow,
			},
			{
				Name:      "deps",
				Usage:     "Show a skill's transitive dependencies",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    runSkillsDeps,
			},
			{
				Name:      "usage",
				Usage:     "Show which skills use a skill as a subskill",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    runSkillsUsage,
			},
			{
				Name:      "tree",
				Usage:     "Show a skill's composition hierarchy",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    runSkillsTree,
			},
			{
				Name:      "order",
				Usage:     "Show the execution order seeded from a skill",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    runSkillsOrder,
			},
			{
				Name:   "stats",
				Usage:  "Show catalog statistics",
				Action: runSkillsStats,
			},
		},
	}
}

func skillsView(ctx context.Context, cmd *cli.Command) (*composition.View, error) {
	setupLogging(cmd, true)
	cfg := loadConfig(cmd)
	_, store, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store.View(), nil
}

func requireName(cmd *cli.Command) (string, error) {
	name := cmd.StringArg("name")
	if name == "" {
		return "", fmt.Errorf("skill name required")
	}
	return name, nil
}

func runSkillsList(ctx context.Context, cmd *cli.Command) error {
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}

	results := view.Search("", cmd.String("tier"))
	for _, s := range results {
		line := fmt.Sprintf("%s %s %s", tierBadge(string(s.Tier)), nameStyle.Render(s.Name), mutedStyle.Render("v"+s.Version))
		if s.Description != "" {
			line += "  " + s.Description
		}
		fmt.Println(line)
	}
	fmt.Println(mutedStyle.Render(fmt.Sprintf("%d skills", len(results))))
	return nil
}

func runSkillsShow(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}

	spec, ok := view.Catalog.Get(name)
	if !ok {
		return &composition.NotFoundError{Skill: name}
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", spec.Name)
	fmt.Fprintf(&md, "**Version** %s · **Tier** %s\n\n", spec.Version, view.Graph.Tier(spec.Name))
	if spec.Description != "" {
		fmt.Fprintf(&md, "%s\n\n", spec.Description)
	}
	if subs := view.Graph.Subskills(spec.Name); len(subs) > 0 {
		md.WriteString("## Subskills\n\n")
		for _, sub := range subs {
			fmt.Fprintf(&md, "- %s (%s)\n", sub, view.Graph.Tier(sub))
		}
		md.WriteString("\n")
	}
	if usage := view.Analyzer.UsageOf(spec.Name); len(usage) > 0 {
		md.WriteString("## Used by\n\n")
		for _, u := range usage {
			fmt.Fprintf(&md, "- %s\n", u)
		}
		md.WriteString("\n")
	}
	if len(spec.InputSchema) > 0 {
		fmt.Fprintf(&md, "## Input schema\n\n```json\n%s\n```\n", spec.InputSchema)
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return err
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runSkillsDeps(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}
	if !view.Graph.Has(name) {
		return &composition.NotFoundError{Skill: name}
	}

	deps := view.Analyzer.Closure(name)
	if len(deps) == 0 {
		fmt.Println(mutedStyle.Render("no dependencies"))
		return nil
	}
	for _, dep := range deps {
		fmt.Printf("%s %s\n", tierBadge(view.Graph.Tier(dep)), dep)
	}
	return nil
}

func runSkillsUsage(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}
	if !view.Graph.Has(name) {
		return &composition.NotFoundError{Skill: name}
	}

	usage := view.Analyzer.UsageOf(name)
	if len(usage) == 0 {
		fmt.Println(mutedStyle.Render("not used by any skill"))
		return nil
	}
	for _, u := range usage {
		fmt.Printf("%s %s\n", tierBadge(view.Graph.Tier(u)), u)
	}
	return nil
}

func runSkillsTree(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}

	root, err := view.Analyzer.Hierarchy(name)
	if err != nil {
		return err
	}
	fmt.Println(treeLabel(root))
	printTree(root, "")
	return nil
}

func treeLabel(node *composition.Node) string {
	label := fmt.Sprintf("%s %s", tierBadge(node.Tier), nameStyle.Render(node.Name))
	if node.Circular {
		label += " " + circularStyle.Render("(circular)")
	}
	return label
}

func printTree(node *composition.Node, prefix string) {
	for i, child := range node.Subskills {
		connector, childPrefix := "├── ", prefix+"│   "
		if i == len(node.Subskills)-1 {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Println(prefix + connector + treeLabel(child))
		printTree(child, childPrefix)
	}
}

func runSkillsOrder(ctx context.Context, cmd *cli.Command) error {
	name, err := requireName(cmd)
	if err != nil {
		return err
	}
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}
	if !view.Graph.Has(name) {
		return &composition.NotFoundError{Skill: name}
	}

	for i, skill := range view.Analyzer.ExecutionOrder(name) {
		fmt.Printf("%2d. %s %s\n", i+1, tierBadge(view.Graph.Tier(skill)), skill)
	}
	return nil
}

func runSkillsStats(ctx context.Context, cmd *cli.Command) error {
	view, err := skillsView(ctx, cmd)
	if err != nil {
		return err
	}

	stats := view.Analyzer.Stats()
	fmt.Printf("%s %d\n", nameStyle.Render("Total skills:"), stats.TotalSkills)
	for _, tier := range []string{"T0", "T1", "T2"} {
		if count, ok := stats.TierCounts[tier]; ok {
			fmt.Printf("  %s %d\n", tierBadge(tier), count)
		}
	}
	if stats.MostComplexSkill != "" {
		fmt.Printf("%s %s\n", nameStyle.Render("Most complex:"), stats.MostComplexSkill)
	}
	if stats.MostUsedSkill != "" {
		fmt.Printf("%s %s\n", nameStyle.Render("Most used:"), stats.MostUsedSkill)
	}
	return nil
}
