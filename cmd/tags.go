package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/campus-nav/internal/config"
	"github.com/xkilldash9x/campus-nav/internal/observability"
	"github.com/xkilldash9x/campus-nav/internal/tags"
)

// buildTagManager constructs the tag manager over the configured file store.
// CLI commands always use the file backend; postgres is a server concern.
func buildTagManager(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*tags.Manager, error) {
	store := tags.NewFileStore(cfg.Storage.TagsPath(), logger)
	return tags.NewManager(ctx, store, logger)
}

// newTagsCmd creates the `tags` command group.
func newTagsCmd() *cobra.Command {
	tagsCmd := &cobra.Command{
		Use:   "tags",
		Short: "Manages room tags: list, statistics, hierarchy, export and import",
	}

	tagsCmd.AddCommand(
		newTagsListCmd(),
		newTagsStatsCmd(),
		newTagsTreeCmd(),
		newTagsPromoteCmd(),
		newTagsExportCmd(),
		newTagsImportCmd(),
	)
	return tagsCmd
}

func newTagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Lists every tag grouped by category",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			for _, category := range manager.AllCategories() {
				fmt.Printf("%s %s (%s)\n", category.Icon, category.Name, category.Color)
				for _, tag := range manager.TagsByCategory(category.ID) {
					marker := " "
					if tag.IsSystem {
						marker = "*"
					}
					fmt.Printf("  %s %-30s %s\n", marker, tag.Name, tag.ID)
				}
			}
			return nil
		},
	}
}

func newTagsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Shows per-tag usage counts, most used first",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			for _, stat := range manager.TagStatistics() {
				fmt.Printf("%4d  %-30s %s\n", stat.UsageCount, stat.Tag.Name, stat.CategoryName)
			}
			return nil
		},
	}
}

func newTagsTreeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree <category-id>",
		Short: "Prints the tag hierarchy of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			category := manager.Category(args[0])
			if category == nil {
				return fmt.Errorf("category %q not found", args[0])
			}
			fmt.Printf("%s %s\n", category.Icon, category.Name)
			printTree(manager.HierarchyTree(category.ID), "  ")
			return nil
		},
	}
}

func newTagsPromoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "promote <tag-id>",
		Short: "Detaches a tag's direct children, making them category roots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			if err := manager.PromoteChildren(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Promoted the children of %s\n", args[0])
			return nil
		},
	}
}

func printTree(nodes []*tags.TagNode, indent string) {
	for _, node := range nodes {
		fmt.Printf("%s- %s\n", indent, node.Tag.Name)
		printTree(node.Children, indent+"  ")
	}
}

func newTagsExportCmd() *cobra.Command {
	var output string

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Exports the full tag store as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			raw, err := manager.ExportTags()
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Println(string(raw))
				return nil
			}
			if err := os.WriteFile(output, raw, 0o644); err != nil {
				return fmt.Errorf("failed to write export file: %w", err)
			}
			fmt.Printf("Exported tag store to %s\n", output)
			return nil
		},
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return exportCmd
}

func newTagsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merges an exported tag file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			manager, err := buildTagManager(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			if err := manager.ImportTags(cmd.Context(), payload); err != nil {
				return err
			}
			fmt.Println("Import merged.")
			return nil
		},
	}
}
