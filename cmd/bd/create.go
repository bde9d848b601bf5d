package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/beads-core/beads/internal/bulkimport"
	"github.com/beads-core/beads/internal/types"
)

var (
	createPriority int
	createType     string
	createAssignee string
	createLabels   []string
	createFile     string
)

var createCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "create a new issue, or many from a markdown file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if createFile != "" {
			return createFromFile(cmd)
		}
		if len(args) == 0 {
			return cmd.Help()
		}

		issue := &types.Issue{
			Title:     args[0],
			Priority:  createPriority,
			IssueType: types.IssueType(createType),
			Labels:    createLabels,
		}
		if createAssignee != "" {
			issue.Assignee = &createAssignee
		}
		issue.CreatedBy = strPtr(resolveActor())

		created, err := st.Create(cmd.Context(), issue)
		if err != nil {
			return err
		}
		out.Line("created %s: %s", created.ID, created.Title)
		return out.Emit(created)
	},
}

func createFromFile(cmd *cobra.Command) error {
	f, err := os.Open(createFile)
	if err != nil {
		return err
	}
	defer f.Close()

	drafts, err := bulkimport.ParseMarkdown(f)
	if err != nil {
		return err
	}

	actor := resolveActor()
	created := make([]*types.Issue, 0, len(drafts))
	for _, issue := range bulkimport.ToIssues(drafts) {
		issue.CreatedBy = strPtr(actor)
		c, err := st.Create(cmd.Context(), issue)
		if err != nil {
			return err
		}
		created = append(created, c)
		out.Line("created %s: %s", c.ID, c.Title)
	}
	return out.Emit(created)
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func init() {
	createCmd.Flags().IntVar(&createPriority, "priority", 2, "priority, 0 (highest) to 4")
	createCmd.Flags().StringVar(&createType, "type", string(types.TypeTask), "issue type")
	createCmd.Flags().StringVar(&createAssignee, "assignee", "", "assignee")
	createCmd.Flags().StringArrayVar(&createLabels, "label", nil, "attach a label (repeatable)")
	createCmd.Flags().StringVar(&createFile, "file", "", "create many issues from a markdown file")
}
