package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoboard/internal/model"
	"github.com/idilsaglam/todoboard/internal/ui"
)

func (a *app) lsCmd() *cobra.Command {
	var (
		page, limit int
		group       bool
	)
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "Print one page of todos",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			b, err := a.board(client)
			if err != nil {
				return usagef(err)
			}
			if cmd.Flags().Changed("limit") {
				if _, err := b.SetPageSize(limit); err != nil {
					return usagef(err)
				}
			}
			if page < 1 || page > b.PageCount() {
				return usagef(fmt.Errorf("--page must be between 1 and %d (got %d)", b.PageCount(), page))
			}
			b.Run(cmd.Context(), b.SetPage(page))
			if err := lastError(b); err != nil {
				return err
			}

			items := b.Items()
			d, _ := model.Stats(items)
			t := ui.Current()
			lines := []string{
				ui.Header(fmt.Sprintf("Todos · page %d of %d", b.Page(), b.PageCount()), items),
				t.Muted.Render(ui.ProgressBar(d, len(items), 28)),
				"",
			}
			if group {
				lines = append(lines, ui.GroupLines(items)...)
			} else {
				lines = append(lines, ui.FlatLines(items)...)
			}
			lines = append(lines, "", t.Muted.Render("Tip: add with `todoboard add \"Buy milk\"`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number (1-based)")
	cmd.Flags().IntVar(&limit, "limit", 0, "items per page, one of board.page_size_options")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new todo (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.remote()
			if err != nil {
				return err
			}
			b, err := a.board(client)
			if err != nil {
				return usagef(err)
			}
			b.OpenCreate()
			b.SetCreateDraft(strings.Join(args, " "))
			action := b.ConfirmCreate()
			if action == nil {
				return usagef(errors.New("add: empty title"))
			}
			b.Run(cmd.Context(), action)
			if err := lastError(b); err != nil {
				return err
			}
			items := b.Items()
			it := items[len(items)-1]
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added #%d %s", it.ID, it.Title))
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <title...>",
		Short: "Change the title of a todo",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			title := strings.TrimSpace(strings.Join(args[1:], " "))
			if title == "" {
				return usagef(errors.New("edit: empty title"))
			}
			client, err := a.remote()
			if err != nil {
				return err
			}
			if err := client.Update(cmd.Context(), id, title); err != nil {
				return fmt.Errorf("edit #%d: %w", id, err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("updated #%d", id))
			return nil
		},
	}
}

func (a *app) doneCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo as completed",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.remote()
			if err != nil {
				return err
			}
			if err := client.SetCompleted(cmd.Context(), id, !undo); err != nil {
				return fmt.Errorf("done #%d: %w", id, err)
			}
			if undo {
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("marked #%d as incomplete", id))
			} else {
				ui.OK(cmd.OutOrStdout(), fmt.Sprintf("marked #%d as completed", id))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as incomplete instead")
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.remote()
			if err != nil {
				return err
			}
			b, err := a.board(client)
			if err != nil {
				return usagef(err)
			}
			b.Run(cmd.Context(), b.Delete(id))
			if err := lastError(b); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, usagef(fmt.Errorf("not a todo id: %q", s))
	}
	return id, nil
}
