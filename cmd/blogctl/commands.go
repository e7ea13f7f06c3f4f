package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jeremyjsx/quill/internal/listing"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/spf13/cobra"
)

var readFile = os.ReadFile

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List published posts, and drafts when a key is set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := listing.Load(cmd.Context(), a.api, a.session, a.log)
			if view.Error != "" {
				return errors.New(view.Error)
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := a.api.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPost(cmd.OutOrStdout(), post)
			return nil
		},
	}
}

type writeFlags struct {
	id, title, content, tags, file string
}

func (f *writeFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "id of an existing post")
	cmd.Flags().StringVar(&f.title, "title", "", "post title")
	cmd.Flags().StringVar(&f.content, "content", "", "post content")
	cmd.Flags().StringVar(&f.tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVar(&f.file, "file", "", "read content from a file, - for stdin")
}

func (f *writeFlags) request(cmd *cobra.Command) (posts.SaveRequest, error) {
	content := f.content
	if f.file != "" {
		data, err := readContent(cmd, f.file)
		if err != nil {
			return posts.SaveRequest{}, err
		}
		content = data
	}
	return posts.SaveRequest{ID: f.id, Title: f.title, Content: content, Tags: f.tags}, nil
}

func newSaveCmd(a *app) *cobra.Command {
	var f writeFlags
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a draft, creating it when --id is omitted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			post, err := a.api.SaveDraft(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved draft %s\n", post.ID)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func newPublishCmd(a *app) *cobra.Command {
	var f writeFlags
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Publish an existing post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd)
			if err != nil {
				return err
			}
			post, err := a.api.Publish(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", post.ID)
			return nil
		},
	}
	f.bind(cmd)
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func readContent(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := readFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func printView(w io.Writer, view listing.View) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tID\tTITLE\tUPDATED")
	for _, p := range view.Published {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Status, p.ID, p.Title, p.UpdatedAt.Format(time.RFC3339))
	}
	if view.ShowDrafts {
		for _, p := range view.Drafts {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Status, p.ID, p.Title, p.UpdatedAt.Format(time.RFC3339))
		}
	}
	_ = tw.Flush()
}

func printPost(w io.Writer, p *posts.Post) {
	fmt.Fprintf(w, "%s  [%s]\n", p.Title, p.Status)
	fmt.Fprintf(w, "id: %s\n", p.ID)
	if len(p.Tags) > 0 {
		fmt.Fprintf(w, "tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Fprintf(w, "created: %s  updated: %s\n\n", p.CreatedAt.Format(time.RFC3339), p.UpdatedAt.Format(time.RFC3339))
	fmt.Fprintln(w, p.Content)
}
