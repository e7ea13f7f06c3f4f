package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jeremyjsx/quill/internal/editor"
	"github.com/jeremyjsx/quill/internal/posts"
	"github.com/jeremyjsx/quill/internal/routes"
	"github.com/spf13/cobra"
)

const editHelp = `commands:
  :title <text>    set the title
  :tags <a, b>     set the tags
  :content         replace the content; end with a line holding only "."
  :show            print the form
  :save            save the draft
  :publish         publish and leave
  :quit            leave without saving`

func newEditCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [id]",
		Short: "Open an interactive editor with auto-save",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			sess, err := editor.Open(a.session, a.api,
				editor.WithAutoSaveDelay(a.cfg.AutoSaveInterval),
				editor.WithRequestTimeout(a.cfg.RequestTimeout),
				editor.WithLogger(a.log),
				editor.WithNavigator(editor.NavigatorFunc(func(route string) {
					fmt.Fprintf(out, "-> %s\n", route)
				})),
				editor.WithOnNotify(func(n *editor.Notification) {
					if n != nil {
						fmt.Fprintf(out, "[%s] %s\n", n.Kind, n.Message)
					}
				}),
			)
			if err != nil {
				return fmt.Errorf("%w: set --key or API_KEY to edit posts", err)
			}
			defer sess.Close()

			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			if err := sess.Load(cmd.Context(), id); err != nil {
				return err
			}
			return runEditor(cmd.Context(), cmd.InOrStdin(), out, sess)
		},
	}
}

// runEditor drives sess from line commands until :quit, :publish or EOF.
func runEditor(ctx context.Context, in io.Reader, out io.Writer, sess *editor.Session) error {
	route := routes.New
	if id := sess.State().ID; id != "" {
		route = routes.Edit(id)
	}
	fmt.Fprintf(out, "editing %s\n%s\n", route, editHelp)

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := sc.Text()
		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")

		switch cmd {
		case "":
		case ":title":
			sess.Edit(editor.FieldTitle, arg)
		case ":tags":
			sess.Edit(editor.FieldTags, arg)
		case ":content":
			var b strings.Builder
			for sc.Scan() && sc.Text() != "." {
				b.WriteString(sc.Text())
				b.WriteByte('\n')
			}
			sess.Edit(editor.FieldContent, strings.TrimRight(b.String(), "\n"))
		case ":show":
			printState(out, sess.State())
		case ":save":
			if err := sess.Save(ctx); err != nil {
				reportError(out, err)
			}
		case ":publish":
			err := sess.Publish(ctx)
			if err == nil {
				return nil
			}
			reportError(out, err)
		case ":quit":
			if sess.State().Dirty {
				fmt.Fprintln(out, "leaving with unsaved changes")
			}
			return nil
		default:
			fmt.Fprintln(out, editHelp)
		}
	}
	return sc.Err()
}

func reportError(out io.Writer, err error) {
	var ve *posts.ValidationError
	switch {
	case errors.As(err, &ve):
		for field, msg := range ve.Fields {
			fmt.Fprintf(out, "  %s: %s\n", field, msg)
		}
	case errors.Is(err, editor.ErrBusy):
		fmt.Fprintln(out, "a save is already running")
	}
}

func printState(out io.Writer, st editor.State) {
	id := st.ID
	if id == "" {
		id = "(unsaved)"
	}
	fmt.Fprintf(out, "id: %s  dirty: %t  words: %d\n", id, st.Dirty, st.WordCount)
	if !st.LastSaved.IsZero() {
		fmt.Fprintf(out, "last saved: %s\n", st.LastSaved.Format("15:04:05"))
	}
	fmt.Fprintf(out, "title: %s\ntags: %s\n---\n%s\n---\n", st.Form.Title, st.Form.Tags, st.Form.Content)
	if st.Error != "" {
		fmt.Fprintf(out, "error: %s\n", st.Error)
	}
}
