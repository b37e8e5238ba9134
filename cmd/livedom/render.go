package main

import (
	"bytes"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/livedom/internal/demo"
	"github.com/vango-dev/livedom/pkg/render"
)

func renderCmd(opts *rootOptions) *cobra.Command {
	var (
		output string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "render [todo...]",
		Short: "Render the todo app as static HTML",
		Long: `Render the todo app to static HTML without starting a server.

Arguments replace the default todos.

Examples:
  livedom render
  livedom render "Buy milk" "Call mom" -o todo.html`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			page, err := demoPage(cfg.Server.Title, cfg.Server.Lang, args)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
			if err := r.RenderPage(&buf, page); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
				return err
			}
			success(cmd.ErrOrStderr(), "Wrote %s (%d bytes)", output, buf.Len())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the output")

	return cmd
}

// demoPage builds a static todo page seeded with titles, or the default
// todos when titles is empty.
func demoPage(title, lang string, titles []string) (render.PageData, error) {
	if len(titles) == 0 {
		titles = demo.DefaultSeed
	}
	doc, err := demo.Document(demo.NewStore(titles...))
	if err != nil {
		return render.PageData{}, err
	}
	return render.PageData{Doc: doc, Title: title, Lang: lang}, nil
}
