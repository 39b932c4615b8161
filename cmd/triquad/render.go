package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	triquad "github.com/triquad/triquad/core"
	"github.com/triquad/triquad/render"
	"github.com/triquad/triquad/utils"
)

func (a *app) renderCmd() *cobra.Command {
	var (
		output    string
		vertices  string
		rule      string
		nodes     string
		allDir    string
		thumb     int
		size      int
		axes      bool
		nodeColor string
		edgeColor string
		fillColor string
	)

	c := &cobra.Command{
		Use:   "render",
		Short: "Draw the nodes of a rule inside a triangle",
		Example: `  triquad render --rule dunavant_7 -o dunavant_7.png
  triquad render --nodes '0.5,0;0.5,0.5;0,0.5' --axes -o - > midpoints.png
  triquad render --all plots/ --thumb 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseVertices(vertices)
			if err != nil {
				return err
			}
			opts := render.OfflineOptions()
			opts.ShowAxes = axes
			if size > 0 {
				opts.Size = size
			}
			setColor(&opts.NodeColor, nodeColor)
			setColor(&opts.EdgeColor, edgeColor)
			setColor(&opts.FillColor, fillColor)

			draw := func(r triquad.Rule) (image.Image, error) {
				img, err := render.Draw(t, r.Nodes, opts)
				if err != nil {
					return nil, err
				}
				if thumb > 0 {
					img = imaging.Fit(img, thumb, thumb, imaging.Lanczos)
				}
				return img, nil
			}

			if allDir != "" {
				return a.renderAll(cmd, allDir, draw)
			}

			r, err := a.selectRule(cmd.Context(), rule, nodes, false)
			if err != nil {
				return err
			}
			img, err := draw(r)
			if err != nil {
				return err
			}

			if output == pipeName {
				out := cmd.OutOrStdout()
				if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
					return fmt.Errorf("`-` should be used with a pipe for stdout")
				}
				return imaging.Encode(out, img, imaging.PNG)
			}

			path := withImageExt(output)
			if err := imaging.Save(img, path); err != nil {
				return fmt.Errorf("saving %s: %w", path, err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), path)
			return nil
		},
	}

	c.Flags().StringVarP(&output, "out", "o", "triquad.png", "output image (.png, .jpg), or - for stdout")
	c.Flags().StringVar(&vertices, "vertices", defaultVertices, "triangle as x1,y1,x2,y2,x3,y3")
	c.Flags().StringVarP(&rule, "rule", "r", "", "catalog rule name")
	c.Flags().StringVarP(&nodes, "nodes", "n", "", "custom nodes as l1,l2;l1,l2;...")
	c.Flags().StringVar(&allDir, "all", "", "render every catalog rule into this directory")
	c.Flags().IntVar(&thumb, "thumb", 0, "downsize the image to fit this many pixels")
	c.Flags().IntVar(&size, "size", 0, "image side in pixels")
	c.Flags().BoolVar(&axes, "axes", false, "draw grid, axes and tick labels")
	c.Flags().StringVar(&nodeColor, "node-color", "", "node colour")
	c.Flags().StringVar(&edgeColor, "edge-color", "", "edge colour")
	c.Flags().StringVar(&fillColor, "fill-color", "", "fill colour")
	return c
}

func (a *app) renderAll(cmd *cobra.Command, dir string, draw func(triquad.Rule) (image.Image, error)) error {
	c, err := a.loader().Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	start := time.Now()
	stderr := cmd.ErrOrStderr()
	spin := utils.NewSpinnerTo(stderr, "Rendering...", 100*time.Millisecond)
	if f, ok := stderr.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		spin.HideCursor()
	}
	spin.Start()

	rules := c.Rules()
	for i, r := range rules {
		spin.SetMessage(fmt.Sprintf("Rendering %d/%d %s", i+1, len(rules), r.Name))

		img, err := draw(r)
		if err == nil {
			err = imaging.Save(img, filepath.Join(dir, r.Name+".png"))
		}
		if err != nil {
			spin.Stop(fmt.Sprintf("Rendering... %s\n", utils.Colorize(utils.ErrorColor, "failed ✗")))
			return fmt.Errorf("%s: %w", r.Name, err)
		}
	}

	spin.Stop(fmt.Sprintf("Rendering... %s\n", utils.Colorize(utils.SuccessColor, "finished ✔")))
	fmt.Fprintf(stderr, "%d image(s) written to %s in %.2fs\n",
		len(rules), dir, time.Since(start).Seconds())
	return nil
}

// withImageExt appends .png unless path already names a format imaging can write.
func withImageExt(path string) string {
	if _, err := imaging.FormatFromFilename(path); err == nil {
		return path
	}
	return path + ".png"
}

func setColor(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
