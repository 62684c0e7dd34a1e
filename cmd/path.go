package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
)

// pageLoader builds a loader resolving paths as seen from the --from page.
func pageLoader(cmd *cobra.Command) *loader.Loader {
	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		from = "/"
	}
	res := pathresolve.NewWithSubfolder(pathresolve.Static(from), appConfig.Subfolder)
	return loader.New(registry, res, loader.WithLogger(logger))
}

var pathCmd = &cobra.Command{
	Use:   "path [deck_id] [name|id]",
	Short: "Print the image path of a card",
	Long: `Path prints the relative URL of a card image as a page of the site would
request it. Pages inside the configured subfolder get a "../" prefix.

Examples:
  tarot-today path rider-waite "Ace of Cups"
  tarot-today path miro 0 --thumb jpg --from /pages/gallery.html`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := lookupCard(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		l := pageLoader(cmd)
		var p string
		if cmd.Flags().Changed("thumb") {
			format, _ := cmd.Flags().GetString("thumb")
			p, err = l.Thumbnail(args[0], c, format)
		} else {
			p, err = l.Image(args[0], c)
		}
		if err != nil {
			return err
		}

		fmt.Println(p)
		return nil
	},
}

var pictureCmd = &cobra.Command{
	Use:   "picture [deck_id] [name|id]",
	Short: "Print the responsive <picture> markup of a card",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := lookupCard(strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		full, _ := cmd.Flags().GetBool("full")
		class, _ := cmd.Flags().GetString("class")
		loading, _ := cmd.Flags().GetString("loading")

		l := pageLoader(cmd)
		pic, err := l.ResponsiveImage(args[0], c, loader.Options{FullSize: full, Class: class, Loading: loading})
		if err != nil {
			return err
		}
		l.AddErrorHandler(pic.Img, appConfig.Placeholder)

		html, err := pic.HTML()
		if err != nil {
			return err
		}
		fmt.Println(html)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(pathCmd)
	RootCmd.AddCommand(pictureCmd)

	for _, c := range []*cobra.Command{pathCmd, pictureCmd} {
		c.Flags().String("from", "/", "Page requesting the image, e.g. /pages/gallery.html")
	}

	pathCmd.Flags().String("thumb", "", "Print the thumbnail path in this format (empty for the deck's first format)")

	pictureCmd.Flags().Bool("full", false, "Use the full-size image instead of thumbnails")
	pictureCmd.Flags().String("class", "", "CSS class of the <img>")
	pictureCmd.Flags().String("loading", "lazy", "Loading attribute of the <img>")
}
