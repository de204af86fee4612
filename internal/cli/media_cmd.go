package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/scormbuilder/internal/cli/formatter"
	"github.com/alexanderramin/scormbuilder/internal/domain"
	"github.com/alexanderramin/scormbuilder/internal/repository"
	"github.com/alexanderramin/scormbuilder/internal/scorm"
	"github.com/alexanderramin/scormbuilder/internal/service"
	"github.com/spf13/cobra"
)

// maxMediaFile bounds a single uploaded media file.
const maxMediaFile = 256 << 20

func newMediaCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "media",
		Short: "Step 4: attach images and videos to pages",
	}
	cmd.AddCommand(
		newMediaAddCmd(app),
		newMediaRemoveCmd(app),
		newMediaListCmd(app),
	)
	return cmd
}

func isURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func newMediaAddCmd(app *App) *cobra.Command {
	var (
		title     string
		mediaType string
		clipStart int
		clipEnd   int
		embedURL  string
	)

	cmd := &cobra.Command{
		Use:   "add <page> <file|url>",
		Short: "Add a media file or an external image/video URL to a page",
		Example: `  scormbuilder media add welcome ./banner.png
  scormbuilder media add topic-0 https://youtu.be/dQw4w9WgXcQ --start 30 --end 90`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pageID, src := args[0], args[1]

			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			if err := requireStep(acc, domain.StepMedia); err != nil {
				return err
			}

			var added *domain.Media
			if isURL(src) {
				m := domain.Media{
					Type:     domain.MediaType(strings.ToLower(mediaType)),
					URL:      src,
					EmbedURL: embedURL,
					Title:    domain.CoalesceStr(title, src),
				}
				if m.Type == "" {
					m.Type = domain.MediaImage
					if scorm.IsYouTube(src) {
						m.Type = domain.MediaVideo
					}
				}
				if cmd.Flags().Changed("start") {
					m.ClipStart = &clipStart
				}
				if cmd.Flags().Changed("end") {
					m.ClipEnd = &clipEnd
				}
				added, err = app.Media.AddExternal(ctx, acc, pageID, m)
			} else {
				info, statErr := os.Stat(src)
				if statErr != nil {
					return statErr
				}
				if info.Size() > maxMediaFile {
					return fmt.Errorf("%s is larger than %s", src, formatter.Size(maxMediaFile))
				}
				data, readErr := os.ReadFile(src)
				if readErr != nil {
					return readErr
				}
				added, err = app.Media.AddFile(ctx, acc, service.AddMediaRequest{
					PageID:   pageID,
					FileName: filepath.Base(src),
					Title:    title,
					Data:     data,
				})
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Added %s %q to %s %s", added.Type, added.Title, pageID, formatter.Dim(added.ID))))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&title, "title", "", "Display title (default: file name)")
	f.StringVar(&mediaType, "type", "", "Type of an external URL: image or video (default: video for YouTube, else image)")
	f.IntVar(&clipStart, "start", 0, "Video clip start in seconds")
	f.IntVar(&clipEnd, "end", 0, "Video clip end in seconds")
	f.StringVar(&embedURL, "embed-url", "", "Explicit embed URL for a video")
	return cmd
}

func newMediaRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "remove <page> <media-id>",
		Aliases: []string{"rm"},
		Short:   "Remove media from a page; the stored file is deleted when unused",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pageID, ref := args[0], args[1]

			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			st := acc.State()
			if st.Content == nil {
				return service.ErrNoContent
			}
			owner := st.Content.MediaOwner(pageID)
			if owner == nil {
				return fmt.Errorf("unknown page %q (pages: %s)", pageID, strings.Join(st.Content.PageIDs(), ", "))
			}
			id, err := matchMediaID(*owner, ref)
			if err != nil {
				return err
			}
			ok, err := app.confirmAction(yes, "remove media "+id, fmt.Sprintf("Remove %s from %s?", id, pageID), "Remove")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
				return nil
			}
			if err := app.Media.Remove(ctx, acc, pageID, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.Success(fmt.Sprintf("Removed %s from %s", id, pageID)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Remove without asking")
	return cmd
}

// matchMediaID resolves an exact id or a unique id prefix.
func matchMediaID(media []domain.Media, ref string) (string, error) {
	var matches []string
	for _, m := range media {
		if m.ID == ref {
			return m.ID, nil
		}
		if strings.HasPrefix(m.ID, ref) {
			matches = append(matches, m.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("media %q %w", ref, repository.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("media id prefix %q is ambiguous (%d matches)", ref, len(matches))
	}
}

func newMediaListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored media files by page",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			acc, err := app.openCourse(ctx)
			if err != nil {
				return err
			}
			blobs, err := app.Media.List(ctx, acc.ProjectID())
			if err != nil {
				return err
			}
			var pages []string
			if c := acc.State().Content; c != nil {
				pages = c.PageIDs()
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatMediaList(blobs, pages))
			if len(blobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}
