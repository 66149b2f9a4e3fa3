/*
Copyright © 2025 Ambor <saltbo@foxmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eslsoft/lingocast/internal/app"
	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/infrastructure/database"
	"github.com/eslsoft/lingocast/pkg/timeline"
)

const (
	contentImportRemoteKey = "content.import.remote"
	contentImportFormatKey = "content.import.format"
	contentListKindKey     = "content.list.kind"
	contentListPageKey     = "content.list.page"
	contentListSizeKey     = "content.list.page_size"
)

// contentDocument is the file format accepted by content import.
type contentDocument struct {
	Media   []entity.MediaItem `json:"media" yaml:"media"`
	Lessons []entity.Lesson    `json:"lessons" yaml:"lessons"`
}

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the media and lesson catalogue",
}

var contentImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import media items and lessons from a YAML or JSON file",
	Long: `Reads a document with top-level "media" and "lessons" lists. The file
format follows the extension (.json, .yaml, .yml) unless --format is set; use
- to read stdin. Every item is validated before anything is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		reader, closeInput, err := openInput(cmd, args[0], false)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := closeInput(); cerr != nil && err == nil {
				err = cerr
			}
		}()

		format := viper.GetString(contentImportFormatKey)
		if format == "" {
			format = formatFromPath(args[0])
		}
		doc, err := decodeContentDocument(reader, format)
		if err != nil {
			return err
		}
		if err := doc.validate(time.Now()); err != nil {
			return err
		}

		if viper.GetBool(contentImportRemoteKey) {
			return importContentRemote(cmd, doc)
		}
		return importContentLocal(cmd, doc)
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the catalogue of a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPIClient()
		if err != nil {
			return err
		}
		items, total, err := api.ListMedia(commandContext(cmd),
			entity.ParseMediaKind(viper.GetString(contentListKindKey)),
			viper.GetInt32(contentListPageKey),
			viper.GetInt32(contentListSizeKey),
		)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tLANGUAGE\tSENTENCES\tTITLE")
		for _, item := range items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", item.ID, item.Kind, item.Language, item.SentenceCount, item.Title)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		cmd.PrintErrf("%d of %d items\n", len(items), total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)
	contentCmd.AddCommand(contentImportCmd, contentListCmd)

	contentImportCmd.Flags().Bool("remote", false, "import media through the API of a running server")
	contentImportCmd.Flags().String("format", "", "input format: yaml or json")
	contentListCmd.Flags().String("kind", "", "only list this kind (audio_lesson, video, song)")
	contentListCmd.Flags().Int32("page", 1, "page number")
	contentListCmd.Flags().Int32("page-size", 20, "items per page")

	bindFlagToViper(contentImportRemoteKey, contentImportCmd.Flags().Lookup("remote"))
	bindFlagToViper(contentImportFormatKey, contentImportCmd.Flags().Lookup("format"))
	bindFlagToViper(contentListKindKey, contentListCmd.Flags().Lookup("kind"))
	bindFlagToViper(contentListPageKey, contentListCmd.Flags().Lookup("page"))
	bindFlagToViper(contentListSizeKey, contentListCmd.Flags().Lookup("page-size"))
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

func decodeContentDocument(r io.Reader, format string) (*contentDocument, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	var doc contentDocument
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode json content: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml content: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported content format %q", format)
	}
	if len(doc.Media) == 0 && len(doc.Lessons) == 0 {
		return nil, errors.New("content file holds no media or lessons")
	}
	return &doc, nil
}

// validate checks every item on a normalized copy, so a bad item aborts the
// import before the first write.
func (d *contentDocument) validate(now time.Time) error {
	mediaIDs := make(map[string]struct{})
	sentenceOwner := make(map[string]string)
	for i := range d.Media {
		m := d.Media[i]
		mediaID := strings.TrimSpace(m.ID)
		if _, dup := mediaIDs[mediaID]; dup {
			return fmt.Errorf("media %d: duplicate media id %q", i, mediaID)
		}
		mediaIDs[mediaID] = struct{}{}
		for _, kind := range entity.TrackKinds {
			for _, sentence := range m.Tracks.Track(kind) {
				id := strings.TrimSpace(sentence.ID)
				if owner, dup := sentenceOwner[id]; dup && owner != mediaID {
					return fmt.Errorf("media %d (%q): sentence id %q already used by media %q", i, mediaID, id, owner)
				}
				sentenceOwner[id] = mediaID
			}
		}
		m.Tracks = entity.Tracks{
			Original:        append([]entity.Sentence(nil), m.Tracks.Original...),
			Translation:     append([]entity.Sentence(nil), m.Tracks.Translation...),
			Transliteration: append([]entity.Sentence(nil), m.Tracks.Transliteration...),
		}
		m.Normalize(now)
		if err := m.Validate(); err != nil {
			return fmt.Errorf("media %d (%q): %w", i, d.Media[i].ID, err)
		}
	}
	lessonIDs := make(map[string]struct{})
	for i := range d.Lessons {
		l := d.Lessons[i]
		lessonID := strings.TrimSpace(l.ID)
		if _, dup := lessonIDs[lessonID]; dup {
			return fmt.Errorf("lesson %d: duplicate lesson id %q", i, lessonID)
		}
		lessonIDs[lessonID] = struct{}{}
		l.Questions = append([]entity.Question(nil), l.Questions...)
		l.Normalize(now)
		if err := l.Validate(); err != nil {
			return fmt.Errorf("lesson %d (%q): %w", i, d.Lessons[i].ID, err)
		}
	}
	return nil
}

func importContentLocal(cmd *cobra.Command, doc *contentDocument) error {
	ctx := commandContext(cmd)
	container, cleanup, err := app.Initialize()
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer cleanup()
	if err := database.Migrate(ctx, container.Driver); err != nil {
		return err
	}

	for i := range doc.Media {
		item, err := container.Content.ImportMedia(ctx, &doc.Media[i])
		if err != nil {
			return fmt.Errorf("import media %q: %w", doc.Media[i].ID, err)
		}
		cmd.Println(importSummary(item))
	}
	for i := range doc.Lessons {
		lesson, err := container.Lessons.ImportLesson(ctx, &doc.Lessons[i])
		if err != nil {
			return fmt.Errorf("import lesson %q: %w", doc.Lessons[i].ID, err)
		}
		cmd.Printf("lesson %s imported (%d questions)\n", lesson.ID, len(lesson.Questions))
	}
	return nil
}

func importContentRemote(cmd *cobra.Command, doc *contentDocument) error {
	if len(doc.Lessons) > 0 {
		return errors.New("lessons can only be imported into the database directly; drop --remote")
	}
	api, _, err := newAPIClient()
	if err != nil {
		return err
	}
	for i := range doc.Media {
		item, err := api.ImportMedia(commandContext(cmd), &doc.Media[i])
		if err != nil {
			return fmt.Errorf("import media %q: %w", doc.Media[i].ID, err)
		}
		cmd.Println(importSummary(item))
	}
	return nil
}

// importSummary reports the sentence count and the untimed stretches of the
// original track, which play without any active sentence.
func importSummary(item *entity.MediaItem) string {
	gaps := timeline.Gaps(item.Tracks.Original)
	if len(gaps) == 0 {
		return fmt.Sprintf("media %s imported (%d sentences)", item.ID, len(item.Tracks.Original))
	}
	silent := lo.SumBy(gaps, func(g timeline.Interval) float64 { return g.End - g.Start })
	return fmt.Sprintf("media %s imported (%d sentences, gaps=%d untimed=%.1fs)", item.ID, len(item.Tracks.Original), len(gaps), silent)
}
