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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingocast/internal/client"
	"github.com/eslsoft/lingocast/internal/entity"
)

const (
	bookmarkKindKey     = "bookmark.list.kind"
	bookmarkScopeKey    = "bookmark.list.scope"
	bookmarkLanguageKey = "bookmark.language"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark",
	Short: "List and toggle bookmarks on a running server",
}

var bookmarkListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your bookmarks of one kind",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		lang := entity.ParseLanguage(viper.GetString(bookmarkLanguageKey))
		scope := viper.GetString(bookmarkScopeKey)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		switch kind := entity.BookmarkKind(strings.ToLower(viper.GetString(bookmarkKindKey))); kind {
		case entity.BookmarkKindQuestion:
			store := api.QuestionBookmarks(lang, scope)
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tLESSON\tQUESTION\tPROMPT")
			for _, b := range store.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.LessonID, b.QuestionID, b.Prompt)
			}
		case entity.BookmarkKindSubtitle:
			store := api.SubtitleBookmarks(lang, scope)
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			writeSentenceGroups(w, store.Items(), func(b entity.SubtitleBookmark) (string, entity.SentenceGroup) { return b.ID, b.SentenceGroup })
		case entity.BookmarkKindLyric:
			store := api.LyricBookmarks(lang, scope)
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			writeSentenceGroups(w, store.Items(), func(b entity.LyricBookmark) (string, entity.SentenceGroup) { return b.ID, b.SentenceGroup })
		case entity.BookmarkKindReading:
			store := api.ReadingBookmarks(lang, scope)
			if err := store.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintln(w, "ID\tBOOK\tSENTENCE\tTEXT")
			for _, b := range store.Items() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.BookID, b.SentenceID, b.SentenceText)
			}
		default:
			return fmt.Errorf("unknown bookmark kind %q (question, subtitle, lyric, reading)", kind)
		}
		return w.Flush()
	},
}

var bookmarkToggleQuestionCmd = &cobra.Command{
	Use:   "toggle-question <lesson-id> <question-id>",
	Short: "Save a lesson question, or remove it when already saved",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx := commandContext(cmd)
		lang := entity.ParseLanguage(viper.GetString(bookmarkLanguageKey))
		if lang == entity.LanguageUnspecified {
			return fmt.Errorf("set --language to the lesson language")
		}

		store := api.QuestionBookmarks(lang, args[0])
		if err := store.Refresh(ctx); err != nil {
			return err
		}
		candidate := entity.QuestionBookmark{LessonID: args[0], QuestionID: args[1], Language: lang}
		created, err := store.Toggle(ctx, candidate)
		if err != nil {
			return err
		}
		if created {
			saved, _ := store.Find(candidate)
			cmd.Printf("saved question %s as %s\n", args[1], saved.ID)
		} else {
			cmd.Printf("removed question %s\n", args[1])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
	bookmarkCmd.AddCommand(bookmarkListCmd, bookmarkToggleQuestionCmd)

	bookmarkCmd.PersistentFlags().String("language", "", "bookmark language code")
	bookmarkListCmd.Flags().String("kind", string(entity.BookmarkKindQuestion), "question, subtitle, lyric or reading")
	bookmarkListCmd.Flags().String("scope", "", "lesson, media or book id")

	bindFlagToViper(bookmarkLanguageKey, bookmarkCmd.PersistentFlags().Lookup("language"))
	bindFlagToViper(bookmarkKindKey, bookmarkListCmd.Flags().Lookup("kind"))
	bindFlagToViper(bookmarkScopeKey, bookmarkListCmd.Flags().Lookup("scope"))
}

func writeSentenceGroups[B client.Bookmark[B]](w io.Writer, items []B, group func(B) (string, entity.SentenceGroup)) {
	fmt.Fprintln(w, "ID\tMEDIA\tSENTENCES\tSPAN\tTEXT")
	for _, b := range items {
		id, g := group(b)
		texts := make([]string, 0, len(g.Sentences))
		for _, s := range g.Sentences {
			texts = append(texts, s.Text)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f-%.2f\t%s\n", id, g.MediaID, strings.Join(g.SentenceIDs, ","), g.Start, g.End, strings.Join(texts, " / "))
	}
}
