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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/pkg/timeline"
)

const (
	mediaPlayFromKey = "media.play.from"
	mediaPlayTickKey = "media.play.tick"
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Play or inspect media items on a running server",
}

var mediaPlayCmd = &cobra.Command{
	Use:   "play <id>",
	Short: "Follow a media item in real time, printing each active line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api, _, err := newAPIClient()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		item, err := api.GetMedia(ctx, args[0])
		if err != nil {
			return err
		}
		from := viper.GetFloat64(mediaPlayFromKey)
		end := trackEnd(item.Tracks)
		if from >= end {
			return fmt.Errorf("media %s ends at %.2fs", item.ID, end)
		}

		clock := timeline.NewTickerClock(from, viper.GetDuration(mediaPlayTickKey))
		cancel := timeline.Follow[entity.Resolution](clock, item.Tracks.Resolve, func(r entity.Resolution) {
			printResolution(cmd.OutOrStdout(), clock.CurrentTime(), r)
		})
		defer cancel()

		playCtx, done := context.WithTimeout(ctx, time.Duration((end-from)*float64(time.Second)))
		defer done()
		clock.Run(playCtx)
		return nil
	},
}

var mediaResolveCmd = &cobra.Command{
	Use:   "resolve <id> <seconds>",
	Short: "Show the active lines of every track at one instant",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid position %q: %w", args[1], err)
		}
		api, _, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := api.ResolvePosition(commandContext(cmd), args[0], at)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "original:        %s\n", resp.Original.Text)
		fmt.Fprintf(out, "translation:     %s\n", resp.Translation.Text)
		fmt.Fprintf(out, "transliteration: %s\n", resp.Transliteration.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaPlayCmd, mediaResolveCmd)

	mediaPlayCmd.Flags().Float64("from", 0, "start position in seconds")
	mediaPlayCmd.Flags().Duration("tick", timeline.DefaultTickInterval, "clock update interval")

	bindFlagToViper(mediaPlayFromKey, mediaPlayCmd.Flags().Lookup("from"))
	bindFlagToViper(mediaPlayTickKey, mediaPlayCmd.Flags().Lookup("tick"))
}

func trackEnd(t entity.Tracks) float64 {
	return lo.Max(lo.FlatMap(entity.TrackKinds, func(kind entity.TrackKind, _ int) []float64 {
		return lo.Map(t.Track(kind), func(s entity.Sentence, _ int) float64 { return s.End })
	}))
}

// printResolution writes one line per change; the active word of the
// original track is bracketed.
func printResolution(w io.Writer, at float64, r entity.Resolution) {
	fmt.Fprintf(w, "[%s] %s | %s | %s\n",
		formatPosition(at),
		highlightWord(r.Original, r.Text(entity.TrackOriginal)),
		r.Text(entity.TrackTranslation),
		r.Text(entity.TrackTransliteration),
	)
}

func highlightWord(seg entity.ActiveSegment, text string) string {
	if seg.Word == nil || seg.Word.Text == "" {
		return text
	}
	return strings.Replace(text, seg.Word.Text, "["+seg.Word.Text+"]", 1)
}

func formatPosition(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return fmt.Sprintf("%02d:%04.1f", int(d.Minutes()), seconds-float64(int(d.Minutes())*60))
}
