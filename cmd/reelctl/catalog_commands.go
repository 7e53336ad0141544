package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	service "github.com/okian/reelrank/internal/app"
	"github.com/okian/reelrank/internal/domain/model"
	"github.com/okian/reelrank/internal/domain/types"
	"github.com/okian/reelrank/internal/probe"
)

func newRecommendCommand(ctx *commandContext) *cobra.Command {
	var q probe.Query

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show top rated titles for a language and genre",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if q.Limit < 0 {
				return fmt.Errorf("limit must be zero or positive, got %d", q.Limit)
			}
			q.Language = strings.TrimSpace(q.Language)

			var res types.Recommendations
			if ctx.local {
				err := ctx.withLocalService(cmd.Context(), func(svc *service.Service) error {
					mq := model.Query{Language: q.Language, Genre: q.Genre, Limit: q.Limit, ExcludedIDs: map[string]struct{}{}}
					for _, id := range q.Exclude {
						mq.ExcludedIDs[id] = struct{}{}
					}
					r, err := svc.Recommend(cmd.Context(), mq)
					if err != nil {
						return err
					}
					res = types.FromResult(r)
					return nil
				})
				if err != nil {
					return err
				}
			} else {
				r, err := ctx.client().Recommendations(cmd.Context(), q)
				if err != nil {
					return err
				}
				res = r
			}
			return ctx.emit(cmd, res, recommendationHeaders, recommendationRows(res), recommendationAligns)
		},
	}

	cmd.Flags().StringVarP(&q.Language, "language", "l", "en", "Language code")
	cmd.Flags().StringVarP(&q.Genre, "genre", "g", "", "Genre substring")
	cmd.Flags().StringSliceVarP(&q.Exclude, "exclude", "x", nil, "Movie ids to exclude, titles included")
	cmd.Flags().IntVarP(&q.Limit, "limit", "n", 0, "Number of results (0 uses the server default)")
	return cmd
}

var (
	recommendationHeaders = []string{"#", "Title", "Rating", "Votes", "Released", "Genres", "Sources", "ID"}
	recommendationAligns  = []columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
)

func recommendationRows(res types.Recommendations) [][]string {
	rows := make([][]string, 0, len(res.Recommendations))
	for i, m := range res.Recommendations {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.Title,
			strconv.FormatFloat(m.VoteAverage, 'f', 1, 64),
			strconv.Itoa(m.VoteCount),
			m.ReleaseDate,
			m.Genres,
			m.Sources,
			m.ID,
		})
	}
	return rows
}

func newGenresCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List genres in the servable catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var genres []string
			if ctx.local {
				if err := ctx.withLocalService(cmd.Context(), func(svc *service.Service) error {
					genres = svc.Genres(cmd.Context())
					return nil
				}); err != nil {
					return err
				}
			} else {
				g, err := ctx.client().Genres(cmd.Context())
				if err != nil {
					return err
				}
				genres = g
			}
			rows := make([][]string, 0, len(genres))
			for _, g := range genres {
				rows = append(rows, []string{g})
			}
			return ctx.emit(cmd, types.Genres{Success: true, Genres: genres}, []string{"Genre"}, rows, nil)
		},
	}
}

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var langs []model.Language
			if ctx.local {
				langs = service.New().Languages(cmd.Context())
			} else {
				l, err := ctx.client().Languages(cmd.Context())
				if err != nil {
					return err
				}
				langs = l
			}
			rows := make([][]string, 0, len(langs))
			for _, l := range langs {
				rows = append(rows, []string{l.Code, l.Name})
			}
			return ctx.emit(cmd, types.Languages{Success: true, Languages: langs}, []string{"Code", "Name"}, rows, nil)
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the server's catalog summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.client().Stats(cmd.Context())
			if err != nil {
				return err
			}
			return ctx.emit(cmd, st, []string{"Field", "Value"}, statsRows(st), []columnAlignment{alignLeft, alignRight})
		},
	}
}

func statsRows(st types.Stats) [][]string {
	rows := [][]string{
		{"ready", strconv.FormatBool(st.Ready)},
		{"built_at", st.BuiltAt},
	}
	for _, src := range model.Sources() {
		rows = append(rows, []string{"loaded." + string(src), strconv.Itoa(st.Loaded[string(src)])})
	}
	return append(rows,
		[]string{"merged", strconv.Itoa(st.Merged)},
		[]string{"servable", strconv.Itoa(st.Servable)},
		[]string{"interactions", strconv.Itoa(st.Interactions)},
	)
}

func newRebuildCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Ask the server to rebuild its catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acc, err := ctx.client().Rebuild(cmd.Context(), reason)
			if err != nil {
				return err
			}
			return ctx.emit(cmd, acc, []string{"Request", "Status"}, [][]string{{acc.ID, acc.Status}}, nil)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "reelctl", "Reason recorded with the rebuild")
	return cmd
}
