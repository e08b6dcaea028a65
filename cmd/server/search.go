package main

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/dealscout/backend/internal/domain"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var searchUserID string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one query through the pipeline and print the JSON result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := buildApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		req := &domain.SearchRequest{Query: strings.Join(args, " "), UserID: searchUserID}
		resp, err := env.Search.Search(cmd.Context(), req)
		if err != nil && !errors.Is(err, domain.ErrAggregationEmpty) {
			return eris.Wrap(err, "search")
		}

		return writeSearchResult(cmd.OutOrStdout(), resp, err)
	},
}

// writeSearchResult prints the same shape the HTTP API answers with
func writeSearchResult(w io.Writer, resp *domain.SearchResponse, searchErr error) error {
	var out any
	switch {
	case searchErr != nil:
		out = map[string]any{"error": "no_results", "sources": resp.Sources}
	case resp.Clarification != nil:
		out = resp.Clarification
	case resp.Comparison != nil:
		out = map[string]any{
			"success":        true,
			"vertical":       resp.Classification.Vertical,
			"classification": resp.Classification,
			"results":        resp.Comparison.Results,
			"totalResults":   resp.Comparison.TotalResults,
			"bestDeal":       resp.Comparison.BestDeal,
			"averagePrice":   resp.Comparison.AveragePrice,
			"sources":        resp.Sources,
		}
	default:
		out = map[string]any{
			"success":  false,
			"vertical": resp.Classification.Vertical,
			"message":  resp.Placeholder,
			"results":  []domain.ListingResult{},
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}

func init() {
	searchCmd.Flags().StringVar(&searchUserID, "user", "", "user id recorded with the search log")
	rootCmd.AddCommand(searchCmd)
}
