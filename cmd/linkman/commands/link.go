package commands

import (
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/linkman/internal/app"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
)

func (c *CLI) newLinkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link <library>",
		Short: "Link datablocks from a library file into the active collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collections, _ := cmd.Flags().GetStringSlice("collection")
			objects, _ := cmd.Flags().GetStringSlice("object")
			data, _ := cmd.Flags().GetStringArray("data")
			instance, _ := cmd.Flags().GetBool("instance")

			req, err := linkRequest(collections, objects, data)
			if err != nil {
				return err
			}
			req.Instance = instance
			return c.result(cmd, c.app.AddLink(cmd.Context(), args[0], req), true)
		},
	}
	cmd.Flags().StringSliceP("collection", "c", nil, "Collection to link (repeatable)")
	cmd.Flags().StringSliceP("object", "o", nil, "Object to link (repeatable)")
	cmd.Flags().StringArray("data", nil, "Other datablock to link as category=name, e.g. materials=Oak")
	cmd.Flags().Bool("instance", false, "Place collections under instancing empties")
	return cmd
}

func linkRequest(collections, objects, data []string) (app.LinkRequest, error) {
	req := app.LinkRequest{Names: make(map[domain.Category][]string)}
	add := func(cat domain.Category, names []string) {
		for _, n := range names {
			req.Names[cat] = domain.AppendUnique(req.Names[cat], n)
		}
	}
	add(domain.CategoryCollection, collections)
	add(domain.CategoryObject, objects)
	for _, d := range data {
		key, name, ok := strings.Cut(d, "=")
		if !ok || name == "" {
			return app.LinkRequest{}, zerr.With(zerr.New("expected category=name"), "data", d)
		}
		cat, err := domain.ParseCategory(key)
		if err != nil {
			return app.LinkRequest{}, zerr.With(err, "data", d)
		}
		add(cat, []string{name})
	}
	return req, nil
}
