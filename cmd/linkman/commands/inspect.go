package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/linkman/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

func (c *CLI) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the linked libraries panel",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.result(cmd, c.app.List(cmd.Context(), cmd.OutOrStdout()), false)
		},
	}
}

// snapshotView is the printed form of a link snapshot.
type snapshotView struct {
	Library           string                      `yaml:"library"`
	Kind              string                      `yaml:"kind"`
	Fingerprint       string                      `yaml:"fingerprint"`
	Names             map[string][]string         `yaml:"names,omitempty"`
	InstanceNames     map[string]string           `yaml:"instance_names,omitempty"`
	LinkedCollections []string                    `yaml:"linked_collections,omitempty"`
	Transforms        map[string]domain.Transform `yaml:"transforms,omitempty"`
	Options           domain.LinkOptions          `yaml:"options"`
}

func newSnapshotView(s domain.LinkSnapshot) snapshotView {
	v := snapshotView{
		Library:           s.LibraryPath,
		Kind:              s.Kind.String(),
		Fingerprint:       fmt.Sprintf("%016x", s.Fingerprint()),
		InstanceNames:     s.InstanceNames,
		LinkedCollections: s.LinkedCollections,
		Transforms:        s.Transforms,
		Options:           s.Options,
	}
	for _, cat := range domain.Categories() {
		if names := s.NamesOf(cat); len(names) > 0 {
			if v.Names == nil {
				v.Names = make(map[string][]string)
			}
			v.Names[cat.String()] = names
		}
	}
	return v
}

func (c *CLI) newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <library>",
		Short: "Print what a library contributed to the scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, r := c.app.Snapshot(cmd.Context(), args[0])
			if !r.OK() {
				return ErrCancelled
			}
			out, err := yaml.Marshal(newSnapshotView(snap))
			if err != nil {
				return zerr.Wrap(err, "failed to encode snapshot")
			}
			_, _ = cmd.OutOrStdout().Write(out)
			return nil
		},
	}
}

func (c *CLI) newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Write the scene document back to disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.result(cmd, c.app.Save(cmd.Context()), false)
		},
	}
}

func (c *CLI) newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload libraries whose files change until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.result(cmd, c.app.Watch(cmd.Context()), false)
		},
	}
}
