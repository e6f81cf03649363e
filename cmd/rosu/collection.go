package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/rosu-bridge/collection"
	"github.com/wippyai/rosu-bridge/wire"
)

func newCollectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   "Inspect and edit collection.db files",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <collection.db>",
			Short: "List collections",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.showCollections(args[0])
			},
		},
		newCollectionNewCmd(a),
		&cobra.Command{
			Use:   "add <collection.db> <name> [hash...]",
			Short: "Add a collection",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				name := args[1]
				hashes := make([]*string, 0, len(args)-2)
				for i := range args[2:] {
					hashes = append(hashes, &args[2+i])
				}
				return a.editCollections(args[0], func(list uint64) []byte {
					return a.bridge.ListAddCollection(list, &name, collection.EncodeHashes(hashes))
				})
			},
		},
		&cobra.Command{
			Use:   "remove <collection.db> <index>",
			Short: "Remove a collection",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				index, err := parseIndex(args[1])
				if err != nil {
					return err
				}
				return a.editCollections(args[0], func(list uint64) []byte {
					return a.bridge.ListRemove(list, index)
				})
			},
		},
		&cobra.Command{
			Use:   "rename <collection.db> <index> <name>",
			Short: "Rename a collection",
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				index, err := parseIndex(args[1])
				if err != nil {
					return err
				}
				return a.editCollections(args[0], func(list uint64) []byte {
					return a.bridge.ListSetName(list, index, &args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "append-hash <collection.db> <index> <hash...>",
			Short: "Append beatmap hashes to a collection",
			Args:  cobra.MinimumNArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				index, err := parseIndex(args[1])
				if err != nil {
					return err
				}
				hashes := make([]*string, 0, len(args)-2)
				for i := range args[2:] {
					hashes = append(hashes, &args[2+i])
				}
				return a.editCollections(args[0], func(list uint64) []byte {
					return a.bridge.ListAddHashes(list, index, collection.EncodeHashes(hashes))
				})
			},
		},
		&cobra.Command{
			Use:   "remove-hash <collection.db> <index> <hash-index>",
			Short: "Remove a beatmap hash from a collection",
			Args:  cobra.ExactArgs(3),
			RunE: func(_ *cobra.Command, args []string) error {
				index, err := parseIndex(args[1])
				if err != nil {
					return err
				}
				at, err := parseIndex(args[2])
				if err != nil {
					return err
				}
				return a.editCollections(args[0], func(list uint64) []byte {
					return a.bridge.ListRemoveHash(list, index, at)
				})
			},
		},
	)
	return cmd
}

func newCollectionNewCmd(a *app) *cobra.Command {
	var version uint32
	cmd := &cobra.Command{
		Use:   "new <collection.db>",
		Short: "Create an empty collection.db",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("version") {
				version = a.v.GetUint32("collection.version")
			}
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("%s already exists", args[0])
			}
			list, err := wire.DecodeHandle(a.bridge.ListNew(version))
			if err != nil {
				return err
			}
			defer a.bridge.ListRelease(list)
			return a.saveCollections(args[0], list)
		},
	}
	cmd.Flags().Uint32Var(&version, "version", 0, "collection.db version (0 is the current one)")
	return cmd
}

func parseIndex(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return int32(v), nil
}

// loadCollections loads path into a new list handle.
func (a *app) loadCollections(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return wire.DecodeHandle(a.bridge.ListLoad(data))
}

func (a *app) saveCollections(path string, list uint64) error {
	data, err := wire.Payload(a.bridge.ListWrite(list))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	a.log.Info("collection.db written",
		zap.String("path", path),
		zap.String("size", humanize.Bytes(uint64(len(data)))))
	return nil
}

// editCollections loads path, applies fn and writes the result back when fn
// succeeds.
func (a *app) editCollections(path string, fn func(list uint64) []byte) error {
	list, err := a.loadCollections(path)
	if err != nil {
		return err
	}
	defer a.bridge.ListRelease(list)

	if _, err := wire.Payload(fn(list)); err != nil {
		return err
	}
	return a.saveCollections(path, list)
}

func (a *app) showCollections(path string) error {
	list, err := a.loadCollections(path)
	if err != nil {
		return err
	}
	defer a.bridge.ListRelease(list)

	snap, err := wire.Payload(a.bridge.ListRead(list))
	if err != nil {
		return err
	}
	l, err := collection.ReadSnapshot(snap)
	if err != nil {
		return err
	}

	t := tablewriter.NewWriter(a.out)
	t.SetHeader([]string{"#", "Name", "Beatmaps"})
	for i, c := range l.Collections {
		name := "<none>"
		if c.Name != nil {
			name = *c.Name
		}
		t.Append([]string{strconv.Itoa(i), name, humanize.Comma(int64(c.Len()))})
	}
	t.SetFooter([]string{"", "total", humanize.Comma(int64(l.HashCount()))})
	t.Render()
	fmt.Fprintf(a.out, "version %d\n", l.Version)
	return nil
}
