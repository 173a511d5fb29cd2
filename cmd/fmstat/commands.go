package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/starford/fmstat/internal"
	"github.com/starford/fmstat/internal/noteservice"
	"github.com/starford/fmstat/internal/render"
	"github.com/starford/fmstat/internal/value"
)

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "Output format (table, yaml)",
		Value: string(render.FormatTable),
	}
}

func attributeFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "attribute",
		Usage:    "Attribute to query",
		Required: true,
	}
}

func hubAttributeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "parent-attribute",
			Usage:       "Frontmatter attribute holding the parent hub",
			DefaultText: "hubs.parent_attribute",
		},
		&cli.StringFlag{
			Name:        "refs-attribute",
			Usage:       "Frontmatter attribute holding the refs list",
			DefaultText: "hubs.refs_attribute",
		},
	}
}

func limitFlag(name, usage string) cli.Flag {
	return &cli.IntFlag{
		Name:  name,
		Usage: usage + " (0 for no limit)",
	}
}

// scanVault loads the configuration and indexes the vault once.
func scanVault(ctx context.Context, cmd *cli.Command) (*noteservice.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return internal.Scan(ctx, cfg, internal.NewLogger(cfg.App.LogLevel))
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Show how many notes carry each frontmatter attribute",
		Flags:  []cli.Flag{formatFlag()},
		Action: runStats,
	}
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := scanVault(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer

	st := svc.Stats(ctx)
	if len(st.Attributes) == 0 {
		_, err := fmt.Fprintln(w, "No frontmatter attributes found.")
		return err
	}

	if format == render.FormatYAML {
		attrs := make([]value.Pair, len(st.Attributes))
		for i, a := range st.Attributes {
			attrs[i] = value.P(a.Name, value.Int(a.Count))
		}
		return render.YAML(w, value.Mapping(
			value.P("total_files", value.Int(st.TotalNotes)),
			value.P("files_with_frontmatter", value.Int(st.WithFrontmatter)),
			value.P("attributes", value.Mapping(attrs...)),
		))
	}

	rows := make([][]string, len(st.Attributes))
	for i, a := range st.Attributes {
		rows[i] = []string{a.Name, strconv.Itoa(a.Count)}
	}
	if _, err := fmt.Fprintf(w, "Total files: %d\nFiles with frontmatter: %d\n\n", st.TotalNotes, st.WithFrontmatter); err != nil {
		return err
	}
	return render.Table(w, "Frontmatter Attribute Statistics", []string{"Attribute", "Count"}, rows)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List notes and values for an attribute",
		Flags: []cli.Flag{
			attributeFlag(),
			&cli.StringFlag{
				Name:  "value",
				Usage: "Only list notes whose attribute equals or contains this value",
			},
			limitFlag("limit", "Max notes when filtering by value"),
			limitFlag("limit-values", "Max attribute values to show"),
			limitFlag("limit-notes", "Max notes to show per value"),
		},
		Action: runList,
	}
}

func runList(ctx context.Context, cmd *cli.Command) error {
	svc, err := scanVault(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	attr := cmd.String("attribute")

	if cmd.IsSet("value") {
		raw := cmd.String("value")
		want := value.String(raw)
		notes := svc.Notes(ctx, attr, &want, int(cmd.Int("limit")))
		if len(notes) == 0 {
			_, err := fmt.Fprintf(w, "No notes found with %s=%s\n", attr, raw)
			return err
		}
		if _, err := fmt.Fprintf(w, "%s (Total: %d)\n\n", render.TitleStyle.Render(fmt.Sprintf("Notes with %s=%s", attr, raw)), len(notes)); err != nil {
			return err
		}
		return writeNotes(w, notes)
	}

	limitNotes := int(cmd.Int("limit-notes"))
	groups := svc.Groups(ctx, attr, int(cmd.Int("limit-values")), limitNotes)
	if len(groups) == 0 {
		_, err := fmt.Fprintf(w, "No values found for attribute '%s'\n", attr)
		return err
	}
	if _, err := fmt.Fprintln(w, render.TitleStyle.Render(fmt.Sprintf("Values for attribute '%s'", attr))); err != nil {
		return err
	}
	for _, g := range groups {
		if _, err := fmt.Fprintf(w, "\n%s (%d notes):\n", g.Value, g.Count); err != nil {
			return err
		}
		if err := writeNotes(w, g.Notes); err != nil {
			return err
		}
		if limitNotes > 0 && g.Count > limitNotes {
			if err := render.Note(w, "  ... and %d more", g.Count-limitNotes); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeNotes(w io.Writer, paths []string) error {
	for _, p := range paths {
		if _, err := fmt.Fprintf(w, "  - %s\n", p); err != nil {
			return err
		}
	}
	return nil
}

func valuesCommand() *cli.Command {
	return &cli.Command{
		Name:  "values",
		Usage: "Count the distinct values of an attribute",
		Flags: []cli.Flag{
			attributeFlag(),
			limitFlag("limit", "Max values to show"),
			&cli.BoolFlag{
				Name:  "explode-list",
				Usage: "Count each element of a list value separately (e.g. refs, tags)",
			},
			formatFlag(),
		},
		Action: runValues,
	}
}

func runValues(ctx context.Context, cmd *cli.Command) error {
	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := scanVault(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	attr := cmd.String("attribute")

	vals := svc.Values(ctx, attr, int(cmd.Int("limit")), cmd.Bool("explode-list"))
	if len(vals) == 0 {
		_, err := fmt.Fprintf(w, "No values found for attribute '%s'\n", attr)
		return err
	}
	if format == render.FormatYAML {
		return render.YAML(w, vals)
	}

	rows := make([][]string, len(vals))
	for i, v := range vals {
		rows[i] = []string{v.Value.String(), strconv.Itoa(v.Count)}
	}
	return render.Table(w, fmt.Sprintf("Values for '%s'", attr), []string{"Value", "Count"}, rows)
}

func childCountCommand() *cli.Command {
	return &cli.Command{
		Name:  "child-count",
		Usage: "Print the combined child count (parent + refs) of a hub as a single integer",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "hub",
				Usage:    `Hub value exactly as stored, e.g. "[[Learn]]"`,
				Required: true,
			},
		}, hubAttributeFlags()...),
		Action: runChildCount,
	}
}

func runChildCount(ctx context.Context, cmd *cli.Command) error {
	svc, err := scanVault(ctx, cmd)
	if err != nil {
		return err
	}
	n := svc.ChildCount(ctx, value.String(cmd.String("hub")),
		cmd.String("parent-attribute"), cmd.String("refs-attribute"))
	_, err = fmt.Fprintln(cmd.Root().Writer, n)
	return err
}

func hubsCommand() *cli.Command {
	return &cli.Command{
		Name:  "hubs",
		Usage: "Show the child count breakdown of every hub",
		Flags: append(hubAttributeFlags(),
			limitFlag("limit", "Max hubs to show"),
			formatFlag(),
		),
		Action: runHubs,
	}
}

func runHubs(ctx context.Context, cmd *cli.Command) error {
	format, err := render.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	svc, err := scanVault(ctx, cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer

	hubs := svc.Hubs(ctx, cmd.String("parent-attribute"), cmd.String("refs-attribute"), int(cmd.Int("limit")))
	if len(hubs) == 0 {
		_, err := fmt.Fprintln(w, "No hubs found.")
		return err
	}
	if format == render.FormatYAML {
		return render.YAML(w, hubs)
	}

	rows := make([][]string, len(hubs))
	for i, h := range hubs {
		rows[i] = []string{h.Hub.String(), strconv.Itoa(h.Parent), strconv.Itoa(h.Refs), strconv.Itoa(h.Total)}
	}
	return render.Table(w, "Hub Child Counts", []string{"Hub", "Parent", "Refs", "Total"}, rows)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Scan the vault once and serve the read-only HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "port",
				Usage:       "HTTP port, overrides app.http.port",
				DefaultText: "app.http.port",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.IsSet("port") {
				cfg.App.HTTP.Port = int(cmd.Int("port"))
				if err := cfg.App.Validate(); err != nil {
					return fmt.Errorf("config validation failed: %w", err)
				}
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Scan the vault once and serve MCP tools over stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return internal.RunMCP(ctx, internal.WithConfig(cfg), internal.WithVersion(version))
		},
	}
}
