package main

import (
	"context"
	"fmt"

	"github.com/dpup/prefab"
	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
	"github.com/spf13/cobra"

	"github.com/dpup/mapmeasure/internal/config"
	"github.com/dpup/mapmeasure/internal/lib/geo"
	"github.com/dpup/mapmeasure/internal/lib/geodesic"
	"github.com/dpup/mapmeasure/internal/lib/picking"
)

func main() {
	cobra.CheckErr(newRootCmd().ExecuteContext(logging.EnsureLogger(context.Background())))
}

func newRootCmd() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "measure [command] [flags]",
		Short:         "measure inspects geodesic measurements of paths drawn on a Web Mercator map",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Print(cmd.UsageString())
		},
	}
	rootCmd.PersistentFlags().StringArrayP("path", "p", nil, "`<x,y;x,y;...>` projected path, repeatable")
	rootCmd.PersistentFlags().StringArray("polyline", nil, "`<encoded>` lat/lng polyline, repeatable")
	rootCmd.PersistentFlags().StringP("output", "o", "", "`<format>` table, geojson, kml or polyline")
	rootCmd.PersistentFlags().Float64P("resolution", "r", 0, "`<units>` projected units per pixel")
	rootCmd.PersistentFlags().Float64("step", 0, "`<meters>` distance between resampled vertices")
	rootCmd.PersistentFlags().String("bearing", "", "`<reference>` true or grid")

	lineCmd := &cobra.Command{
		Use:   "line [flags]",
		Short: "Print the resampled line and polygon of a path",
		RunE:  doLine,
	}

	stylesCmd := &cobra.Command{
		Use:   "styles [flags]",
		Short: "Print the labels drawn at a resolution",
		RunE:  doStyles,
	}

	segmentCmd := &cobra.Command{
		Use:   "segment [flags]",
		Short: "Print a segment's extent and the subsegments inside an extent",
		RunE:  doSegment,
	}
	segmentCmd.Flags().IntP("index", "i", 0, "`<index>` of the segment")
	segmentCmd.Flags().StringP("extent", "e", "", "`<minx,miny,maxx,maxy>` query extent, defaults to the segment extent")

	pickCmd := &cobra.Command{
		Use:   "pick [flags] <x,y>",
		Short: "Find the path under a pointer",
		Args:  cobra.ExactArgs(1),
		RunE:  doPick,
	}

	rootCmd.AddCommand(
		lineCmd,
		stylesCmd,
		segmentCmd,
		pickCmd,
	)
	return rootCmd
}

// loadConfig loads configuration using Prefab's config system and applies
// command line overrides. Configuration is read from prefab.yaml and
// environment variables with the PF__ prefix.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("measure", &appConfig.Measure); err != nil {
		return nil, errors.WrapPrefix(err, "failed to unmarshal measure section", 0)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		appConfig.Measure.Output, _ = flags.GetString("output")
	}
	if flags.Changed("resolution") {
		appConfig.Measure.DefaultResolution, _ = flags.GetFloat64("resolution")
	}
	if flags.Changed("step") {
		appConfig.Measure.StepDistance, _ = flags.GetFloat64("step")
	}
	if flags.Changed("bearing") {
		appConfig.Measure.BearingReference, _ = flags.GetString("bearing")
	}

	if err := appConfig.Measure.Validate(); err != nil {
		return nil, err
	}
	return appConfig, nil
}

// loadPaths reads every path given on the command line
func loadPaths(cmd *cobra.Command) ([]geo.Path, error) {
	var paths []geo.Path

	raw, _ := cmd.Flags().GetStringArray("path")
	for _, s := range raw {
		path, err := parsePath(s)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	encoded, _ := cmd.Flags().GetStringArray("polyline")
	for _, s := range encoded {
		path, err := geo.DecodePolyline(s)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, errors.New("a path is required, use --path or --polyline")
	}
	return paths, nil
}

// setup loads configuration and builds an engine for the first path
func setup(cmd *cobra.Command) (*config.Config, *geodesic.Engine, error) {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	paths, err := loadPaths(cmd)
	if err != nil {
		return nil, nil, err
	}
	ctx := logging.EnsureLogger(cmd.Context())
	if len(paths) > 1 {
		logging.Infow(ctx, "Only the first path is measured", "paths", len(paths))
	}

	engine := geodesic.New(paths[0], appConfig.Measure.EngineOptions()...)
	logging.Debugw(ctx, "Measured path",
		"points", len(paths[0]),
		"runs", engine.Runs(),
		"length", engine.TotalLength())
	return appConfig, engine, nil
}

func doLine(cmd *cobra.Command, args []string) error {
	appConfig, engine, err := setup(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch appConfig.Measure.Output {
	case config.OutputGeoJSON:
		return writeGeoJSON(out, engine, nil)
	case config.OutputKML:
		return writeKML(out, engine, nil)
	case config.OutputPolyline:
		return writePolyline(out, engine)
	}
	renderLine(out, engine)
	return nil
}

func doStyles(cmd *cobra.Command, args []string) error {
	appConfig, engine, err := setup(cmd)
	if err != nil {
		return err
	}

	styles := engine.Styles(appConfig.Measure.DefaultResolution)
	out := cmd.OutOrStdout()
	switch appConfig.Measure.Output {
	case config.OutputGeoJSON:
		return writeGeoJSON(out, engine, styles)
	case config.OutputKML:
		return writeKML(out, engine, styles)
	case config.OutputPolyline:
		return errors.Errorf("%s output is not supported by styles", config.OutputPolyline)
	}
	renderStyles(out, appConfig.Measure.DefaultResolution, styles)
	return nil
}

func doSegment(cmd *cobra.Command, args []string) error {
	_, engine, err := setup(cmd)
	if err != nil {
		return err
	}

	index, _ := cmd.Flags().GetInt("index")
	seg, ok := engine.Segment(index)
	if !ok {
		return errors.Errorf("segment %d out of range, path has %d segments", index, engine.SegmentCount())
	}
	extent, _ := engine.SegmentExtent(index)

	query := extent
	if s, _ := cmd.Flags().GetString("extent"); s != "" {
		if query, err = parseBound(s); err != nil {
			return err
		}
	}

	bearing, hasBearing := engine.SegmentBearing(index)
	renderSegment(cmd.OutOrStdout(), seg, extent, bearing, hasBearing, query, engine.Subsegments(index, query))
	return nil
}

func doPick(cmd *cobra.Command, args []string) error {
	appConfig, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths, err := loadPaths(cmd)
	if err != nil {
		return err
	}
	location, err := parsePoint(args[0])
	if err != nil {
		return err
	}

	ctx := logging.EnsureLogger(cmd.Context())
	picker := picking.NewPicker(appConfig.Measure.EngineOptions()...)
	picker.SetTolerances(appConfig.Measure.Picking.OnPathPixels, appConfig.Measure.Picking.NearPathPixels)
	for i, path := range paths {
		if err := picker.UpdatePath(ctx, pathID(i), path); err != nil {
			return err
		}
	}

	hit, err := picker.Pick(ctx, picking.Pointer{
		Location:   location,
		Resolution: appConfig.Measure.DefaultResolution,
	})
	if err != nil {
		return err
	}
	renderHit(cmd.OutOrStdout(), location, hit)
	return nil
}

func pathID(i int) string {
	return fmt.Sprintf("path-%d", i+1)
}
