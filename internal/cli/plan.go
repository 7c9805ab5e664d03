package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/catalogfile"
	"github.com/noah-isme/tessera-api/internal/dto"
	"github.com/noah-isme/tessera-api/internal/service"
)

type planOptions struct {
	catalogPath string
	courses     []string
	earliest    string
	avoid       []string
	maxPerDay   int
	prefer      string
	policy      string
	minCredits  int
	maxCredits  int
	asJSON      bool
	exportPath  string
}

func newPlanCommand(root *rootOptions) *cobra.Command {
	opts := &planOptions{}
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Pick the best schedule for a set of courses",
		Example: "  tessera plan --catalog fall.yaml --course CS101 --course MATH201 --course PHYS110 \\\n" +
			"    --earliest 09:00 --avoid F --prefer morning",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.catalogPath, "catalog", "", "catalog YAML file")
	f.StringSliceVar(&opts.courses, "course", nil, "course code to include (repeatable)")
	f.StringVar(&opts.earliest, "earliest", "", "earliest acceptable start time (HH:MM)")
	f.StringSliceVar(&opts.avoid, "avoid", nil, "days to keep free (M,T,W,Th,F)")
	f.IntVar(&opts.maxPerDay, "max-per-day", 0, "maximum classes on any day")
	f.StringVar(&opts.prefer, "prefer", "", "preferred time of day (morning, afternoon, evening)")
	f.StringVar(&opts.policy, "policy", "", "conflict policy (exact, intersect)")
	f.IntVar(&opts.minCredits, "min-credits", 0, "minimum total credits")
	f.IntVar(&opts.maxCredits, "max-credits", 0, "maximum total credits")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	f.StringVar(&opts.exportPath, "export", "", "also write the schedule to a .csv or .pdf file")
	_ = cmd.MarkFlagRequired("catalog")
	_ = cmd.MarkFlagRequired("course")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, opts *planOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := root.config()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.policy != "" {
		cfg.Scheduler.ConflictPolicy = opts.policy
	}
	if opts.minCredits > 0 {
		cfg.Scheduler.MinCredits = opts.minCredits
	}
	if opts.maxCredits > 0 {
		cfg.Scheduler.MaxCredits = opts.maxCredits
	}

	log := root.logger(cfg)
	defer log.Sync() //nolint:errcheck

	cat, err := catalogfile.Load(opts.catalogPath)
	if err != nil {
		return err
	}
	if problems := cat.Validate(); len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(cmd.ErrOrStderr(), p)
		}
		return fmt.Errorf("%s has %d problem(s); run 'tessera catalog validate' for details", opts.catalogPath, len(problems))
	}
	engine, err := service.NewEngine(cfg.Scheduler)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	schedules := service.NewScheduleService(cat, engine, nil, nil, nil, log, service.ScheduleConfig{
		Timeout:            cfg.Scheduler.Timeout,
		MaxSelectedCourses: cfg.Scheduler.MaxSelectedCourses,
	})

	req := opts.request()
	resp, err := schedules.Generate(ctx, req)
	if err != nil {
		return err
	}
	for _, note := range resp.IgnoredPreferences {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", note)
	}

	if opts.exportPath != "" && resp.Found {
		if err := writeExport(ctx, schedules, req, opts.exportPath, cfg.Exports.PDFTitle, log); err != nil {
			return err
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printPlan(cmd.OutOrStdout(), resp)
}

func (o *planOptions) request() dto.GenerateScheduleRequest {
	req := dto.GenerateScheduleRequest{
		SelectedCourses: o.courses,
		Preferences: dto.SchedulePreferencesRequest{
			EarliestStart: dto.LooseString(o.earliest),
			AvoidDays:     dto.LooseStringList(o.avoid),
			PreferredTime: dto.LooseString(o.prefer),
		},
	}
	if o.maxPerDay != 0 {
		req.Preferences.MaxClassesPerDay = dto.LooseString(strconv.Itoa(o.maxPerDay))
	}
	return req
}

func writeExport(ctx context.Context, schedules *service.ScheduleService, req dto.GenerateScheduleRequest, path, title string, log *zap.Logger) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	exporter := service.NewExportService(schedules, service.ExportConfig{Enabled: true, PDFTitle: title}, log, nil, nil)
	file, err := exporter.Export(ctx, req, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

func printPlan(out io.Writer, resp *dto.GenerateScheduleResponse) error {
	if !resp.Found {
		fmt.Fprintf(out, "No feasible schedule (%d candidate sections, %d combinations checked).\n",
			resp.Stats.Candidates, resp.Stats.Evaluated)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COURSE\tSECTION\tDAYS\tTIME\tCREDITS\tINSTRUCTOR")
	for _, s := range resp.Schedule.Sections {
		instructor := "-"
		if s.Instructor != nil {
			instructor = *s.Instructor
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s-%s\t%d\t%s\n",
			s.CourseCode, s.SectionNumber, strings.Join(s.Days, ""), s.StartTime, s.EndTime, s.Credits, instructor)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal credits: %d  Score: %d  (%d of %d combinations feasible)\n",
		resp.Schedule.TotalCredits, resp.Schedule.Score, resp.Stats.Feasible, resp.Stats.Evaluated)
	return nil
}
