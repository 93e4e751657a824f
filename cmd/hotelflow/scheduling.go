package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JotaC95/HotelApp/internal/domain/model"
	"github.com/JotaC95/HotelApp/internal/util"
)

func runMyWeek(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("my-week", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	monday := fs.String("monday", "", "Monday of the week (defaults to the current week)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day := *monday
	if day == "" {
		day = model.MondayOf(time.Now())
	} else if _, err := time.Parse(model.DateLayout, day); err != nil {
		return fmt.Errorf("invalid -monday %q (want YYYY-MM-DD)", day)
	}

	week, err := c.session.Client.MyWeek(c.Ctx, day)
	if err != nil {
		return err
	}
	return c.render(week, func(w io.Writer) error {
		if err := writeRow(w, "DATE", "START", "END", "ZONE", "TEAM", "PLANNED"); err != nil {
			return err
		}
		for _, d := range week.Days {
			if d.Shift == nil {
				if err := writeRow(w, d.Date, "-", "-", "-", "-", "off"); err != nil {
					return err
				}
				continue
			}
			s := d.Shift
			if err := writeRow(w, d.Date, s.Start, s.End, util.Deref(s.Zone, "-"), util.Deref(s.Team, "-"),
				util.FormatMinutes(s.PlannedMinutes)); err != nil {
				return err
			}
		}
		return nil
	})
}

func renderRules(c *commandContext, rules []model.AvailabilityRule) error {
	return c.render(rules, func(w io.Writer) error {
		if err := writeRow(w, "ID", "WEEKDAY", "START", "END", "PREFERRED", "UNAVAILABLE"); err != nil {
			return err
		}
		for _, r := range rules {
			if err := writeRow(w, strconv.Itoa(r.ID), weekdayName(r.Weekday), r.Start, r.End,
				r.PreferredShift, yesNo(r.IsUnavailable)); err != nil {
				return err
			}
		}
		return nil
	})
}

func runAvailabilityRules(c *commandContext, _ []string) error {
	rules, err := c.session.Client.ListAvailabilityRules(c.Ctx)
	if err != nil {
		return err
	}
	return renderRules(c, rules)
}

func runAvailabilityRuleAdd(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("availability-rule-add", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	var rule model.AvailabilityRule
	fs.IntVar(&rule.Weekday, "weekday", -1, "Weekday, 0 = Monday")
	fs.StringVar(&rule.Start, "start", "", "Start time HH:MM")
	fs.StringVar(&rule.End, "end", "", "End time HH:MM")
	fs.StringVar(&rule.PreferredShift, "preferred", "", "Preferred shift")
	fs.BoolVar(&rule.IsUnavailable, "unavailable", false, "Mark the window as unavailable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if rule.Weekday < 0 || rule.Start == "" || rule.End == "" {
		return c.usage("availability-rule-add")
	}
	created, err := c.session.Client.CreateAvailabilityRule(c.Ctx, rule)
	if err != nil {
		return err
	}
	return renderRules(c, []model.AvailabilityRule{*created})
}

func weekdayName(d int) string {
	if d < 0 || d > 6 {
		return strconv.Itoa(d)
	}
	// API weekday 0 is Monday.
	return time.Weekday((d + 1) % 7).String()
}

func renderZones(w io.Writer, zones []model.Zone) error {
	if err := writeRow(w, "ID", "ZONE"); err != nil {
		return err
	}
	for _, z := range zones {
		if err := writeRow(w, strconv.Itoa(z.ID), z.Name); err != nil {
			return err
		}
	}
	return nil
}

func renderTeams(w io.Writer, teams []model.Team) error {
	if err := writeRow(w, "ID", "TEAM", "MEMBERS", "COMPATIBILITY"); err != nil {
		return err
	}
	for _, t := range teams {
		if err := writeRow(w, strconv.Itoa(t.ID), t.Name, strconv.Itoa(len(t.Members)),
			strconv.Itoa(t.CompatibilityScore)); err != nil {
			return err
		}
	}
	return nil
}

func renderShifts(w io.Writer, shifts []model.Shift) error {
	if err := writeRow(w, "ID", "ROSTER", "DATE", "START", "END", "ZONE", "TEAM", "PLANNED"); err != nil {
		return err
	}
	for _, s := range shifts {
		if err := writeRow(w, strconv.Itoa(s.ID), strconv.Itoa(s.Roster), s.Date, s.Start, s.End,
			intOrDash(s.Zone), intOrDash(s.Team), util.FormatMinutes(s.PlannedMinutes)); err != nil {
			return err
		}
	}
	return nil
}

func renderRosters(w io.Writer, rosters []model.Roster) error {
	if err := writeRow(w, "ID", "WEEK", "VERSION", "PUBLISHED", "GENERATED"); err != nil {
		return err
	}
	for _, r := range rosters {
		generated := "-"
		if !r.GeneratedAt.IsZero() {
			generated = r.GeneratedAt.Format(time.RFC3339)
		}
		if err := writeRow(w, strconv.Itoa(r.ID), r.WeekStart, strconv.Itoa(r.Version),
			yesNo(r.IsPublished), generated); err != nil {
			return err
		}
	}
	return nil
}

func runZones(c *commandContext, _ []string) error {
	zones, err := c.session.Client.ListZones(c.Ctx)
	if err != nil {
		return err
	}
	return c.render(zones, func(w io.Writer) error { return renderZones(w, zones) })
}

func runTeams(c *commandContext, _ []string) error {
	teams, err := c.session.Client.ListTeams(c.Ctx)
	if err != nil {
		return err
	}
	return c.render(teams, func(w io.Writer) error { return renderTeams(w, teams) })
}

func runShifts(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("shifts", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	roster := fs.Int("roster", 0, "Filter by roster ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	shifts, err := c.session.Client.ListShifts(c.Ctx, *roster)
	if err != nil {
		return err
	}
	return c.render(shifts, func(w io.Writer) error { return renderShifts(w, shifts) })
}

func runRosters(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("rosters", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	week := fs.String("week", "", "Filter by week start (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rosters, err := c.session.Client.ListRosters(c.Ctx, *week)
	if err != nil {
		return err
	}
	return c.render(rosters, func(w io.Writer) error { return renderRosters(w, rosters) })
}

func runRosterPublish(c *commandContext, args []string) error {
	id, err := parseID(c, "roster-publish", args, 0)
	if err != nil {
		return err
	}
	if err := c.session.Client.PublishRoster(c.Ctx, id); err != nil {
		return err
	}
	return c.render(map[string]any{"published": id}, func(w io.Writer) error {
		return writef(w, "Published roster %d\n", id)
	})
}

func runRosterGenerate(c *commandContext, args []string) error {
	fs := flag.NewFlagSet("roster-generate", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)
	var req model.GenerateRosterRequest
	var rules string
	fs.StringVar(&req.WeekStart, "week", "", "Week start date YYYY-MM-DD (required)")
	fs.BoolVar(&req.DryRun, "dry-run", false, "Return the plan without saving a roster")
	fs.StringVar(&rules, "rules", "", "Generation rules as a JSON object")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if req.WeekStart == "" {
		return c.usage("roster-generate")
	}
	if rules != "" {
		if err := json.Unmarshal([]byte(rules), &req.Rules); err != nil {
			return fmt.Errorf("invalid -rules: %w", err)
		}
	}

	result, err := c.session.Client.GenerateRoster(c.Ctx, req)
	if err != nil {
		return err
	}
	return c.render(result, func(w io.Writer) error {
		if result.Roster == nil {
			keys := make([]string, 0, len(result.Plan))
			for k := range result.Plan {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			if err := writeRow(w, "PLAN", "VALUE"); err != nil {
				return err
			}
			for _, k := range keys {
				if err := writeRow(w, k, fmt.Sprint(result.Plan[k])); err != nil {
					return err
				}
			}
			return nil
		}
		if err := renderRosters(w, []model.Roster{*result.Roster}); err != nil {
			return err
		}
		if err := writeln(w); err != nil {
			return err
		}
		return renderShifts(w, result.Shifts)
	})
}

type dashboard struct {
	Summary *model.SupervisorSummary `json:"summary" yaml:"summary"`
	Shifts  []model.Shift            `json:"shifts"  yaml:"shifts"`
	Zones   []model.Zone             `json:"zones"   yaml:"zones"`
	Teams   []model.Team             `json:"teams"   yaml:"teams"`
}

func runDashboard(c *commandContext, _ []string) error {
	client := c.session.Client
	var d dashboard

	g, ctx := errgroup.WithContext(c.Ctx)
	g.Go(func() error {
		s, err := client.SupervisorSummary(ctx)
		d.Summary = s
		return err
	})
	g.Go(func() error {
		s, err := client.ListShifts(ctx, 0)
		d.Shifts = s
		return err
	})
	g.Go(func() error {
		z, err := client.ListZones(ctx)
		d.Zones = z
		return err
	})
	g.Go(func() error {
		t, err := client.ListTeams(ctx)
		d.Teams = t
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return c.render(d, func(w io.Writer) error {
		s := d.Summary
		if err := writeRow(w, "DATE", "SHIFTS TODAY", "UNASSIGNED SHIFTS", "UNASSIGNED TASKS", "OPEN INCIDENTS"); err != nil {
			return err
		}
		if err := writeRow(w, s.Date, strconv.Itoa(s.ShiftsToday), strconv.Itoa(s.UnassignedShifts),
			strconv.Itoa(s.UnassignedTasks), strconv.Itoa(s.OpenIncidents)); err != nil {
			return err
		}
		if len(s.RoomsSummary) > 0 {
			if err := writeln(w); err != nil {
				return err
			}
			if err := writeRow(w, "ROOM STATUS", "COUNT"); err != nil {
				return err
			}
			statuses := make([]string, 0, len(s.RoomsSummary))
			for k := range s.RoomsSummary {
				statuses = append(statuses, k)
			}
			sort.Strings(statuses)
			for _, k := range statuses {
				if err := writeRow(w, k, strconv.Itoa(s.RoomsSummary[k])); err != nil {
					return err
				}
			}
		}
		for _, section := range []func(io.Writer) error{
			func(w io.Writer) error { return renderShifts(w, d.Shifts) },
			func(w io.Writer) error { return renderZones(w, d.Zones) },
			func(w io.Writer) error { return renderTeams(w, d.Teams) },
		} {
			if err := writeln(w); err != nil {
				return err
			}
			if err := section(w); err != nil {
				return err
			}
		}
		return nil
	})
}
