package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/JotaC95/HotelApp/internal/domain/model"
	apperrors "github.com/JotaC95/HotelApp/internal/errors"
)

// Scheduling endpoints, relative to the housekeeping base.
const (
	PathZones             = "/scheduling/zones/"
	PathTeams             = "/scheduling/teams/"
	PathShifts            = "/scheduling/shifts/"
	PathRosters           = "/scheduling/rosters/"
	PathGenerateRoster    = "/scheduling/rosters/ai/generate/"
	PathAvailabilityRules = "/scheduling/availability/"
	PathMyWeek            = "/scheduling/my_week"
	PathSupervisorSummary = "/scheduling/supervisor/summary/"
)

// ListZones returns every housekeeping zone.
func (c *Client) ListZones(ctx context.Context) ([]model.Zone, error) {
	var out []model.Zone
	if err := c.GetJSON(ctx, PathZones, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTeams returns every team with its members.
func (c *Client) ListTeams(ctx context.Context) ([]model.Team, error) {
	var out []model.Team
	if err := c.GetJSON(ctx, PathTeams, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListShifts returns shifts; rosterID filters by roster when positive.
func (c *Client) ListShifts(ctx context.Context, rosterID int) ([]model.Shift, error) {
	q := url.Values{}
	if rosterID > 0 {
		q.Set("roster", strconv.Itoa(rosterID))
	}
	var out []model.Shift
	if err := c.GetJSON(ctx, PathShifts, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRosters returns rosters; weekStart filters when non-empty.
func (c *Client) ListRosters(ctx context.Context, weekStart string) ([]model.Roster, error) {
	q := url.Values{}
	if weekStart != "" {
		q.Set("week_start", weekStart)
	}
	var out []model.Roster
	if err := c.GetJSON(ctx, PathRosters, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PublishRoster marks a roster as published.
func (c *Client) PublishRoster(ctx context.Context, id int) error {
	return c.PostJSON(ctx, itemPath(PathRosters, id)+"publish/", nil, nil)
}

// GenerateRoster asks the server to build a roster for the week.
func (c *Client) GenerateRoster(
	ctx context.Context,
	req model.GenerateRosterRequest,
) (*model.GenerateRosterResult, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid roster request")
	}
	var out model.GenerateRosterResult
	if err := c.PostJSON(ctx, PathGenerateRoster, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAvailabilityRules returns the recurring availability rules visible to the caller.
func (c *Client) ListAvailabilityRules(ctx context.Context) ([]model.AvailabilityRule, error) {
	var out []model.AvailabilityRule
	if err := c.GetJSON(ctx, PathAvailabilityRules, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAvailabilityRule validates rule locally and creates it.
func (c *Client) CreateAvailabilityRule(
	ctx context.Context,
	rule model.AvailabilityRule,
) (*model.AvailabilityRule, error) {
	if err := rule.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid availability rule")
	}
	var out model.AvailabilityRule
	if err := c.PostJSON(ctx, PathAvailabilityRules, rule, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyWeek returns the caller's seven-day schedule starting at monday (YYYY-MM-DD).
func (c *Client) MyWeek(ctx context.Context, monday string) (*model.MyWeek, error) {
	q := url.Values{}
	q.Set("monday", monday)
	var out model.MyWeek
	if err := c.GetJSON(ctx, PathMyWeek, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SupervisorSummary returns the supervisor dashboard counters.
func (c *Client) SupervisorSummary(ctx context.Context) (*model.SupervisorSummary, error) {
	var out model.SupervisorSummary
	if err := c.GetJSON(ctx, PathSupervisorSummary, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
